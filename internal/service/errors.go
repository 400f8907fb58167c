package service

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP
// statuses with errors.Is; services attach detail by wrapping with %w.
var (
	// ErrNotFound: an id the caller referenced does not exist (404).
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: an illegal schedule state transition (400).
	ErrInvalidState = errors.New("invalid state transition")
	// ErrValidation: missing/malformed input or a business-rule
	// violation such as a missing active goal (400).
	ErrValidation = errors.New("validation failed")
	// ErrStorage: a transactional/persistence failure (500).
	ErrStorage = errors.New("storage failure")
	// ErrGeneration: the external plan generator failed (500). Never
	// retried here; the caller may retry the whole request.
	ErrGeneration = errors.New("plan generation failed")
)
