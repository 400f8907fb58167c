package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompleteSessionParams carries the inputs for completing a workout session.
type CompleteSessionParams struct {
	ScheduleID    primitive.ObjectID
	UserID        primitive.ObjectID
	PlanID        primitive.ObjectID
	RoutineID     primitive.ObjectID
	TodayWeightKg *float64
	Notes         string
}

// ScheduleService enforces the schedule entry state machine
// (pending → started → completed, pending → skipped, swap → swapped) and
// the routine swap transaction.
type ScheduleService interface {
	// StartSession transitions a pending entry to started. Only pending
	// entries can be started; the guard is a conditional update, so a
	// concurrent start loses cleanly instead of double-transitioning.
	StartSession(ctx context.Context, scheduleID primitive.ObjectID) (*domain.ScheduleEntry, error)
	// CompleteSession transitions a started entry to completed and, in
	// the same transaction, appends the completion record and updates
	// the user's current weight when provided.
	CompleteSession(ctx context.Context, params CompleteSessionParams) (*domain.CompletionRecord, error)
	// SkipSession transitions a pending entry to skipped.
	SkipSession(ctx context.Context, scheduleID primitive.ObjectID) (*domain.ScheduleEntry, error)
	// SwapRoutines exchanges the routine assignments of two entries in
	// place, marking both swapped.
	SwapRoutines(ctx context.Context, scheduleID1, scheduleID2 primitive.ObjectID) (*domain.ScheduleEntry, *domain.ScheduleEntry, error)
}

type scheduleService struct {
	scheduleRepo   repository.ScheduleRepository
	completionRepo repository.CompletionRepository
	userRepo       repository.UserRepository
	txManager      repository.TxManager
	now            func() time.Time
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	scheduleRepo repository.ScheduleRepository,
	completionRepo repository.CompletionRepository,
	userRepo repository.UserRepository,
	txManager repository.TxManager,
) ScheduleService {
	return &scheduleService{
		scheduleRepo:   scheduleRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		now:            time.Now,
	}
}

func (s *scheduleService) StartSession(ctx context.Context, scheduleID primitive.ObjectID) (*domain.ScheduleEntry, error) {
	err := s.scheduleRepo.UpdateStatusIf(ctx, scheduleID, domain.StatusPending, domain.StatusStarted)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID.Hex())
		case errors.Is(err, repository.ErrUpdateFailed):
			// Guard lost: re-read to name the actual status.
			entry, readErr := s.scheduleRepo.GetByID(ctx, scheduleID)
			if readErr != nil {
				return nil, fmt.Errorf("%w: re-read schedule: %v", ErrStorage, readErr)
			}
			return nil, fmt.Errorf("%w: cannot start session: current status is %q, expected %q",
				ErrInvalidState, entry.Status, domain.StatusPending)
		default:
			return nil, fmt.Errorf("%w: start session: %v", ErrStorage, err)
		}
	}

	entry, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("%w: re-read schedule: %v", ErrStorage, err)
	}
	log.WithField("scheduleId", scheduleID.Hex()).Info("workout session started")
	return entry, nil
}

func (s *scheduleService) SkipSession(ctx context.Context, scheduleID primitive.ObjectID) (*domain.ScheduleEntry, error) {
	err := s.scheduleRepo.UpdateStatusIf(ctx, scheduleID, domain.StatusPending, domain.StatusSkipped)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID.Hex())
		case errors.Is(err, repository.ErrUpdateFailed):
			entry, readErr := s.scheduleRepo.GetByID(ctx, scheduleID)
			if readErr != nil {
				return nil, fmt.Errorf("%w: re-read schedule: %v", ErrStorage, readErr)
			}
			return nil, fmt.Errorf("%w: cannot skip session: current status is %q, expected %q",
				ErrInvalidState, entry.Status, domain.StatusPending)
		default:
			return nil, fmt.Errorf("%w: skip session: %v", ErrStorage, err)
		}
	}

	entry, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("%w: re-read schedule: %v", ErrStorage, err)
	}
	return entry, nil
}

func (s *scheduleService) CompleteSession(ctx context.Context, params CompleteSessionParams) (*domain.CompletionRecord, error) {
	if _, err := s.userRepo.GetByID(ctx, params.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, params.UserID.Hex())
		}
		return nil, fmt.Errorf("%w: get user: %v", ErrStorage, err)
	}

	var record *domain.CompletionRecord
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		// Status is re-checked inside the transaction so the guard and
		// the writes commit atomically.
		entry, err := s.scheduleRepo.GetByID(ctx, params.ScheduleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: schedule %s", ErrNotFound, params.ScheduleID.Hex())
			}
			return fmt.Errorf("%w: get schedule: %v", ErrStorage, err)
		}
		if entry.Status != domain.StatusStarted {
			return fmt.Errorf("%w: cannot complete workout: current status is %q, expected %q",
				ErrInvalidState, entry.Status, domain.StatusStarted)
		}

		now := s.now()
		record = &domain.CompletionRecord{
			PlanID:        params.PlanID,
			RoutineID:     params.RoutineID,
			ScheduleID:    params.ScheduleID,
			UserID:        params.UserID,
			Date:          domain.DateOnly(now),
			IsCompleted:   true,
			TodayWeightKg: params.TodayWeightKg,
			Notes:         params.Notes,
		}
		if _, err := s.completionRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("%w: create completion record: %v", ErrStorage, err)
		}

		if params.TodayWeightKg != nil {
			if err := s.userRepo.UpdateCurrentWeight(ctx, params.UserID, *params.TodayWeightKg); err != nil {
				return fmt.Errorf("%w: update user weight: %v", ErrStorage, err)
			}
		}

		completedAt := now
		entry.Status = domain.StatusCompleted
		entry.CompletedAt = &completedAt
		if err := s.scheduleRepo.Update(ctx, entry); err != nil {
			return fmt.Errorf("%w: update schedule: %v", ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		// Taxonomy errors pass through; anything else is a storage failure.
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidState) || errors.Is(err, ErrStorage) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: complete session: %v", ErrStorage, err)
	}

	log.WithFields(log.Fields{
		"scheduleId": params.ScheduleID.Hex(),
		"userId":     params.UserID.Hex(),
	}).Info("workout session completed")
	return record, nil
}

func (s *scheduleService) SwapRoutines(ctx context.Context, scheduleID1, scheduleID2 primitive.ObjectID) (*domain.ScheduleEntry, *domain.ScheduleEntry, error) {
	var entry1, entry2 *domain.ScheduleEntry
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry1, err = s.scheduleRepo.GetByID(ctx, scheduleID1)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID1.Hex())
			}
			return fmt.Errorf("%w: get schedule: %v", ErrStorage, err)
		}
		entry2, err = s.scheduleRepo.GetByID(ctx, scheduleID2)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID2.Hex())
			}
			return fmt.Errorf("%w: get schedule: %v", ErrStorage, err)
		}

		// Completed entries stay frozen: their completion history must
		// keep describing the routine that was actually performed.
		for _, entry := range []*domain.ScheduleEntry{entry1, entry2} {
			if entry.Status == domain.StatusCompleted {
				return fmt.Errorf("%w: cannot swap schedule %s: status is %q",
					ErrInvalidState, entry.ID.Hex(), entry.Status)
			}
		}

		// Exchange the routine assignments in place. Same rows, same
		// identities: completion history references stay valid.
		routineID1 := entry1.RoutineID
		routineID2 := entry2.RoutineID

		entry1.RoutineID = routineID2
		entry1.Status = domain.StatusSwapped
		entry1.IsRestDay = entry1.RoutineID == nil

		entry2.RoutineID = routineID1
		entry2.Status = domain.StatusSwapped
		entry2.IsRestDay = entry2.RoutineID == nil

		if err := s.scheduleRepo.Update(ctx, entry1); err != nil {
			return fmt.Errorf("%w: update schedule %s: %v", ErrStorage, entry1.ID.Hex(), err)
		}
		if err := s.scheduleRepo.Update(ctx, entry2); err != nil {
			return fmt.Errorf("%w: update schedule %s: %v", ErrStorage, entry2.ID.Hex(), err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidState) || errors.Is(err, ErrStorage) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: swap routines: %v", ErrStorage, err)
	}

	log.WithFields(log.Fields{
		"scheduleId1": scheduleID1.Hex(),
		"scheduleId2": scheduleID2.Hex(),
	}).Info("swapped routine assignments")
	return entry1, entry2, nil
}
