package repository

import (
	"context"
	"time"

	"alcyxob/fitness-ai/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxManager runs a function inside one store transaction. All writes made
// through repositories within fn commit or roll back together; fn must use
// the context it receives for every store call.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateBasicInfo(ctx context.Context, user *domain.User) error
	UpdateCurrentWeight(ctx context.Context, id primitive.ObjectID, weightKg float64) error
}

// GoalRepository defines the interface for interacting with goal data.
// The active-goal invariant (at most one active goal per user) is enforced
// by DeactivateActiveForUser before inserting a new active goal.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Goal, error)
	DeactivateActiveForUser(ctx context.Context, userID primitive.ObjectID) error
}

// HealthProfileRepository defines the interface for health profile data.
type HealthProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.HealthProfile) (*domain.HealthProfile, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.HealthProfile, error)
}

// PlanRepository defines the interface for interacting with plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	// FindCovering returns the plan owned by userID whose inclusive date
	// range contains date, tie-broken by most recent createdAt.
	FindCovering(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Plan, error)
	// FindActiveOverlapping returns active plans owned by userID whose
	// range overlaps [start, end].
	FindActiveOverlapping(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.Plan, error)
	// FindLatestEndedBefore returns the most recently created plan whose
	// end date precedes date, for continuation context.
	FindLatestEndedBefore(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Plan, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	SetMealJSON(ctx context.Context, id primitive.ObjectID, mealJSON string) error
}

// RoutineRepository defines the interface for interacting with routine data.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Routine, error)
}

// ScheduleRepository defines the interface for interacting with schedule data.
type ScheduleRepository interface {
	Create(ctx context.Context, entry *domain.ScheduleEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduleEntry, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.ScheduleEntry, error)
	// UpdateStatusIf transitions the entry from `from` to `to` as one
	// conditional update (status is part of the filter). Returns
	// ErrUpdateFailed without modifying anything if the entry is not in
	// `from`, so check-then-act races lose cleanly.
	UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to domain.ScheduleStatus) error
	// Update rewrites the mutable fields of an existing entry in place
	// (routine assignment, status, completion time, rest-day flag).
	Update(ctx context.Context, entry *domain.ScheduleEntry) error
}

// CompletionRepository defines the interface for the append-only completion
// history. Records are created once and never updated or deleted.
type CompletionRepository interface {
	Create(ctx context.Context, record *domain.CompletionRecord) (primitive.ObjectID, error)
	// HasCompletedOn reports whether a completed record exists for the
	// user on the given date (UTC midnight).
	HasCompletedOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (bool, error)
	// FindCompletedInRange returns completed records for the user with
	// date in [from, to], ordered by date ascending.
	FindCompletedInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.CompletionRecord, error)
}
