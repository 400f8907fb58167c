package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateBasicInfoParams carries the profile fields a user may edit after
// registration. Pointer fields are applied only when non-nil.
type UpdateBasicInfoParams struct {
	FullName        string
	Gender          string
	Age             int
	HeightCm        *float64
	WeightKg        *float64
	ExperienceLevel domain.ExperienceLevel
}

// SetGoalParams carries the fields of a new training goal.
type SetGoalParams struct {
	GoalType            domain.GoalType
	WorkoutDaysPerWeek  int
	TargetWeightKg      *float64
	TargetDurationWeeks int
	Equipment           domain.WorkoutEquipment
	Remarks             string
}

// UserService manages user profiles, health profiles and training goals.
type UserService interface {
	GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateBasicInfo(ctx context.Context, userID primitive.ObjectID, params UpdateBasicInfoParams) (*domain.User, error)
	UpsertHealthProfile(ctx context.Context, profile *domain.HealthProfile) (*domain.HealthProfile, error)
	GetHealthProfile(ctx context.Context, userID primitive.ObjectID) (*domain.HealthProfile, error)
	// SetGoal deactivates the user's current active goal (if any) and
	// creates the new one as active, atomically.
	SetGoal(ctx context.Context, userID primitive.ObjectID, params SetGoalParams) (*domain.Goal, error)
	GetActiveGoal(ctx context.Context, userID primitive.ObjectID) (*domain.Goal, error)
}

type userService struct {
	userRepo    repository.UserRepository
	goalRepo    repository.GoalRepository
	profileRepo repository.HealthProfileRepository
	txManager   repository.TxManager
}

// NewUserService creates a new instance of userService.
func NewUserService(
	userRepo repository.UserRepository,
	goalRepo repository.GoalRepository,
	profileRepo repository.HealthProfileRepository,
	txManager repository.TxManager,
) UserService {
	return &userService{
		userRepo:    userRepo,
		goalRepo:    goalRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
	}
}

func (s *userService) GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("%w: get user: %v", ErrStorage, err)
	}
	return user, nil
}

func (s *userService) UpdateBasicInfo(ctx context.Context, userID primitive.ObjectID, params UpdateBasicInfoParams) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.FullName != "" {
		user.FullName = params.FullName
	}
	if params.Gender != "" {
		user.Gender = params.Gender
	}
	if params.Age > 0 {
		user.Age = params.Age
	}
	if params.HeightCm != nil {
		user.HeightCm = params.HeightCm
	}
	if params.WeightKg != nil {
		user.WeightKg = params.WeightKg
	}
	if params.ExperienceLevel != "" {
		user.ExperienceLevel = domain.ExperienceLevel(params.ExperienceLevel.PlainString())
	}

	if err := s.userRepo.UpdateBasicInfo(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: update user: %v", ErrStorage, err)
	}
	return user, nil
}

func (s *userService) UpsertHealthProfile(ctx context.Context, profile *domain.HealthProfile) (*domain.HealthProfile, error) {
	if _, err := s.GetUser(ctx, profile.UserID); err != nil {
		return nil, err
	}
	saved, err := s.profileRepo.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("%w: upsert health profile: %v", ErrStorage, err)
	}
	return saved, nil
}

func (s *userService) GetHealthProfile(ctx context.Context, userID primitive.ObjectID) (*domain.HealthProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: health profile for user %s", ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("%w: get health profile: %v", ErrStorage, err)
	}
	return profile, nil
}

func (s *userService) SetGoal(ctx context.Context, userID primitive.ObjectID, params SetGoalParams) (*domain.Goal, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if params.WorkoutDaysPerWeek < 1 || params.WorkoutDaysPerWeek > 7 {
		return nil, fmt.Errorf("%w: workout days per week must be between 1 and 7", ErrValidation)
	}

	goal := &domain.Goal{
		UserID:              userID,
		GoalType:            domain.GoalType(params.GoalType.PlainString()),
		WorkoutDaysPerWeek:  params.WorkoutDaysPerWeek,
		TargetWeightKg:      params.TargetWeightKg,
		TargetDurationWeeks: params.TargetDurationWeeks,
		Equipment:           params.Equipment,
		Remarks:             params.Remarks,
		Active:              true,
	}
	// The starting weight for progress tracking is whatever the user weighs
	// now: the latest logged weight if any, otherwise the profile baseline.
	if user.CurrentWeightKg != nil {
		goal.InitialWeightKg = user.CurrentWeightKg
	} else {
		goal.InitialWeightKg = user.WeightKg
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.goalRepo.DeactivateActiveForUser(txCtx, userID); err != nil {
			return fmt.Errorf("deactivate prior goal: %w", err)
		}
		id, err := s.goalRepo.Create(txCtx, goal)
		if err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		goal.ID = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: set goal: %v", ErrStorage, err)
	}
	return goal, nil
}

func (s *userService) GetActiveGoal(ctx context.Context, userID primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active goal for user %s", ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("%w: get active goal: %v", ErrStorage, err)
	}
	return goal, nil
}
