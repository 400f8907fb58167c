package service

import (
	"context"
	"testing"

	"alcyxob/fitness-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUserFixture(t *testing.T) (UserService, *fakeUserRepo, *fakeGoalRepo, primitive.ObjectID) {
	t.Helper()
	userRepo := newFakeUserRepo()
	goalRepo := newFakeGoalRepo()
	profileRepo := newFakeProfileRepo()

	weight := 85.0
	userID, err := userRepo.Create(context.Background(), &domain.User{
		FullName: "Test User",
		Email:    "test@example.com",
		WeightKg: &weight,
	})
	require.NoError(t, err)

	svc := NewUserService(userRepo, goalRepo, profileRepo, fakeTxManager{})
	return svc, userRepo, goalRepo, userID
}

func TestUpdateBasicInfo(t *testing.T) {
	svc, _, _, userID := newUserFixture(t)

	height := 182.0
	user, err := svc.UpdateBasicInfo(context.Background(), userID, UpdateBasicInfoParams{
		Gender:          "male",
		Age:             28,
		HeightCm:        &height,
		ExperienceLevel: domain.ExperienceAdvanced,
	})
	require.NoError(t, err)

	assert.Equal(t, "male", user.Gender)
	assert.Equal(t, 28, user.Age)
	require.NotNil(t, user.HeightCm)
	assert.Equal(t, 182.0, *user.HeightCm)
	assert.Equal(t, domain.ExperienceAdvanced, user.ExperienceLevel)
	// Unset fields are left alone.
	assert.Equal(t, "Test User", user.FullName)
	require.NotNil(t, user.WeightKg)
	assert.Equal(t, 85.0, *user.WeightKg)
}

func TestUpdateBasicInfoUnknownUser(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	_, err := svc.UpdateBasicInfo(context.Background(), primitive.NewObjectID(), UpdateBasicInfoParams{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetGoalDeactivatesPrior(t *testing.T) {
	svc, _, goalRepo, userID := newUserFixture(t)

	target := 80.0
	first, err := svc.SetGoal(context.Background(), userID, SetGoalParams{
		GoalType:           domain.GoalWeightLoss,
		WorkoutDaysPerWeek: 3,
		TargetWeightKg:     &target,
	})
	require.NoError(t, err)
	assert.True(t, first.Active)
	require.NotNil(t, first.InitialWeightKg)
	assert.Equal(t, 85.0, *first.InitialWeightKg, "starting weight snapshots the user's weight")

	second, err := svc.SetGoal(context.Background(), userID, SetGoalParams{
		GoalType:           domain.GoalMuscleGain,
		WorkoutDaysPerWeek: 5,
	})
	require.NoError(t, err)

	// Exactly one active goal remains, and it is the new one.
	active, err := goalRepo.GetActiveByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, domain.GoalMuscleGain, active.GoalType)

	activeCount := 0
	for _, goal := range goalRepo.goals {
		if goal.UserID == userID && goal.Active {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestSetGoalValidatesWorkoutDays(t *testing.T) {
	svc, _, _, userID := newUserFixture(t)

	for _, days := range []int{0, 8, -1} {
		_, err := svc.SetGoal(context.Background(), userID, SetGoalParams{
			GoalType:           domain.GoalMuscleGain,
			WorkoutDaysPerWeek: days,
		})
		assert.ErrorIs(t, err, ErrValidation, "workoutDaysPerWeek=%d", days)
	}
}

func TestHealthProfileRoundTrip(t *testing.T) {
	svc, _, _, userID := newUserFixture(t)

	_, err := svc.GetHealthProfile(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNotFound)

	saved, err := svc.UpsertHealthProfile(context.Background(), &domain.HealthProfile{
		UserID:              userID,
		IsSmoker:            true,
		PhysicalLimitations: []string{"knee pain"},
		HealthIssues:        []string{"asthma"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"knee pain", "asthma"}, saved.Limitations())

	// Upsert replaces in place: same profile identity.
	updated, err := svc.UpsertHealthProfile(context.Background(), &domain.HealthProfile{
		UserID:   userID,
		IsSmoker: false,
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	fetched, err := svc.GetHealthProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, fetched.IsSmoker)
	assert.Empty(t, fetched.Limitations())
}
