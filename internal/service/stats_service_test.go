package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitness-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestStatsService(goalRepo *fakeGoalRepo, completionRepo *fakeCompletionRepo) StatsService {
	svc := NewStatsService(goalRepo, completionRepo).(*statsService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func recordCompletion(t *testing.T, repo *fakeCompletionRepo, userID primitive.ObjectID, date time.Time) {
	t.Helper()
	_, err := repo.Create(context.Background(), &domain.CompletionRecord{
		PlanID:      primitive.NewObjectID(),
		RoutineID:   primitive.NewObjectID(),
		ScheduleID:  primitive.NewObjectID(),
		UserID:      userID,
		Date:        domain.DateOnly(date),
		IsCompleted: true,
	})
	require.NoError(t, err)
}

func TestComputeStatsStreak(t *testing.T) {
	goalRepo := newFakeGoalRepo()
	completionRepo := newFakeCompletionRepo()
	svc := newTestStatsService(goalRepo, completionRepo)
	userID := primitive.NewObjectID()

	// Completions today, yesterday and two days ago; gap on the third day.
	recordCompletion(t, completionRepo, userID, testNow)
	recordCompletion(t, completionRepo, userID, testNow.AddDate(0, 0, -1))
	recordCompletion(t, completionRepo, userID, testNow.AddDate(0, 0, -2))
	recordCompletion(t, completionRepo, userID, testNow.AddDate(0, 0, -5)) // beyond the gap

	stats, err := svc.ComputeStats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Streak)
	assert.False(t, stats.MissedYesterday)
	assert.False(t, stats.GoalSet)
}

func TestComputeStatsStreakBrokenToday(t *testing.T) {
	goalRepo := newFakeGoalRepo()
	completionRepo := newFakeCompletionRepo()
	svc := newTestStatsService(goalRepo, completionRepo)
	userID := primitive.NewObjectID()

	// Yesterday and before are completed but today is not: the streak is
	// zero even though history exists.
	recordCompletion(t, completionRepo, userID, testNow.AddDate(0, 0, -1))
	recordCompletion(t, completionRepo, userID, testNow.AddDate(0, 0, -2))

	stats, err := svc.ComputeStats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Streak)
	assert.False(t, stats.MissedYesterday, "yesterday was completed even though today is not")
}

func TestComputeStatsMissedYesterday(t *testing.T) {
	goalRepo := newFakeGoalRepo()
	completionRepo := newFakeCompletionRepo()
	svc := newTestStatsService(goalRepo, completionRepo)
	userID := primitive.NewObjectID()

	// Today completed, yesterday not: streak is 1 and yesterday counts
	// as missed.
	recordCompletion(t, completionRepo, userID, testNow)

	stats, err := svc.ComputeStats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)
	assert.True(t, stats.MissedYesterday)
}

func TestComputeStatsGoalSet(t *testing.T) {
	goalRepo := newFakeGoalRepo()
	completionRepo := newFakeCompletionRepo()
	svc := newTestStatsService(goalRepo, completionRepo)
	userID := primitive.NewObjectID()

	_, err := goalRepo.Create(context.Background(), &domain.Goal{
		UserID:   userID,
		GoalType: domain.GoalMuscleGain,
		Active:   true,
	})
	require.NoError(t, err)

	stats, err := svc.ComputeStats(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, stats.GoalSet)
	assert.Equal(t, 0, stats.Streak)
	assert.True(t, stats.MissedYesterday)
}
