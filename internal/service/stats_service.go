package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStats is derived on demand from the active goal and the completion
// history; nothing here is stored.
type UserStats struct {
	GoalSet         bool `json:"isGoalSet"`
	Streak          int  `json:"liveStreak"`
	MissedYesterday bool `json:"yesterdayMissedWorkout"`
}

// StatsService derives goal/streak stats from completion history.
type StatsService interface {
	ComputeStats(ctx context.Context, userID primitive.ObjectID) (*UserStats, error)
}

type statsService struct {
	goalRepo       repository.GoalRepository
	completionRepo repository.CompletionRepository
	now            func() time.Time
}

// NewStatsService creates a new instance of statsService.
func NewStatsService(goalRepo repository.GoalRepository, completionRepo repository.CompletionRepository) StatsService {
	return &statsService{
		goalRepo:       goalRepo,
		completionRepo: completionRepo,
		now:            time.Now,
	}
}

func (s *statsService) ComputeStats(ctx context.Context, userID primitive.ObjectID) (*UserStats, error) {
	stats := &UserStats{}

	_, err := s.goalRepo.GetActiveByUserID(ctx, userID)
	switch {
	case err == nil:
		stats.GoalSet = true
	case errors.Is(err, repository.ErrNotFound):
		stats.GoalSet = false
	default:
		return nil, fmt.Errorf("%w: get active goal: %v", ErrStorage, err)
	}

	today := domain.DateOnly(s.now())

	// Streak: walk backward from today, counting consecutive days with a
	// completed record. The first gap stops the walk, so a missed today
	// yields zero regardless of older history.
	for day := today; ; day = day.AddDate(0, 0, -1) {
		completed, err := s.completionRepo.HasCompletedOn(ctx, userID, day)
		if err != nil {
			return nil, fmt.Errorf("%w: check completion for %s: %v", ErrStorage, day.Format("2006-01-02"), err)
		}
		if !completed {
			break
		}
		stats.Streak++
	}

	// Recomputed independently of the streak walk.
	yesterday := today.AddDate(0, 0, -1)
	completedYesterday, err := s.completionRepo.HasCompletedOn(ctx, userID, yesterday)
	if err != nil {
		return nil, fmt.Errorf("%w: check completion for yesterday: %v", ErrStorage, err)
	}
	stats.MissedYesterday = !completedYesterday

	return stats, nil
}
