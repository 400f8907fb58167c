package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/generator"
	"alcyxob/fitness-ai/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationService orchestrates plan generation: it assembles the request
// context from user/goal/health-profile/history, decides between a first
// and a continuation plan, runs the feasibility check, and hands generated
// content to the plan service for persistence. It implements PlanProducer.
//
// The generator is called outside any store transaction: context reads
// happen first, then the (multi-second) generator call, then persistence
// in its own short transaction.
type GenerationService interface {
	PlanProducer
}

type generationService struct {
	userRepo       repository.UserRepository
	goalRepo       repository.GoalRepository
	profileRepo    repository.HealthProfileRepository
	planRepo       repository.PlanRepository
	completionRepo repository.CompletionRepository
	planGenerator  generator.PlanGenerator
	planService    PlanService
	now            func() time.Time
}

// NewGenerationService creates a new instance of generationService.
func NewGenerationService(
	userRepo repository.UserRepository,
	goalRepo repository.GoalRepository,
	profileRepo repository.HealthProfileRepository,
	planRepo repository.PlanRepository,
	completionRepo repository.CompletionRepository,
	planGenerator generator.PlanGenerator,
	planService PlanService,
) GenerationService {
	return &generationService{
		userRepo:       userRepo,
		goalRepo:       goalRepo,
		profileRepo:    profileRepo,
		planRepo:       planRepo,
		completionRepo: completionRepo,
		planGenerator:  planGenerator,
		planService:    planService,
		now:            time.Now,
	}
}

func (s *generationService) GenerateForUser(ctx context.Context, userID primitive.ObjectID, targetDate time.Time) (*PlanOutcome, error) {
	req, goal, firstPlan, err := s.buildRequest(ctx, userID, targetDate)
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{
		"userId":    userID.Hex(),
		"firstPlan": firstPlan,
	})

	var content *generator.WorkoutPlanContent
	if firstPlan {
		verdict, err := s.planGenerator.AssessFeasibility(ctx, *req)
		if err != nil {
			return nil, fmt.Errorf("%w: assess feasibility: %v", ErrGeneration, err)
		}
		if !verdict.IsFeasible() {
			// Terminal outcome: no plan is generated or persisted.
			logger.WithField("reasoning", verdict.Reasoning).Info("goal judged not feasible, skipping plan generation")
			return &PlanOutcome{Verdict: verdict}, nil
		}
		content, err = s.planGenerator.GenerateFirst(ctx, *req)
		if err != nil {
			return nil, fmt.Errorf("%w: generate first plan: %v", ErrGeneration, err)
		}
	} else {
		content, err = s.planGenerator.GenerateContinuation(ctx, *req)
		if err != nil {
			return nil, fmt.Errorf("%w: generate continuation plan: %v", ErrGeneration, err)
		}
	}

	plan, err := s.planService.CreatePlanFromGenerated(ctx, userID, content)
	if err != nil {
		return nil, err
	}

	// Meal plan generation is best-effort: a failure here never fails
	// the workout plan request.
	s.attachMealPlan(ctx, userID, req, goal, logger)

	details, err := s.planService.GetPlanDetails(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	logger.WithField("planId", plan.ID.Hex()).Info("plan generated and persisted")
	return &PlanOutcome{Plan: details}, nil
}

// buildRequest reads all generation context in short store reads and
// validates it. The third return value reports whether this is the user's
// first plan (no prior plan ended before targetDate).
func (s *generationService) buildRequest(ctx context.Context, userID primitive.ObjectID, targetDate time.Time) (*generator.PlanRequest, *domain.Goal, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, false, fmt.Errorf("%w: user %s", ErrNotFound, userID.Hex())
		}
		return nil, nil, false, fmt.Errorf("%w: get user: %v", ErrStorage, err)
	}

	goal, err := s.goalRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, false, fmt.Errorf("%w: no active goal for user %s", ErrValidation, userID.Hex())
		}
		return nil, nil, false, fmt.Errorf("%w: get active goal: %v", ErrStorage, err)
	}

	var missing []string
	if user.HeightCm == nil {
		missing = append(missing, "height")
	}
	if user.WeightKg == nil {
		missing = append(missing, "weight")
	}
	if goal.TargetWeightKg == nil {
		missing = append(missing, "target weight")
	}
	if goal.TargetDurationWeeks <= 0 {
		missing = append(missing, "target duration")
	}
	if goal.WorkoutDaysPerWeek <= 0 {
		missing = append(missing, "workout days")
	}
	if len(missing) > 0 {
		return nil, nil, false, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	// Optional: absence simply means an empty limitations list.
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, false, fmt.Errorf("%w: get health profile: %v", ErrStorage, err)
	}

	req := &generator.PlanRequest{
		HeightCm:        *user.HeightCm,
		WeightKg:        *user.WeightKg,
		TargetWeightKg:  *goal.TargetWeightKg,
		Age:             user.Age,
		Gender:          user.Gender,
		WorkoutGoal:     goal.GoalType.PlainString(),
		GoalTimeline:    goal.TargetDurationWeeks,
		WorkoutDays:     goal.WorkoutDaysPerWeek,
		CurrentDay:      string(domain.WeekdayOf(targetDate)),
		Equipment:       goal.Equipment.PlainString(),
		ExperienceLevel: user.ExperienceLevel.PlainString(),
		Limitations:     profile.Limitations(),
	}
	if user.CurrentWeightKg != nil {
		req.WeightKg = *user.CurrentWeightKg
	}

	// Continuation context: the most recent plan that ended before the
	// target date contributes its weekly summary and logged weights.
	firstPlan := true
	prior, err := s.planRepo.FindLatestEndedBefore(ctx, userID, targetDate)
	switch {
	case err == nil:
		firstPlan = false
		if prior.WeeklySummary != nil {
			req.PreviousSummary = *prior.WeeklySummary
		}
		weights, err := s.lastWeekWeights(ctx, userID, targetDate)
		if err != nil {
			return nil, nil, false, err
		}
		req.LastWeekWeights = weights
	case errors.Is(err, repository.ErrNotFound):
		// First plan for this user.
	default:
		return nil, nil, false, fmt.Errorf("%w: find prior plan: %v", ErrStorage, err)
	}

	return req, goal, firstPlan, nil
}

// lastWeekWeights maps each weekday of the week before targetDate's week
// to the weight logged on completion that day. Days with no completed
// record (or no logged weight) map to nil.
func (s *generationService) lastWeekWeights(ctx context.Context, userID primitive.ObjectID, targetDate time.Time) (map[domain.DayOfWeek]*float64, error) {
	thisMonday, _ := domain.WeekWindow(targetDate)
	lastMonday := thisMonday.AddDate(0, 0, -7)
	lastSunday := lastMonday.AddDate(0, 0, 6)

	records, err := s.completionRepo.FindCompletedInRange(ctx, userID, lastMonday, lastSunday)
	if err != nil {
		return nil, fmt.Errorf("%w: get last week completions: %v", ErrStorage, err)
	}

	dateToWeight := make(map[time.Time]*float64, len(records))
	for _, record := range records {
		if record.TodayWeightKg != nil {
			dateToWeight[domain.DateOnly(record.Date)] = record.TodayWeightKg
		}
	}

	weights := make(map[domain.DayOfWeek]*float64, 7)
	for i, day := range domain.WeekDays {
		weights[day] = dateToWeight[lastMonday.AddDate(0, 0, i)]
	}
	return weights, nil
}

func (s *generationService) attachMealPlan(ctx context.Context, userID primitive.ObjectID, req *generator.PlanRequest, goal *domain.Goal, logger *log.Entry) {
	mealJSON, err := s.planGenerator.GenerateMealPlan(ctx, generator.MealRequest{
		WeightKg:       req.WeightKg,
		TargetWeightKg: req.TargetWeightKg,
		WorkoutGoal:    req.WorkoutGoal,
		Limitations:    req.Limitations,
		Preferences:    goal.Remarks,
	})
	if err != nil {
		logger.WithError(err).Warn("meal plan generation failed, continuing without one")
		return
	}
	if err := s.planService.AttachMealPlan(ctx, userID, mealJSON); err != nil {
		logger.WithError(err).Warn("failed to attach meal plan, continuing without one")
	}
}
