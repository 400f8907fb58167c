package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/generator"
	"alcyxob/fitness-ai/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineDetails is a routine with its exercise list parsed out of the
// serialized blob.
type RoutineDetails struct {
	domain.Routine
	Exercises []generator.Exercise `json:"exercises"`
}

// PlanDetails is a fully hydrated plan view: the plan, its routines with
// parsed exercises, and its weekly schedule.
type PlanDetails struct {
	Plan     domain.Plan            `json:"plan"`
	Routines []RoutineDetails       `json:"routines"`
	Schedule []domain.ScheduleEntry `json:"weekly_schedule"`
}

// PlanOutcome is the result of a plan request: either a hydrated plan or,
// for infeasible first-plan requests, the feasibility verdict. Exactly one
// field is set.
type PlanOutcome struct {
	Plan    *PlanDetails                  `json:"plan,omitempty"`
	Verdict *generator.FeasibilityVerdict `json:"verdict,omitempty"`
}

// PlanProducer synthesizes a new plan for a user when none covers the
// requested date. Implemented by the generation orchestrator.
type PlanProducer interface {
	GenerateForUser(ctx context.Context, userID primitive.ObjectID, targetDate time.Time) (*PlanOutcome, error)
}

// PlanService owns plan versioning: which plan is active for a date,
// deactivation of superseded overlapping plans, and persistence of
// generated content as a plan + routines + schedule.
type PlanService interface {
	// GetOrCreatePlanForDate returns the hydrated plan covering date for
	// the user, generating and persisting a new one when none exists.
	GetOrCreatePlanForDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*PlanOutcome, error)
	// GetPlanDetails hydrates an existing plan by id.
	GetPlanDetails(ctx context.Context, planID primitive.ObjectID) (*PlanDetails, error)
	// CreatePlanFromGenerated persists generated content as the active
	// plan for the current week, deactivating overlapping active plans.
	// All writes commit as one transaction.
	CreatePlanFromGenerated(ctx context.Context, userID primitive.ObjectID, content *generator.WorkoutPlanContent) (*domain.Plan, error)
	// AttachMealPlan stores a meal plan blob on the active plan covering
	// today.
	AttachMealPlan(ctx context.Context, userID primitive.ObjectID, mealJSON string) error
	// GetCurrentMealPlan returns the meal plan attached to the plan
	// covering today.
	GetCurrentMealPlan(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type planService struct {
	planRepo     repository.PlanRepository
	routineRepo  repository.RoutineRepository
	scheduleRepo repository.ScheduleRepository
	txManager    repository.TxManager
	producer     PlanProducer
	now          func() time.Time
}

// NewPlanService creates a new instance of planService. The producer is
// attached afterwards via SetProducer: the orchestrator and this service
// reference each other.
func NewPlanService(
	planRepo repository.PlanRepository,
	routineRepo repository.RoutineRepository,
	scheduleRepo repository.ScheduleRepository,
	txManager repository.TxManager,
) *planService {
	return &planService{
		planRepo:     planRepo,
		routineRepo:  routineRepo,
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		now:          time.Now,
	}
}

// SetProducer attaches the plan generation orchestrator.
func (s *planService) SetProducer(producer PlanProducer) {
	s.producer = producer
}

func (s *planService) GetOrCreatePlanForDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*PlanOutcome, error) {
	plan, err := s.planRepo.FindCovering(ctx, userID, date)
	if err == nil {
		details, hydrateErr := s.hydrate(ctx, plan)
		if hydrateErr != nil {
			return nil, hydrateErr
		}
		return &PlanOutcome{Plan: details}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: find plan for date: %v", ErrStorage, err)
	}

	if s.producer == nil {
		return nil, fmt.Errorf("%w: no plan covers %s and no generator is configured", ErrNotFound, domain.DateOnly(date).Format("2006-01-02"))
	}

	log.WithFields(log.Fields{
		"userId": userID.Hex(),
		"date":   domain.DateOnly(date).Format("2006-01-02"),
	}).Info("no plan covers requested date, generating")

	return s.producer.GenerateForUser(ctx, userID, date)
}

func (s *planService) GetPlanDetails(ctx context.Context, planID primitive.ObjectID) (*PlanDetails, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: plan %s", ErrNotFound, planID.Hex())
		}
		return nil, fmt.Errorf("%w: get plan: %v", ErrStorage, err)
	}
	return s.hydrate(ctx, plan)
}

// hydrate loads the plan's routines and schedule and parses each routine's
// serialized exercise list. A malformed blob degrades to an empty exercise
// list instead of failing the request.
func (s *planService) hydrate(ctx context.Context, plan *domain.Plan) (*PlanDetails, error) {
	routines, err := s.routineRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: get routines: %v", ErrStorage, err)
	}
	schedule, err := s.scheduleRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: get schedule: %v", ErrStorage, err)
	}

	details := &PlanDetails{
		Plan:     *plan,
		Routines: make([]RoutineDetails, 0, len(routines)),
		Schedule: schedule,
	}
	for _, routine := range routines {
		details.Routines = append(details.Routines, RoutineDetails{
			Routine:   routine,
			Exercises: parseExercises(routine),
		})
	}
	return details, nil
}

// parseExercises decodes a routine blob. The blob may be the full routine
// object or a bare exercise list; anything else yields an empty list.
func parseExercises(routine domain.Routine) []generator.Exercise {
	if routine.ContentJSON == "" {
		return []generator.Exercise{}
	}

	var full struct {
		Exercises []generator.Exercise `json:"exercises"`
	}
	if err := json.Unmarshal([]byte(routine.ContentJSON), &full); err == nil && full.Exercises != nil {
		return full.Exercises
	}

	var bare []generator.Exercise
	if err := json.Unmarshal([]byte(routine.ContentJSON), &bare); err == nil {
		return bare
	}

	log.WithFields(log.Fields{
		"routineId": routine.ID.Hex(),
		"planId":    routine.PlanID.Hex(),
	}).Warn("malformed routine content, defaulting to empty exercise list")
	return []generator.Exercise{}
}

func (s *planService) CreatePlanFromGenerated(ctx context.Context, userID primitive.ObjectID, content *generator.WorkoutPlanContent) (*domain.Plan, error) {
	if userID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: user id is required in generated content", ErrValidation)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: generated content is required", ErrValidation)
	}

	// Window is anchored to today, not to the generated content.
	startDate, endDate := domain.WeekWindow(s.now())

	var plan *domain.Plan
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		// Deactivate any active plan overlapping the new window before
		// inserting, keeping the single-active-plan-per-date invariant.
		overlapping, err := s.planRepo.FindActiveOverlapping(ctx, userID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("find overlapping plans: %w", err)
		}
		for _, prior := range overlapping {
			if err := s.planRepo.Deactivate(ctx, prior.ID); err != nil {
				return fmt.Errorf("deactivate plan %s: %w", prior.ID.Hex(), err)
			}
			log.WithFields(log.Fields{
				"userId": userID.Hex(),
				"planId": prior.ID.Hex(),
			}).Info("deactivated overlapping active plan")
		}

		summary := content.Summary
		plan = &domain.Plan{
			UserID:        userID,
			GeneratedByAI: true,
			StartDate:     startDate,
			EndDate:       endDate,
			IsActive:      true,
			Version:       1,
			Overview:      content.Overview,
			WeeklySummary: &summary,
		}
		planID, err := s.planRepo.Create(ctx, plan)
		if err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		plan.ID = planID

		routineNameToID := make(map[string]primitive.ObjectID, len(content.Routines))
		for _, generated := range content.Routines {
			blob, err := json.Marshal(generated)
			if err != nil {
				return fmt.Errorf("serialize routine %q: %w", generated.Name, err)
			}
			routine := &domain.Routine{
				PlanID:      planID,
				Name:        generated.Name,
				Focus:       generated.Focus,
				ContentJSON: string(blob),
			}
			routineID, err := s.routineRepo.Create(ctx, routine)
			if err != nil {
				return fmt.Errorf("create routine %q: %w", generated.Name, err)
			}
			routineNameToID[generated.Name] = routineID
		}

		seenDays := make(map[domain.DayOfWeek]bool, 7)
		for _, item := range content.WeeklySchedule {
			day, ok := domain.ParseDayOfWeek(item.DayOfWeek)
			if !ok {
				log.WithField("dayOfWeek", item.DayOfWeek).Warn("unrecognized day in generated schedule, defaulting to Monday")
			}
			if seenDays[day] {
				log.WithField("dayOfWeek", day).Warn("duplicate day in generated schedule, skipping")
				continue
			}
			seenDays[day] = true

			status, ok := domain.ParseScheduleStatus(item.Status)
			if !ok && item.Status != "" {
				log.WithField("status", item.Status).Warn("unrecognized status in generated schedule, defaulting to pending")
			}

			var routineID *primitive.ObjectID
			if id, found := routineNameToID[item.RoutineName]; found {
				routineID = &id
			}

			entry := &domain.ScheduleEntry{
				PlanID:    planID,
				DayOfWeek: day,
				RoutineID: routineID,
				Status:    status,
				IsRestDay: routineID == nil,
			}
			if _, err := s.scheduleRepo.Create(ctx, entry); err != nil {
				return fmt.Errorf("create schedule entry for %s: %w", day, err)
			}
		}

		// Days the generator left out become explicit rest days so the
		// plan always has one entry per weekday.
		for _, day := range domain.WeekDays {
			if seenDays[day] {
				continue
			}
			entry := &domain.ScheduleEntry{
				PlanID:    planID,
				DayOfWeek: day,
				Status:    domain.StatusPending,
				IsRestDay: true,
			}
			if _, err := s.scheduleRepo.Create(ctx, entry); err != nil {
				return fmt.Errorf("create rest day entry for %s: %w", day, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	log.WithFields(log.Fields{
		"userId":    userID.Hex(),
		"planId":    plan.ID.Hex(),
		"startDate": startDate.Format("2006-01-02"),
		"endDate":   endDate.Format("2006-01-02"),
	}).Info("created plan from generated content")
	return plan, nil
}

func (s *planService) AttachMealPlan(ctx context.Context, userID primitive.ObjectID, mealJSON string) error {
	plan, err := s.activePlanForToday(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.planRepo.SetMealJSON(ctx, plan.ID, mealJSON); err != nil {
		return fmt.Errorf("%w: attach meal plan: %v", ErrStorage, err)
	}
	return nil
}

func (s *planService) GetCurrentMealPlan(ctx context.Context, userID primitive.ObjectID) (string, error) {
	plan, err := s.activePlanForToday(ctx, userID)
	if err != nil {
		return "", err
	}
	if plan.MealJSON == nil || *plan.MealJSON == "" {
		return "", fmt.Errorf("%w: no meal plan attached to plan %s", ErrNotFound, plan.ID.Hex())
	}
	return *plan.MealJSON, nil
}

func (s *planService) activePlanForToday(ctx context.Context, userID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.FindCovering(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active plan covers today for user %s", ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("%w: find active plan: %v", ErrStorage, err)
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("%w: no active plan covers today for user %s", ErrNotFound, userID.Hex())
	}
	return plan, nil
}
