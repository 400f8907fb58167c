package generator

import (
	"context"

	"alcyxob/fitness-ai/internal/domain"
)

// Feasibility is the generator's verdict on whether a goal is achievable.
type Feasibility string

const (
	Feasible    Feasibility = "FEASIBLE"
	NotFeasible Feasibility = "NOT_FEASIBLE"
)

// PlanRequest carries the full context the generator needs to produce a
// weekly workout plan. Enum-valued fields are already mapped to the plain
// strings the generator expects (beginner/intermediate/advanced, gym/...).
type PlanRequest struct {
	HeightCm        float64  `json:"height"`
	WeightKg        float64  `json:"weight"`
	TargetWeightKg  float64  `json:"target_weight"`
	Age             int      `json:"age"`
	Gender          string   `json:"gender"`
	WorkoutGoal     string   `json:"workout_goal"`
	GoalTimeline    int      `json:"goal_timeline"` // weeks
	WorkoutDays     int      `json:"workout_days"`
	CurrentDay      string   `json:"current_day"`
	Equipment       string   `json:"equipment"`
	ExperienceLevel string   `json:"experience_level"`
	Limitations     []string `json:"user_limitations"`

	// Continuation context. PreviousSummary is the prior week's plan
	// summary; LastWeekWeights maps each weekday to the weight logged on
	// completion that day, nil where no workout was logged.
	PreviousSummary string                        `json:"previous_summary,omitempty"`
	LastWeekWeights map[domain.DayOfWeek]*float64 `json:"last_week_weights,omitempty"`
}

// Exercise is one exercise inside a generated routine.
type Exercise struct {
	Name        string    `json:"name"`
	Sets        int       `json:"sets"`
	Reps        []int     `json:"reps"`
	WeightsUsed []float64 `json:"weights_used"`
}

// Routine is one named, focus-tagged exercise block of a generated plan.
type Routine struct {
	Name      string     `json:"name"`
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

// ScheduleItem assigns a routine (by name) to a weekday. Days without an
// item, or items whose routine name resolves to nothing, become rest days.
type ScheduleItem struct {
	DayOfWeek   string `json:"day_of_week"`
	RoutineName string `json:"routine_name"`
	Status      string `json:"status,omitempty"`
}

// WorkoutPlanContent is the generator's strongly-typed plan output. The
// raw response is deserialized into this shape exactly once, at the
// generator boundary; no downstream component type-probes the response.
type WorkoutPlanContent struct {
	Overview       string         `json:"overview"` // ≤50 words
	Routines       []Routine      `json:"routines"`
	WeeklySchedule []ScheduleItem `json:"weekly_schedule"`
	Summary        string         `json:"summary"` // ≤60 words, continuation context for next week
}

// FeasibilityVerdict is the generator's assessment of a first-plan request.
type FeasibilityVerdict struct {
	Feasibility     Feasibility `json:"feasibility"`
	Reasoning       string      `json:"reasoning"`
	Recommendations string      `json:"recommendations"`
}

// IsFeasible reports whether plan generation should proceed.
func (v *FeasibilityVerdict) IsFeasible() bool {
	return v != nil && v.Feasibility == Feasible
}

// MealRequest carries the context for meal plan generation.
type MealRequest struct {
	WeightKg       float64  `json:"weight"`
	TargetWeightKg float64  `json:"target_weight"`
	WorkoutGoal    string   `json:"workout_goal"`
	Limitations    []string `json:"user_limitations"`
	Preferences    string   `json:"preferences,omitempty"`
}

// PlanGenerator produces structured workout and meal plans. Implementations
// call an external model synchronously; callers must not hold a store
// transaction open across these calls and should impose their own timeout
// via ctx. Failures are surfaced as errors and never retried here.
type PlanGenerator interface {
	// AssessFeasibility judges a first-plan request before generation.
	AssessFeasibility(ctx context.Context, req PlanRequest) (*FeasibilityVerdict, error)
	// GenerateFirst produces the initial plan for a user with no history.
	GenerateFirst(ctx context.Context, req PlanRequest) (*WorkoutPlanContent, error)
	// GenerateContinuation produces a follow-up weekly plan from the
	// previous summary and logged weights.
	GenerateContinuation(ctx context.Context, req PlanRequest) (*WorkoutPlanContent, error)
	// GenerateMealPlan produces a meal plan as a JSON blob, stored
	// opaquely on the active plan.
	GenerateMealPlan(ctx context.Context, req MealRequest) (string, error)
}
