package service

import (
	"context"
	"sort"
	"time"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/generator"
	"alcyxob/fitness-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the store semantics the services
// rely on (sentinel errors, conditional updates, date truncation) without a
// running database. Not safe for concurrent use; tests are single-threaded.

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	r.users[user.ID] = &stored
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateBasicInfo(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) UpdateCurrentWeight(_ context.Context, id primitive.ObjectID, weightKg float64) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.CurrentWeightKg = &weightKg
	return nil
}

// --- goals ---

type fakeGoalRepo struct {
	goals map[primitive.ObjectID]*domain.Goal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[primitive.ObjectID]*domain.Goal)}
}

func (r *fakeGoalRepo) Create(_ context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	goal.ID = primitive.NewObjectID()
	goal.CreatedAt = time.Now().UTC()
	stored := *goal
	r.goals[goal.ID] = &stored
	return goal.ID, nil
}

func (r *fakeGoalRepo) GetActiveByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Goal, error) {
	for _, goal := range r.goals {
		if goal.UserID == userID && goal.Active {
			copied := *goal
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeGoalRepo) DeactivateActiveForUser(_ context.Context, userID primitive.ObjectID) error {
	for _, goal := range r.goals {
		if goal.UserID == userID {
			goal.Active = false
		}
	}
	return nil
}

// --- health profiles ---

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.HealthProfile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]*domain.HealthProfile)}
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.HealthProfile) (*domain.HealthProfile, error) {
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
	} else {
		profile.ID = primitive.NewObjectID()
	}
	stored := *profile
	r.profiles[profile.UserID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.HealthProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

// --- plans ---

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.Plan
	seq   int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]*domain.Plan)}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	plan.StartDate = domain.DateOnly(plan.StartDate)
	plan.EndDate = domain.DateOnly(plan.EndDate)
	// Monotonic createdAt so tie-breaks are deterministic.
	r.seq++
	plan.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	stored := *plan
	r.plans[plan.ID] = &stored
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *plan
	return &copied, nil
}

func (r *fakePlanRepo) FindCovering(_ context.Context, userID primitive.ObjectID, date time.Time) (*domain.Plan, error) {
	d := domain.DateOnly(date)
	var best *domain.Plan
	for _, plan := range r.plans {
		if plan.UserID != userID || d.Before(plan.StartDate) || d.After(plan.EndDate) {
			continue
		}
		if best == nil || plan.CreatedAt.After(best.CreatedAt) {
			best = plan
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	copied := *best
	return &copied, nil
}

func (r *fakePlanRepo) FindActiveOverlapping(_ context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, plan := range r.plans {
		if plan.UserID == userID && plan.IsActive &&
			!plan.StartDate.After(domain.DateOnly(end)) && !plan.EndDate.Before(domain.DateOnly(start)) {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) FindLatestEndedBefore(_ context.Context, userID primitive.ObjectID, date time.Time) (*domain.Plan, error) {
	var best *domain.Plan
	for _, plan := range r.plans {
		if plan.UserID != userID || !plan.EndDate.Before(domain.DateOnly(date)) {
			continue
		}
		if best == nil || plan.EndDate.After(best.EndDate) ||
			(plan.EndDate.Equal(best.EndDate) && plan.CreatedAt.After(best.CreatedAt)) {
			best = plan
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	copied := *best
	return &copied, nil
}

func (r *fakePlanRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	plan, ok := r.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	plan.IsActive = false
	return nil
}

func (r *fakePlanRepo) SetMealJSON(_ context.Context, id primitive.ObjectID, mealJSON string) error {
	plan, ok := r.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	plan.MealJSON = &mealJSON
	return nil
}

// --- routines ---

type fakeRoutineRepo struct {
	routines map[primitive.ObjectID]*domain.Routine
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{routines: make(map[primitive.ObjectID]*domain.Routine)}
}

func (r *fakeRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	routine.ID = primitive.NewObjectID()
	routine.CreatedAt = time.Now().UTC()
	stored := *routine
	r.routines[routine.ID] = &stored
	return routine.ID, nil
}

func (r *fakeRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	routine, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *routine
	return &copied, nil
}

func (r *fakeRoutineRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, routine := range r.routines {
		if routine.PlanID == planID {
			out = append(out, *routine)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- schedule entries ---

type fakeScheduleRepo struct {
	entries map[primitive.ObjectID]*domain.ScheduleEntry
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{entries: make(map[primitive.ObjectID]*domain.ScheduleEntry)}
}

func (r *fakeScheduleRepo) Create(_ context.Context, entry *domain.ScheduleEntry) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	stored := *entry
	r.entries[entry.ID] = &stored
	return entry.ID, nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ScheduleEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeScheduleRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.ScheduleEntry, error) {
	var out []domain.ScheduleEntry
	for _, entry := range r.entries {
		if entry.PlanID == planID {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return dayIndex(out[i].DayOfWeek) < dayIndex(out[j].DayOfWeek)
	})
	return out, nil
}

func dayIndex(day domain.DayOfWeek) int {
	for i, d := range domain.WeekDays {
		if d == day {
			return i
		}
	}
	return 0
}

func (r *fakeScheduleRepo) UpdateStatusIf(_ context.Context, id primitive.ObjectID, from, to domain.ScheduleStatus) error {
	entry, ok := r.entries[id]
	if !ok {
		return repository.ErrNotFound
	}
	if entry.Status != from {
		return repository.ErrUpdateFailed
	}
	entry.Status = to
	return nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, entry *domain.ScheduleEntry) error {
	stored, ok := r.entries[entry.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.RoutineID = entry.RoutineID
	stored.Status = entry.Status
	stored.CompletedAt = entry.CompletedAt
	stored.UserFeedback = entry.UserFeedback
	stored.IsRestDay = entry.IsRestDay
	return nil
}

// --- completion history ---

type fakeCompletionRepo struct {
	records []domain.CompletionRecord
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{}
}

func (r *fakeCompletionRepo) Create(_ context.Context, record *domain.CompletionRecord) (primitive.ObjectID, error) {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now().UTC()
	r.records = append(r.records, *record)
	return record.ID, nil
}

func (r *fakeCompletionRepo) HasCompletedOn(_ context.Context, userID primitive.ObjectID, date time.Time) (bool, error) {
	d := domain.DateOnly(date)
	for _, record := range r.records {
		if record.UserID == userID && record.IsCompleted && record.Date.Equal(d) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompletionRepo) FindCompletedInRange(_ context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.CompletionRecord, error) {
	var out []domain.CompletionRecord
	for _, record := range r.records {
		if record.UserID == userID && record.IsCompleted &&
			!record.Date.Before(domain.DateOnly(from)) && !record.Date.After(domain.DateOnly(to)) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// --- plan generator ---

type fakeGenerator struct {
	verdict      *generator.FeasibilityVerdict
	firstPlan    *generator.WorkoutPlanContent
	continuation *generator.WorkoutPlanContent
	mealJSON     string
	mealErr      error

	assessCalls       int
	firstCalls        int
	continuationCalls int
	lastRequest       generator.PlanRequest
}

func (g *fakeGenerator) AssessFeasibility(_ context.Context, req generator.PlanRequest) (*generator.FeasibilityVerdict, error) {
	g.assessCalls++
	g.lastRequest = req
	if g.verdict != nil {
		return g.verdict, nil
	}
	return &generator.FeasibilityVerdict{Feasibility: generator.Feasible}, nil
}

func (g *fakeGenerator) GenerateFirst(_ context.Context, req generator.PlanRequest) (*generator.WorkoutPlanContent, error) {
	g.firstCalls++
	g.lastRequest = req
	return g.firstPlan, nil
}

func (g *fakeGenerator) GenerateContinuation(_ context.Context, req generator.PlanRequest) (*generator.WorkoutPlanContent, error) {
	g.continuationCalls++
	g.lastRequest = req
	return g.continuation, nil
}

func (g *fakeGenerator) GenerateMealPlan(_ context.Context, _ generator.MealRequest) (string, error) {
	if g.mealErr != nil {
		return "", g.mealErr
	}
	if g.mealJSON != "" {
		return g.mealJSON, nil
	}
	return `{"meals":[]}`, nil
}
