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

type scheduleFixture struct {
	svc            ScheduleService
	scheduleRepo   *fakeScheduleRepo
	completionRepo *fakeCompletionRepo
	userRepo       *fakeUserRepo
	userID         primitive.ObjectID
	planID         primitive.ObjectID
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	scheduleRepo := newFakeScheduleRepo()
	completionRepo := newFakeCompletionRepo()
	userRepo := newFakeUserRepo()

	userID, err := userRepo.Create(context.Background(), &domain.User{
		FullName: "Test User",
		Email:    "test@example.com",
	})
	require.NoError(t, err)

	svc := NewScheduleService(scheduleRepo, completionRepo, userRepo, fakeTxManager{}).(*scheduleService)
	svc.now = func() time.Time { return testNow }

	return &scheduleFixture{
		svc:            svc,
		scheduleRepo:   scheduleRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		userID:         userID,
		planID:         primitive.NewObjectID(),
	}
}

func (f *scheduleFixture) addEntry(t *testing.T, day domain.DayOfWeek, routineID *primitive.ObjectID, status domain.ScheduleStatus) primitive.ObjectID {
	t.Helper()
	id, err := f.scheduleRepo.Create(context.Background(), &domain.ScheduleEntry{
		PlanID:    f.planID,
		DayOfWeek: day,
		RoutineID: routineID,
		Status:    status,
		IsRestDay: routineID == nil,
	})
	require.NoError(t, err)
	return id
}

func oid() *primitive.ObjectID {
	id := primitive.NewObjectID()
	return &id
}

func TestStartSession(t *testing.T) {
	f := newScheduleFixture(t)
	scheduleID := f.addEntry(t, domain.Monday, oid(), domain.StatusPending)

	entry, err := f.svc.StartSession(context.Background(), scheduleID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStarted, entry.Status)

	// Starting again must fail: the entry is no longer pending.
	_, err = f.svc.StartSession(context.Background(), scheduleID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.StartSession(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartSessionRejectsNonPending(t *testing.T) {
	f := newScheduleFixture(t)
	for _, status := range []domain.ScheduleStatus{
		domain.StatusCompleted, domain.StatusSkipped, domain.StatusSwapped,
	} {
		scheduleID := f.addEntry(t, domain.Monday, oid(), status)
		_, err := f.svc.StartSession(context.Background(), scheduleID)
		assert.ErrorIs(t, err, ErrInvalidState, "status %s", status)
	}
}

func TestSkipSession(t *testing.T) {
	f := newScheduleFixture(t)
	scheduleID := f.addEntry(t, domain.Tuesday, oid(), domain.StatusPending)

	entry, err := f.svc.SkipSession(context.Background(), scheduleID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSkipped, entry.Status)

	// Skipping a started entry is not allowed.
	startedID := f.addEntry(t, domain.Wednesday, oid(), domain.StatusStarted)
	_, err = f.svc.SkipSession(context.Background(), startedID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCompleteSession(t *testing.T) {
	f := newScheduleFixture(t)
	routineID := oid()
	scheduleID := f.addEntry(t, domain.Wednesday, routineID, domain.StatusStarted)
	weight := 82.5

	record, err := f.svc.CompleteSession(context.Background(), CompleteSessionParams{
		ScheduleID:    scheduleID,
		UserID:        f.userID,
		PlanID:        f.planID,
		RoutineID:     *routineID,
		TodayWeightKg: &weight,
		Notes:         "felt strong",
	})
	require.NoError(t, err)

	assert.True(t, record.IsCompleted)
	assert.Equal(t, "2025-10-15", record.Date.Format("2006-01-02"))
	assert.Equal(t, "felt strong", record.Notes)

	entry, err := f.scheduleRepo.GetByID(context.Background(), scheduleID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, entry.Status)
	require.NotNil(t, entry.CompletedAt)

	// Logged weight becomes the user's current weight.
	user, err := f.userRepo.GetByID(context.Background(), f.userID)
	require.NoError(t, err)
	require.NotNil(t, user.CurrentWeightKg)
	assert.Equal(t, 82.5, *user.CurrentWeightKg)
}

func TestCompleteSessionRequiresStarted(t *testing.T) {
	f := newScheduleFixture(t)
	routineID := oid()

	for _, status := range []domain.ScheduleStatus{
		domain.StatusPending, domain.StatusCompleted, domain.StatusSkipped, domain.StatusSwapped,
	} {
		scheduleID := f.addEntry(t, domain.Thursday, routineID, status)
		_, err := f.svc.CompleteSession(context.Background(), CompleteSessionParams{
			ScheduleID: scheduleID,
			UserID:     f.userID,
			PlanID:     f.planID,
			RoutineID:  *routineID,
		})
		assert.ErrorIs(t, err, ErrInvalidState, "status %s", status)
	}

	// No completion record must exist after the rejected attempts.
	assert.Empty(t, f.completionRepo.records)
}

func TestCompleteSessionUnknownUser(t *testing.T) {
	f := newScheduleFixture(t)
	routineID := oid()
	scheduleID := f.addEntry(t, domain.Friday, routineID, domain.StatusStarted)

	_, err := f.svc.CompleteSession(context.Background(), CompleteSessionParams{
		ScheduleID: scheduleID,
		UserID:     primitive.NewObjectID(),
		PlanID:     f.planID,
		RoutineID:  *routineID,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSwapRoutines(t *testing.T) {
	f := newScheduleFixture(t)
	pushID := oid()
	id1 := f.addEntry(t, domain.Monday, pushID, domain.StatusPending)
	id2 := f.addEntry(t, domain.Thursday, nil, domain.StatusPending) // rest day

	entry1, entry2, err := f.svc.SwapRoutines(context.Background(), id1, id2)
	require.NoError(t, err)

	// Assignments exchanged in place: Monday becomes the rest day.
	assert.Nil(t, entry1.RoutineID)
	assert.True(t, entry1.IsRestDay)
	require.NotNil(t, entry2.RoutineID)
	assert.Equal(t, *pushID, *entry2.RoutineID)
	assert.False(t, entry2.IsRestDay)

	assert.Equal(t, domain.StatusSwapped, entry1.Status)
	assert.Equal(t, domain.StatusSwapped, entry2.Status)

	// Entry identities are stable across the swap.
	assert.Equal(t, id1, entry1.ID)
	assert.Equal(t, id2, entry2.ID)
}

func TestSwapRoutinesSelfInverse(t *testing.T) {
	f := newScheduleFixture(t)
	routineA := oid()
	routineB := oid()
	id1 := f.addEntry(t, domain.Monday, routineA, domain.StatusPending)
	id2 := f.addEntry(t, domain.Friday, routineB, domain.StatusPending)

	_, _, err := f.svc.SwapRoutines(context.Background(), id1, id2)
	require.NoError(t, err)

	// Swapped entries can be swapped again; the second swap restores the
	// original assignments.
	entry1, entry2, err := f.svc.SwapRoutines(context.Background(), id1, id2)
	require.NoError(t, err)

	require.NotNil(t, entry1.RoutineID)
	require.NotNil(t, entry2.RoutineID)
	assert.Equal(t, *routineA, *entry1.RoutineID)
	assert.Equal(t, *routineB, *entry2.RoutineID)
}

func TestSwapRoutinesRejectsCompleted(t *testing.T) {
	f := newScheduleFixture(t)
	id1 := f.addEntry(t, domain.Monday, oid(), domain.StatusCompleted)
	id2 := f.addEntry(t, domain.Tuesday, oid(), domain.StatusPending)

	_, _, err := f.svc.SwapRoutines(context.Background(), id1, id2)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Neither entry may change when the swap is rejected.
	entry2, getErr := f.scheduleRepo.GetByID(context.Background(), id2)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusPending, entry2.Status)
}

func TestSwapRoutinesUnknownEntry(t *testing.T) {
	f := newScheduleFixture(t)
	id1 := f.addEntry(t, domain.Monday, oid(), domain.StatusPending)

	_, _, err := f.svc.SwapRoutines(context.Background(), id1, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}
