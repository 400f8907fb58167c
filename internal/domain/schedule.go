package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayOfWeek is a canonical capitalized weekday name, Monday through Sunday.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
	Sunday    DayOfWeek = "Sunday"
)

// WeekDays lists all weekdays in plan order, Monday first.
var WeekDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDayOfWeek resolves a day name case-insensitively. The second return
// value reports whether the input was recognized; unrecognized input yields
// Monday so callers can apply the lenient default uniformly.
func ParseDayOfWeek(s string) (DayOfWeek, bool) {
	for _, day := range WeekDays {
		if strings.EqualFold(s, string(day)) {
			return day, true
		}
	}
	return Monday, false
}

// ScheduleStatus is the execution status of a schedule entry.
type ScheduleStatus string

const (
	StatusPending   ScheduleStatus = "pending"
	StatusStarted   ScheduleStatus = "started"
	StatusCompleted ScheduleStatus = "completed"
	StatusSkipped   ScheduleStatus = "skipped"
	StatusSwapped   ScheduleStatus = "swapped"
)

// ParseScheduleStatus resolves a status string case-insensitively. The
// second return value reports whether the input was recognized; unrecognized
// input yields pending.
func ParseScheduleStatus(s string) (ScheduleStatus, bool) {
	for _, status := range []ScheduleStatus{StatusPending, StatusStarted, StatusCompleted, StatusSkipped, StatusSwapped} {
		if strings.EqualFold(s, string(status)) {
			return status, true
		}
	}
	return StatusPending, false
}

// ScheduleEntry assigns a routine (or rest) to one weekday within a plan.
// Invariant: IsRestDay == (RoutineID == nil), re-established after every
// mutation. One entry exists per (plan, day) pair; entries are mutated by
// state transitions and swaps, never deleted.
type ScheduleEntry struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID       primitive.ObjectID  `bson:"planId" json:"planId"`
	DayOfWeek    DayOfWeek           `bson:"dayOfWeek" json:"dayOfWeek"`
	RoutineID    *primitive.ObjectID `bson:"routineId,omitempty" json:"routineId,omitempty"` // nil ⇒ rest day
	Status       ScheduleStatus      `bson:"status" json:"status"`
	CompletedAt  *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	UserFeedback string              `bson:"userFeedback,omitempty" json:"userFeedback,omitempty"`
	IsRestDay    bool                `bson:"isRestDay" json:"isRestDay"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}
