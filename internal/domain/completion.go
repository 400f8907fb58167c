package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionRecord is an append-only log entry created exactly once when a
// schedule entry transitions to completed. It references (but does not own)
// the plan, routine, schedule entry and user, and is the source of truth
// for streak computation — independent of schedule status, which can be
// swapped or reset afterwards.
type CompletionRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID        primitive.ObjectID `bson:"planId" json:"planId"`
	RoutineID     primitive.ObjectID `bson:"routineId" json:"routineId"`
	ScheduleID    primitive.ObjectID `bson:"scheduleId" json:"scheduleId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Date          time.Time          `bson:"date" json:"date"` // UTC midnight
	IsCompleted   bool               `bson:"isCompleted" json:"isCompleted"`
	TodayWeightKg *float64           `bson:"todayWeightKg,omitempty" json:"todayWeightKg,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
