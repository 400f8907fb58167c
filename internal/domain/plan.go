package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a 7-day (Monday–Sunday) container of routines and a day-by-day
// schedule for one user. For a given user, at most one active plan may cover
// any date: creating a new plan deactivates prior overlapping active plans.
// Superseded plans are deactivated, never deleted.
type Plan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	GeneratedByAI bool               `bson:"generatedByAi" json:"generatedByAi"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"` // Monday, UTC midnight
	EndDate       time.Time          `bson:"endDate" json:"endDate"`     // Sunday, UTC midnight, inclusive
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Version       int                `bson:"version" json:"version"`
	Overview      string             `bson:"overview" json:"overview"`
	MealJSON      *string            `bson:"mealJson,omitempty" json:"mealJson,omitempty"`
	WeeklySummary *string            `bson:"weeklySummary,omitempty" json:"weeklySummary,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Covers reports whether date falls within the plan's inclusive range.
func (p *Plan) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Routine is a named, focus-tagged set of exercises owned by exactly one
// plan. Created alongside the plan during generation; immutable afterwards
// except via full plan regeneration. The full generated routine object
// (name, focus, exercises) is kept serialized in ContentJSON.
type Routine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID      primitive.ObjectID `bson:"planId" json:"planId"`
	Name        string             `bson:"name" json:"name"` // Unique within the plan
	Focus       string             `bson:"focus,omitempty" json:"focus,omitempty"`
	ContentJSON string             `bson:"contentJson,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
