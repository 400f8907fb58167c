package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExperienceLevel describes a user's self-reported fitness experience.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// PlainString maps the experience level to the plain string the plan
// generator expects, falling back to beginner for unrecognized values.
func (e ExperienceLevel) PlainString() string {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return string(e)
	default:
		return string(ExperienceBeginner)
	}
}

// User represents an account holder in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose via JSON
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Age          int                `bson:"age,omitempty" json:"age,omitempty"`

	// Height/weight are pointers: plan generation validates their presence
	// explicitly rather than treating zero as a real measurement.
	HeightCm *float64 `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg *float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`

	// CurrentWeightKg tracks the latest weight logged during a workout
	// completion; WeightKg stays as the onboarding baseline.
	CurrentWeightKg *float64 `bson:"currentWeightKg,omitempty" json:"currentWeightKg,omitempty"`

	ExperienceLevel ExperienceLevel `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}
