package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalType describes the primary training objective of a goal.
type GoalType string

const (
	GoalWeightLoss             GoalType = "weight_loss"
	GoalWeightGain             GoalType = "weight_gain"
	GoalMuscleGain             GoalType = "muscle_gain"
	GoalWeightLossWithMuscle   GoalType = "weight_loss_with_muscle_gain"
)

// PlainString maps the goal type to the plain string the plan generator
// expects, falling back to muscle_gain for unrecognized values.
func (g GoalType) PlainString() string {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalMuscleGain, GoalWeightLossWithMuscle:
		return string(g)
	default:
		return string(GoalMuscleGain)
	}
}

// WorkoutEquipment describes what equipment a user can train with.
type WorkoutEquipment string

const (
	EquipmentNone      WorkoutEquipment = "NoEquipment"
	EquipmentDumbbells WorkoutEquipment = "DumbbellsOnly"
	EquipmentFullGym   WorkoutEquipment = "FullGymEquipment"
)

// PlainString maps the equipment enum to the plain string the plan
// generator expects, falling back to gym for unrecognized values.
func (w WorkoutEquipment) PlainString() string {
	switch w {
	case EquipmentNone:
		return "home_bodyweight"
	case EquipmentDumbbells:
		return "home_dumbbells"
	case EquipmentFullGym:
		return "gym"
	default:
		return "gym"
	}
}

// Goal is a user's training goal. At most one goal per user is active at a
// time; setting a new goal soft-deactivates the prior one (never deletes).
type Goal struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID `bson:"userId" json:"userId"`
	GoalType            GoalType           `bson:"goalType" json:"goalType"`
	WorkoutDaysPerWeek  int                `bson:"workoutDaysPerWeek,omitempty" json:"workoutDaysPerWeek,omitempty"`
	TargetWeightKg      *float64           `bson:"targetWeightKg,omitempty" json:"targetWeightKg,omitempty"`
	InitialWeightKg     *float64           `bson:"initialWeightKg,omitempty" json:"initialWeightKg,omitempty"`
	TargetDurationWeeks int                `bson:"targetDurationWeeks,omitempty" json:"targetDurationWeeks,omitempty"`
	Equipment           WorkoutEquipment   `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Remarks             string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Active              bool               `bson:"active" json:"active"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
