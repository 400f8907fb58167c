package generator

import (
	"fmt"
	"strings"

	"alcyxob/fitness-ai/internal/domain"
)

func limitationsText(limitations []string) string {
	if len(limitations) == 0 {
		return "None specified"
	}
	return strings.Join(limitations, ", ")
}

// remainingDays counts the days left in the week starting from currentDay,
// inclusive. A plan generated mid-week only schedules the remaining days.
func remainingDays(currentDay string) int {
	for i, day := range domain.WeekDays {
		if strings.EqualFold(currentDay, string(day)) {
			return 7 - i
		}
	}
	return 7
}

func profileSection(req PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<user_profile>\n")
	fmt.Fprintf(&b, "  <height>%.1f cm</height>\n", req.HeightCm)
	fmt.Fprintf(&b, "  <weight>%.1f kg</weight>\n", req.WeightKg)
	fmt.Fprintf(&b, "  <target_weight>%.1f kg</target_weight>\n", req.TargetWeightKg)
	fmt.Fprintf(&b, "  <age>%d years</age>\n", req.Age)
	fmt.Fprintf(&b, "  <gender>%s</gender>\n", req.Gender)
	fmt.Fprintf(&b, "  <workout_goal>%s</workout_goal>\n", req.WorkoutGoal)
	fmt.Fprintf(&b, "  <goal_timeline>%d weeks</goal_timeline>\n", req.GoalTimeline)
	fmt.Fprintf(&b, "  <workout_frequency>%d days per week</workout_frequency>\n", req.WorkoutDays)
	fmt.Fprintf(&b, "  <experience_level>%s</experience_level>\n", req.ExperienceLevel)
	fmt.Fprintf(&b, "  <available_equipment>%s</available_equipment>\n", req.Equipment)
	fmt.Fprintf(&b, "  <current_day>%s</current_day>\n", req.CurrentDay)
	fmt.Fprintf(&b, "  <remaining_days_this_week>%d</remaining_days_this_week>\n", remainingDays(req.CurrentDay))
	fmt.Fprintf(&b, "  <user_limitations>%s</user_limitations>\n", limitationsText(req.Limitations))
	fmt.Fprintf(&b, "</user_profile>\n")
	return b.String()
}

// workoutPrompt builds the plan-generation prompt. Continuation requests
// carry the previous week's summary and logged weights so the model can
// progress intensity instead of restarting.
func workoutPrompt(req PlanRequest, continuation bool) string {
	var b strings.Builder

	b.WriteString("You are a certified personal trainer (NASM-CPT) with 15 years of experience ")
	b.WriteString("in evidence-based, personalized workout programming. You prioritize safety, ")
	b.WriteString("individual limitations, progressive overload, and sustainable progress.\n\n")
	b.WriteString(profileSection(req))

	if continuation {
		b.WriteString("\nThis is a CONTINUATION plan. Last week's summary:\n")
		b.WriteString(req.PreviousSummary)
		b.WriteString("\n\nWeights logged after each completed workout last week (null = no workout logged):\n")
		for _, day := range domain.WeekDays {
			w := req.LastWeekWeights[day]
			if w != nil {
				fmt.Fprintf(&b, "- %s: %.1f kg\n", day, *w)
			} else {
				fmt.Fprintf(&b, "- %s: null\n", day)
			}
		}
		b.WriteString("\nProgress intensity by 5-10% over last week where adherence allows; regress where days were missed.\n")
	} else {
		fmt.Fprintf(&b, "\nThe user is starting mid-week on %s: schedule workouts only for the remaining %d days, ",
			req.CurrentDay, remainingDays(req.CurrentDay))
		b.WriteString("favor full-body sessions at reduced intensity for adaptation, and emphasize form over load.\n")
	}

	b.WriteString(`
Respond with a single JSON object, no surrounding text:
{
  "overview": "summary of this week's plan, max 50 words",
  "routines": [
    {"name": "...", "focus": "...", "exercises": [
      {"name": "...", "sets": 3, "reps": [10, 10, 8], "weights_used": [20.0, 20.0, 22.5]}
    ]}
  ],
  "weekly_schedule": [
    {"day_of_week": "Monday", "routine_name": "..."}
  ],
  "summary": "reference notes for generating next week's plan, max 60 words"
}
Rules:
- day_of_week values are exactly Monday through Sunday.
- Omit weekly_schedule entries (or leave routine_name empty) for rest days.
- Every routine_name in weekly_schedule must match a routine in routines.
- All exercises must use only the available equipment and must not conflict with the stated limitations.
`)
	return b.String()
}

// feasibilityPrompt asks for a verdict before the first plan is generated.
func feasibilityPrompt(req PlanRequest) string {
	var b strings.Builder
	b.WriteString("You are a certified personal trainer (NASM-CPT) with 15 years of experience ")
	b.WriteString("in evidence-based fitness assessment, goal feasibility analysis, and safety evaluation.\n\n")
	b.WriteString(profileSection(req))
	b.WriteString(`
Assess whether this goal is safely achievable within the stated timeline,
given the user's attributes and limitations. Mark NOT_FEASIBLE when the
required weekly weight change is unsafe or when limitations prevent safe
goal achievement.

Respond with a single JSON object, no surrounding text:
{
  "feasibility": "FEASIBLE" or "NOT_FEASIBLE",
  "reasoning": "explanation, 20-40 words",
  "recommendations": "specific recommendations, 20-50 words"
}
`)
	return b.String()
}

// mealPrompt builds the best-effort meal plan prompt.
func mealPrompt(req MealRequest) string {
	var b strings.Builder
	b.WriteString("You are a sports nutritionist designing a one-week meal plan supporting a training goal.\n\n")
	fmt.Fprintf(&b, "Current weight: %.1f kg. Target weight: %.1f kg. Goal: %s.\n",
		req.WeightKg, req.TargetWeightKg, req.WorkoutGoal)
	fmt.Fprintf(&b, "Dietary limitations: %s.\n", limitationsText(req.Limitations))
	if req.Preferences != "" {
		fmt.Fprintf(&b, "Preferences: %s.\n", req.Preferences)
	}
	b.WriteString(`
Respond with a single JSON object keyed by day (Monday through Sunday),
each day holding breakfast, lunch, dinner and snacks with approximate
calories. No surrounding text.
`)
	return b.String()
}
