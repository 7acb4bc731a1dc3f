// ABOUTME: System prompt construction for the coach
// ABOUTME: Combines the profile, today's totals and the directive grammar
package coach

import (
	"fmt"
	"strings"

	"github.com/harper/fuel-ledger/internal/aggregate"
	"github.com/harper/fuel-ledger/internal/models"
)

const grammar = `When the user reports something they ate, a workout, their weight or a change of goal,
record it by adding a line in exactly this form (one per line, keyword in capitals):
FOOD_UPDATE: name:calories, name2:calories2
WORKOUT_UPDATE: name:minutes
WEIGHT_UPDATE: kilograms
PROFILE_UPDATE: goal:gain|loss|maintain, targetWeight:kilograms, activityLevel:sedentary|light|moderate|very|extra
Estimate calories when the user does not give them. These lines are hidden from the user.`

// BuildSystemPrompt describes the user and today's progress to the model
func BuildSystemPrompt(profile *models.Profile, today aggregate.Totals, target *aggregate.Target) string {
	var b strings.Builder
	b.WriteString("You are Fuel, a friendly and concise nutrition and fitness coach.\n\n")

	if profile != nil {
		b.WriteString("User profile:\n")
		if profile.Name != "" {
			fmt.Fprintf(&b, "- name: %s\n", profile.Name)
		}
		if profile.Age > 0 {
			fmt.Fprintf(&b, "- age: %d\n", profile.Age)
		}
		if profile.Gender != "" {
			fmt.Fprintf(&b, "- gender: %s\n", profile.Gender)
		}
		if profile.Height > 0 {
			fmt.Fprintf(&b, "- height: %.0f cm\n", profile.Height)
		}
		if profile.Weight > 0 {
			fmt.Fprintf(&b, "- weight: %.1f kg\n", profile.Weight)
		}
		if profile.Goal != "" {
			fmt.Fprintf(&b, "- goal: %s\n", profile.Goal)
		}
		if profile.TargetWeight > 0 {
			fmt.Fprintf(&b, "- target weight: %.1f kg\n", profile.TargetWeight)
		}
		if profile.ActivityLevel != "" {
			fmt.Fprintf(&b, "- activity level: %s\n", profile.ActivityLevel)
		}
		if profile.DietPreference != "" {
			fmt.Fprintf(&b, "- diet: %s\n", profile.DietPreference)
		}
		if profile.WorkoutLocation != "" {
			fmt.Fprintf(&b, "- trains at: %s\n", profile.WorkoutLocation)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Today (%s): %.0f kcal eaten, %.0f kcal burned, %.0f ml water, protein %.0f g, carbs %.0f g, fat %.0f g.\n",
		today.Day, today.Calories, today.CaloriesBurned, today.WaterMl, today.Protein, today.Carbs, today.Fat)
	if target != nil {
		fmt.Fprintf(&b, "Daily calorie target: %.0f kcal.\n", target.Calories)
	}
	b.WriteString("\n")
	b.WriteString(grammar)
	return b.String()
}
