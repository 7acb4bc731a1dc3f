// ABOUTME: Payload parsers turning directive text into typed updates
// ABOUTME: Unparseable numbers fall back to defaults; empty names are skipped
package directive

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/harper/fuel-ledger/internal/models"
)

// Defaults applied when a directive's number cannot be read
const (
	DefaultFoodCalories   = 100.0
	DefaultWorkoutMinutes = models.DefaultWorkoutMinutes
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// firstNumber returns the first number in s
func firstNumber(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FoodItem is one name:calories pair
type FoodItem struct {
	Name     string
	Calories float64
}

// WorkoutItem is one name:minutes pair
type WorkoutItem struct {
	Name    string
	Minutes float64
}

// splitPairs splits "a:1, b:2" into trimmed name/value pairs. Segments
// without a name are returned in skipped.
func splitPairs(payload string) (pairs [][2]string, skipped []string) {
	for _, seg := range strings.Split(payload, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		name, value, _ := strings.Cut(seg, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			skipped = append(skipped, seg)
			continue
		}
		pairs = append(pairs, [2]string{name, strings.TrimSpace(value)})
	}
	return pairs, skipped
}

// ParseFood reads "name:calories[, ...]". A missing, unreadable or
// negative calorie value becomes DefaultFoodCalories.
func ParseFood(payload string) ([]FoodItem, []string) {
	pairs, skipped := splitPairs(payload)
	items := make([]FoodItem, 0, len(pairs))
	for _, p := range pairs {
		cal, ok := firstNumber(p[1])
		if !ok || cal < 0 {
			cal = DefaultFoodCalories
		}
		items = append(items, FoodItem{Name: p[0], Calories: cal})
	}
	return items, skipped
}

// ParseWorkout reads "name:minutes[, ...]". A missing, unreadable or
// non-positive duration becomes DefaultWorkoutMinutes.
func ParseWorkout(payload string) ([]WorkoutItem, []string) {
	pairs, skipped := splitPairs(payload)
	items := make([]WorkoutItem, 0, len(pairs))
	for _, p := range pairs {
		mins, ok := firstNumber(p[1])
		if !ok || mins <= 0 {
			mins = DefaultWorkoutMinutes
		}
		items = append(items, WorkoutItem{Name: p[0], Minutes: mins})
	}
	return items, skipped
}

// ParseWeight returns the first number in payload; ok is false when there
// is none or it is not a positive weight
func ParseWeight(payload string) (kg float64, ok bool) {
	kg, ok = firstNumber(payload)
	if !ok || kg <= 0 {
		return 0, false
	}
	return kg, true
}

// profileKeys maps accepted keys, lowercased, to profile fields
var profileKeys = map[string]string{
	"goal":          models.ProfileGoal,
	"targetweight":  models.ProfileTargetWeight,
	"target_weight": models.ProfileTargetWeight,
	"activitylevel": models.ProfileActivityLevel,
	"activity":      models.ProfileActivityLevel,
}

// ParseProfile reads "key:value[, ...]" into a profile patch. Unknown keys
// are returned in skipped; values are validated when merged.
func ParseProfile(payload string) (patch map[string]interface{}, skipped []string) {
	patch = make(map[string]interface{})
	pairs, skipped := splitPairs(payload)
	for _, p := range pairs {
		key, ok := profileKeys[strings.ToLower(p[0])]
		if !ok || p[1] == "" {
			skipped = append(skipped, p[0]+":"+p[1])
			continue
		}
		if key == models.ProfileTargetWeight {
			kg, ok := firstNumber(p[1])
			if !ok {
				skipped = append(skipped, p[0]+":"+p[1])
				continue
			}
			patch[key] = kg
			continue
		}
		patch[key] = p[1]
	}
	return patch, skipped
}
