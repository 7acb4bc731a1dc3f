// ABOUTME: Profile is the singleton record describing the user and their goals
// ABOUTME: Partial updates merge into the existing profile, unknown values are ignored
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Goal is the user's weight goal
type Goal string

const (
	GoalGain     Goal = "gain"
	GoalLoss     Goal = "loss"
	GoalMaintain Goal = "maintain"
)

// Valid reports whether g is a known goal
func (g Goal) Valid() bool {
	return g == GoalGain || g == GoalLoss || g == GoalMaintain
}

// ActivityLevel describes how active the user is day to day
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very"
	ActivityExtra     ActivityLevel = "extra"
)

var activityFactors = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityVery:      1.725,
	ActivityExtra:     1.9,
}

// Valid reports whether a is a known activity level
func (a ActivityLevel) Valid() bool {
	_, ok := activityFactors[a]
	return ok
}

// Factor is the TDEE multiplier for a (sedentary when unknown)
func (a ActivityLevel) Factor() float64 {
	if f, ok := activityFactors[a]; ok {
		return f
	}
	return activityFactors[ActivitySedentary]
}

// DietPreference is the user's diet style
type DietPreference string

const (
	DietVegetarian    DietPreference = "vegetarian"
	DietNonVegetarian DietPreference = "non-vegetarian"
	DietMixed         DietPreference = "mixed"
)

// Valid reports whether d is a known diet preference
func (d DietPreference) Valid() bool {
	return d == DietVegetarian || d == DietNonVegetarian || d == DietMixed
}

// WorkoutLocation is where the user usually trains
type WorkoutLocation string

const (
	LocationGym     WorkoutLocation = "gym"
	LocationHome    WorkoutLocation = "home"
	LocationOutdoor WorkoutLocation = "outdoor"
)

// Valid reports whether l is a known workout location
func (l WorkoutLocation) Valid() bool {
	return l == LocationGym || l == LocationHome || l == LocationOutdoor
}

// Profile keys accepted by Merge
const (
	ProfileName            = "name"
	ProfileAge             = "age"
	ProfileGender          = "gender"
	ProfileHeight          = "height"
	ProfileWeight          = "weight"
	ProfileGoal            = "goal"
	ProfileTargetWeight    = "targetWeight"
	ProfileActivityLevel   = "activityLevel"
	ProfileDietPreference  = "dietPreference"
	ProfileWorkoutLocation = "workoutLocation"
)

// Profile is the user profile collected at onboarding. Height is in
// centimetres, weights in kilograms.
type Profile struct {
	Name            string          `json:"name"`
	Age             int             `json:"age"`
	Gender          string          `json:"gender"`
	Height          float64         `json:"height"`
	Weight          float64         `json:"weight"`
	Goal            Goal            `json:"goal"`
	TargetWeight    float64         `json:"targetWeight"`
	ActivityLevel   ActivityLevel   `json:"activityLevel"`
	DietPreference  DietPreference  `json:"dietPreference"`
	WorkoutLocation WorkoutLocation `json:"workoutLocation"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Merge applies recognized keys from updates onto the profile and returns
// the keys that were applied. Values may be strings or numbers; invalid
// values and unknown keys are skipped.
func (p *Profile) Merge(updates map[string]interface{}) []string {
	var applied []string
	for key, raw := range updates {
		if p.mergeOne(key, raw) {
			applied = append(applied, key)
		}
	}
	if len(applied) > 0 {
		p.UpdatedAt = time.Now()
	}
	return applied
}

func (p *Profile) mergeOne(key string, raw interface{}) bool {
	switch key {
	case ProfileName:
		if s, ok := stringValue(raw); ok && s != "" {
			p.Name = s
			return true
		}
	case ProfileGender:
		if s, ok := stringValue(raw); ok && s != "" {
			p.Gender = strings.ToLower(s)
			return true
		}
	case ProfileAge:
		if n, ok := numberValue(raw); ok && n > 0 && n < 150 {
			p.Age = int(n)
			return true
		}
	case ProfileHeight:
		if n, ok := numberValue(raw); ok && n > 0 {
			p.Height = n
			return true
		}
	case ProfileWeight:
		if n, ok := numberValue(raw); ok && n > 0 {
			p.Weight = n
			return true
		}
	case ProfileTargetWeight:
		if n, ok := numberValue(raw); ok && n > 0 {
			p.TargetWeight = n
			return true
		}
	case ProfileGoal:
		if s, ok := stringValue(raw); ok && Goal(strings.ToLower(s)).Valid() {
			p.Goal = Goal(strings.ToLower(s))
			return true
		}
	case ProfileActivityLevel:
		if s, ok := stringValue(raw); ok && ActivityLevel(strings.ToLower(s)).Valid() {
			p.ActivityLevel = ActivityLevel(strings.ToLower(s))
			return true
		}
	case ProfileDietPreference:
		if s, ok := stringValue(raw); ok && DietPreference(strings.ToLower(s)).Valid() {
			p.DietPreference = DietPreference(strings.ToLower(s))
			return true
		}
	case ProfileWorkoutLocation:
		if s, ok := stringValue(raw); ok && WorkoutLocation(strings.ToLower(s)).Valid() {
			p.WorkoutLocation = WorkoutLocation(strings.ToLower(s))
			return true
		}
	}
	return false
}

func stringValue(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), true
	}
	return "", false
}

func numberValue(raw interface{}) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if !finite(n) {
		return 0, false
	}
	return n, true
}
