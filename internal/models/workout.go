// ABOUTME: WorkoutEntry records exercise sessions and calories burned
// ABOUTME: Burned calories derive from duration and a per-type rate when absent
package models

import (
	"math"
	"strings"
	"time"
)

// WorkoutType categorizes a workout
type WorkoutType string

const (
	WorkoutCardio   WorkoutType = "cardio"
	WorkoutStrength WorkoutType = "strength"
	WorkoutYoga     WorkoutType = "yoga"
	WorkoutSports   WorkoutType = "sports"
	WorkoutWalking  WorkoutType = "walking"
	WorkoutCycling  WorkoutType = "cycling"
	WorkoutSwimming WorkoutType = "swimming"
	WorkoutDancing  WorkoutType = "dancing"
)

// DefaultWorkoutMinutes is used when a duration is missing or unparseable
const DefaultWorkoutMinutes = 30.0

// caloriesPerMinute is the burn rate per workout type
var caloriesPerMinute = map[WorkoutType]float64{
	WorkoutCardio:   10,
	WorkoutStrength: 8,
	WorkoutYoga:     4,
	WorkoutSports:   9,
	WorkoutWalking:  5,
	WorkoutCycling:  8,
	WorkoutSwimming: 10,
	WorkoutDancing:  7,
}

// WorkoutTypes lists every accepted workout type
var WorkoutTypes = []WorkoutType{
	WorkoutCardio, WorkoutStrength, WorkoutYoga, WorkoutSports,
	WorkoutWalking, WorkoutCycling, WorkoutSwimming, WorkoutDancing,
}

// Valid reports whether w is a known workout type
func (w WorkoutType) Valid() bool {
	_, ok := caloriesPerMinute[w]
	return ok
}

// CaloriesPerMinute returns the burn rate for w (cardio rate for unknown types)
func (w WorkoutType) CaloriesPerMinute() float64 {
	if rate, ok := caloriesPerMinute[w]; ok {
		return rate
	}
	return caloriesPerMinute[WorkoutCardio]
}

// workoutKeywords maps name fragments to types, checked in order
var workoutKeywords = []struct {
	fragment string
	kind     WorkoutType
}{
	{"yoga", WorkoutYoga},
	{"pilates", WorkoutYoga},
	{"stretch", WorkoutYoga},
	{"swim", WorkoutSwimming},
	{"cycl", WorkoutCycling},
	{"bike", WorkoutCycling},
	{"biking", WorkoutCycling},
	{"spin", WorkoutCycling},
	{"walk", WorkoutWalking},
	{"hike", WorkoutWalking},
	{"danc", WorkoutDancing},
	{"zumba", WorkoutDancing},
	{"lift", WorkoutStrength},
	{"weight", WorkoutStrength},
	{"strength", WorkoutStrength},
	{"squat", WorkoutStrength},
	{"push", WorkoutStrength},
	{"gym", WorkoutStrength},
	{"football", WorkoutSports},
	{"soccer", WorkoutSports},
	{"tennis", WorkoutSports},
	{"basketball", WorkoutSports},
	{"cricket", WorkoutSports},
	{"badminton", WorkoutSports},
}

// InferWorkoutType guesses a type from a free-form workout name
func InferWorkoutType(name string) WorkoutType {
	lower := strings.ToLower(name)
	for _, kw := range workoutKeywords {
		if strings.Contains(lower, kw.fragment) {
			return kw.kind
		}
	}
	return WorkoutCardio
}

// EstimateBurn returns calories burned for minutes of a workout type
func EstimateBurn(kind WorkoutType, minutes float64) float64 {
	return math.Round(minutes * kind.CaloriesPerMinute())
}

// WorkoutEntry is one logged workout
type WorkoutEntry struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Duration       float64     `json:"duration"`
	CaloriesBurned *float64    `json:"caloriesBurned"`
	Type           WorkoutType `json:"type"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Normalize coerces invalid fields: duration to DefaultWorkoutMinutes, type
// to one inferred from the name, and a missing or invalid burn to the
// estimated one. A recorded burn of zero is kept.
func (w *WorkoutEntry) Normalize(now time.Time) {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		w.Name = "Workout"
	}
	w.Duration = Positive(w.Duration, DefaultWorkoutMinutes)
	if !w.Type.Valid() {
		w.Type = InferWorkoutType(w.Name)
	}
	w.CaloriesBurned = optionalNonNegative(w.CaloriesBurned)
	if w.CaloriesBurned == nil {
		w.CaloriesBurned = Float(EstimateBurn(w.Type, w.Duration))
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
}

// Burned returns the calories burned, zero when not yet estimated
func (w WorkoutEntry) Burned() float64 {
	if w.CaloriesBurned == nil {
		return 0
	}
	return *w.CaloriesBurned
}

// Timestamp returns the time used for day bucketing
func (w WorkoutEntry) Timestamp() time.Time { return w.CreatedAt }

// Identity returns the record id
func (w WorkoutEntry) Identity() string { return w.ID }
