// ABOUTME: Daily totals and macro breakdown over a ledger snapshot
// ABOUTME: Pure functions; missing macros are imputed from calories
package aggregate

import (
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

// Totals sums one day of records
type Totals struct {
	Day            string  `json:"day"`
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein"`
	Carbs          float64 `json:"carbs"`
	Fat            float64 `json:"fat"`
	CaloriesBurned float64 `json:"caloriesBurned"`
	WaterMl        float64 `json:"waterMl"`
	Net            float64 `json:"net"`
	FoodCount      int     `json:"foodCount"`
	WorkoutCount   int     `json:"workoutCount"`
}

// Active reports whether the day has any food or workout records
func (t Totals) Active() bool {
	return t.FoodCount > 0 || t.WorkoutCount > 0
}

func (t *Totals) addFood(f models.FoodEntry) {
	p, c, fat := f.Macros()
	t.Calories += f.Calories
	t.Protein += p
	t.Carbs += c
	t.Fat += fat
	t.FoodCount++
	t.Net = t.Calories - t.CaloriesBurned
}

func (t *Totals) addWorkout(w models.WorkoutEntry) {
	t.CaloriesBurned += w.Burned()
	t.WorkoutCount++
	t.Net = t.Calories - t.CaloriesBurned
}

// byDay indexes every record in snap by its calendar day
func byDay(snap ledger.Snapshot) map[string]*Totals {
	days := make(map[string]*Totals)
	get := func(day string) *Totals {
		t, ok := days[day]
		if !ok {
			t = &Totals{Day: day}
			days[day] = t
		}
		return t
	}
	for _, f := range snap.Food {
		get(snap.DayOf(f.CreatedAt)).addFood(f)
	}
	for _, w := range snap.Workouts {
		get(snap.DayOf(w.CreatedAt)).addWorkout(w)
	}
	for _, w := range snap.Water {
		get(snap.DayOf(w.CreatedAt)).WaterMl += w.Amount
	}
	return days
}

// DailyTotals sums the records created on day. Net is calories eaten minus
// calories burned.
func DailyTotals(snap ledger.Snapshot, day string) Totals {
	t := Totals{Day: day}
	for _, f := range snap.Food {
		if snap.DayOf(f.CreatedAt) == day {
			t.addFood(f)
		}
	}
	for _, w := range snap.Workouts {
		if snap.DayOf(w.CreatedAt) == day {
			t.addWorkout(w)
		}
	}
	for _, w := range snap.Water {
		if snap.DayOf(w.CreatedAt) == day {
			t.WaterMl += w.Amount
		}
	}
	return t
}

// Breakdown is the share of each macro in percent of total macro grams
type Breakdown struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// DefaultBreakdown is reported for a day without any macros
var DefaultBreakdown = Breakdown{Protein: 25, Carbs: 50, Fat: 25}

// NutritionBreakdown returns the macro split for day. The three values
// sum to 100; a day with no macros reports DefaultBreakdown.
func NutritionBreakdown(snap ledger.Snapshot, day string) Breakdown {
	return BreakdownOf(DailyTotals(snap, day))
}

// BreakdownOf returns the macro split of already computed totals
func BreakdownOf(t Totals) Breakdown {
	sum := t.Protein + t.Carbs + t.Fat
	if !(sum > 0) {
		return DefaultBreakdown
	}
	return Breakdown{
		Protein: t.Protein / sum * 100,
		Carbs:   t.Carbs / sum * 100,
		Fat:     t.Fat / sum * 100,
	}
}
