// ABOUTME: Weight trend and calorie target calculations
// ABOUTME: Targets use Mifflin-St Jeor BMR scaled by activity and shifted by goal
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

// Trend is the weight series between two days, inclusive
type Trend struct {
	From   string               `json:"from"`
	To     string               `json:"to"`
	Points []models.WeightEntry `json:"points"`
	Start  float64              `json:"start"`
	End    float64              `json:"end"`
	Change float64              `json:"change"`
}

// WeightTrend returns the weights recorded from..to ordered by day
func WeightTrend(snap ledger.Snapshot, from, to string) (Trend, error) {
	if _, err := WeekStart(from); err != nil {
		return Trend{}, err
	}
	if _, err := WeekStart(to); err != nil {
		return Trend{}, err
	}
	if from > to {
		from, to = to, from
	}

	trend := Trend{From: from, To: to, Points: []models.WeightEntry{}}
	for _, w := range snap.Weights {
		if w.Date >= from && w.Date <= to {
			trend.Points = append(trend.Points, w)
		}
	}
	sort.SliceStable(trend.Points, func(i, j int) bool { return trend.Points[i].Date < trend.Points[j].Date })

	if n := len(trend.Points); n > 0 {
		trend.Start = trend.Points[0].Weight
		trend.End = trend.Points[n-1].Weight
		trend.Change = math.Round((trend.End-trend.Start)*10) / 10
	}
	return trend, nil
}

// Goal adjustments in kcal per day
const (
	LossAdjustment = -500.0
	GainAdjustment = 300.0
	MinimumTarget  = 1200.0
)

// Target is the recommended daily intake for a profile
type Target struct {
	BMR      float64 `json:"bmr"`
	TDEE     float64 `json:"tdee"`
	Calories float64 `json:"calories"`
}

// CalorieTarget computes the daily calorie target for p. ok is false when
// the profile lacks age, height or weight.
func CalorieTarget(p *models.Profile) (Target, bool) {
	if p == nil || p.Age <= 0 || p.Height <= 0 || p.Weight <= 0 {
		return Target{}, false
	}

	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	switch strings.ToLower(p.Gender) {
	case "male", "m", "man":
		bmr += 5
	case "female", "f", "woman":
		bmr -= 161
	default:
		bmr -= 78
	}

	tdee := bmr * p.ActivityLevel.Factor()
	calories := tdee
	switch p.Goal {
	case models.GoalLoss:
		calories += LossAdjustment
	case models.GoalGain:
		calories += GainAdjustment
	}
	if calories < MinimumTarget {
		calories = MinimumTarget
	}

	return Target{
		BMR:      math.Round(bmr),
		TDEE:     math.Round(tdee),
		Calories: math.Round(calories),
	}, true
}
