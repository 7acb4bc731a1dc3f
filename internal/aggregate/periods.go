// ABOUTME: Weekly and monthly rollups over a ledger snapshot
// ABOUTME: Averages divide by active days only, never by calendar days
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

// Averages are per-day means over the active days of a period
type Averages struct {
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein"`
	Carbs          float64 `json:"carbs"`
	Fat            float64 `json:"fat"`
	CaloriesBurned float64 `json:"caloriesBurned"`
	WaterMl        float64 `json:"waterMl"`
	Net            float64 `json:"net"`
}

// WeekSummary covers the Sunday-start week containing an anchor day
type WeekSummary struct {
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Days       []Totals `json:"days"`
	ActiveDays int      `json:"activeDays"`
	Average    Averages `json:"average"`
}

// WeekStart returns the Sunday on or before day
func WeekStart(day string) (string, error) {
	t, err := time.Parse(models.DayLayout, day)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ledger.ErrInvalidDay, err)
	}
	return t.AddDate(0, 0, -int(t.Weekday())).Format(models.DayLayout), nil
}

// WeeklyAverages returns the seven days of the week containing anchorDay
// with averages over the days that have at least one food or workout
func WeeklyAverages(snap ledger.Snapshot, anchorDay string) (WeekSummary, error) {
	start, err := WeekStart(anchorDay)
	if err != nil {
		return WeekSummary{}, err
	}

	index := byDay(snap)
	week := WeekSummary{Start: start, Days: make([]Totals, 0, 7)}
	for i := 0; i < 7; i++ {
		day, _ := models.ShiftDay(start, i)
		t := Totals{Day: day}
		if found, ok := index[day]; ok {
			t = *found
		}
		week.Days = append(week.Days, t)
		week.End = day
	}
	week.ActiveDays, week.Average = average(week.Days)
	return week, nil
}

func average(days []Totals) (int, Averages) {
	var (
		a      Averages
		active int
	)
	for _, d := range days {
		if !d.Active() {
			continue
		}
		active++
		a.Calories += d.Calories
		a.Protein += d.Protein
		a.Carbs += d.Carbs
		a.Fat += d.Fat
		a.CaloriesBurned += d.CaloriesBurned
		a.WaterMl += d.WaterMl
		a.Net += d.Net
	}
	if active == 0 {
		return 0, Averages{}
	}
	n := float64(active)
	a.Calories /= n
	a.Protein /= n
	a.Carbs /= n
	a.Fat /= n
	a.CaloriesBurned /= n
	a.WaterMl /= n
	a.Net /= n
	return active, a
}

// DaySet is a set of calendar days
type DaySet map[string]bool

// Has reports whether day is in the set
func (s DaySet) Has(day string) bool {
	return s[day]
}

// Days returns the members in calendar order
func (s DaySet) Days() []string {
	days := make([]string, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

func monthPrefix(month time.Month, year int) string {
	return fmt.Sprintf("%04d-%02d-", year, int(month))
}

// MonthlyCalendarIndex returns the days of the month that have any food,
// workout or weight record
func MonthlyCalendarIndex(snap ledger.Snapshot, month time.Month, year int) DaySet {
	prefix := monthPrefix(month, year)
	set := DaySet{}
	mark := func(day string) {
		if len(day) == len(models.DayLayout) && day[:len(prefix)] == prefix {
			set[day] = true
		}
	}
	for _, f := range snap.Food {
		mark(snap.DayOf(f.CreatedAt))
	}
	for _, w := range snap.Workouts {
		mark(snap.DayOf(w.CreatedAt))
	}
	for _, w := range snap.Weights {
		mark(w.Date)
	}
	return set
}

// MonthSummary rolls up the active days of one month
type MonthSummary struct {
	Month      string   `json:"month"`
	Days       []Totals `json:"days"`
	ActiveDays int      `json:"activeDays"`
	Total      Totals   `json:"total"`
	Average    Averages `json:"average"`
	Highest    *Totals  `json:"highest,omitempty"`
	Lowest     *Totals  `json:"lowest,omitempty"`
}

// MonthlyRollup totals the month and finds its highest and lowest calorie
// days among active days
func MonthlyRollup(snap ledger.Snapshot, month time.Month, year int) MonthSummary {
	prefix := monthPrefix(month, year)
	summary := MonthSummary{
		Month: prefix[:len(prefix)-1],
		Days:  []Totals{},
		Total: Totals{Day: prefix[:len(prefix)-1]},
	}

	for day, t := range byDay(snap) {
		if len(day) != len(models.DayLayout) || day[:len(prefix)] != prefix {
			continue
		}
		summary.Days = append(summary.Days, *t)
	}
	sort.Slice(summary.Days, func(i, j int) bool { return summary.Days[i].Day < summary.Days[j].Day })

	for _, d := range summary.Days {
		summary.Total.Calories += d.Calories
		summary.Total.Protein += d.Protein
		summary.Total.Carbs += d.Carbs
		summary.Total.Fat += d.Fat
		summary.Total.CaloriesBurned += d.CaloriesBurned
		summary.Total.WaterMl += d.WaterMl
		summary.Total.FoodCount += d.FoodCount
		summary.Total.WorkoutCount += d.WorkoutCount
	}
	summary.Total.Net = summary.Total.Calories - summary.Total.CaloriesBurned
	summary.ActiveDays, summary.Average = average(summary.Days)

	for i := range summary.Days {
		d := summary.Days[i]
		if d.FoodCount == 0 {
			continue
		}
		if summary.Highest == nil || d.Calories > summary.Highest.Calories {
			summary.Highest = &summary.Days[i]
		}
		if summary.Lowest == nil || d.Calories < summary.Lowest.Calories {
			summary.Lowest = &summary.Days[i]
		}
	}
	return summary
}
