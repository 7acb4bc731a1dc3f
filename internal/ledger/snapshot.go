// ABOUTME: Point-in-time copy of every record bucket for aggregation
// ABOUTME: Aggregations run over a Snapshot so one report sees one read of each bucket
package ledger

import (
	"time"

	"github.com/harper/fuel-ledger/internal/models"
)

// Snapshot holds the record buckets read at one moment
type Snapshot struct {
	Food     []models.FoodEntry
	Workouts []models.WorkoutEntry
	Water    []models.WaterEntry
	Weights  []models.WeightEntry
	Profile  *models.Profile
	Location *time.Location
	TakenAt  time.Time
}

// Snapshot reads every record bucket
func (l *Ledger) Snapshot() Snapshot {
	profile, _ := l.Profile()
	return Snapshot{
		Food:     l.Food(),
		Workouts: l.Workouts(),
		Water:    l.Water(),
		Weights:  l.Weights(),
		Profile:  profile,
		Location: l.loc,
		TakenAt:  l.now(),
	}
}

// DayOf returns the calendar day of t in the snapshot's zone
func (s Snapshot) DayOf(t time.Time) string {
	return models.DayOf(t, s.Location)
}
