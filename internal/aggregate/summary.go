// ABOUTME: Day summary combining totals, macro split and the calorie target
// ABOUTME: Shared by every surface that reports on a single day
package aggregate

import (
	"github.com/harper/fuel-ledger/internal/ledger"
)

// DaySummary is what a surface shows for one day
type DaySummary struct {
	Totals    Totals    `json:"totals"`
	Breakdown Breakdown `json:"breakdown"`
	Target    *Target   `json:"target,omitempty"`
	Remaining *float64  `json:"remaining,omitempty"`
}

// SummarizeDay builds the summary for day. Target and Remaining are set
// only when the profile is complete enough to compute a target.
func SummarizeDay(snap ledger.Snapshot, day string) DaySummary {
	totals := DailyTotals(snap, day)
	s := DaySummary{
		Totals:    totals,
		Breakdown: BreakdownOf(totals),
	}
	if t, ok := CalorieTarget(snap.Profile); ok {
		remaining := t.Calories - totals.Net
		s.Target = &t
		s.Remaining = &remaining
	}
	return s
}
