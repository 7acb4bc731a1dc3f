// ABOUTME: Applies directives found in generated text to the ledger
// ABOUTME: Malformed directives are skipped and every directive is stripped from the display text
package directive

import (
	"context"
	"fmt"

	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/harper/fuel-ledger/internal/models"
)

// Store is the part of the ledger the protocol writes through
type Store interface {
	AddFood(models.FoodEntry) (models.FoodEntry, error)
	AddWorkout(models.WorkoutEntry) (models.WorkoutEntry, error)
	UpsertWeight(day string, kg float64) (*models.WeightEntry, error)
	UpdateProfile(patch map[string]interface{}) (models.Profile, []string, error)
	Today() string
}

// Mutation is one ledger change made by a directive
type Mutation struct {
	Keyword Keyword `json:"keyword"`
	ID      string  `json:"id,omitempty"`
	Summary string  `json:"summary"`
}

// Skip records a directive or segment that changed nothing
type Skip struct {
	Keyword Keyword `json:"keyword"`
	Segment string  `json:"segment"`
	Reason  string  `json:"reason"`
}

// Result is the outcome of applying a piece of text
type Result struct {
	Text    string     `json:"text"`
	Applied []Mutation `json:"applied"`
	Skipped []Skip     `json:"skipped"`
}

// Changed reports whether any mutation was made
func (r Result) Changed() bool {
	return len(r.Applied) > 0
}

// Applier runs the directive protocol against a Store
type Applier struct {
	store Store
	log   *logger.Logger
}

// NewApplier creates an applier. log may be nil.
func NewApplier(store Store, log *logger.Logger) *Applier {
	if log == nil {
		log = logger.Nop()
	}
	return &Applier{store: store, log: log.With("component", "directive")}
}

// Apply is shorthand for NewApplier(store, nil).Apply
func Apply(ctx context.Context, store Store, text string) Result {
	return NewApplier(store, nil).Apply(ctx, text)
}

// Apply performs every directive in text and returns the text with the
// directives removed. It never fails; problems are reported in Skipped.
func (a *Applier) Apply(ctx context.Context, text string) Result {
	directives := Tokenize(text)
	res := Result{
		Text:    Strip(text, directives),
		Applied: []Mutation{},
		Skipped: []Skip{},
	}

	for _, d := range directives {
		if err := ctx.Err(); err != nil {
			res.Skipped = append(res.Skipped, Skip{Keyword: d.Keyword, Segment: d.Payload, Reason: err.Error()})
			continue
		}
		switch d.Keyword {
		case FoodUpdate:
			a.applyFood(d, &res)
		case WorkoutUpdate:
			a.applyWorkout(d, &res)
		case WeightUpdate:
			a.applyWeight(d, &res)
		case ProfileUpdate:
			a.applyProfile(d, &res)
		}
	}

	if len(res.Applied) > 0 || len(res.Skipped) > 0 {
		a.log.Debug("directives applied", "applied", len(res.Applied), "skipped", len(res.Skipped))
	}
	return res
}

func (a *Applier) skip(res *Result, kw Keyword, segment, reason string) {
	res.Skipped = append(res.Skipped, Skip{Keyword: kw, Segment: segment, Reason: reason})
}

func (a *Applier) writeFailed(res *Result, kw Keyword, segment string, err error) {
	a.log.Warn("directive write failed", "keyword", kw, "segment", segment, "error", err)
	a.skip(res, kw, segment, err.Error())
}

func (a *Applier) applyFood(d Directive, res *Result) {
	items, bad := ParseFood(d.Payload)
	for _, seg := range bad {
		a.skip(res, d.Keyword, seg, "missing name")
	}
	if len(items) == 0 && len(bad) == 0 {
		a.skip(res, d.Keyword, d.Payload, "no items")
	}
	for _, item := range items {
		entry, err := a.store.AddFood(models.FoodEntry{
			Name:     item.Name,
			Quantity: models.DefaultFoodQuantity,
			Unit:     models.DefaultFoodUnit,
			Calories: item.Calories,
		})
		if err != nil {
			a.writeFailed(res, d.Keyword, item.Name, err)
			continue
		}
		res.Applied = append(res.Applied, Mutation{
			Keyword: d.Keyword,
			ID:      entry.ID,
			Summary: fmt.Sprintf("%s (%.0f kcal)", entry.Name, entry.Calories),
		})
	}
}

func (a *Applier) applyWorkout(d Directive, res *Result) {
	items, bad := ParseWorkout(d.Payload)
	for _, seg := range bad {
		a.skip(res, d.Keyword, seg, "missing name")
	}
	if len(items) == 0 && len(bad) == 0 {
		a.skip(res, d.Keyword, d.Payload, "no items")
	}
	for _, item := range items {
		entry, err := a.store.AddWorkout(models.WorkoutEntry{
			Name:     item.Name,
			Duration: item.Minutes,
		})
		if err != nil {
			a.writeFailed(res, d.Keyword, item.Name, err)
			continue
		}
		res.Applied = append(res.Applied, Mutation{
			Keyword: d.Keyword,
			ID:      entry.ID,
			Summary: fmt.Sprintf("%s (%.0f min, %.0f kcal)", entry.Name, entry.Duration, entry.Burned()),
		})
	}
}

func (a *Applier) applyWeight(d Directive, res *Result) {
	kg, ok := ParseWeight(d.Payload)
	if !ok {
		a.skip(res, d.Keyword, d.Payload, "no weight")
		return
	}
	day := a.store.Today()
	entry, err := a.store.UpsertWeight(day, kg)
	if err != nil {
		a.writeFailed(res, d.Keyword, d.Payload, err)
		return
	}
	if entry == nil {
		a.skip(res, d.Keyword, d.Payload, "no weight")
		return
	}
	res.Applied = append(res.Applied, Mutation{
		Keyword: d.Keyword,
		ID:      entry.Date,
		Summary: fmt.Sprintf("%.1f kg on %s", entry.Weight, entry.Date),
	})
}

func (a *Applier) applyProfile(d Directive, res *Result) {
	patch, bad := ParseProfile(d.Payload)
	for _, seg := range bad {
		a.skip(res, d.Keyword, seg, "unknown key")
	}
	if len(patch) == 0 {
		if len(bad) == 0 {
			a.skip(res, d.Keyword, d.Payload, "no fields")
		}
		return
	}
	_, applied, err := a.store.UpdateProfile(patch)
	if err != nil {
		a.writeFailed(res, d.Keyword, d.Payload, err)
		return
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, k := range applied {
		appliedSet[k] = true
		res.Applied = append(res.Applied, Mutation{
			Keyword: d.Keyword,
			ID:      k,
			Summary: fmt.Sprintf("%s = %v", k, patch[k]),
		})
	}
	for k, v := range patch {
		if !appliedSet[k] {
			a.skip(res, d.Keyword, fmt.Sprintf("%s:%v", k, v), "invalid value")
		}
	}
}
