// ABOUTME: Ledger store: typed append, list, remove and reset over the persistence adapter
// ABOUTME: Every read re-scans its bucket; mutations announce themselves to other surfaces
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/harper/fuel-ledger/internal/bus"
	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/harper/fuel-ledger/internal/models"
	"github.com/harper/fuel-ledger/internal/storage"
)

// Ledger is the local nutrition ledger. Mutations are serialized within one
// Ledger value; writers in other processes are not coordinated and the last
// write of a bucket wins.
type Ledger struct {
	store   *storage.Adapter
	surface *bus.Surface
	now     func() time.Time
	loc     *time.Location
	log     *logger.Logger

	mu sync.Mutex
}

// Option configures a Ledger
type Option func(*Ledger)

// WithSurface publishes every committed write through s
func WithSurface(s *bus.Surface) Option {
	return func(l *Ledger) { l.surface = s }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the zone used for day bucketing
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New creates a ledger over backend
func New(backend storage.Backend, opts ...Option) *Ledger {
	l := &Ledger{
		now: time.Now,
		loc: time.Local,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.loc == nil {
		l.loc = time.Local
	}
	l.log = l.log.With("component", "ledger")
	l.store = storage.NewAdapter(backend, l.log)
	if l.surface != nil {
		l.store.SetNotifier(l.surface)
	}
	return l
}

// Close closes the backend
func (l *Ledger) Close() error {
	return l.store.Close()
}

// Store returns the persistence adapter
func (l *Ledger) Store() *storage.Adapter {
	return l.store
}

// Surface returns the surface this ledger publishes through, or nil
func (l *Ledger) Surface() *bus.Surface {
	return l.surface
}

// Location returns the zone used for day bucketing
func (l *Ledger) Location() *time.Location {
	return l.loc
}

// Now returns the ledger clock's current time
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Today returns the current calendar day
func (l *Ledger) Today() string {
	return models.DayOf(l.now(), l.loc)
}

// DayOf returns the calendar day of t in the ledger's zone
func (l *Ledger) DayOf(t time.Time) string {
	return models.DayOf(t, l.loc)
}

func (l *Ledger) checkDay(day string) error {
	if _, err := models.ParseDay(day, l.loc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	return nil
}

// timestamped records are bucketed by the day of their timestamp
type timestamped interface {
	Timestamp() time.Time
}

// identified records can be removed by identity
type identified interface {
	Identity() string
}

func appendRecord[T any](l *Ledger, bucket string, item T) error {
	items, err := storage.LoadBucket[T](l.store, bucket)
	if err != nil {
		return err
	}
	items = append(items, item)
	return storage.WriteBucket(l.store, bucket, items)
}

func forDay[T timestamped](l *Ledger, items []T, day string) []T {
	out := []T{}
	for _, item := range items {
		if models.DayOf(item.Timestamp(), l.loc) == day {
			out = append(out, item)
		}
	}
	return out
}

func removeRecord[T identified](l *Ledger, bucket, id string) (bool, error) {
	items, err := storage.LoadBucket[T](l.store, bucket)
	if err != nil {
		return false, err
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if item.Identity() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := storage.WriteBucket(l.store, bucket, kept); err != nil {
		return false, err
	}
	return true, nil
}

// AddFood normalizes f, assigns an id and appends it
func (l *Ledger) AddFood(f models.FoodEntry) (models.FoodEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	f.Normalize(now, l.loc)
	f.ID = models.NewID(now)
	if err := appendRecord(l, BucketFood, f); err != nil {
		return models.FoodEntry{}, fmt.Errorf("failed to add food: %w", err)
	}
	l.log.Debug("food added", "id", f.ID, "name", f.Name, "calories", f.Calories)
	return f, nil
}

// AddWorkout normalizes w, assigns an id and appends it
func (l *Ledger) AddWorkout(w models.WorkoutEntry) (models.WorkoutEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w.Normalize(now)
	w.ID = models.NewID(now)
	if err := appendRecord(l, BucketWorkouts, w); err != nil {
		return models.WorkoutEntry{}, fmt.Errorf("failed to add workout: %w", err)
	}
	l.log.Debug("workout added", "id", w.ID, "name", w.Name, "burned", w.Burned())
	return w, nil
}

// AddWater normalizes w, assigns an id and appends it
func (l *Ledger) AddWater(w models.WaterEntry) (models.WaterEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w.Normalize(now)
	w.ID = models.NewID(now)
	if err := appendRecord(l, BucketWater, w); err != nil {
		return models.WaterEntry{}, fmt.Errorf("failed to add water: %w", err)
	}
	l.log.Debug("water added", "id", w.ID, "amount", w.Amount)
	return w, nil
}

// Food returns every food entry in insertion order
func (l *Ledger) Food() []models.FoodEntry {
	return storage.ReadBucket[models.FoodEntry](l.store, BucketFood)
}

// Workouts returns every workout in insertion order
func (l *Ledger) Workouts() []models.WorkoutEntry {
	return storage.ReadBucket[models.WorkoutEntry](l.store, BucketWorkouts)
}

// Water returns every water entry in insertion order
func (l *Ledger) Water() []models.WaterEntry {
	return storage.ReadBucket[models.WaterEntry](l.store, BucketWater)
}

// Weights returns every weight entry in insertion order
func (l *Ledger) Weights() []models.WeightEntry {
	return storage.ReadBucket[models.WeightEntry](l.store, BucketWeight)
}

// FoodForDay returns the food entries created on day
func (l *Ledger) FoodForDay(day string) ([]models.FoodEntry, error) {
	if err := l.checkDay(day); err != nil {
		return nil, err
	}
	return forDay(l, l.Food(), day), nil
}

// WorkoutsForDay returns the workouts created on day
func (l *Ledger) WorkoutsForDay(day string) ([]models.WorkoutEntry, error) {
	if err := l.checkDay(day); err != nil {
		return nil, err
	}
	return forDay(l, l.Workouts(), day), nil
}

// WaterForDay returns the water entries created on day
func (l *Ledger) WaterForDay(day string) ([]models.WaterEntry, error) {
	if err := l.checkDay(day); err != nil {
		return nil, err
	}
	return forDay(l, l.Water(), day), nil
}

// WeightForDay returns the weight recorded for day, if any
func (l *Ledger) WeightForDay(day string) (*models.WeightEntry, error) {
	if err := l.checkDay(day); err != nil {
		return nil, err
	}
	for _, w := range l.Weights() {
		if w.Date == day {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

// UpsertWeight records kg for day, replacing any earlier value for that
// day. A weight that is not a positive number changes nothing and returns
// nil.
func (l *Ledger) UpsertWeight(day string, kg float64) (*models.WeightEntry, error) {
	if err := l.checkDay(day); err != nil {
		return nil, err
	}
	if models.Positive(kg, 0) == 0 {
		l.log.Debug("ignoring invalid weight", "day", day, "weight", kg)
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := models.WeightEntry{Date: day, Weight: kg, CreatedAt: l.now()}
	items, err := storage.LoadBucket[models.WeightEntry](l.store, BucketWeight)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert weight: %w", err)
	}
	replaced := false
	for i := range items {
		if items[i].Date == day {
			items[i] = entry
			replaced = true
		}
	}
	if !replaced {
		items = append(items, entry)
	}
	items = dedupeWeights(items)

	if err := storage.WriteBucket(l.store, BucketWeight, items); err != nil {
		return nil, fmt.Errorf("failed to upsert weight: %w", err)
	}
	return &entry, nil
}

// dedupeWeights keeps the first entry per day
func dedupeWeights(items []models.WeightEntry) []models.WeightEntry {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, w := range items {
		if seen[w.Date] {
			continue
		}
		seen[w.Date] = true
		out = append(out, w)
	}
	return out
}

// Remove deletes the record of kind with the given identity. Removing an
// absent record is not an error; removed reports whether anything changed.
func (l *Ledger) Remove(kind Kind, id string) (removed bool, err error) {
	bucket, err := kind.Bucket()
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch kind {
	case KindFood:
		removed, err = removeRecord[models.FoodEntry](l, bucket, id)
	case KindWorkout:
		removed, err = removeRecord[models.WorkoutEntry](l, bucket, id)
	case KindWater:
		removed, err = removeRecord[models.WaterEntry](l, bucket, id)
	case KindWeight:
		removed, err = removeRecord[models.WeightEntry](l, bucket, id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to remove %s %s: %w", kind, id, err)
	}
	return removed, nil
}

// ResetAll clears every bucket
func (l *Ledger) ResetAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetLocked()
}

func (l *Ledger) resetLocked() error {
	for _, b := range Buckets {
		if err := l.store.Remove(b); err != nil {
			return fmt.Errorf("failed to reset ledger: %w", err)
		}
	}
	l.log.Info("ledger reset")
	return nil
}

// Watch delivers changes made by other surfaces to handler, optionally
// narrowed to the given buckets
func (l *Ledger) Watch(ctx context.Context, handler bus.Handler, buckets ...string) (func(), error) {
	if err := l.checkWatch(buckets); err != nil {
		return nil, err
	}
	return l.surface.Watch(ctx, handler, buckets...)
}

// Follow is Watch including this ledger's own writes
func (l *Ledger) Follow(ctx context.Context, handler bus.Handler, buckets ...string) (func(), error) {
	if err := l.checkWatch(buckets); err != nil {
		return nil, err
	}
	return l.surface.Follow(ctx, handler, buckets...)
}

func (l *Ledger) checkWatch(buckets []string) error {
	if l.surface == nil {
		return fmt.Errorf("ledger has no surface to watch")
	}
	for _, b := range buckets {
		if !validBucket(b) {
			return fmt.Errorf("unknown bucket %q", b)
		}
	}
	return nil
}

// FromChange returns the bucket carried by c, re-reading storage when the
// change has no usable payload
func FromChange[T any](l *Ledger, c bus.Change) []T {
	if len(c.Value) > 0 {
		if items, ok := storage.DecodeBucket[T](c.Value); ok {
			return items
		}
	}
	return storage.ReadBucket[T](l.store, c.Bucket)
}

// SortRecent returns a copy of items ordered newest first
func SortRecent[T timestamped](items []T) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp().After(out[j].Timestamp())
	})
	return out
}
