// ABOUTME: WaterEntry records a single drink of water
// ABOUTME: Amount is in millilitres with a one-glass default
package models

import "time"

// DefaultWaterMl is one glass, used when the amount is missing or invalid
const DefaultWaterMl = 250.0

// WaterEntry is one logged drink
type WaterEntry struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize coerces the amount and fills createdAt
func (w *WaterEntry) Normalize(now time.Time) {
	w.Amount = Positive(w.Amount, DefaultWaterMl)
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
}

// Timestamp returns the time used for day bucketing
func (w WaterEntry) Timestamp() time.Time { return w.CreatedAt }

// Identity returns the record id
func (w WaterEntry) Identity() string { return w.ID }
