// ABOUTME: WeightEntry records body weight, at most one per calendar day
// ABOUTME: The day string is the record identity
package models

import "time"

// WeightEntry is the body weight recorded for one day
type WeightEntry struct {
	Date      string    `json:"date"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity returns the calendar day the entry belongs to
func (w WeightEntry) Identity() string { return w.Date }
