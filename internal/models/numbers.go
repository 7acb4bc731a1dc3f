// ABOUTME: Numeric coercion helpers shared by the record types
// ABOUTME: Replaces NaN, infinities and negatives with documented defaults
package models

import "math"

// finite reports whether v is a usable number
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NonNegative returns v, or def when v is NaN, infinite or negative
func NonNegative(v, def float64) float64 {
	if !finite(v) || v < 0 {
		return def
	}
	return v
}

// Positive returns v, or def when v is not a finite number greater than zero
func Positive(v, def float64) float64 {
	if !finite(v) || v <= 0 {
		return def
	}
	return v
}

// Float returns a pointer to v, for optional macro fields
func Float(v float64) *float64 {
	return &v
}

func optionalNonNegative(v *float64) *float64 {
	if v == nil || !finite(*v) || *v < 0 {
		return nil
	}
	return v
}
