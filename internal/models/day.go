// ABOUTME: Calendar-day keys used to bucket ledger records
// ABOUTME: Converts timestamps to local YYYY-MM-DD strings and back
package models

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the calendar-day format used for bucketing and weight identity
const DayLayout = "2006-01-02"

// DayOf returns the calendar day of t in loc (time.Local when loc is nil)
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD key as midnight in loc
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(day), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", day, err)
	}
	return t, nil
}

// ValidDay reports whether day is a well-formed calendar-day key
func ValidDay(day string) bool {
	_, err := time.Parse(DayLayout, day)
	return err == nil
}

// ShiftDay returns the day n days after day (n may be negative)
func ShiftDay(day string, n int) (string, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", day, err)
	}
	return t.AddDate(0, 0, n).Format(DayLayout), nil
}
