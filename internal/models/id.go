// ABOUTME: Identity generation for appended ledger records
// ABOUTME: Millisecond timestamp prefix plus a random uuid fragment as tiebreak
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered record id. Two ids minted in the same
// millisecond differ in their random suffix.
func NewID(now time.Time) string {
	return fmt.Sprintf("%013d-%s", now.UnixMilli(), uuid.New().String()[:8])
}
