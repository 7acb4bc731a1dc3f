// ABOUTME: Cross-surface change notification for the ledger
// ABOUTME: Defines the Change message and the Bus contract shared by all transports
package bus

import (
	"context"
	"encoding/json"
	"time"
)

// Change announces that a surface rewrote a bucket. Value is the new
// serialized bucket and may be empty; receivers re-read storage then.
type Change struct {
	Bucket string          `json:"bucket"`
	Value  json.RawMessage `json:"value,omitempty"`
	Origin string          `json:"origin"`
	At     time.Time       `json:"at"`
}

// Handler receives changes delivered by a Bus
type Handler func(Change)

// Bus fans changes out to every subscriber, including the publisher's own
type Bus interface {
	Publish(ctx context.Context, c Change) error
	// Subscribe registers h until the returned cancel func is called or
	// ctx is done
	Subscribe(ctx context.Context, h Handler) (cancel func(), err error)
	Close() error
}
