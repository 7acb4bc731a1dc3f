// ABOUTME: Per-surface endpoint on a Bus that tags and filters changes by origin
// ABOUTME: Implements storage.Notifier so committed writes announce themselves
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harper/fuel-ledger/internal/logger"
)

// Surface is one independently running view of the ledger. Changes it
// publishes carry its origin and are never delivered back to it.
type Surface struct {
	origin string
	bus    Bus
	log    *logger.Logger
	now    func() time.Time
}

// NewOrigin returns an origin unique to this process, labelled with the
// surface kind so logs still show what wrote a change
func NewOrigin(kind string) string {
	if kind == "" {
		return uuid.New().String()
	}
	return kind + "-" + uuid.New().String()
}

// NewSurface creates a surface on b. An empty origin gets a fresh id.
func NewSurface(origin string, b Bus, log *logger.Logger) *Surface {
	if origin == "" {
		origin = uuid.New().String()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Surface{
		origin: origin,
		bus:    b,
		log:    log.With("surface", origin),
		now:    time.Now,
	}
}

// Origin returns the id stamped on this surface's changes
func (s *Surface) Origin() string {
	return s.origin
}

// Bus returns the transport this surface publishes on
func (s *Surface) Bus() Bus {
	return s.bus
}

// Notify publishes a committed bucket write. Publish failures are logged;
// the write itself already succeeded.
func (s *Surface) Notify(bucket string, value []byte) {
	if s.bus == nil {
		return
	}
	c := Change{
		Bucket: bucket,
		Origin: s.origin,
		At:     s.now(),
	}
	if len(value) > 0 && json.Valid(value) {
		c.Value = append(json.RawMessage(nil), value...)
	}
	if err := s.bus.Publish(context.Background(), c); err != nil {
		s.log.Warn("failed to publish change", "bucket", bucket, "error", err)
	}
}

// Watch delivers changes made by other surfaces to handler. With no
// buckets every change is delivered.
func (s *Surface) Watch(ctx context.Context, handler Handler, buckets ...string) (func(), error) {
	return s.subscribe(ctx, handler, false, buckets)
}

// Follow is Watch including this surface's own changes. Relays that fan
// changes out to further clients use it.
func (s *Surface) Follow(ctx context.Context, handler Handler, buckets ...string) (func(), error) {
	return s.subscribe(ctx, handler, true, buckets)
}

func (s *Surface) subscribe(ctx context.Context, handler Handler, own bool, buckets []string) (func(), error) {
	if s.bus == nil {
		return nil, fmt.Errorf("surface %s has no bus", s.origin)
	}
	want := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		want[b] = true
	}
	return s.bus.Subscribe(ctx, func(c Change) {
		if !own && c.Origin == s.origin {
			return
		}
		if len(want) > 0 && !want[c.Bucket] {
			return
		}
		handler(c)
	})
}
