// ABOUTME: In-process Bus that fans changes out to local subscribers
// ABOUTME: Each subscriber drains its own queue so publishers never run handlers inline
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/harper/fuel-ledger/internal/logger"
)

// subscriberBuffer is how many undelivered changes a slow subscriber may hold
const subscriberBuffer = 256

type subscriber struct {
	id       string
	handler  Handler
	outbound chan Change
	done     chan struct{}
}

// Hub is the in-process Bus
type Hub struct {
	log *logger.Logger

	mu     sync.RWMutex
	subs   map[string]*subscriber
	closed bool
}

// NewHub creates an empty hub. log may be nil.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		log:  log.With("service", "ChangeHub"),
		subs: make(map[string]*subscriber),
	}
}

// Publish queues c for every subscriber. A subscriber whose queue is full
// misses the change.
func (h *Hub) Publish(_ context.Context, c Change) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return fmt.Errorf("change hub is closed")
	}
	for _, s := range h.subs {
		select {
		case s.outbound <- c:
		default:
			h.log.Warn("subscriber queue full, dropping change", "subscriber", s.id, "bucket", c.Bucket)
		}
	}
	return nil
}

// Subscribe starts delivering changes to handler on its own goroutine
func (h *Hub) Subscribe(ctx context.Context, handler Handler) (func(), error) {
	if handler == nil {
		return nil, fmt.Errorf("handler required")
	}

	s := &subscriber{
		id:       uuid.New().String(),
		handler:  handler,
		outbound: make(chan Change, subscriberBuffer),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, fmt.Errorf("change hub is closed")
	}
	h.subs[s.id] = s
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-s.done:
				return
			case c := <-s.outbound:
				s.handler(c)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.remove(s.id)
		})
	}

	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-s.done:
			}
		}()
	}

	return cancel, nil
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(s.done)
	}
}

// Subscribers returns the number of active subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close stops every subscriber
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.done)
	}
	return nil
}
