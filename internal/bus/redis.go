// ABOUTME: Redis pub/sub Bus for surfaces running in separate processes
// ABOUTME: Changes travel as JSON on one channel; every process sees every change
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/harper/fuel-ledger/internal/logger"
)

// DefaultRedisChannel is used when no channel is configured
const DefaultRedisChannel = "fuel-ledger"

// RedisOptions configures the redis transport
type RedisOptions struct {
	Addr    string
	Channel string
}

// RedisBus publishes changes through redis pub/sub
type RedisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedis connects to redis and verifies the connection with a ping
func NewRedis(ctx context.Context, opts RedisOptions, log *logger.Logger) (*RedisBus, error) {
	if log == nil {
		log = logger.Nop()
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(opts.Channel)
	if ch == "" {
		ch = DefaultRedisChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		log:     log.With("service", "RedisChangeBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

// Channel returns the pub/sub channel name
func (b *RedisBus) Channel() string {
	return b.channel
}

// Publish sends c to every subscribed process
func (b *RedisBus) Publish(ctx context.Context, c Change) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis change bus not initialized")
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Subscribe forwards changes from redis to handler until cancelled
func (b *RedisBus) Subscribe(ctx context.Context, handler Handler) (func(), error) {
	if b == nil || b.rdb == nil {
		return nil, fmt.Errorf("redis change bus not initialized")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		cancel()
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				c, err := DecodeChange([]byte(m.Payload))
				if err != nil {
					b.log.Warn("bad redis change payload", "error", err)
					continue
				}
				handler(c)
			}
		}
	}()

	return cancel, nil
}

// Close closes the redis client
func (b *RedisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

// DecodeChange parses a change received from another process
func DecodeChange(raw []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(raw, &c); err != nil {
		return Change{}, err
	}
	if c.Bucket == "" {
		return Change{}, fmt.Errorf("change without bucket")
	}
	return c, nil
}
