// ABOUTME: Tests for the redis change bus
// ABOUTME: Live round-trip runs only when REDIS_ADDR points at a server
package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDecodeChange(t *testing.T) {
	c, err := DecodeChange([]byte(`{"bucket":"waterIntake","value":[{"id":"a"}],"origin":"cli","at":"2026-01-02T03:04:05Z"}`))
	if err != nil {
		t.Fatalf("DecodeChange() error = %v", err)
	}
	if c.Bucket != "waterIntake" || c.Origin != "cli" || string(c.Value) != `[{"id":"a"}]` {
		t.Errorf("DecodeChange() = %+v", c)
	}

	if _, err := DecodeChange([]byte(`{"origin":"cli"}`)); err == nil {
		t.Error("DecodeChange() without bucket should fail")
	}
	if _, err := DecodeChange([]byte(`nope`)); err == nil {
		t.Error("DecodeChange() on garbage should fail")
	}
}

func TestNewRedisRequiresAddr(t *testing.T) {
	if _, err := NewRedis(context.Background(), RedisOptions{}, nil); err == nil {
		t.Error("NewRedis() without address should fail")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedis(ctx, RedisOptions{Addr: "127.0.0.1:1"}, nil); err == nil {
		t.Error("NewRedis() against a closed port should fail")
	}
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := NewRedis(ctx, RedisOptions{Addr: addr, Channel: "fuel-test-" + uuid.New().String()}, nil)
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer func() { _ = b.Close() }()

	got := make(chan Change, 1)
	stop, err := b.Subscribe(ctx, func(c Change) { got <- c })
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer stop()

	if err := b.Publish(ctx, Change{Bucket: "weightEntries", Origin: "test"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	c := recvChange(t, got, 3*time.Second)
	if c.Bucket != "weightEntries" || c.Origin != "test" {
		t.Errorf("received %+v", c)
	}
}
