// ABOUTME: Tests for ledger wiring from configuration
// ABOUTME: Two apps over one SQLite file stand in for two running surfaces
package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/fuel-ledger/internal/bus"
	"github.com/harper/fuel-ledger/internal/config"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

func testConfig(backend, path string) *config.Config {
	return &config.Config{
		Backend:      backend,
		DBPath:       path,
		Bus:          config.BusNone,
		PollInterval: 10 * time.Millisecond,
		Location:     time.UTC,
		Timeout:      time.Second,
	}
}

func TestOpenMemory(t *testing.T) {
	cfg := testConfig(config.BackendMemory, "")
	cfg.SurfaceID = "cli"

	a, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.Surface.Origin() != "cli" {
		t.Errorf("Origin() = %q, want cli", a.Surface.Origin())
	}
	if a.SQLite != nil || a.Charm != nil {
		t.Error("memory backend should not open sqlite or charm")
	}
	if _, ok := a.Bus.(*bus.Hub); !ok {
		t.Errorf("Bus = %T, want *bus.Hub", a.Bus)
	}

	if _, err := a.Ledger.AddWater(models.WaterEntry{Amount: 200}); err != nil {
		t.Fatalf("AddWater() error = %v", err)
	}
	if got := len(a.Ledger.Water()); got != 1 {
		t.Errorf("Water() = %d entries, want 1", got)
	}

	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpenRequiresConfig(t *testing.T) {
	if _, err := Open(context.Background(), nil, nil); err == nil {
		t.Error("Open(nil) should fail")
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	cfg := testConfig(config.BackendMemory, "")
	cfg.Bus = config.BusRedis
	cfg.RedisAddr = "127.0.0.1:1"

	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Error("Open() should fail when redis is unreachable")
	}
}

func TestSQLiteSurfacesSeeEachOther(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	cliCfg := testConfig(config.BackendSQLite, path)
	cliCfg.SurfaceID = "cli"
	cli, err := Open(context.Background(), cliCfg, nil)
	if err != nil {
		t.Fatalf("Open(cli) error = %v", err)
	}
	defer func() { _ = cli.Close() }()

	webCfg := testConfig(config.BackendSQLite, path)
	webCfg.SurfaceID = "web"
	web, err := Open(context.Background(), webCfg, nil)
	if err != nil {
		t.Fatalf("Open(web) error = %v", err)
	}
	defer func() { _ = web.Close() }()

	if web.SQLite.Origin() != "web" {
		t.Errorf("sqlite origin = %q, want web", web.SQLite.Origin())
	}

	got := make(chan bus.Change, 8)
	if _, err := web.Ledger.Watch(context.Background(), func(c bus.Change) { got <- c }, ledger.BucketFood); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	// Let the relay record its starting version
	time.Sleep(50 * time.Millisecond)

	if _, err := cli.Ledger.AddFood(models.FoodEntry{Name: "banana", Calories: 105}); err != nil {
		t.Fatalf("AddFood() error = %v", err)
	}

	select {
	case c := <-got:
		if c.Origin != "cli" {
			t.Errorf("Origin = %q, want cli", c.Origin)
		}
		food := ledger.FromChange[models.FoodEntry](web.Ledger, c)
		if len(food) != 1 || food[0].Name != "banana" {
			t.Errorf("food = %+v", food)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("web surface never heard about the cli write")
	}

	if len(web.Ledger.Food()) != 1 {
		t.Error("web should read the shared file")
	}
}

func TestSameKindSurfacesSeeEachOther(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	open := func() *App {
		cfg := testConfig(config.BackendSQLite, path)
		cfg.SurfaceKind = "cli"
		a, err := Open(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		t.Cleanup(func() { _ = a.Close() })
		return a
	}
	watcher, writer := open(), open()

	if watcher.Surface.Origin() == writer.Surface.Origin() {
		t.Fatalf("both processes got origin %q", watcher.Surface.Origin())
	}
	if !strings.HasPrefix(writer.Surface.Origin(), "cli-") {
		t.Errorf("Origin() = %q, want cli- prefix", writer.Surface.Origin())
	}

	got := make(chan bus.Change, 8)
	if _, err := watcher.Ledger.Watch(context.Background(), func(c bus.Change) { got <- c }, ledger.BucketFood); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, err := writer.Ledger.AddFood(models.FoodEntry{Name: "pear", Calories: 60}); err != nil {
		t.Fatalf("AddFood() error = %v", err)
	}

	select {
	case c := <-got:
		if c.Origin != writer.Surface.Origin() {
			t.Errorf("Origin = %q, want %q", c.Origin, writer.Surface.Origin())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("a second cli process never heard about the write")
	}
}

func TestCoachRequiresKey(t *testing.T) {
	a, err := Open(context.Background(), testConfig(config.BackendMemory, ""), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if _, err := a.Coach(); err == nil {
		t.Error("Coach() without a key should fail")
	}

	a.Config.OpenAIKey = "sk-test"
	if s, err := a.Coach(); err != nil || s == nil {
		t.Errorf("Coach() = %v, %v", s, err)
	}
}
