// ABOUTME: Wires configuration into a running ledger surface
// ABOUTME: Chooses the storage backend and change bus, and relays SQLite writes from other processes
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/harper/fuel-ledger/internal/bus"
	"github.com/harper/fuel-ledger/internal/charm"
	"github.com/harper/fuel-ledger/internal/coach"
	"github.com/harper/fuel-ledger/internal/config"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/llm"
	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/harper/fuel-ledger/internal/storage"
	"github.com/harper/fuel-ledger/internal/storage/sqlite"
)

// App is one surface's view of the ledger with everything it depends on
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Ledger  *ledger.Ledger
	Surface *bus.Surface
	Bus     bus.Bus

	// Set only for the matching backend
	SQLite *sqlite.DB
	Charm  *charm.Client

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Open builds the backend, bus, surface and ledger described by cfg. With
// the SQLite backend and no redis bus, writes by other processes sharing the
// file are polled and replayed onto the in-process bus.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	a := &App{Config: cfg, Log: log}

	backend, err := a.openBackend()
	if err != nil {
		return nil, err
	}

	changeBus, err := a.openBus(ctx)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	a.Bus = changeBus

	origin := cfg.SurfaceID
	if origin == "" {
		origin = bus.NewOrigin(cfg.SurfaceKind)
	}
	a.Surface = bus.NewSurface(origin, changeBus, log)
	if a.SQLite != nil {
		a.SQLite.SetOrigin(a.Surface.Origin())
	}

	a.Ledger = ledger.New(backend,
		ledger.WithSurface(a.Surface),
		ledger.WithLocation(loc),
		ledger.WithLogger(log))

	watchCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if hub, ok := changeBus.(*bus.Hub); ok && a.SQLite != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.relaySQLite(watchCtx, hub)
		}()
	}

	log.Debug("ledger opened",
		"backend", cfg.Backend,
		"bus", busName(changeBus),
		"kind", cfg.SurfaceKind,
		"surface", a.Surface.Origin())
	return a, nil
}

func (a *App) openBackend() (storage.Backend, error) {
	switch a.Config.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), nil
	case config.BackendCharm:
		client, err := charm.NewClient(&charm.Config{
			Host:     a.Config.CharmHost,
			DBName:   a.Config.CharmDBName,
			AutoSync: a.Config.AutoSync,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open charm backend: %w", err)
		}
		a.Charm = client
		return client, nil
	default:
		db, err := sqlite.Open(a.Config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		a.SQLite = db
		return db, nil
	}
}

func (a *App) openBus(ctx context.Context) (bus.Bus, error) {
	if a.Config.Bus == config.BusRedis {
		rb, err := bus.NewRedis(ctx, bus.RedisOptions{
			Addr:    a.Config.RedisAddr,
			Channel: a.Config.RedisChannel,
		}, a.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect change bus: %w", err)
		}
		return rb, nil
	}
	return bus.NewHub(a.Log), nil
}

// relaySQLite republishes rows written by other processes so local
// watchers hear about them
func (a *App) relaySQLite(ctx context.Context, hub *bus.Hub) {
	err := a.SQLite.Watch(ctx, a.Config.PollInterval, func(c sqlite.Change) {
		change := bus.Change{
			Bucket: c.Bucket,
			Origin: c.Origin,
			At:     time.Now(),
		}
		if len(c.Value) > 0 && json.Valid(c.Value) {
			change.Value = json.RawMessage(c.Value)
		}
		if err := hub.Publish(ctx, change); err != nil {
			a.Log.Warn("failed to relay sqlite change", "bucket", c.Bucket, "error", err)
		}
	})
	if err != nil {
		a.Log.Warn("sqlite watch stopped", "error", err)
	}
}

func busName(b bus.Bus) string {
	if _, ok := b.(*bus.RedisBus); ok {
		return config.BusRedis
	}
	return "hub"
}

// Coach builds a coach session backed by the configured OpenAI model
func (a *App) Coach() (*coach.Session, error) {
	if a.Config.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:      a.Config.OpenAIKey,
		ChatModel:   a.Config.ChatModel,
		Timeout:     a.Config.Timeout,
		MaxRetries:  a.Config.MaxRetries,
		RetryDelay:  a.Config.RetryDelay,
		Temperature: llm.DefaultConfig("").Temperature,
	})
	if err != nil {
		return nil, err
	}
	return coach.NewSession(a.Ledger, client, a.Log), nil
}

// Close stops the relay and releases the ledger and bus
func (a *App) Close() error {
	var firstErr error
	a.once.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		a.wg.Wait()
		if err := a.Ledger.Close(); err != nil {
			firstErr = err
		}
		if a.Bus != nil {
			if err := a.Bus.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}
