// ABOUTME: Centralized configuration for the fuel ledger surfaces
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// Change bus transports
const (
	BusNone  = "none"
	BusRedis = "redis"
)

// Config holds all configuration for the ledger and its surfaces
type Config struct {
	// Storage settings
	Backend string
	DBPath  string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Cross-surface sync settings
	Bus          string
	RedisAddr    string
	RedisChannel string
	SurfaceID    string
	SurfaceKind  string // labels generated origins: cli, mcp or server
	PollInterval time.Duration

	// Day bucketing
	TimeZone string
	Location *time.Location

	// OpenAI settings
	OpenAIKey  string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// HTTP settings
	HTTPAddr    string
	CORSOrigins []string

	LogMode string
	Debug   bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Backend:      strings.ToLower(getEnv("FUEL_BACKEND", BackendSQLite)),
		DBPath:       getEnv("FUEL_DB_PATH", DefaultDBPath()),
		CharmHost:    getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:  getEnv("CHARM_DB", "fuel"),
		AutoSync:     getEnvBool("CHARM_AUTO_SYNC", true),
		Bus:          strings.ToLower(getEnv("FUEL_BUS", BusNone)),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisChannel: getEnv("REDIS_CHANNEL", "fuel-ledger"),
		SurfaceID:    os.Getenv("FUEL_SURFACE_ID"),
		PollInterval: getEnvDuration("FUEL_POLL_INTERVAL", 500*time.Millisecond),
		TimeZone:     os.Getenv("FUEL_TZ"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		ChatModel:    getEnv("FUEL_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:      getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:   getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:   getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		HTTPAddr:     getEnv("FUEL_HTTP_ADDR", ":8080"),
		CORSOrigins:  getEnvList("FUEL_CORS_ORIGINS"),
		LogMode:      getEnv("LOG_MODE", "dev"),
		Debug:        getEnvBool("FUEL_DEBUG", false),
	}

	return cfg, cfg.Validate()
}

// Validate checks settings and resolves the time zone
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendCharm, BackendMemory:
	default:
		return fmt.Errorf("FUEL_BACKEND must be sqlite, charm or memory, got %q", c.Backend)
	}
	switch c.Bus {
	case BusNone, "":
	case BusRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when FUEL_BUS=redis")
		}
	default:
		return fmt.Errorf("FUEL_BUS must be none or redis, got %q", c.Bus)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}

	c.Location = time.Local
	if c.TimeZone != "" {
		loc, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			return fmt.Errorf("FUEL_TZ: %w", err)
		}
		c.Location = loc
	}
	return nil
}

// DefaultDataDir returns the default data directory following the XDG spec
func DefaultDataDir() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, "fuel")
}

// DefaultDBPath returns the default ledger database path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "ledger.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
