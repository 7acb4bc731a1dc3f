// ABOUTME: Charm KV backend for the ledger with optional cloud sync
// ABOUTME: Stores each bucket under a namespaced key and authenticates with SSH keys
package charm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// BucketPrefix namespaces ledger buckets inside the charm database
const BucketPrefix = "ledger:"

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "fuel",
		AutoSync: true,
	}
}

// Client wraps charm KV as a ledger backend
type Client struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

// NewClient opens the charm database named by cfg, pulling remote data
// first when AutoSync is set
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	// Set CHARM_HOST before opening KV
	if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
		return nil, fmt.Errorf("failed to set CHARM_HOST: %w", err)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{
		kv:     db,
		config: cfg,
	}

	if cfg.AutoSync {
		_ = db.Sync()
	}

	return c, nil
}

// BucketKey returns the charm key a ledger bucket is stored under
func BucketKey(bucket string) []byte {
	return []byte(BucketPrefix + bucket)
}

// isNotFound reports whether err means the key does not exist
func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil
		return err
	}
	return nil
}

func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}

// Get returns the bucket text, or nil when the bucket does not exist
func (c *Client) Get(bucket string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv == nil {
		return nil, fmt.Errorf("charm kv is closed")
	}
	data, err := c.kv.Get(BucketKey(bucket))
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucket, err)
	}
	return data, nil
}

// Set stores bucket text and syncs when enabled
func (c *Client) Set(bucket string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv == nil {
		return fmt.Errorf("charm kv is closed")
	}
	if err := c.kv.Set(BucketKey(bucket), value); err != nil {
		return fmt.Errorf("failed to set bucket %s: %w", bucket, err)
	}
	c.syncIfEnabled()
	return nil
}

// Delete removes a bucket; a missing bucket is not an error
func (c *Client) Delete(bucket string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv == nil {
		return fmt.Errorf("charm kv is closed")
	}
	if err := c.kv.Delete(BucketKey(bucket)); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
	}
	c.syncIfEnabled()
	return nil
}

// Buckets lists the ledger buckets present in the database
func (c *Client) Buckets() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv == nil {
		return nil, fmt.Errorf("charm kv is closed")
	}
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		if name, ok := strings.CutPrefix(string(key), BucketPrefix); ok {
			result = append(result, name)
		}
	}
	return result, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Reset wipes all local data
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Host returns the charm server this client talks to
func (c *Client) Host() string {
	return c.config.Host
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// AuthorizedKeys returns the list of linked devices/keys
func (c *Client) AuthorizedKeys() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.AuthorizedKeys()
}

// UnlinkKey removes an authorized key from the account
func (c *Client) UnlinkKey(key string) error {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.UnlinkAuthorizedKey(key)
}
