// ABOUTME: SQLite-backed key-value store for ledger buckets
// ABOUTME: Uses modernc.org/sqlite so several processes can share one ledger file
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding ledger buckets
type DB struct {
	conn *sql.DB
	path string

	mu     sync.RWMutex
	origin string
}

// DefaultPollInterval is how often Watch checks for writes by other processes
const DefaultPollInterval = 500 * time.Millisecond

// Change is a bucket write observed in the database
type Change struct {
	Bucket  string
	Value   []byte
	Origin  string
	Version int64
}

// Open opens or creates a SQLite database at the given path
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// WAL lets readers in other processes proceed during a write
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// OpenInMemory creates an in-memory SQLite database (for testing)
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)

	db := &DB{
		conn: conn,
		path: ":memory:",
	}

	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) initSchema() error {
	_, err := db.conn.Exec(Schema)
	return err
}

// SetOrigin tags subsequent writes with the writing surface's id
func (db *DB) SetOrigin(origin string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.origin = origin
}

// Origin returns the id writes are tagged with
func (db *DB) Origin() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.origin
}

// Get returns the bucket text, or nil when the bucket is absent
func (db *DB) Get(key string) ([]byte, error) {
	var value sql.NullString
	err := db.conn.QueryRow(`SELECT value FROM buckets WHERE name = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bucket %s: %w", key, err)
	}
	if !value.Valid {
		return nil, nil
	}
	return []byte(value.String), nil
}

// Set stores the bucket text and bumps the change version
func (db *DB) Set(key string, value []byte) error {
	return db.write(key, sql.NullString{String: string(value), Valid: true})
}

// Delete clears the bucket, leaving a versioned tombstone
func (db *DB) Delete(key string) error {
	return db.write(key, sql.NullString{})
}

func (db *DB) write(key string, value sql.NullString) error {
	_, err := db.conn.Exec(`
		INSERT INTO buckets (name, value, origin, version, updated_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(version), 0) + 1 FROM buckets), ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			origin = excluded.origin,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, key, value, db.Origin(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write bucket %s: %w", key, err)
	}
	return nil
}

// Keys lists the buckets currently holding a value
func (db *DB) Keys() ([]string, error) {
	rows, err := db.conn.Query(`SELECT name FROM buckets WHERE value IS NOT NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		keys = append(keys, name)
	}
	return keys, rows.Err()
}

// Version returns the highest change version written so far
func (db *DB) Version() (int64, error) {
	var v int64
	if err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM buckets`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read version: %w", err)
	}
	return v, nil
}

// ChangesSince returns writes with a version greater than after, oldest first
func (db *DB) ChangesSince(after int64) ([]Change, error) {
	rows, err := db.conn.Query(`
		SELECT name, value, origin, version
		FROM buckets
		WHERE version > ?
		ORDER BY version ASC
	`, after)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var changes []Change
	for rows.Next() {
		var (
			c     Change
			value sql.NullString
		)
		if err := rows.Scan(&c.Bucket, &value, &c.Origin, &c.Version); err != nil {
			return nil, err
		}
		if value.Valid {
			c.Value = []byte(value.String)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// Watch polls for writes made by other origins until ctx is done. Writes
// already present when Watch starts are not reported.
func (db *DB) Watch(ctx context.Context, interval time.Duration, fn func(Change)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	last, err := db.Version()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		changes, err := db.ChangesSince(last)
		if err != nil {
			// Busy or locked; try again next tick
			continue
		}
		self := db.Origin()
		for _, c := range changes {
			last = c.Version
			if self != "" && c.Origin == self {
				continue
			}
			fn(c)
		}
	}
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection for advanced usage
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}
