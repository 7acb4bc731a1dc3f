// ABOUTME: Tests for the SQLite bucket store
// ABOUTME: Verifies schema, read-after-write, tombstones and cross-process change polling
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestOpenInMemory(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Conn() == nil {
		t.Error("Conn() should not be nil")
	}

	if db.Path() != ":memory:" {
		t.Errorf("Path() = %v, want :memory:", db.Path())
	}
}

func TestSchemaInitialization(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	var name string
	err = db.Conn().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='buckets'").Scan(&name)
	if err != nil {
		t.Errorf("Table buckets does not exist: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "subdir", "nested", "ledger.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestGetAbsent(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	got, err := db.Get("foodEntries")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %q, want nil", got)
	}
}

func TestSetGetDelete(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Set("waterIntake", []byte(`[{"id":"1","amount":250}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Set("waterIntake", []byte(`[]`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := db.Get("waterIntake")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %q, want []", got)
	}

	keys, err := db.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "waterIntake" {
		t.Errorf("Keys() = %v, want [waterIntake]", keys)
	}

	if err := db.Delete("waterIntake"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, _ = db.Get("waterIntake")
	if got != nil {
		t.Errorf("Get() after Delete = %q, want nil", got)
	}
	keys, _ = db.Keys()
	if len(keys) != 0 {
		t.Errorf("Keys() after Delete = %v, want none", keys)
	}
}

func TestChangesSince(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	db.SetOrigin("cli")
	_ = db.Set("foodEntries", []byte(`[]`))
	start, _ := db.Version()

	db.SetOrigin("server")
	_ = db.Set("workouts", []byte(`[{"id":"w"}]`))
	_ = db.Delete("foodEntries")

	changes, err := db.ChangesSince(start)
	if err != nil {
		t.Fatalf("ChangesSince() error = %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("ChangesSince() returned %d changes, want 2", len(changes))
	}
	if changes[0].Bucket != "workouts" || changes[0].Origin != "server" {
		t.Errorf("changes[0] = %+v", changes[0])
	}
	if changes[1].Bucket != "foodEntries" || changes[1].Value != nil {
		t.Errorf("changes[1] = %+v, want foodEntries tombstone", changes[1])
	}
	if changes[1].Version <= changes[0].Version {
		t.Error("versions should increase")
	}
}

func TestWatchSharedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	watcher, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = watcher.Close() }()
	watcher.SetOrigin("watcher")

	writer, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = writer.Close() }()
	writer.SetOrigin("writer")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []Change
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = watcher.Watch(ctx, 10*time.Millisecond, func(c Change) {
			mu.Lock()
			got = append(got, c)
			mu.Unlock()
		})
	}()

	// Let Watch record its starting version
	time.Sleep(50 * time.Millisecond)

	_ = watcher.Set("userProfile", []byte(`{"name":"self"}`))
	_ = writer.Set("waterIntake", []byte(`[{"id":"x","amount":500}]`))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("Watch() delivered %d changes, want 1: %+v", len(got), got)
	}
	if got[0].Bucket != "waterIntake" || got[0].Origin != "writer" {
		t.Errorf("delivered %+v, want waterIntake from writer", got[0])
	}
}
