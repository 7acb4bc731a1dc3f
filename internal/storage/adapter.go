// ABOUTME: Persistence adapter that reads and writes whole buckets as JSON
// ABOUTME: Decode failures read as empty buckets; successful writes notify other surfaces
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/fuel-ledger/internal/logger"
)

// ErrSerialize marks a write abandoned because the value could not be encoded
var ErrSerialize = errors.New("serialize bucket")

// ErrRead marks a mutation abandoned because the stored bucket could not be
// read from the backend
var ErrRead = errors.New("read bucket")

// Notifier is told about every committed bucket write. value is the new
// serialized bucket, or nil when the bucket was removed.
type Notifier interface {
	Notify(bucket string, value []byte)
}

// Adapter wraps a Backend with JSON encoding and change notification
type Adapter struct {
	backend  Backend
	notifier Notifier
	log      *logger.Logger
}

// NewAdapter creates an adapter over backend. log may be nil.
func NewAdapter(backend Backend, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{
		backend: backend,
		log:     log.With("component", "storage"),
	}
}

// SetNotifier installs the notifier called after each committed write
func (a *Adapter) SetNotifier(n Notifier) {
	a.notifier = n
}

// Backend returns the underlying key-value backend
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Close closes the backend
func (a *Adapter) Close() error {
	return a.backend.Close()
}

// Raw returns the stored text for name, or nil when absent or unreadable
func (a *Adapter) Raw(name string) []byte {
	data, err := a.backend.Get(name)
	if err != nil {
		a.log.Warn("bucket read failed, treating as empty", "bucket", name, "error", err)
		return nil
	}
	return data
}

// Load returns the stored text for name for a read-modify-write. Unlike
// Raw, a backend error is returned so the caller never overwrites a bucket
// it could not see.
func (a *Adapter) Load(name string) ([]byte, error) {
	data, err := a.backend.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrRead, name, err)
	}
	return data, nil
}

// Put stores raw text for name and notifies
func (a *Adapter) Put(name string, data []byte) error {
	if err := a.backend.Set(name, data); err != nil {
		return fmt.Errorf("write bucket %s: %w", name, err)
	}
	a.notify(name, data)
	return nil
}

// Remove deletes the bucket and notifies with an empty payload
func (a *Adapter) Remove(name string) error {
	if err := a.backend.Delete(name); err != nil {
		return fmt.Errorf("remove bucket %s: %w", name, err)
	}
	a.notify(name, nil)
	return nil
}

func (a *Adapter) notify(name string, data []byte) {
	if a.notifier != nil {
		a.notifier.Notify(name, data)
	}
}

// ReadBucket returns the records stored under name. An absent bucket, a
// backend error or undecodable text all read as an empty bucket.
func ReadBucket[T any](a *Adapter, name string) []T {
	items, ok := DecodeBucket[T](a.Raw(name))
	if !ok {
		a.log.Warn("bucket is not valid JSON, treating as empty", "bucket", name)
	}
	return items
}

// LoadBucket reads records ahead of a mutation. Undecodable text still
// reads as an empty bucket; a backend error is returned and wraps ErrRead.
func LoadBucket[T any](a *Adapter, name string) ([]T, error) {
	data, err := a.Load(name)
	if err != nil {
		return nil, err
	}
	items, ok := DecodeBucket[T](data)
	if !ok {
		a.log.Warn("bucket is not valid JSON, treating as empty", "bucket", name)
	}
	return items, nil
}

// DecodeBucket decodes a serialized bucket. ok is false only when data is
// present but cannot be decoded; the returned slice is never nil.
func DecodeBucket[T any](data []byte) (items []T, ok bool) {
	items = []T{}
	if len(data) == 0 {
		return items, true
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, false
	}
	if items == nil {
		items = []T{}
	}
	return items, true
}

// WriteBucket serializes items and stores them under name. When encoding
// fails nothing is written and the returned error wraps ErrSerialize.
func WriteBucket[T any](a *Adapter, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrSerialize, name, err)
	}
	return a.Put(name, data)
}

// ReadObject returns the singleton stored under name; ok is false when it
// is absent or undecodable
func ReadObject[T any](a *Adapter, name string) (*T, bool) {
	return DecodeObject[T](a.Raw(name))
}

// LoadObject reads a singleton ahead of a mutation; ok is false when it is
// absent or undecodable, and backend errors are returned
func LoadObject[T any](a *Adapter, name string) (v *T, ok bool, err error) {
	data, err := a.Load(name)
	if err != nil {
		return nil, false, err
	}
	v, ok = DecodeObject[T](data)
	return v, ok, nil
}

// DecodeObject decodes a serialized singleton
func DecodeObject[T any](data []byte) (*T, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// WriteObject serializes a singleton and stores it under name
func WriteObject[T any](a *Adapter, name string, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrSerialize, name, err)
	}
	return a.Put(name, data)
}
