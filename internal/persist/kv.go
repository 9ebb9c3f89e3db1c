// Package persist abstracts the external key-value collaborator behind a
// get/set/append contract. The pipeline core never talks to a database
// directly; it snapshots and logs through this interface.
package persist

import (
	"context"
	"errors"
	"sync"
)

// Well-known keys written by the service.
const (
	KeyMoveHistory = "pipeline:history"
	KeyTheme       = "settings:theme"
	KeyAvatar      = "settings:avatar"
)

// ErrKeyNotFound is returned by Get for keys that were never set.
var ErrKeyNotFound = errors.New("key not found")

// KV is the persistence contract: plain value reads/writes plus an
// append-only log operation.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Append(ctx context.Context, key string, entry []byte) error
}

// Memory is the in-process adapter, used as the default backend and in
// tests. Appends accumulate entries per key in order.
type Memory struct {
	mu      sync.RWMutex
	values  map[string][]byte
	entries map[string][][]byte
}

// NewMemory returns an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{
		values:  make(map[string][]byte),
		entries: make(map[string][][]byte),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Append(_ context.Context, key string, entry []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append(m.entries[key], append([]byte(nil), entry...))
	return nil
}

// Entries returns the appended log for a key. Test helper.
func (m *Memory) Entries(key string) [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, len(m.entries[key]))
	copy(out, m.entries[key])
	return out
}
