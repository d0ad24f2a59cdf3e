package store

import (
	"context"
	"sort"
	"sync"
)

// KV is the persistent local key-value store contract.
// Both *Store and *Memory implement it.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

var (
	_ KV = (*Store)(nil)
	_ KV = (*Memory)(nil)
)

// Memory is an in-process KV. It does not survive restarts and is meant for
// tests and scenario replay.
//
// Thread-safety: Memory is safe for concurrent use via internal mutex.
type Memory struct {
	mu     sync.Mutex
	values map[string]string

	// FailSet, when non-nil, is returned by Set instead of writing.
	// Tests use it to simulate a full or read-only store.
	FailSet error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements KV.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.values[key] = value
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Keys implements KV.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
