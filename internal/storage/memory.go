package storage

import (
	"context"
	"sync"
)

// MemoryStore is a Backend held in process memory. Values are copied on the
// way in and out so callers never share buffers with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns copies of the requested keys, or of every key when none are given.
func (m *MemoryStore) Get(_ context.Context, keys ...string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string][]byte)
	if len(keys) == 0 {
		for k, v := range m.entries {
			out[k] = clone(v)
		}
		return out, nil
	}
	for _, k := range keys {
		if v, ok := m.entries[k]; ok {
			out[k] = clone(v)
		}
	}
	return out, nil
}

// Set stores copies of all entries.
func (m *MemoryStore) Set(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range entries {
		m.entries[k] = clone(v)
	}
	return nil
}

// Clear removes every key.
func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string][]byte)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
