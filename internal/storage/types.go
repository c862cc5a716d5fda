package storage

import "context"

// Backend is the persisted key-value blob shared by every caller. Values are
// opaque byte slices (JSON documents in practice). A Backend offers no
// read-modify-write primitive: callers that need atomic updates must
// serialize their own access.
type Backend interface {
	// Get returns the values stored under keys. Missing keys are absent from
	// the result, not an error. With no keys, every stored entry is returned.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	// Set stores all entries or none of them.
	Set(ctx context.Context, entries map[string][]byte) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	Close() error
}
