package port

import (
	"context"
)

// Store defines the minimal contract for the durable key-value storage that backs
// the simulated server's conversation logs.
// Implementations should be concurrency-safe.
// All methods must be context-aware to allow caller-driven timeouts.
//
// Values are stored as strings so the port stays free of serialization concerns;
// the log repository encodes each conversation as a JSON document.
type Store interface {
	// Get fetches the value for key. Absent keys are reported as ("", ErrMiss).
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key without expiration.
	Set(ctx context.Context, key string, value string) error

	// Ping verifies connectivity with the storage backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrMiss should be used by adapters to signal an absent key in a typed way.
// This allows callers to differentiate misses from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "kv: miss" }
