package port

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract used for live-pulse lookups.
// Implementations must be concurrency-safe and context-aware. Values are
// plain strings; serialization is the caller's concern so the port stays
// generic.
type Cache interface {
	// Get fetches the value for key. A missing key is reported as ErrMiss;
	// any other non-nil error is a transport or server fault.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key for ttl. Zero or negative ttl means no
	// expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns how many were present.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	// Close releases held resources.
	Close() error
}

// ErrMiss signals a cache miss in a typed way so callers can tell misses
// from faults.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
