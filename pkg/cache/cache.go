// Package cache stores computed layouts and rendered artifacts.
//
// Entries are opaque byte slices addressed by string keys. Keys are built
// by a [Keyer] from a content hash of the input plus every option that
// affects the output, so a key never needs invalidation: a changed graph or
// option produces a different key.
//
// Three backends are provided:
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] keeps entries as JSON files under a directory (CLI)
//   - [RedisCache] shares entries between server replicas
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
//
// Get reports a miss as (nil, false, nil). Errors are reserved for backend
// failures; callers in this module treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes. Keys are content-addressed, so the TTLs only bound
// storage growth.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
