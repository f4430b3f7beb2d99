// Package cache stores intermediate pipeline results.
//
// Loading Go packages through the type checker is by far the slowest step of
// a run, so the pipeline stores the loaded type model under a key derived
// from the package sources and load options. Later runs over unchanged
// sources skip the type checker entirely.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance, for teams running the preview
//     server against the same sources
//   - [NullCache]: never stores anything, used by --no-cache
//
// # Keys
//
// Keys are built by a [Keyer] so that every component agrees on the layout.
// [ScopedKeyer] prefixes every key, which keeps several projects apart in a
// shared Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported with ok == false
	// and a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is the expiry used for cached type models.
const DefaultTTL = 7 * 24 * time.Hour
