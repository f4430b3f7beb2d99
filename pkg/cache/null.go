package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every Get misses, so every run reloads its input.
//
// Reason records why caching is off ("disabled", "redis unavailable") for
// commands that report on the cache.
type NullCache struct {
	Reason string
}

// NewNullCache returns a cache for runs with caching turned off.
func NewNullCache() Cache {
	return &NullCache{Reason: "disabled"}
}

// NewUnavailableCache returns a NullCache standing in for a backend that
// could not be reached.
func NewUnavailableCache(backend string) *NullCache {
	return &NullCache{Reason: backend + " unavailable"}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
