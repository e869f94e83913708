package common

import (
	"context"
	"encoding/json"
	"time"
)

// CacheInterface defines the contract for cache implementations. Values are
// opaque bytes so the in-memory and Redis backends behave identically.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(ctx context.Context, key string, value []byte, duration time.Duration) error

	// Get retrieves a value from cache by key
	Get(ctx context.Context, key string) ([]byte, bool)

	// Take retrieves and removes a value in one step (single-use tokens)
	Take(ctx context.Context, key string) ([]byte, bool)

	// Delete removes a value from cache by key
	Delete(ctx context.Context, key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrSet returns the cached JSON value under key, or runs loader and
// caches its result. hit reports whether the value came from cache.
func GetOrSet[T any](ctx context.Context, c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (val T, hit bool, err error) {
	if data, found := c.Get(ctx, key); found {
		if err := json.Unmarshal(data, &val); err == nil {
			return val, true, nil
		}
		c.Delete(ctx, key)
	}

	val, err = loader()
	if err != nil {
		return val, false, err
	}

	if data, err := json.Marshal(val); err == nil {
		_ = c.Set(ctx, key, data, duration)
	}
	return val, false, nil
}
