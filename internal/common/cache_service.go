package common

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-memory cache implementation, used when Redis is not
// configured and in tests.
type CacheService struct {
	cache *cache.Cache
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpirationSeconds, cleanUpIntervalSeconds int) *CacheService {
	defaultExpiration := time.Duration(defaultExpirationSeconds) * time.Second
	cleanUpInterval := time.Duration(cleanUpIntervalSeconds) * time.Second
	c := cache.New(defaultExpiration, cleanUpInterval)
	return &CacheService{cache: c}
}

func (cs *CacheService) Set(_ context.Context, key string, value []byte, duration time.Duration) error {
	cs.cache.Set(key, value, duration)
	return nil
}

func (cs *CacheService) Get(_ context.Context, key string) ([]byte, bool) {
	val, found := cs.cache.Get(key)
	if !found {
		return nil, false
	}
	data, ok := val.([]byte)
	return data, ok
}

// Take is not atomic across processes; the in-memory cache is only used by
// single-instance deployments.
func (cs *CacheService) Take(ctx context.Context, key string) ([]byte, bool) {
	data, found := cs.Get(ctx, key)
	if found {
		cs.cache.Delete(key)
	}
	return data, found
}

func (cs *CacheService) Delete(_ context.Context, key string) {
	cs.cache.Delete(key)
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}
