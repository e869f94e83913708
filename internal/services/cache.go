package services

import (
	"context"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/metrics"
)

// cached serves public content through the cache and records hits and
// misses per key.
func cached[T any](ctx context.Context, c common.CacheInterface, m *metrics.MetricsRegistry, key constants.CachePrefix, loader func() (T, error)) (T, error) {
	val, hit, err := common.GetOrSet(ctx, c, string(key), constants.PublicContentTTL, loader)
	if err != nil {
		return val, err
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(string(key)).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(string(key)).Inc()
	}
	return val, nil
}
