// Package cachemanager provides the in-memory cache behind watch-mode
// rendering: re-renders are skipped while the input digest is unchanged.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is the cache contract used by the export service.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	Flush(ctx context.Context)
}
