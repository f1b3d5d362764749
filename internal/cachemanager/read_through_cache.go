package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache wraps a loader function with a cache: misses invoke the
// loader and store its result. skipCache short-circuits to the loader,
// which watch mode uses for forced re-renders.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache     CacheManager[K, V]
	fn        func(ctx context.Context, input I) (V, error)
	skipCache bool
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	skipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:     cache,
		fn:        fn,
		skipCache: skipCache,
	}
}

// Get returns the cached value for key, or loads, stores, and returns it.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.skipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}
