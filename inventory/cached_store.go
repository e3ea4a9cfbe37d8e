package inventory

import (
	"context"

	"github.com/liamcoop/carmatch/internal/logger"
	"github.com/liamcoop/carmatch/matching"
)

// CachedStore serves ListActive from a Cache and everything else from the
// wrapped Store. A failing cache degrades to direct store reads.
type CachedStore struct {
	Store
	cache Cache
}

// NewCachedStore wraps store with cache.
func NewCachedStore(store Store, cache Cache) *CachedStore {
	return &CachedStore{Store: store, cache: cache}
}

func (s *CachedStore) ListActive(ctx context.Context) ([]matching.Car, error) {
	cars, ok, err := s.cache.Get(ctx)
	if err != nil {
		logger.CacheFailures.Add(1)
		logger.Warn("inventory cache read failed", "error", err)
	}
	if ok {
		return cars, nil
	}

	logger.CacheMisses.Add(1)
	cars, err = s.Store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cars); err != nil {
		logger.CacheFailures.Add(1)
		logger.Warn("inventory cache write failed", "error", err)
	}
	return cars, nil
}

// Refresh drops the cached inventory so the next ListActive reads the store.
func (s *CachedStore) Refresh(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
