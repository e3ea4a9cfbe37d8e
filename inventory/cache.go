package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/liamcoop/carmatch/matching"
)

// Cache holds the active inventory between store reads.
type Cache interface {
	// Get returns the cached cars; ok is false on a miss
	Get(ctx context.Context) (cars []matching.Car, ok bool, err error)

	// Set replaces the cached cars
	Set(ctx context.Context, cars []matching.Car) error

	// Invalidate drops the cached cars
	Invalidate(ctx context.Context) error
}

// InMemoryCache is a process-local Cache with an optional TTL.
// Safe for concurrent use.
type InMemoryCache struct {
	cars     []matching.Car
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
	valid    bool
	mu       sync.RWMutex
}

// NewInMemoryCache creates an empty cache. A zero ttl never expires.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{ttl: ttl, now: time.Now}
}

func (c *InMemoryCache) Get(_ context.Context) ([]matching.Car, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || (c.ttl > 0 && c.now().Sub(c.cachedAt) > c.ttl) {
		return nil, false, nil
	}
	out := make([]matching.Car, len(c.cars))
	copy(out, c.cars)
	return out, true, nil
}

func (c *InMemoryCache) Set(_ context.Context, cars []matching.Car) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cars = make([]matching.Car, len(cars))
	copy(c.cars, cars)
	c.cachedAt = c.now()
	c.valid = true
	return nil
}

func (c *InMemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	c.cars = nil
	return nil
}
