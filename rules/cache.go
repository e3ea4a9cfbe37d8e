package rules

import "time"

// RulesCache holds the active rule set between store reads.
type RulesCache interface {
	// Get returns the cached rules, or nil on a miss or after expiry
	Get() []*Rule

	// Set replaces the cached rules
	Set(rules []*Rule)

	// Invalidate clears the cache, forcing a store read on next Get
	Invalidate()

	// IsValid reports whether Get would hit
	IsValid() bool
}

// CacheConfig controls rule cache expiry.
type CacheConfig struct {
	// TTL of the cached rule set. Zero means entries live until invalidated.
	TTL time.Duration
}

// DefaultCacheConfig keeps rules until a mutation invalidates them.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 0}
}
