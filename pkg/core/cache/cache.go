// Package cache provides a typed, thread-safe in-memory cache with TTL
// support. Storage and expiry are delegated to go-cache; this package adds
// type safety, hit/miss statistics and GetOrSet.
package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NoExpiration marks entries that never expire.
const NoExpiration = gocache.NoExpiration

// Config holds cache configuration
type Config struct {
	// TTL is the default entry lifetime. Zero or negative means entries
	// never expire.
	TTL time.Duration

	// CleanupInterval controls how often expired entries are purged.
	CleanupInterval time.Duration
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		TTL:             10 * time.Minute,
		CleanupInterval: 30 * time.Minute,
	}
}

// Cache is a typed cache keyed by string
type Cache[V any] struct {
	items *gocache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new cache instance
func New[V any](cfg Config) *Cache[V] {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = NoExpiration
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = DefaultConfig().CleanupInterval
	}
	return &Cache[V]{items: gocache.New(ttl, cleanup)}
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	value, found := c.items.Get(key)
	if !found {
		c.misses.Add(1)
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return v, true
}

// Set stores a value in the cache with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.items.SetDefault(key, value)
}

// Clear removes all items from the cache
func (c *Cache[V]) Clear() {
	c.items.Flush()
}

// Size returns the number of items in the cache, including expired items
// not yet purged
func (c *Cache[V]) Size() int {
	return c.items.ItemCount()
}

// Stats returns cache statistics; hitRate is a percentage
func (c *Cache[V]) Stats() (hits, misses int64, hitRate float64) {
	hits = c.hits.Load()
	misses = c.misses.Load()
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}

// GetOrSet returns the cached value for key or computes, stores and
// returns it. Errors from fn are not cached.
func (c *Cache[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}

	val, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, val)
	return val, nil
}
