// Package cache provides process-local bounded caches.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a size-bounded LRU whose entries expire after a fixed TTL.
// Expired entries are dropped when read; there is no background sweeper.
// Each process has its own cache, so instances never see each other's entries.
type TTLCache[K comparable, V any] struct {
	entries *lru.Cache[K, item[V]]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache builds a cache holding at most size entries for ttl each.
func NewTTLCache[K comparable, V any](size int, ttl time.Duration, now func() time.Time) (*TTLCache[K, V], error) {
	entries, err := lru.New[K, item[V]](size)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &TTLCache[K, V]{entries: entries, ttl: ttl, now: now}, nil
}

// Get returns the live value for key.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	it, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	if !c.now().Before(it.expiresAt) {
		c.entries.Remove(key)
		return zero, false
	}
	return it.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.entries.Add(key, item[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// GetMany splits keys into those with live values and those without.
func (c *TTLCache[K, V]) GetMany(keys []K) (map[K]V, []K) {
	hits := make(map[K]V, len(keys))
	var misses []K
	for _, key := range keys {
		if v, ok := c.Get(key); ok {
			hits[key] = v
			continue
		}
		misses = append(misses, key)
	}
	return hits, misses
}

// Len counts stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	return c.entries.Len()
}
