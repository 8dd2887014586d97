// Package geocache is an in-memory cache of geocoding results keyed by the
// exact query string. It is a pure optimization: correctness never depends
// on it, and a miss simply forwards to the underlying geocoder.
package geocache

import (
	"sync"
	"time"

	"github.com/noxistepan/trip-planner/internal/trip"
)

type entry struct {
	place    trip.PlaceResolution
	storedAt time.Time
}

// Cache is a concurrency-safe TTL- and capacity-bounded geocoding cache.
type Cache struct {
	mu sync.RWMutex

	// key: exact query string
	data map[string]entry

	maxEntries int           // max cached queries (0 = unlimited)
	ttl        time.Duration // max age of an entry (0 = unlimited)
}

// New creates a Cache with optional limits. maxEntries <= 0 means unlimited,
// ttl <= 0 means entries never expire.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get returns the cached resolution for the exact query, if present and
// not expired.
func (c *Cache) Get(query string) (trip.PlaceResolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[query]
	if !ok {
		return trip.PlaceResolution{}, false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		return trip.PlaceResolution{}, false
	}
	return e.place, true
}

// Put stores a resolution for the exact query. When the cache is full the
// oldest entry is evicted.
func (c *Cache) Put(query string, place trip.PlaceResolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		if _, exists := c.data[query]; !exists {
			c.evictOldestLocked()
		}
	}

	c.data[query] = entry{place: place, storedAt: time.Now()}
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for query, e := range c.data {
		if e.storedAt.Before(cutoff) {
			delete(c.data, query)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for query, e := range c.data {
		if first || e.storedAt.Before(oldestAt) {
			oldestKey = query
			oldestAt = e.storedAt
			first = false
		}
	}
	if !first {
		delete(c.data, oldestKey)
	}
}
