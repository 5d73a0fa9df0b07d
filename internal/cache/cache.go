// Package cache provides a generic in-memory key/value store with
// per-entry time-to-live expiry. Every provider service owns its own
// Cache instance; there is no shared global state.
package cache

import (
	"sync"
	"time"
)

// Stats reports the current state of a cache.
type Stats struct {
	Size         int
	OldestExpiry time.Time // zero when the cache is empty
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a string-keyed store whose entries expire after a TTL.
// Expired entries are removed lazily on Get or in bulk via Prune;
// there is no background sweeper, so growth is unbounded between
// Prune calls. All methods are safe for concurrent use, but
// concurrent misses on the same key are not coalesced — each caller
// performs its own fetch.
type Cache[V any] struct {
	mu         sync.RWMutex
	defaultTTL time.Duration
	entries    map[string]entry[V]

	// Overridable for testing
	now func() time.Time
}

// New creates a cache whose Set entries expire after defaultTTL.
func New[V any](defaultTTL time.Duration) *Cache[V] {
	return &Cache[V]{
		defaultTTL: defaultTTL,
		entries:    make(map[string]entry[V]),
		now:        time.Now,
	}
}

// Get returns the value stored under key. An entry is visible while
// the current time is at or before its expiry; once past, the entry
// is removed as a side effect and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL, replacing any
// existing entry for that key.
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL, replacing any
// existing entry for that key.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Delete removes the entry for key and reports whether one existed.
// Deleting an absent key is a no-op.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear removes all entries unconditionally. Called on settings
// changes that invalidate previously fetched responses.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}

// Prune removes every entry whose expiry has passed as of the call
// and returns the number removed. Entries still within their TTL are
// untouched.
func (c *Cache[V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns the entry count and the nearest expiry across all
// entries, including ones that have expired but not yet been swept.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{Size: len(c.entries)}
	for _, e := range c.entries {
		if s.OldestExpiry.IsZero() || e.expiresAt.Before(s.OldestExpiry) {
			s.OldestExpiry = e.expiresAt
		}
	}
	return s
}
