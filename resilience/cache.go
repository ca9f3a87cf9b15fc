package resilience

import (
	"sync"
	"time"
)

// cacheEntry holds a cached value and its expiry.
type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is a small time-to-live cache, generalized from the teacher's
// strategy.StrategyCache. It is used by the advisor to avoid re-calling the
// LLM for a driver whose derived state has not materially changed.
type TTLCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	defaultTTL time.Duration
	maxEntries int
}

// NewTTLCache creates a cache with the given default entry lifetime and a
// soft cap on entry count (oldest entries are evicted once exceeded).
func NewTTLCache(defaultTTL time.Duration, maxEntries int) *TTLCache {
	return &TTLCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
		maxEntries: maxEntries,
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with the cache's default TTL.
func (c *TTLCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(c.defaultTTL)}
}

func (c *TTLCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.expiresAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
