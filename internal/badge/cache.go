package badge

import (
	"sync"
	"time"
)

// Cache keeps rendered badges in memory for a short period.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]entry
	cacheTTL time.Duration
	maxSize  int
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache creates a badge cache with the specified TTL, holding at most
// maxSize badges.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		entries:  make(map[string]entry),
		cacheTTL: ttl,
		maxSize:  maxSize,
	}
}

// Key identifies a badge by everything that changes its pixels.
func Key(d Data) string {
	day := "night"
	if d.Daytime {
		day = "day"
	}
	return formatScore(d.Score) + "|" + string(d.Condition) + "|" + day + "|" + d.Label
}

// Get returns the cached badge if still valid.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set stores a badge, dropping expired entries when the cache is full.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if len(c.entries) >= c.maxSize {
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	if len(c.entries) >= c.maxSize {
		// Still full of live badges; start over rather than grow.
		c.entries = make(map[string]entry)
	}
	c.entries[key] = entry{data: data, expiresAt: now.Add(c.cacheTTL)}
}
