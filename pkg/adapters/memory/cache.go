package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/modulink/pkg/domain"
)

type cacheEntry struct {
	payload map[string]any
	expires time.Time // zero: never
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Cache implements ports.Cache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]cacheEntry
	mu   sync.RWMutex
	now  func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty in-memory cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the payload stored under key.
// Expired entries are dropped on read.
func (c *Cache) Get(ctx context.Context, key string) (map[string]any, bool, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		// The entry may have been replaced since the read lock was released.
		if current, ok := c.data[key]; ok && current.expired(c.now()) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return domain.CloneData(entry.payload), true, nil
}

// Set stores a copy of payload. Expired entries are swept on write.
func (c *Cache) Set(ctx context.Context, key string, payload map[string]any, ttl time.Duration) error {
	now := c.now()
	entry := cacheEntry{payload: domain.CloneData(payload)}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
		}
	}
	c.data[key] = entry
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
