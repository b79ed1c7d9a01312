// Package cache holds serialized question lookups in memory or in Redis.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Cache stores opaque byte values with a TTL.
type Cache interface {
	// Get returns the value and true, or nil and false when missing or expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Stats() Stats
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

func (c *counters) snapshot(size int) Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

type entry struct {
	value      []byte
	expiration time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stats   counters
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryCache creates an in-memory cache. A positive cleanupInterval
// starts a janitor goroutine that Close stops.
func NewMemoryCache(cleanupInterval time.Duration) Cache {
	c := &memoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	} else {
		close(c.done)
	}

	return c
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || c.now().After(e.expiration) {
		c.stats.misses.Add(1)
		return nil, false
	}

	c.stats.hits.Add(1)
	return e.value, true
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:      append([]byte(nil), value...),
		expiration: c.now().Add(ttl),
	}
	c.stats.sets.Add(1)
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats.snapshot(len(c.entries))
}

func (c *memoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}

func (c *memoryCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, e := range c.entries {
		if now.After(e.expiration) {
			delete(c.entries, key)
			count++
		}
	}

	c.stats.evictions.Add(int64(count))
	return count
}

func (c *memoryCache) janitor(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

type noOpCache struct{}

// NewNoOpCache returns a cache that never stores anything.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (noOpCache) Set(context.Context, string, []byte, time.Duration) {}
func (noOpCache) Delete(context.Context, string)                     {}
func (noOpCache) Stats() Stats                                       { return Stats{} }
func (noOpCache) Close() error                                       { return nil }
