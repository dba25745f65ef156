//go:build !nogpu

package hal

import (
	"sync"
	"sync/atomic"
)

// CacheStats reports the use of one device cache.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// cache maps keys to lazily created HAL objects.
//
// Thread Safety:
// cache is safe for concurrent use. It uses RWMutex with double-check
// locking: lookups take the read lock, and creation happens under the write
// lock after a second lookup, so an object is created once per key.
type cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newCache[K comparable, V any]() *cache[K, V] {
	return &cache[K, V]{entries: make(map[K]V)}
}

// getOrCreate returns the cached value of key or stores the one create
// returns. A failed create stores nothing.
func (c *cache[K, V]) getOrCreate(key K, create func() (V, error)) (V, error) {
	// Fast path: read lock
	c.mu.RLock()
	if v, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return v, nil
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return v, nil
	}

	v, err := create()
	if err != nil {
		return v, err
	}
	c.entries[key] = v
	c.misses.Add(1)
	return v, nil
}

// evict removes every entry whose key matches and returns the removed
// values for the caller to destroy.
func (c *cache[K, V]) evict(match func(K) bool) []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []V
	for k, v := range c.entries {
		if match(k) {
			out = append(out, v)
			delete(c.entries, k)
		}
	}
	return out
}

// stats returns the hit and miss counters and the entry count.
func (c *cache[K, V]) stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}
