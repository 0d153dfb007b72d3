package styles

import "sync"

// DefaultCacheCapacity bounds the number of distinct renders kept before the
// cache flushes.
const DefaultCacheCapacity = 1000

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Flushes  uint64 `json:"flushes"`
	Entries  int    `json:"entries"`
	Capacity int    `json:"capacity"`
}

// RenderCache memoizes rendered CSS by input key. Once more than capacity
// distinct keys have been stored since the last flush, the whole cache is
// dropped and the counter restarts before the new entry is inserted.
type RenderCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]string
	count    int
	hits     uint64
	misses   uint64
	flushes  uint64
}

// NewRenderCache constructs a cache. Non-positive capacities use
// DefaultCacheCapacity.
func NewRenderCache(capacity int) *RenderCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &RenderCache{
		capacity: capacity,
		entries:  make(map[string]string),
	}
}

// Get returns the CSS stored for key and records a hit or miss.
func (c *RenderCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	css, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return css, ok
}

// Store records css under key. It reports whether the insert flushed the
// cache. Storing a key already present overwrites it without counting.
func (c *RenderCache) Store(key, css string) (flushed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	if _, ok := c.entries[key]; ok {
		c.entries[key] = css
		return false
	}
	c.count++
	if c.count > c.capacity {
		c.count = 0
		c.entries = make(map[string]string)
		c.flushes++
		flushed = true
	}
	c.entries[key] = css
	return flushed
}

// Len returns the number of stored entries.
func (c *RenderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Count returns the insert counter since the last flush.
func (c *RenderCache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Capacity returns the flush threshold.
func (c *RenderCache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *RenderCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Flushes:  c.flushes,
		Entries:  len(c.entries),
		Capacity: c.capacity,
	}
}

// Reset drops every entry and zeroes the counters.
func (c *RenderCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	c.count = 0
	c.hits = 0
	c.misses = 0
	c.flushes = 0
}
