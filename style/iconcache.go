// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"slices"
	"sync"

	"github.com/gogpu/ggmap"
)

// DefaultIconCacheSize is the default maximum number of entries an
// IconImageCache keeps after a sweep.
const DefaultIconCacheSize = 32

// CacheEntry describes a cache entry to a SweepStrategy.
type CacheEntry struct {
	Key string

	// Referenced is true while something listens to the image.
	Referenced bool

	// LastUsed is the access tick of the most recent Get or Set.
	LastUsed int64

	// Inserted is the insertion sequence number.
	Inserted int64
}

// SweepStrategy selects the entries a sweep evicts. Evict receives every
// entry ordered by insertion and returns the keys to remove. Referenced
// entries must never be returned.
type SweepStrategy interface {
	Evict(entries []CacheEntry, maxSize int) []string
}

// FullSweep evicts every unreferenced entry.
type FullSweep struct{}

// Evict implements SweepStrategy.
func (FullSweep) Evict(entries []CacheEntry, _ int) []string {
	var keys []string
	for _, e := range entries {
		if !e.Referenced {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// PartialSweep evicts unreferenced entries at every n-th position in
// insertion order, spreading eviction over several sweeps.
type PartialSweep int

// Evict implements SweepStrategy.
func (n PartialSweep) Evict(entries []CacheEntry, maxSize int) []string {
	if n <= 1 {
		return FullSweep{}.Evict(entries, maxSize)
	}
	var keys []string
	for i, e := range entries {
		if i%int(n) == 0 && !e.Referenced {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// LRUSweep evicts unreferenced entries least recently used first until
// the cache is back at its maximum size.
type LRUSweep struct{}

// Evict implements SweepStrategy.
func (LRUSweep) Evict(entries []CacheEntry, maxSize int) []string {
	candidates := make([]CacheEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Referenced {
			candidates = append(candidates, e)
		}
	}
	slices.SortStableFunc(candidates, func(a, b CacheEntry) int {
		switch {
		case a.LastUsed < b.LastUsed:
			return -1
		case a.LastUsed > b.LastUsed:
			return 1
		}
		return 0
	})
	excess := len(entries) - maxSize
	if excess > len(candidates) {
		excess = len(candidates)
	}
	keys := make([]string, 0, max(excess, 0))
	for _, e := range candidates[:max(excess, 0)] {
		keys = append(keys, e.Key)
	}
	return keys
}

// cacheOptions configures an IconImageCache.
type cacheOptions struct {
	maxSize  int
	strategy SweepStrategy
}

// CacheOption configures an IconImageCache.
type CacheOption func(*cacheOptions)

// WithMaxSize sets the size above which a sweep evicts entries.
func WithMaxSize(n int) CacheOption {
	return func(o *cacheOptions) { o.maxSize = n }
}

// WithSweepStrategy sets the eviction strategy. The default is FullSweep.
func WithSweepStrategy(s SweepStrategy) CacheOption {
	return func(o *cacheOptions) { o.strategy = s }
}

// IconImageCache shares IconImages between icons with the same source and
// cross-origin mode. It grows without bound between sweeps; Sweep evicts
// unreferenced entries once the cache holds more than its maximum size.
//
// IconImageCache is safe for concurrent use.
type IconImageCache struct {
	mu       sync.Mutex
	entries  map[string]*iconCacheEntry
	maxSize  int
	strategy SweepStrategy
	tick     int64 // Monotonic access counter
	seq      int64 // Monotonic insertion counter

	hits      uint64
	misses    uint64
	evictions uint64
}

type iconCacheEntry struct {
	image    *IconImage
	atime    int64
	inserted int64
}

// NewIconImageCache creates an empty cache.
func NewIconImageCache(opts ...CacheOption) *IconImageCache {
	o := cacheOptions{maxSize: DefaultIconCacheSize, strategy: FullSweep{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &IconImageCache{
		entries:  make(map[string]*iconCacheEntry),
		maxSize:  o.maxSize,
		strategy: o.strategy,
	}
}

func iconCacheKey(src, crossOrigin string) string {
	return crossOrigin + ":" + src
}

// Get returns the cached image, or nil.
func (c *IconImageCache) Get(src, crossOrigin string) *IconImage {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[iconCacheKey(src, crossOrigin)]
	if !ok {
		c.misses++
		return nil
	}
	c.hits++
	c.tick++
	e.atime = c.tick
	return e.image
}

// Set stores img, replacing any entry with the same key.
func (c *IconImageCache) Set(src, crossOrigin string, img *IconImage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.seq++
	c.entries[iconCacheKey(src, crossOrigin)] = &iconCacheEntry{
		image:    img,
		atime:    c.tick,
		inserted: c.seq,
	}
}

// Sweep evicts entries chosen by the sweep strategy when the cache holds
// more than its maximum size. It returns the number of evicted entries.
func (c *IconImageCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) <= c.maxSize {
		return 0
	}
	entries := make([]CacheEntry, 0, len(c.entries))
	for key, e := range c.entries {
		entries = append(entries, CacheEntry{
			Key:        key,
			Referenced: e.image.HasListeners(),
			LastUsed:   e.atime,
			Inserted:   e.inserted,
		})
	}
	slices.SortFunc(entries, func(a, b CacheEntry) int {
		return int(a.Inserted - b.Inserted)
	})

	evicted := 0
	for _, key := range c.strategy.Evict(entries, c.maxSize) {
		e, ok := c.entries[key]
		if !ok || e.image.HasListeners() {
			continue
		}
		delete(c.entries, key)
		evicted++
	}
	c.evictions += uint64(evicted)
	ggmap.Logger().Debug("style: icon cache sweep", "evicted", evicted, "len", len(c.entries))
	return evicted
}

// Clear removes every entry.
func (c *IconImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*iconCacheEntry)
	c.tick = 0
	c.seq = 0
}

// Len returns the number of entries.
func (c *IconImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// MaxSize returns the size above which Sweep evicts.
func (c *IconImageCache) MaxSize() int {
	return c.maxSize
}

// Stats returns cache statistics.
func (c *IconImageCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Len:       len(c.entries),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	// Len is the current number of entries.
	Len int
	// MaxSize is the size above which a sweep evicts.
	MaxSize int
	// Hits is the number of Get calls that found an entry.
	Hits uint64
	// Misses is the number of Get calls that found nothing.
	Misses uint64
	// Evictions is the number of entries removed by sweeps.
	Evictions uint64
}
