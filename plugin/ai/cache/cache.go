// Package cache provides the TTL cache for intent classification results.
//
// Eviction under size pressure removes the oldest ~10% of entries by
// insertion order. Reads do not bump recency, so the policy is an
// approximate FIFO rather than LRU; this mirrors the access pattern the
// router needs (repeated identical queries within a short window) and is
// kept deliberately, see DESIGN.md.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Default sizing. A Config zero value picks these up.
const (
	DefaultTTL             = 5 * time.Minute
	DefaultMaxSize         = 1000
	DefaultCleanupInterval = time.Minute

	// evictFraction is the share of entries dropped when the cache is full.
	evictFraction = 0.1
)

// Config configures an intent cache instance.
type Config struct {
	TTL             time.Duration
	MaxSize         int
	CleanupInterval time.Duration // <= 0 disables the background sweep
}

// Cache is a TTL keyed store for classification results. Entries are
// immutable once written; concurrent readers and writers racing on the same
// key is harmless (last write wins).
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	order   []string // insertion order, may contain stale keys
	ttl     time.Duration
	maxSize int

	cancel context.CancelFunc
	wg     sync.WaitGroup

	now func() time.Time // test hook
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// New creates a cache and starts its periodic sweep when the config asks
// for one. Callers own the instance and must call Destroy to stop the sweep.
func New[T any](cfg Config) *Cache[T] {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}

	c := &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     cfg.TTL,
		maxSize: cfg.MaxSize,
		now:     time.Now,
	}

	if cfg.CleanupInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go c.sweepLoop(ctx, cfg.CleanupInterval)
	}

	return c
}

// Key derives the cache key from a message and its UI coordinates.
// Format: normalized message, module, page joined with ":".
func Key(message, module, page string) string {
	if module == "" {
		module = "unknown"
	}
	if page == "" {
		page = "unknown"
	}
	normalized := strings.ToLower(strings.TrimSpace(message))
	return normalized + ":" + module + ":" + page
}

// Get returns the live value for a key. An expired entry is deleted and
// reported as a miss; read-time expiry is authoritative, the periodic sweep
// only reclaims memory.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Has reports whether a live entry exists for the key.
func (c *Cache[T]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with an explicit TTL, evicting the oldest
// entries first when the cache is full.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxSize {
			c.evictOldestLocked()
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry[T]{value: value, expiresAt: c.now().Add(ttl)}
}

// Delete removes a key. Returns whether a live entry existed.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear removes every entry. Testing hook.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
	c.order = nil
}

// Size returns the number of stored entries, expired or not.
func (c *Cache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats describes the cache state.
type Stats struct {
	Size    int
	MaxSize int
	TTL     time.Duration
}

// GetStats returns the current cache statistics.
func (c *Cache[T]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Size: len(c.entries), MaxSize: c.maxSize, TTL: c.ttl}
}

// Cleanup removes expired entries and compacts the insertion-order index.
// Returns the number of entries removed.
func (c *Cache[T]) Cleanup() int {
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

	// Drop stale keys from the order index.
	live := c.order[:0]
	for _, key := range c.order {
		if _, ok := c.entries[key]; ok {
			live = append(live, key)
		}
	}
	c.order = live

	return removed
}

// Destroy stops the background sweep and clears the cache. Safe to call
// multiple times.
func (c *Cache[T]) Destroy() {
	if c.cancel != nil {
		c.cancel()
		c.wg.Wait()
		c.cancel = nil
	}
	c.Clear()
}

// evictOldestLocked removes the oldest ~10% of live entries by insertion
// order. Must be called with the lock held.
func (c *Cache[T]) evictOldestLocked() {
	toRemove := int(float64(c.maxSize) * evictFraction)
	if toRemove < 1 {
		toRemove = 1
	}

	removed := 0
	kept := c.order[:0]
	for _, key := range c.order {
		if _, ok := c.entries[key]; !ok {
			continue // stale index entry
		}
		if removed < toRemove {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
}

func (c *Cache[T]) sweepLoop(ctx context.Context, interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}
