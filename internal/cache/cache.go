// Package cache provides the in-process TTL store used to memoize computed
// artifacts such as AQI grids, wind fields and pollution source lists.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aerohealth/aerohealth/internal/observability"
)

// TTL classes per artifact volatility.
const (
	TTLAQIGrid          = 15 * time.Minute
	TTLWind             = 30 * time.Minute
	TTLPollen           = time.Hour
	TTLWildfires        = time.Hour
	TTLPollutionSources = 24 * time.Hour
	TTLNationalAQI      = 30 * time.Minute
)

// Entry is a cached value with its lifetime.
type Entry struct {
	Value     any
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Size    int      `json:"size"`
	Keys    []string `json:"keys"`
	Expired int      `json:"expired"`
}

// Config holds configuration for the cache.
type Config struct {
	// Clock is the time source (default: real clock).
	Clock clockwork.Clock

	// Metrics receives lookup and eviction counts. Optional.
	Metrics *observability.CacheMetrics
}

// Cache is a mutex-guarded TTL store. It never evicts under memory pressure;
// entries leave only when they expire, are deleted, or the cache is cleared.
type Cache struct {
	clock   clockwork.Clock
	metrics *observability.CacheMetrics

	mu      sync.Mutex
	entries map[string]Entry
}

// New creates an empty cache.
func New(cfg Config) *Cache {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Cache{
		clock:   clock,
		metrics: cfg.Metrics,
		entries: make(map[string]Entry),
	}
}

// Clock returns the time source the cache expires entries against.
func (c *Cache) Clock() clockwork.Clock {
	return c.clock
}

// Set stores value under key for ttl, replacing any existing entry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.updateSize()
}

// Get returns the value stored under key. An expired entry is removed and
// reported as absent.
func (c *Cache) Get(key string) (any, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.recordLookup(key, "miss")
		return nil, false
	}

	if entry.Expired(now) {
		delete(c.entries, key)
		c.recordLookup(key, "expired")
		c.recordEviction("expired", 1)
		c.updateSize()
		return nil, false
	}

	c.recordLookup(key, "hit")
	return entry.Value, true
}

// GetAs returns the value under key when it is present and of type T.
func GetAs[T any](c *Cache, key string) (T, bool) {
	var zero T

	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}

	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Has reports whether a live entry exists under key.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key unconditionally.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.recordEviction("delete", 1)
		c.updateSize()
	}
}

// ClearExpired removes every expired entry and returns how many were removed.
func (c *Cache) ClearExpired() int {
	start := time.Now()
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if entry.Expired(now) {
			delete(c.entries, key)
			removed++
		}
	}

	c.recordEviction("sweep", removed)
	c.updateSize()
	if c.metrics != nil {
		c.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}

	return removed
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recordEviction("clear", len(c.entries))
	c.entries = make(map[string]Entry)
	c.updateSize()
}

// Stats returns the current size, sorted keys and the number of entries that
// have expired but not yet been removed.
func (c *Cache) Stats() Stats {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Size: len(c.entries),
		Keys: make([]string, 0, len(c.entries)),
	}
	for key, entry := range c.entries {
		stats.Keys = append(stats.Keys, key)
		if entry.Expired(now) {
			stats.Expired++
		}
	}
	sort.Strings(stats.Keys)

	return stats
}

func (c *Cache) recordLookup(key, result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.Lookups.WithLabelValues(operationOf(key), result).Inc()
}

func (c *Cache) recordEviction(reason string, n int) {
	if c.metrics == nil || n == 0 {
		return
	}
	c.metrics.Evictions.WithLabelValues(reason).Add(float64(n))
}

// updateSize must be called with mu held.
func (c *Cache) updateSize() {
	if c.metrics == nil {
		return
	}
	c.metrics.Entries.Set(float64(len(c.entries)))
}

// operationOf extracts the operation prefix of a canonical key so metric
// labels stay low-cardinality.
func operationOf(key string) string {
	if op, _, found := strings.Cut(key, ":"); found {
		return op
	}
	return key
}
