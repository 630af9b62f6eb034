package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/observability"
)

var epoch = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func newTestCache(t *testing.T) (*cache.Cache, *clockwork.FakeClock, *observability.CacheMetrics) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	metrics := observability.NewCacheMetricsForTesting()
	return cache.New(cache.Config{Clock: clock, Metrics: metrics}), clock, metrics
}

func TestCache_SetGet(t *testing.T) {
	c, clock, _ := newTestCache(t)

	c.Set("k", "v", time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	// still live exactly at expiry
	clock.Advance(time.Second)
	assert.True(t, c.Has("k"))

	clock.Advance(time.Millisecond)
	got, ok = c.Get("k")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, c.Stats().Size, "expired entry removed on read")
}

func TestCache_SetOverwrites(t *testing.T) {
	c, clock, _ := newTestCache(t)

	c.Set("k", 1, time.Second)
	c.Set("k", 2, time.Minute)
	clock.Advance(30 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCache_Delete(t *testing.T) {
	c, _, metrics := newTestCache(t)

	c.Set("a", 1, time.Minute)
	c.Delete("a")
	c.Delete("missing")

	assert.False(t, c.Has("a"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Evictions.WithLabelValues("delete")))
}

func TestCache_ClearExpired(t *testing.T) {
	c, clock, metrics := newTestCache(t)

	c.Set("short", 1, time.Minute)
	c.Set("long", 2, time.Hour)
	clock.Advance(2 * time.Minute)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 1, stats.Expired)

	removed := c.ClearExpired()
	assert.Equal(t, 1, removed)

	stats = c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, []string{"long"}, stats.Keys)
	assert.Equal(t, 0, stats.Expired)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Entries))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Evictions.WithLabelValues("sweep")))
}

func TestCache_Clear(t *testing.T) {
	c, _, _ := newTestCache(t)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	assert.Equal(t, 0, c.Stats().Size)
	assert.False(t, c.Has("a"))
}

func TestCache_StatsKeysSorted(t *testing.T) {
	c, _, _ := newTestCache(t)

	c.Set("wind:lat=1", 1, time.Minute)
	c.Set("aqi-grid:lat=1", 1, time.Minute)

	assert.Equal(t, []string{"aqi-grid:lat=1", "wind:lat=1"}, c.Stats().Keys)
}

func TestCache_LookupMetrics(t *testing.T) {
	c, clock, metrics := newTestCache(t)

	key := cache.CanonicalKey("wind", cache.Params{"lat": "1.0000"})
	c.Set(key, 1, time.Minute)
	c.Get(key)
	c.Get("wind:lat=2.0000")
	clock.Advance(2 * time.Minute)
	c.Get(key)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Lookups.WithLabelValues("wind", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Lookups.WithLabelValues("wind", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Lookups.WithLabelValues("wind", "expired")))
}

func TestGetAs(t *testing.T) {
	c, _, _ := newTestCache(t)

	type payload struct{ N int }
	c.Set("p", &payload{N: 7}, time.Minute)

	got, ok := cache.GetAs[*payload](c, "p")
	require.True(t, ok)
	assert.Equal(t, 7, got.N)

	_, ok = cache.GetAs[string](c, "p")
	assert.False(t, ok, "wrong type is a miss")

	_, ok = cache.GetAs[*payload](c, "absent")
	assert.False(t, ok)
}

func TestCache_NilMetrics(t *testing.T) {
	c := cache.New(cache.Config{})

	c.Set("k", 1, time.Minute)
	assert.True(t, c.Has("k"))
	assert.Equal(t, 0, c.ClearExpired())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, _, _ := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := cache.CanonicalKey("op", cache.Params{"i": cache.Number(float64(i % 5))})
			c.Set(key, i, time.Minute)
			c.Get(key)
			c.Stats()
			c.ClearExpired()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Stats().Size)
}

func TestCanonicalKey(t *testing.T) {
	a := cache.CanonicalKey("op", cache.Params{"b": "2", "a": "1"})
	b := cache.CanonicalKey("op", cache.Params{"a": "1", "b": "2"})

	assert.Equal(t, a, b)
	assert.Equal(t, "op:a=1&b=2", a)
	assert.Equal(t, "op:", cache.CanonicalKey("op", nil))
}

func TestCoord(t *testing.T) {
	assert.Equal(t, "40.7128", cache.Coord(40.71284))
	assert.Equal(t, "-74.0000", cache.Coord(-74))
	assert.Equal(t, "25", cache.Number(25))
	assert.Equal(t, "0.5", cache.Number(0.5))
}
