package sources

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/observability"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
)

const (
	// CacheOperation prefixes aggregation cache keys.
	CacheOperation = "pollution-sources"

	// DefaultRadiusKm is used when a caller does not specify a radius.
	DefaultRadiusKm = 25.0
)

// AggregatorConfig holds configuration for the aggregator.
type AggregatorConfig struct {
	// Providers are queried concurrently on every cache miss.
	Providers []Provider

	// Cache memoizes results. Required.
	Cache *cache.Cache

	// Registry receives per-provider outcomes. Optional.
	Registry *resilience.Registry

	// Metrics records provider call durations and cache outcomes. Optional.
	Metrics *observability.ProviderMetrics

	// Clock stamps results (default: the cache's clock).
	Clock clockwork.Clock

	Logger zerolog.Logger
}

// Aggregator merges the sources of several providers into one ranked list.
type Aggregator struct {
	providers []Provider
	cache     *cache.Cache
	registry  *resilience.Registry
	metrics   *observability.ProviderMetrics
	clock     clockwork.Clock
	logger    zerolog.Logger
}

// NewAggregator creates a new aggregator.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	clock := cfg.Clock
	if clock == nil {
		clock = cfg.Cache.Clock()
	}

	return &Aggregator{
		providers: cfg.Providers,
		cache:     cfg.Cache,
		registry:  cfg.Registry,
		metrics:   cfg.Metrics,
		clock:     clock,
		logger:    cfg.Logger,
	}
}

// CacheKey returns the cache key for a query.
func CacheKey(center geo.Point, radiusKm float64) string {
	return cache.CanonicalKey(CacheOperation, cache.Params{
		"lat":    cache.Coord(center.Lat),
		"lon":    cache.Coord(center.Lon),
		"radius": cache.Number(radiusKm),
	})
}

// Aggregate returns the pollution sources around center within radiusKm,
// sorted by ascending distance.
//
// Each provider is isolated: a failing provider is logged and contributes
// nothing, the others are unaffected. Results are cached for an hour when
// they contain wildfires and for a day otherwise.
//
// The cache key rounds the centre to four decimal places. A hit returns the
// result computed for the first caller in that cell, including its Center and
// the distances measured from it.
func (a *Aggregator) Aggregate(ctx context.Context, center geo.Point, radiusKm float64) (*Result, error) {
	region, err := geo.BoundingBox(center, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	key := CacheKey(center, radiusKm)
	if cached, ok := cache.GetAs[*Result](a.cache, key); ok {
		a.metrics.RecordCacheHit("sources", CacheOperation)
		a.logger.Debug().Str("key", key).Int("count", cached.Count()).Msg("pollution sources served from cache")
		return cached, nil
	}
	a.metrics.RecordCacheMiss("sources", CacheOperation)

	q := Query{Center: center, RadiusKm: radiusKm, Region: region}
	outcomes := a.fetchAll(ctx, q)

	var merged []Source
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		merged = append(merged, o.Sources...)
	}

	result := &Result{
		Sources:     rank(center, merged),
		Center:      center,
		RadiusKm:    radiusKm,
		GeneratedAt: a.clock.Now(),
		Providers:   outcomes,
	}

	// results of a cancelled request are not cached
	if ctx.Err() != nil {
		return result, nil
	}

	ttl := cache.TTLPollutionSources
	if result.HasWildfires() {
		ttl = cache.TTLWildfires
	}
	a.cache.Set(key, result, ttl)

	a.logger.Info().
		Str("center", center.String()).
		Float64("radius_km", radiusKm).
		Int("count", result.Count()).
		Dur("ttl", ttl).
		Msg("pollution sources aggregated")

	return result, nil
}

// fetchAll queries every provider concurrently. The returned slice is in
// provider order regardless of completion order.
func (a *Aggregator) fetchAll(ctx context.Context, q Query) []ProviderResult {
	outcomes := make([]ProviderResult, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			outcomes[i] = a.fetchOne(ctx, p, q)
		}(i, p)
	}
	wg.Wait()

	return outcomes
}

func (a *Aggregator) fetchOne(ctx context.Context, p Provider, q Query) (out ProviderResult) {
	name := p.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out = ProviderResult{Provider: name, Err: fmt.Errorf("provider panicked: %v", r)}
			a.logger.Error().Str("provider", name).Interface("panic", r).Msg("provider panicked")
		}
	}()

	srcs, err := p.FetchSources(ctx, q)
	duration := time.Since(start)

	a.metrics.RecordRequest(name, "fetch_sources", duration, err)
	if a.registry != nil {
		a.registry.Record(name, err)
	}

	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("provider", name).
			Dur("duration", duration).
			Msg("pollution source provider failed")
		return ProviderResult{Provider: name, Err: err, Duration: duration}
	}

	a.metrics.RecordSources(name, len(srcs))
	a.logger.Debug().
		Str("provider", name).
		Int("count", len(srcs)).
		Dur("duration", duration).
		Msg("pollution source provider succeeded")

	return ProviderResult{Provider: name, Sources: srcs, Duration: duration}
}

// rank computes distances, sorts by distance then ID and drops duplicate IDs.
func rank(center geo.Point, srcs []Source) []Source {
	ranked := make([]Source, 0, len(srcs))
	for _, s := range srcs {
		s.DistanceKm = geo.RoundKm(geo.DistanceKm(center, s.Location))
		ranked = append(ranked, s)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].ID < ranked[j].ID
	})

	seen := make(map[string]struct{}, len(ranked))
	unique := ranked[:0]
	for _, s := range ranked {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		unique = append(unique, s)
	}

	return unique
}
