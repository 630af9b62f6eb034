package pollen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/observability"
)

const (
	HourlyPoints  = 24
	MaxDailyPeaks = 7
	HoursPerDay   = 24

	cacheOperation = "pollen"
)

// Provider defines the interface for pollen data providers.
type Provider interface {
	// Name returns the provider name for logging.
	Name() string

	// HourlyPollen fetches hourly per-species levels, oldest first.
	HourlyPollen(ctx context.Context, p geo.Point) ([]Sample, error)
}

// ServiceConfig holds configuration for the pollen service.
type ServiceConfig struct {
	// Provider is the pollen data provider.
	Provider Provider

	// Cache stores forecasts for TTLPollen. Required.
	Cache *cache.Cache

	// Metrics records provider calls and cache outcomes. Optional.
	Metrics *observability.ProviderMetrics

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides pollen forecasts with caching.
type Service struct {
	provider Provider
	cache    *cache.Cache
	metrics  *observability.ProviderMetrics
	logger   zerolog.Logger
}

// NewService creates a new pollen service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// CacheKey returns the cache key of a forecast.
func CacheKey(p geo.Point) string {
	return cache.CanonicalKey(cacheOperation, cache.Params{
		"lat": cache.Coord(p.Lat),
		"lon": cache.Coord(p.Lon),
	})
}

// Forecast returns the current levels, the next 24 hours and one peak per
// forecast day for p.
func (s *Service) Forecast(ctx context.Context, p geo.Point) (*Forecast, error) {
	key := CacheKey(p)
	if cached, ok := cache.GetAs[*Forecast](s.cache, key); ok {
		s.metrics.RecordCacheHit(s.provider.Name(), cacheOperation)
		return cached, nil
	}
	s.metrics.RecordCacheMiss(s.provider.Name(), cacheOperation)

	start := time.Now()
	samples, err := s.provider.HourlyPollen(ctx, p)
	s.metrics.RecordRequest(s.provider.Name(), "hourly_pollen", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Str("location", p.String()).Msg("failed to fetch pollen forecast")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	now := samples[0].Levels()
	f := &Forecast{
		Location: p,
		Current: Current{
			Tree:      NewReading(now.Tree),
			Grass:     NewReading(now.Grass),
			Weed:      NewReading(now.Weed),
			Timestamp: samples[0].Time,
		},
		Hourly: make([]HourlyPoint, 0, min(HourlyPoints, len(samples))),
		Daily:  dailyPeaks(samples),
	}
	for _, sample := range samples[:min(HourlyPoints, len(samples))] {
		f.Hourly = append(f.Hourly, HourlyPoint{Timestamp: sample.Time, Levels: sample.Levels()})
	}

	s.cache.Set(key, f, cache.TTLPollen)

	return f, nil
}

// dailyPeaks returns one entry per 24-sample block. Pollen coverage is
// seasonal, so days without data still appear with zero levels.
func dailyPeaks(samples []Sample) []DailyPeak {
	var days []DailyPeak
	for day := 0; day < MaxDailyPeaks; day++ {
		startIdx := day * HoursPerDay
		if startIdx >= len(samples) {
			break
		}
		endIdx := min(startIdx+HoursPerDay, len(samples))

		var peak Levels
		for _, sample := range samples[startIdx:endIdx] {
			peak = peak.Max(sample.Levels())
		}

		date, _, _ := strings.Cut(samples[startIdx].Time, "T")
		days = append(days, DailyPeak{Date: date, Levels: peak})
	}
	return days
}
