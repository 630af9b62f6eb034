package airquality

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/aqi"
	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/observability"
	"github.com/aerohealth/aerohealth/internal/worker"
)

// Forecast shape and grid parameters.
const (
	HourlyPoints      = 24
	MaxDailySummaries = 7
	HoursPerDay       = 24

	// GridSize is the number of cells per side of the index grid.
	GridSize = 5

	// DefaultGridRadius is the grid half-width in degrees (about 55 km).
	DefaultGridRadius = 0.5

	// MaxGridRadius bounds the grid half-width in degrees.
	MaxGridRadius = 5.0

	gridOperation     = "aqi-grid"
	nationalOperation = "national-aqi"
)

// Provider defines the interface for air quality data providers.
type Provider interface {
	// Name returns the provider name for logging.
	Name() string

	// HourlyForecast fetches hourly samples for up to seven days, oldest first.
	HourlyForecast(ctx context.Context, p geo.Point) ([]Sample, error)

	// CurrentIndex fetches the current upstream US AQI. Nil means unreported.
	CurrentIndex(ctx context.Context, p geo.Point) (*float64, error)

	// CurrentConcentrations fetches the current PM2.5, PM10 and ozone levels.
	CurrentConcentrations(ctx context.Context, p geo.Point) (Concentrations, error)
}

// ServiceConfig holds configuration for the air quality service.
type ServiceConfig struct {
	// Provider is the air quality data provider.
	Provider Provider

	// Cache stores grids and national snapshots. Required.
	Cache *cache.Cache

	// Metrics records provider calls and cache outcomes. Optional.
	Metrics *observability.ProviderMetrics

	// Clock stamps snapshots (default: the cache's clock).
	Clock clockwork.Clock

	// Concurrency bounds parallel upstream calls for grids and snapshots
	// (default: worker.DefaultConcurrency).
	Concurrency int

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides air quality data with caching.
type Service struct {
	provider    Provider
	cache       *cache.Cache
	metrics     *observability.ProviderMetrics
	clock       clockwork.Clock
	concurrency int
	logger      zerolog.Logger
}

// NewService creates a new air quality service.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = cfg.Cache.Clock()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = worker.DefaultConcurrency
	}

	return &Service{
		provider:    cfg.Provider,
		cache:       cfg.Cache,
		metrics:     cfg.Metrics,
		clock:       clock,
		concurrency: concurrency,
		logger:      cfg.Logger,
	}
}

// Forecast returns the current conditions, the next 24 hours and up to seven
// daily summaries for p.
func (s *Service) Forecast(ctx context.Context, p geo.Point) (*Forecast, error) {
	start := time.Now()
	samples, err := s.provider.HourlyForecast(ctx, p)
	s.metrics.RecordRequest(s.provider.Name(), "hourly_forecast", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Str("location", p.String()).Msg("failed to fetch air quality forecast")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	return &Forecast{
		Location: p,
		Current:  s.current(p, samples[0]),
		Hourly:   hourly(samples),
		Daily:    daily(samples),
	}, nil
}

// current indexes the first forecast hour with the six-pollutant engine, so the
// headline index, category, primary pollutant and sub-indices agree. Without
// any concentrations the upstream index is reported and no primary pollutant
// is named.
func (s *Service) current(p geo.Point, first Sample) Current {
	c := Current{
		Pollutants: first.Concentrations,
		Timestamp:  first.Time,
	}
	if first.USAQI != nil {
		upstream := indexOf(first.USAQI)
		c.UpstreamAQI = &upstream
	}

	result, err := aqi.Compute(first.Concentrations.Readings())
	if err != nil {
		var noReadings *aqi.NoReadingsError
		if errors.As(err, &noReadings) {
			noReadings.Source = p.String()
		}
		s.logger.Warn().
			Err(err).
			Str("time", first.Time).
			Msg("cannot index current conditions")
		c.AQI = indexOf(first.USAQI)
		c.Category = aqi.CategoryFor(c.AQI)
		return c
	}

	c.AQI = result.Index
	c.Category = result.Category
	c.PrimaryPollutant = result.PrimaryPollutant
	c.SubIndices = result.SubIndices
	return c
}

func hourly(samples []Sample) []HourlyPoint {
	n := min(HourlyPoints, len(samples))
	points := make([]HourlyPoint, 0, n)
	for _, s := range samples[:n] {
		points = append(points, HourlyPoint{
			Timestamp:  s.Time,
			AQI:        indexOf(s.USAQI),
			Pollutants: s.Concentrations,
		})
	}
	return points
}

// daily summarizes each 24-sample block. Days without any reported index are
// skipped.
func daily(samples []Sample) []DailySummary {
	var days []DailySummary
	for day := 0; day < MaxDailySummaries; day++ {
		startIdx := day * HoursPerDay
		if startIdx >= len(samples) {
			break
		}
		endIdx := min(startIdx+HoursPerDay, len(samples))

		peak, sum, n := 0.0, 0.0, 0
		for _, s := range samples[startIdx:endIdx] {
			if s.USAQI == nil {
				continue
			}
			peak = math.Max(peak, *s.USAQI)
			sum += *s.USAQI
			n++
		}
		if n == 0 {
			continue
		}

		date, _, _ := strings.Cut(samples[startIdx].Time, "T")
		days = append(days, DailySummary{
			Date:    date,
			PeakAQI: int(math.Round(peak)),
			AvgAQI:  int(math.Round(sum / float64(n))),
		})
	}
	return days
}

func indexOf(v *float64) int {
	if v == nil || *v < 0 {
		return 0
	}
	return int(math.Round(*v))
}

// GridCacheKey returns the cache key of a grid.
func GridCacheKey(center geo.Point, radius float64) string {
	return cache.CanonicalKey(gridOperation, cache.Params{
		"lat":    cache.Coord(center.Lat),
		"lon":    cache.Coord(center.Lon),
		"radius": cache.Number(radius),
	})
}

// Grid returns the upstream index on a GridSize×GridSize lattice spanning
// center ± radius degrees. Cells whose lookup fails or reports no index are
// dropped.
func (s *Service) Grid(ctx context.Context, center geo.Point, radius float64) (*Grid, error) {
	if math.IsNaN(radius) || radius <= 0 || radius > MaxGridRadius {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}

	key := GridCacheKey(center, radius)
	if cached, ok := cache.GetAs[*Grid](s.cache, key); ok {
		s.metrics.RecordCacheHit(s.provider.Name(), gridOperation)
		return cached, nil
	}
	s.metrics.RecordCacheMiss(s.provider.Name(), gridOperation)

	cells := GridCells(center, radius)
	results := worker.FanOut(ctx, s.concurrency, cells, func(ctx context.Context, p geo.Point) (int, error) {
		start := time.Now()
		v, err := s.provider.CurrentIndex(ctx, p)
		s.metrics.RecordRequest(s.provider.Name(), "current_index", time.Since(start), err)
		if err != nil {
			return 0, err
		}
		return indexOf(v), nil
	})

	grid := &Grid{Center: center, Radius: radius, Points: make([]GridPoint, 0, len(cells))}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		if r.Value <= 0 {
			continue
		}
		grid.Points = append(grid.Points, GridPoint{Location: cells[r.Index], AQI: r.Value})
	}

	if failed > 0 {
		s.logger.Warn().
			Int("failed", failed).
			Int("cells", len(cells)).
			Str("center", center.String()).
			Msg("some grid cells could not be fetched")
	}

	if ctx.Err() == nil {
		s.cache.Set(key, grid, cache.TTLAQIGrid)
	}

	return grid, nil
}

// GridCells returns the lattice points of a grid, row by row from the
// south-west corner.
func GridCells(center geo.Point, radius float64) []geo.Point {
	step := radius * 2 / GridSize
	cells := make([]geo.Point, 0, GridSize*GridSize)
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			cells = append(cells, geo.Point{
				Lat: center.Lat - radius + float64(i)*step,
				Lon: center.Lon - radius + float64(j)*step,
			})
		}
	}
	return cells
}

// NationalCacheKey is the cache key of the national snapshot.
func NationalCacheKey() string {
	return cache.CanonicalKey(nationalOperation, nil)
}

// National returns the index for the first NationalSampleSize sample
// locations, computed by the index engine from PM2.5, PM10 and ozone.
// Locations that fail are left out.
func (s *Service) National(ctx context.Context) (*NationalSnapshot, error) {
	key := NationalCacheKey()
	if cached, ok := cache.GetAs[*NationalSnapshot](s.cache, key); ok {
		s.metrics.RecordCacheHit(s.provider.Name(), nationalOperation)
		return cached, nil
	}
	s.metrics.RecordCacheMiss(s.provider.Name(), nationalOperation)

	locations := SampleLocations[:min(NationalSampleSize, len(SampleLocations))]
	results := worker.FanOut(ctx, s.concurrency, locations, s.county)

	snapshot := &NationalSnapshot{
		Counties:  make([]County, 0, len(locations)),
		Timestamp: s.clock.Now().UTC(),
		Coverage:  NationalCoverage,
	}
	for _, r := range results {
		if r.Err != nil {
			s.logger.Warn().
				Err(r.Err).
				Str("location", locations[r.Index].Name).
				Msg("failed to fetch national sample")
			continue
		}
		snapshot.Counties = append(snapshot.Counties, r.Value)
	}

	if snapshot.Count() == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrProviderUnavailable
	}

	if ctx.Err() == nil {
		s.cache.Set(key, snapshot, cache.TTLNationalAQI)
	}

	s.logger.Info().
		Int("counties", snapshot.Count()).
		Int("sampled", len(locations)).
		Msg("national air quality snapshot built")

	return snapshot, nil
}

func (s *Service) county(ctx context.Context, loc SampleLocation) (County, error) {
	start := time.Now()
	levels, err := s.provider.CurrentConcentrations(ctx, loc.Location)
	s.metrics.RecordRequest(s.provider.Name(), "current_concentrations", time.Since(start), err)
	if err != nil {
		return County{}, err
	}

	res, err := aqi.Compute(levels.Readings())
	if err != nil {
		var nre *aqi.NoReadingsError
		if errors.As(err, &nre) {
			nre.Source = loc.Name
		}
		return County{}, err
	}

	return County{
		FIPS:     loc.FIPS,
		Name:     loc.Name,
		AQI:      res.Index,
		Category: res.Category,
		Label:    aqi.Info(res.Category).Label,
		Location: loc.Location,
	}, nil
}
