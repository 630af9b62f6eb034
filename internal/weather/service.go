package weather

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/observability"
)

// Lattice parameters.
const (
	// GridSize is the number of nodes per side.
	GridSize = 10

	// GridSpacing is the node spacing in degrees.
	GridSpacing = 0.1

	// SpeedJitter and DirectionJitter bound the random variation applied
	// to each node, in m/s and degrees.
	SpeedJitter     = 1.0
	DirectionJitter = 10.0

	cacheOperation = "wind"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// Name returns the provider name for logging.
	Name() string

	// CurrentWind fetches the current wind at p.
	CurrentWind(ctx context.Context, p geo.Point) (Wind, error)
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Cache stores fields for TTLWind. Required.
	Cache *cache.Cache

	// Metrics records provider calls and cache outcomes. Optional.
	Metrics *observability.ProviderMetrics

	// Rand drives the lattice variation (default: time seeded).
	Rand *rand.Rand

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides wind fields with caching.
type Service struct {
	provider Provider
	cache    *cache.Cache
	metrics  *observability.ProviderMetrics
	logger   zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // visual jitter only
	}

	return &Service{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		rng:      rng,
	}
}

// CacheKey returns the cache key of a wind field.
func CacheKey(p geo.Point) string {
	return cache.CanonicalKey(cacheOperation, cache.Params{
		"lat": cache.Coord(p.Lat),
		"lon": cache.Coord(p.Lon),
	})
}

// Wind returns the current wind at p and a GridSize×GridSize lattice centred
// on it. Upstream only reports a single point, so each node is the observed
// wind with a small random variation.
func (s *Service) Wind(ctx context.Context, p geo.Point) (*Field, error) {
	key := CacheKey(p)
	if cached, ok := cache.GetAs[*Field](s.cache, key); ok {
		s.metrics.RecordCacheHit(s.provider.Name(), cacheOperation)
		return cached, nil
	}
	s.metrics.RecordCacheMiss(s.provider.Name(), cacheOperation)

	start := time.Now()
	current, err := s.provider.CurrentWind(ctx, p)
	s.metrics.RecordRequest(s.provider.Name(), "current_wind", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Str("location", p.String()).Msg("failed to fetch wind")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	field := &Field{
		Location: p,
		Current:  current,
		Grid:     s.lattice(p, current),
		Header:   header(p),
	}
	s.cache.Set(key, field, cache.TTLWind)

	return field, nil
}

func (s *Service) lattice(p geo.Point, w Wind) []Vector {
	s.mu.Lock()
	defer s.mu.Unlock()

	half := GridSize / 2
	grid := make([]Vector, 0, GridSize*GridSize)
	for i := -half; i < half; i++ {
		for j := -half; j < half; j++ {
			speed := math.Max(0, w.Speed+(s.rng.Float64()-0.5)*2*SpeedJitter)
			direction := math.Mod(w.Direction+(s.rng.Float64()-0.5)*2*DirectionJitter+360, 360)
			u, v := ToUV(speed, direction)

			grid = append(grid, Vector{
				Location: geo.Point{
					Lat: p.Lat + float64(i)*GridSpacing,
					Lon: p.Lon + float64(j)*GridSpacing,
				},
				U:         u,
				V:         v,
				Speed:     speed,
				Direction: direction,
			})
		}
	}
	return grid
}

func header(p geo.Point) VelocityHeader {
	span := float64(GridSize) / 2 * GridSpacing
	return VelocityHeader{
		Dx:  GridSpacing,
		Dy:  GridSpacing,
		Nx:  GridSize,
		Ny:  GridSize,
		La1: p.Lat - span,
		La2: p.Lat + span,
		Lo1: p.Lon - span,
		Lo2: p.Lon + span,
	}
}
