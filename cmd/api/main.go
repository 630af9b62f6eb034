// Package main provides the entrypoint for the AeroHealth API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/airquality"
	aqopenmeteo "github.com/aerohealth/aerohealth/internal/airquality/openmeteo"
	"github.com/aerohealth/aerohealth/internal/api"
	"github.com/aerohealth/aerohealth/internal/api/middleware"
	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/config"
	"github.com/aerohealth/aerohealth/internal/observability"
	"github.com/aerohealth/aerohealth/internal/pollen"
	pollenopenmeteo "github.com/aerohealth/aerohealth/internal/pollen/openmeteo"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
	"github.com/aerohealth/aerohealth/internal/sources"
	"github.com/aerohealth/aerohealth/internal/sources/firms"
	"github.com/aerohealth/aerohealth/internal/sources/overpass"
	"github.com/aerohealth/aerohealth/internal/telemetry"
	"github.com/aerohealth/aerohealth/internal/weather"
	weatheropenmeteo "github.com/aerohealth/aerohealth/internal/weather/openmeteo"
	"github.com/aerohealth/aerohealth/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// wildfireProviderName is the health registry name of the combined
// satellite/synthetic wildfire source.
const wildfireProviderName = "wildfires"

func main() {
	const serviceName = "aerohealth-api"

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Msg("starting AeroHealth API")

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize HTTP metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	providerMetrics, err := observability.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Result cache and its expiry sweeper
	resultCache := cache.New(cache.Config{Metrics: observability.NewCacheMetrics()})
	sweeper := worker.NewSweeper(worker.SweeperConfig{
		Target:   resultCache,
		Interval: cfg.CacheSweepInterval,
		Logger:   log,
	})
	sweeper.Start(ctx)
	defer sweeper.Stop()

	// Upstream clients, each behind its own circuit breaker
	registry := resilience.NewRegistry(nil)
	upstream := func(name string) *resilience.Client {
		rc := resilience.DefaultClientConfig(name)
		rc.Timeout = cfg.ProviderTimeout
		return resilience.NewClient(rc)
	}

	aqHTTP := upstream(aqopenmeteo.ProviderName)
	registry.Register(aqopenmeteo.ProviderName, aqHTTP)
	airQualityService := airquality.NewService(airquality.ServiceConfig{
		Provider: aqopenmeteo.NewClient(aqopenmeteo.ClientConfig{
			BaseURL:    cfg.OpenMeteoAirQualityURL,
			HTTPClient: aqHTTP,
			Registry:   registry,
		}),
		Cache:       resultCache,
		Metrics:     providerMetrics,
		Concurrency: cfg.GridConcurrency,
		Logger:      log,
	})

	pollenHTTP := upstream(pollenopenmeteo.ProviderName)
	registry.Register(pollenopenmeteo.ProviderName, pollenHTTP)
	pollenService := pollen.NewService(pollen.ServiceConfig{
		Provider: pollenopenmeteo.NewClient(pollenopenmeteo.ClientConfig{
			BaseURL:    cfg.OpenMeteoAirQualityURL,
			HTTPClient: pollenHTTP,
			Registry:   registry,
		}),
		Cache:   resultCache,
		Metrics: providerMetrics,
		Logger:  log,
	})

	windHTTP := upstream(weatheropenmeteo.ProviderName)
	registry.Register(weatheropenmeteo.ProviderName, windHTTP)
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: weatheropenmeteo.NewClient(weatheropenmeteo.ClientConfig{
			BaseURL:    cfg.OpenMeteoForecastURL,
			HTTPClient: windHTTP,
			Registry:   registry,
		}),
		Cache:   resultCache,
		Metrics: providerMetrics,
		Logger:  log,
	})

	// Pollution source providers
	overpassHTTP := upstream(overpass.ProviderName)
	overpassClient := overpass.NewClient(overpass.ClientConfig{
		BaseURL:    cfg.OverpassURL,
		HTTPClient: overpassHTTP,
	})
	highways := overpass.NewHighwayProvider(overpassClient)
	industrial := overpass.NewIndustrialProvider(overpassClient)
	registry.Register(highways.Name(), overpassHTTP)
	registry.Register(industrial.Name(), overpassHTTP)

	wildfires := &sources.FallbackProvider{
		ProviderName: wildfireProviderName,
		Fallback:     sources.NewSyntheticFireProvider(nil, nil),
		Registry:     registry,
		Logger:       log,
	}
	registry.Register(wildfireProviderName, nil)

	if cfg.FIRMSEnabled() {
		firmsHTTP := upstream(firms.ProviderName)
		firmsClient, firmsErr := firms.NewClient(firms.ClientConfig{
			MapKey:     cfg.FIRMSMapKey,
			BaseURL:    cfg.FIRMSURL,
			HTTPClient: firmsHTTP,
			Logger:     log,
		})
		if firmsErr != nil {
			log.Warn().Err(firmsErr).Msg("FIRMS client unavailable, using synthetic wildfires")
		} else {
			wildfires.Primary = firmsClient
			registry.Register(firms.ProviderName, firmsHTTP)
			log.Info().Msg("FIRMS wildfire provider initialized")
		}
	} else {
		log.Warn().Msg("NASA_FIRMS_API_KEY not configured - wildfires are synthetic")
	}

	aggregator := sources.NewAggregator(sources.AggregatorConfig{
		Providers: []sources.Provider{industrial, highways, wildfires},
		Cache:     resultCache,
		Registry:  registry,
		Metrics:   providerMetrics,
		Logger:    log,
	})

	log.Info().
		Int("providers", registry.ProviderCount()).
		Msg("providers initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		Metrics:            httpMetrics,
		RequireTLS:         cfg.RequireTLS,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AirQuality:         airQualityService,
		Pollen:             pollenService,
		Wind:               weatherService,
		Sources:            aggregator,
		Providers:          registry,
		Cache:              resultCache,
		Sweeper:            sweeper,
		MetricsHandler:     promhttp.Handler(),
	})

	// Create HTTP server. Grid and national requests fan out upstream, so
	// writes get more room than reads.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}
