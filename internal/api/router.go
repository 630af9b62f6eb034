// Package api provides the HTTP API for AeroHealth.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/api/handler"
	"github.com/aerohealth/aerohealth/internal/api/middleware"
	"github.com/aerohealth/aerohealth/internal/api/models"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics

	// RequireTLS rejects plain-HTTP requests forwarded by the load balancer.
	RequireTLS bool

	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	// Empty disables CORS headers.
	CORSAllowedOrigins []string

	AirQuality handler.AirQualityService
	Pollen     handler.PollenService
	Wind       handler.WindService
	Sources    handler.SourceAggregator

	Providers handler.ProviderHealthSource
	Cache     handler.CacheStatsSource
	Sweeper   handler.SweepMetricsSource
	Clock     clockwork.Clock

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Providers: cfg.Providers,
		Cache:     cfg.Cache,
		Sweeper:   cfg.Sweeper,
		Clock:     cfg.Clock,
	})
	airQualityHandler := handler.NewAirQualityHandler(cfg.AirQuality)
	pollenHandler := handler.NewPollenHandler(cfg.Pollen)
	windHandler := handler.NewWindHandler(cfg.Wind)
	sourcesHandler := handler.NewSourcesHandler(cfg.Sources)
	metadataHandler := handler.NewMetadataHandler()

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	r.Route("/api", func(r chi.Router) {
		// Single-point lookups
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/aqi", airQualityHandler.GetAQI)
			r.Get("/pollen", pollenHandler.GetPollen)
			r.Get("/wind", windHandler.GetWind)
			r.Get("/metadata/enums", metadataHandler.GetEnums)
		})

		// Fan-out endpoints hit upstreams many times per request
		r.Group(func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/aqi-grid", airQualityHandler.GetGrid)
			r.Get("/national-aqi", airQualityHandler.GetNational)
			r.Get("/pollution-sources", sourcesHandler.GetSources)
		})
	})

	r.Route("/ops", func(r chi.Router) {
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/status", opsHandler.SystemStatus)
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		return r
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, "Retry-After"}),
	)
	return cors(r)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	models.NewNotFound(middleware.GetRequestID(r.Context()), "No route matches "+r.URL.Path).
		WithInstance(r.URL.Path).
		Write(w)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetRequestID(r.Context())
	models.NewProblem(models.ProblemTypeMethodNotAllowed, "Method not allowed", http.StatusMethodNotAllowed, traceID).
		WithDetail("Method " + r.Method + " is not supported for " + r.URL.Path).
		WithInstance(r.URL.Path).
		Write(w)
}
