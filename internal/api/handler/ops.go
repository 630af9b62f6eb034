// Package handler provides HTTP handlers for the AeroHealth API.
package handler

import (
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker/v2"

	"github.com/aerohealth/aerohealth/internal/api/models"
	"github.com/aerohealth/aerohealth/internal/api/response"
	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
	"github.com/aerohealth/aerohealth/internal/worker"
)

// ProviderHealthSource reports upstream provider health.
type ProviderHealthSource interface {
	GetAllHealth() []*resilience.ProviderHealth
}

// CacheStatsSource reports result cache occupancy.
type CacheStatsSource interface {
	Stats() cache.Stats
}

// SweepMetricsSource reports cache sweeper activity.
type SweepMetricsSource interface {
	GetMetrics() worker.SweepMetrics
}

// OpsConfig holds dependencies of the operational endpoints.
type OpsConfig struct {
	Version   string
	BuildTime string

	Providers ProviderHealthSource
	Cache     CacheStatsSource
	Sweeper   SweepMetricsSource

	// Clock stamps responses (default: real clock).
	Clock clockwork.Clock
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers ProviderHealthSource
	cache     CacheStatsSource
	sweeper   SweepMetricsSource
	clock     clockwork.Clock
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		providers: cfg.Providers,
		cache:     cfg.Cache,
		sweeper:   cfg.Sweeper,
		clock:     clock,
	}
}

// HealthCheck handles GET /ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.clock.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /ops/ready. The service is not ready when
// every provider backed by a circuit breaker has an open circuit.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	code := http.StatusOK
	if allCircuitsOpen(h.providerHealth()) {
		status = models.HealthStatusFail
		code = http.StatusServiceUnavailable
	}

	response.JSON(w, r, code, models.Health{
		Status: status,
		Time:   models.Timestamp(h.clock.Now()),
	})
}

// SystemStatus handles GET /ops/status - provider health, cache and sweeper.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	health := h.providerHealth()
	providers := providerStatuses(health)

	status := models.SystemStatus{
		Status:     overallStatus(allCircuitsOpen(health), providers),
		Time:       models.Timestamp(h.clock.Now()),
		Subsystems: []models.SubsystemStatus{},
		Providers:  providers,
	}

	if h.cache != nil {
		stats := h.cache.Stats()
		status.Cache.Entries = stats.Size
		status.Cache.Expired = stats.Expired

		detail := fmt.Sprintf("%d entries, %d expired", stats.Size, stats.Expired)
		status.Subsystems = append(status.Subsystems, models.SubsystemStatus{
			Name:   "result-cache",
			Status: models.HealthStatusOK,
			Detail: &detail,
		})
	}

	if h.sweeper != nil {
		m := h.sweeper.GetMetrics()
		status.Cache.TotalSweeps = m.TotalSweeps
		status.Cache.TotalRemoved = m.TotalRemoved
		if !m.LastSweepAt.IsZero() {
			ts := models.Timestamp(m.LastSweepAt)
			status.Cache.LastSweepAt = &ts
		}
		status.Subsystems = append(status.Subsystems, models.SubsystemStatus{
			Name:   "cache-sweeper",
			Status: models.HealthStatusOK,
		})
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) providerHealth() []*resilience.ProviderHealth {
	if h.providers == nil {
		return nil
	}
	return h.providers.GetAllHealth()
}

// allCircuitsOpen reports whether every breaker-backed provider has an open
// circuit. Providers without a breaker never fail and are not counted.
func allCircuitsOpen(all []*resilience.ProviderHealth) bool {
	breakers := 0
	for _, ph := range all {
		if !ph.HasBreaker {
			continue
		}
		if ph.CircuitState != gobreaker.StateOpen {
			return false
		}
		breakers++
	}
	return breakers > 0
}

func providerStatuses(all []*resilience.ProviderHealth) []models.ProviderStatus {
	statuses := make([]models.ProviderStatus, 0, len(all))
	for _, ph := range all {
		ps := models.ProviderStatus{
			Provider:     ph.Name,
			Status:       healthStatus(ph.Status()),
			CircuitState: ph.CircuitState.String(),
		}
		if ph.LastSuccessAt != nil {
			ts := models.Timestamp(*ph.LastSuccessAt)
			ps.LastSuccessAt = &ts
		}
		if ph.LastFailureAt != nil {
			ts := models.Timestamp(*ph.LastFailureAt)
			ps.LastFailureAt = &ts
		}
		if ph.LastError != "" {
			msg := ph.LastError
			ps.Message = &msg
		}
		statuses = append(statuses, ps)
	}
	return statuses
}

func healthStatus(s string) models.HealthStatus {
	switch s {
	case resilience.StatusUnhealthy:
		return models.HealthStatusFail
	case resilience.StatusDegraded:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

// overallStatus is FAIL when every circuit is open, DEGRADED when any
// provider is not OK, and OK otherwise.
func overallStatus(allOpen bool, providers []models.ProviderStatus) models.HealthStatus {
	switch {
	case allOpen:
		return models.HealthStatusFail
	case countStatus(providers, models.HealthStatusFail) > 0 || countStatus(providers, models.HealthStatusDegraded) > 0:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

func countStatus(providers []models.ProviderStatus, status models.HealthStatus) int {
	n := 0
	for _, p := range providers {
		if p.Status == status {
			n++
		}
	}
	return n
}
