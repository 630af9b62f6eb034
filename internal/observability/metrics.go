// Package observability holds the Prometheus collectors exposed at /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics holds the Prometheus collectors for the result cache.
type CacheMetrics struct {
	Lookups   *prometheus.CounterVec // labels: operation, result={hit,miss,expired}
	Evictions *prometheus.CounterVec // labels: reason={expired,sweep,delete,clear}
	Entries   prometheus.Gauge

	SweepDuration prometheus.Histogram
}

// NewCacheMetrics creates and registers the cache collectors with the default
// Prometheus registry.
func NewCacheMetrics() *CacheMetrics {
	m := newCacheMetrics()
	prometheus.MustRegister(
		m.Lookups,
		m.Evictions,
		m.Entries,
		m.SweepDuration,
	)
	return m
}

// NewCacheMetricsForTesting creates CacheMetrics without registering them, so
// tests can build as many as they like.
func NewCacheMetricsForTesting() *CacheMetrics {
	return newCacheMetrics()
}

func newCacheMetrics() *CacheMetrics {
	return &CacheMetrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aerohealth",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by operation and result.",
		}, []string{"operation", "result"}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aerohealth",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries removed from the cache by reason.",
		}, []string{"reason"}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aerohealth",
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Number of entries currently held, including expired ones not yet swept.",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aerohealth",
			Subsystem: "cache",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of a full expired-entry sweep.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}
