// Package sources aggregates nearby pollution sources (roads, industry,
// airports and wildfires) from independent upstream providers.
package sources

import (
	"errors"
	"time"

	"github.com/aerohealth/aerohealth/internal/geo"
)

// Aggregation errors.
var (
	ErrInvalidQuery = errors.New("invalid pollution source query")
)

// Type classifies a pollution source.
type Type string

const (
	TypeFactory  Type = "factory"
	TypeHighway  Type = "highway"
	TypeWildfire Type = "wildfire"
	TypeAirport  Type = "airport"
	TypePort     Type = "port"
)

// Severity is a coarse impact tier. The zero value means unknown.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Source is a normalized pollution source.
type Source struct {
	ID          string
	Type        Type
	Name        string
	Location    geo.Point
	Description string
	Severity    Severity

	// DistanceKm is the distance from the query center, rounded to 0.1 km.
	// Providers leave it zero; the aggregator fills it in.
	DistanceKm float64
}

// Query is the geographic frame passed to every provider.
type Query struct {
	Center   geo.Point
	RadiusKm float64
	Region   geo.Region
}

// ProviderResult is the outcome of one provider call within an aggregation.
type ProviderResult struct {
	Provider string
	Sources  []Source
	Err      error
	Duration time.Duration
}

// Result is a merged, distance-sorted aggregation.
type Result struct {
	Sources     []Source
	Center      geo.Point
	RadiusKm    float64
	GeneratedAt time.Time

	// Providers holds per-provider outcomes of the run that produced this
	// result. A result served from cache carries the original outcomes.
	Providers []ProviderResult
}

// Count returns the number of sources.
func (r *Result) Count() int {
	return len(r.Sources)
}

// HasWildfires reports whether any source is a wildfire.
func (r *Result) HasWildfires() bool {
	for _, s := range r.Sources {
		if s.Type == TypeWildfire {
			return true
		}
	}
	return false
}
