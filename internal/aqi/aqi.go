// Package aqi implements the US EPA air quality index: breakpoint interpolation
// per pollutant, category classification and primary pollutant attribution.
package aqi

import (
	"errors"
	"fmt"
	"math"
)

// Index engine errors.
var (
	ErrUnknownPollutant     = errors.New("unknown pollutant")
	ErrInvalidConcentration = errors.New("concentration must be a non-negative number")
	ErrNoReadings           = errors.New("no pollutant readings")
)

// Pollutant identifies one of the six EPA criteria pollutants.
type Pollutant string

const (
	PM25  Pollutant = "pm2_5"
	PM10  Pollutant = "pm10"
	Ozone Pollutant = "ozone"
	NO2   Pollutant = "no2"
	SO2   Pollutant = "so2"
	CO    Pollutant = "co"
)

// CanonicalOrder is the pollutant order used to break ties between equal
// sub-indices. Earlier entries win.
var CanonicalOrder = []Pollutant{PM25, PM10, Ozone, NO2, SO2, CO}

// Valid reports whether p is a known pollutant.
func (p Pollutant) Valid() bool {
	_, ok := Breakpoints[p]
	return ok
}

// Reading is a single pollutant concentration.
type Reading struct {
	Pollutant     Pollutant
	Concentration float64
}

// Result is the combined index for a set of readings.
type Result struct {
	Index            int               `json:"aqi"`
	Category         Category          `json:"category"`
	PrimaryPollutant Pollutant         `json:"primaryPollutant"`
	SubIndices       map[Pollutant]int `json:"subIndices"`
}

// NoReadingsError is returned when an index is requested without any readings.
type NoReadingsError struct {
	// Source names the caller context, e.g. a location or request.
	Source string
}

func (e *NoReadingsError) Error() string {
	if e.Source == "" {
		return ErrNoReadings.Error()
	}
	return fmt.Sprintf("%s for %s", ErrNoReadings.Error(), e.Source)
}

// Is makes errors.Is(err, ErrNoReadings) match.
func (e *NoReadingsError) Is(target error) bool {
	return target == ErrNoReadings
}

// IndexFor converts a concentration into its sub-index for pollutant p.
//
// Values above the last breakpoint saturate at that table's maximum index.
// Values falling between two published segments are clamped up to the next
// segment's lower bound so the mapping stays monotonic.
func IndexFor(p Pollutant, concentration float64) (int, error) {
	table, ok := Breakpoints[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPollutant, p)
	}
	if math.IsNaN(concentration) || concentration < 0 {
		return 0, fmt.Errorf("%w: %s=%v", ErrInvalidConcentration, p, concentration)
	}

	for _, bp := range table {
		if concentration > bp.CHigh {
			continue
		}
		c := math.Max(concentration, bp.CLow)
		return interpolate(bp, c), nil
	}

	return table[len(table)-1].IHigh, nil
}

func interpolate(bp Breakpoint, c float64) int {
	slope := float64(bp.IHigh-bp.ILow) / (bp.CHigh - bp.CLow)
	return int(math.Round(slope*(c-bp.CLow) + float64(bp.ILow)))
}

// PrimaryPollutant computes the sub-index of every reading and returns the
// pollutant with the highest one.
//
// Ties go to the pollutant listed first in CanonicalOrder. If a pollutant is
// read more than once, its highest sub-index is kept.
func PrimaryPollutant(readings []Reading) (Pollutant, map[Pollutant]int, error) {
	if len(readings) == 0 {
		return "", nil, &NoReadingsError{}
	}

	subIndices := make(map[Pollutant]int, len(readings))
	for _, r := range readings {
		idx, err := IndexFor(r.Pollutant, r.Concentration)
		if err != nil {
			return "", nil, err
		}
		if prev, ok := subIndices[r.Pollutant]; !ok || idx > prev {
			subIndices[r.Pollutant] = idx
		}
	}

	primary := Pollutant("")
	best := -1
	for _, p := range CanonicalOrder {
		idx, ok := subIndices[p]
		if !ok {
			continue
		}
		// strict comparison keeps the earlier pollutant on a tie
		if idx > best {
			best = idx
			primary = p
		}
	}

	return primary, subIndices, nil
}

// Compute returns the overall index, category and primary pollutant for a set
// of readings.
func Compute(readings []Reading) (Result, error) {
	primary, subIndices, err := PrimaryPollutant(readings)
	if err != nil {
		return Result{}, err
	}

	index := subIndices[primary]
	return Result{
		Index:            index,
		Category:         CategoryFor(index),
		PrimaryPollutant: primary,
		SubIndices:       subIndices,
	}, nil
}

// ReadingsFrom builds readings from a concentration map, skipping nil values.
// Iteration follows CanonicalOrder so the result is deterministic.
func ReadingsFrom(levels map[Pollutant]*float64) []Reading {
	readings := make([]Reading, 0, len(levels))
	for _, p := range CanonicalOrder {
		if v, ok := levels[p]; ok && v != nil {
			readings = append(readings, Reading{Pollutant: p, Concentration: *v})
		}
	}
	return readings
}
