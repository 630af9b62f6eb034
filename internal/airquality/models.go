// Package airquality serves air quality forecasts, local index grids and a
// national snapshot built on the Open-Meteo air quality API.
package airquality

import (
	"errors"
	"time"

	"github.com/aerohealth/aerohealth/internal/aqi"
	"github.com/aerohealth/aerohealth/internal/geo"
)

// Service errors.
var (
	ErrProviderUnavailable = errors.New("air quality provider unavailable")
	ErrNoData              = errors.New("no air quality data for location")
	ErrInvalidRadius       = errors.New("grid radius must be a positive number of degrees")
)

// Concentrations are pollutant levels as reported upstream, in µg/m³. Nil
// means the pollutant was not reported.
type Concentrations struct {
	PM25  *float64
	PM10  *float64
	Ozone *float64
	NO2   *float64
	SO2   *float64
	CO    *float64
}

// Levels returns the concentrations keyed by pollutant.
func (c Concentrations) Levels() map[aqi.Pollutant]*float64 {
	return map[aqi.Pollutant]*float64{
		aqi.PM25:  c.PM25,
		aqi.PM10:  c.PM10,
		aqi.Ozone: c.Ozone,
		aqi.NO2:   c.NO2,
		aqi.SO2:   c.SO2,
		aqi.CO:    c.CO,
	}
}

// Readings converts the reported levels into index engine readings in the
// units of the EPA tables. Missing and negative values are skipped.
func (c Concentrations) Readings() []aqi.Reading {
	raw := aqi.ReadingsFrom(c.Levels())
	readings := make([]aqi.Reading, 0, len(raw))
	for _, r := range raw {
		if r.Concentration < 0 {
			continue
		}
		readings = append(readings, aqi.Reading{
			Pollutant:     r.Pollutant,
			Concentration: aqi.FromMicrograms(r.Pollutant, r.Concentration),
		})
	}
	return readings
}

// Sample is one hour of upstream data.
type Sample struct {
	// Time is the local ISO timestamp reported upstream, e.g. "2025-03-10T08:00".
	Time string

	// USAQI is the upstream US AQI, nil when missing.
	USAQI *float64

	Concentrations Concentrations
}

// Current is the air quality at the first forecast hour. AQI equals
// SubIndices[PrimaryPollutant], the highest sub-index. PrimaryPollutant is
// empty when no concentrations were reported.
type Current struct {
	AQI              int
	Category         aqi.Category
	PrimaryPollutant aqi.Pollutant
	SubIndices       map[aqi.Pollutant]int

	// UpstreamAQI is the provider's own US AQI, nil when unreported.
	UpstreamAQI *int

	Pollutants       Concentrations
	Timestamp        string
}

// HourlyPoint is one hour of the forecast.
type HourlyPoint struct {
	Timestamp  string
	AQI        int
	Pollutants Concentrations
}

// DailySummary aggregates one forecast day.
type DailySummary struct {
	Date    string
	PeakAQI int
	AvgAQI  int
}

// Forecast is the air quality outlook for a location.
type Forecast struct {
	Location geo.Point
	Current  Current
	Hourly   []HourlyPoint
	Daily    []DailySummary
}

// GridPoint is the index at one grid cell.
type GridPoint struct {
	Location geo.Point
	AQI      int
}

// Grid is a square of index samples around a centre.
type Grid struct {
	Points []GridPoint
	Center geo.Point
	Radius float64
}

// County is the index for one sampled city.
type County struct {
	FIPS     string
	Name     string
	AQI      int
	Category aqi.Category
	Label    string
	Location geo.Point
}

// NationalSnapshot is the index across the sampled US cities.
type NationalSnapshot struct {
	Counties  []County
	Timestamp time.Time
	Coverage  string
}

// Count returns the number of counties in the snapshot.
func (s *NationalSnapshot) Count() int {
	return len(s.Counties)
}

// SampleLocation is a city used for the national snapshot.
type SampleLocation struct {
	Name     string
	FIPS     string
	Location geo.Point
}
