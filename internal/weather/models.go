// Package weather provides surface wind fields for the wind overlay.
package weather

import (
	"errors"
	"math"

	"github.com/aerohealth/aerohealth/internal/geo"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

// Velocity field constants (GRIB2 discipline 0, category 2: momentum,
// parameter 2: u-component of wind).
const (
	ParameterCategory = 2
	ParameterNumber   = 2
	ParameterUnit     = "m/s"
)

// Wind is the observed wind at a point.
type Wind struct {
	// Speed and Gusts are in m/s.
	Speed float64
	Gusts float64

	// Direction the wind blows from, degrees clockwise from north.
	Direction float64

	// Time is the local ISO timestamp reported upstream.
	Time string
}

// Vector is the wind at one grid node.
type Vector struct {
	Location  geo.Point
	U         float64
	V         float64
	Speed     float64
	Direction float64
}

// ToUV converts a speed and meteorological direction into eastward (u) and
// northward (v) components.
func ToUV(speed, directionDeg float64) (u, v float64) {
	rad := directionDeg * math.Pi / 180
	return -speed * math.Sin(rad), -speed * math.Cos(rad)
}

// VelocityHeader describes a regular lattice of wind vectors in the layout
// expected by leaflet-velocity.
type VelocityHeader struct {
	Dx, Dy   float64
	Nx, Ny   int
	La1, La2 float64
	Lo1, Lo2 float64
}

// Field is the wind around a location: the observation plus a synthetic
// lattice derived from it.
type Field struct {
	Location geo.Point
	Current  Wind
	Grid     []Vector
	Header   VelocityHeader
}
