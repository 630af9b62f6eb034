// Package geo provides the geographic primitives shared by the aggregation and
// forecast services: points, bounding regions and great-circle distances.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusKm is the mean Earth radius used for haversine distances.
	EarthRadiusKm = 6371.0

	// KmPerDegreeLat approximates the length of one degree of latitude.
	KmPerDegreeLat = 111.0

	// MinCosLatitude is the smallest cos(lat) accepted when widening a longitude
	// delta. Below it the region would span the whole globe.
	MinCosLatitude = 1e-6
)

// Geo errors.
var (
	ErrInvalidLatitude    = errors.New("latitude must be within [-90, 90]")
	ErrInvalidLongitude   = errors.New("longitude must be within [-180, 180]")
	ErrInvalidRadius      = errors.New("radius must be a non-negative number")
	ErrDegenerateLatitude = errors.New("latitude too close to a pole for a longitude delta")
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Validate checks that the point lies within the valid coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return ErrInvalidLatitude
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lon)
}

// Region is a rectangular lat/lon box approximating a circular search area.
type Region struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// Contains reports whether p lies inside the region, edges included.
func (r Region) Contains(p Point) bool {
	return p.Lat >= r.MinLat && p.Lat <= r.MaxLat &&
		p.Lon >= r.MinLon && p.Lon <= r.MaxLon
}

// BoundingBox derives the region covering radiusKm around center.
//
// The latitude delta is radiusKm/111. The longitude delta is widened by
// 1/cos(lat) to account for meridian convergence. Near the poles cos(lat)
// approaches zero and the delta would be unbounded, so ErrDegenerateLatitude is
// returned instead.
func BoundingBox(center Point, radiusKm float64) (Region, error) {
	if err := center.Validate(); err != nil {
		return Region{}, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return Region{}, ErrInvalidRadius
	}

	cosLat := math.Cos(toRadians(center.Lat))
	if cosLat < MinCosLatitude {
		return Region{}, ErrDegenerateLatitude
	}

	latDelta := radiusKm / KmPerDegreeLat
	lonDelta := radiusKm / (KmPerDegreeLat * cosLat)

	return Region{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLon: center.Lon - lonDelta,
		MaxLon: center.Lon + lonDelta,
	}, nil
}

// DistanceKm returns the great-circle distance between a and b in kilometers.
func DistanceKm(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Offset moves center by distanceKm along bearing (radians, 0 = north) using the
// same flat approximation as BoundingBox. Good enough for placing points inside
// a search radius of a few tens of kilometers.
func Offset(center Point, distanceKm, bearing float64) Point {
	lat := center.Lat + (distanceKm/KmPerDegreeLat)*math.Cos(bearing)
	lon := center.Lon
	if cosLat := math.Cos(toRadians(center.Lat)); cosLat >= MinCosLatitude {
		lon += (distanceKm / (KmPerDegreeLat * cosLat)) * math.Sin(bearing)
	}
	return Point{Lat: lat, Lon: lon}
}

// RoundKm rounds a distance to one decimal place.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
