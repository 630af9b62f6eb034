package airquality

import "github.com/aerohealth/aerohealth/internal/geo"

// NationalCoverage describes what the national snapshot represents.
const NationalCoverage = "Major U.S. cities representing national air quality"

// NationalSampleSize is how many SampleLocations are fetched per snapshot.
const NationalSampleSize = 15

// SampleLocations are major US metros grouped by region.
var SampleLocations = []SampleLocation{
	// Northeast
	{Name: "New York, NY", FIPS: "36061", Location: geo.Point{Lat: 40.7128, Lon: -74.006}},
	{Name: "Boston, MA", FIPS: "25025", Location: geo.Point{Lat: 42.3601, Lon: -71.0589}},
	{Name: "Philadelphia, PA", FIPS: "42101", Location: geo.Point{Lat: 39.9526, Lon: -75.1652}},
	{Name: "Albany, NY", FIPS: "36001", Location: geo.Point{Lat: 42.6526, Lon: -73.7562}},

	// Southeast
	{Name: "Atlanta, GA", FIPS: "13121", Location: geo.Point{Lat: 33.749, Lon: -84.388}},
	{Name: "Miami, FL", FIPS: "12086", Location: geo.Point{Lat: 25.7617, Lon: -80.1918}},
	{Name: "Charlotte, NC", FIPS: "37119", Location: geo.Point{Lat: 35.2271, Lon: -80.8431}},
	{Name: "Nashville, TN", FIPS: "47037", Location: geo.Point{Lat: 36.1627, Lon: -86.7816}},
	{Name: "New Orleans, LA", FIPS: "22071", Location: geo.Point{Lat: 29.9511, Lon: -90.0715}},

	// Midwest
	{Name: "Chicago, IL", FIPS: "17031", Location: geo.Point{Lat: 41.8781, Lon: -87.6298}},
	{Name: "Detroit, MI", FIPS: "26163", Location: geo.Point{Lat: 42.3314, Lon: -83.0458}},
	{Name: "Minneapolis, MN", FIPS: "27053", Location: geo.Point{Lat: 44.9778, Lon: -93.265}},
	{Name: "St. Louis, MO", FIPS: "29510", Location: geo.Point{Lat: 38.627, Lon: -90.1994}},
	{Name: "Indianapolis, IN", FIPS: "18097", Location: geo.Point{Lat: 39.7684, Lon: -86.1581}},

	// Southwest
	{Name: "Houston, TX", FIPS: "48201", Location: geo.Point{Lat: 29.7604, Lon: -95.3698}},
	{Name: "Dallas, TX", FIPS: "48113", Location: geo.Point{Lat: 32.7767, Lon: -96.797}},
	{Name: "Phoenix, AZ", FIPS: "04013", Location: geo.Point{Lat: 33.4484, Lon: -112.074}},
	{Name: "San Antonio, TX", FIPS: "48029", Location: geo.Point{Lat: 29.4241, Lon: -98.4936}},

	// West
	{Name: "Los Angeles, CA", FIPS: "06037", Location: geo.Point{Lat: 34.0522, Lon: -118.2437}},
	{Name: "San Francisco, CA", FIPS: "06075", Location: geo.Point{Lat: 37.7749, Lon: -122.4194}},
	{Name: "Seattle, WA", FIPS: "53033", Location: geo.Point{Lat: 47.6062, Lon: -122.3321}},
	{Name: "Portland, OR", FIPS: "41051", Location: geo.Point{Lat: 45.5152, Lon: -122.6784}},
	{Name: "Denver, CO", FIPS: "08031", Location: geo.Point{Lat: 39.7392, Lon: -104.9903}},
	{Name: "Las Vegas, NV", FIPS: "32003", Location: geo.Point{Lat: 36.1699, Lon: -115.1398}},

	// Mountain
	{Name: "Salt Lake City, UT", FIPS: "49035", Location: geo.Point{Lat: 40.7608, Lon: -111.891}},
	{Name: "Boise, ID", FIPS: "16001", Location: geo.Point{Lat: 43.615, Lon: -116.2023}},

	// Alaska and Hawaii
	{Name: "Anchorage, AK", FIPS: "02020", Location: geo.Point{Lat: 61.2181, Lon: -149.9003}},
	{Name: "Honolulu, HI", FIPS: "15003", Location: geo.Point{Lat: 21.3099, Lon: -157.8581}},
}
