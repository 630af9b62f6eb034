package models

// PollutantLevels are concentrations as reported upstream in µg/m³.
// In current conditions unreported pollutants are null; in hourly
// points they are 0.
type PollutantLevels struct {
	PM25  *float64 `json:"pm2_5"`
	PM10  *float64 `json:"pm10"`
	Ozone *float64 `json:"ozone"`
	NO2   *float64 `json:"no2"`
	SO2   *float64 `json:"so2"`
	CO    *float64 `json:"co"`
}

// AQICurrent is the air quality at the first forecast hour.
type AQICurrent struct {
	AQI              int             `json:"aqi"`
	Category         string          `json:"category"`
	PrimaryPollutant string          `json:"primaryPollutant,omitempty"`
	SubIndices       map[string]int  `json:"subIndices,omitempty"`
	UpstreamAQI      *int            `json:"upstreamAqi"`
	Pollutants       PollutantLevels `json:"pollutants"`
	Timestamp        string          `json:"timestamp"`
}

// AQIHourly is one forecast hour.
type AQIHourly struct {
	Timestamp  string          `json:"timestamp"`
	AQI        int             `json:"aqi"`
	Pollutants PollutantLevels `json:"pollutants"`
}

// AQIDaily summarizes one forecast day.
type AQIDaily struct {
	Date    string `json:"date"`
	PeakAQI int    `json:"peakAQI"`
	AvgAQI  int    `json:"avgAQI"`
}

// AQIResponse is returned by GET /api/aqi.
type AQIResponse struct {
	Current AQICurrent  `json:"current"`
	Hourly  []AQIHourly `json:"hourly"`
	Daily   []AQIDaily  `json:"daily"`
}

// GridPoint is a [latitude, longitude, aqi] triple.
type GridPoint [3]float64

// AQIGridResponse is returned by GET /api/aqi-grid.
type AQIGridResponse struct {
	Points []GridPoint `json:"points"`
	Center [2]float64  `json:"center"`
	Radius float64     `json:"radius"`
}

// County is one sampled city of the national snapshot.
type County struct {
	FIPS      string  `json:"fips"`
	Name      string  `json:"name"`
	AQI       int     `json:"aqi"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NationalAQIResponse is returned by GET /api/national-aqi.
type NationalAQIResponse struct {
	Counties  []County  `json:"counties"`
	Timestamp Timestamp `json:"timestamp"`
	Count     int       `json:"count"`
	Coverage  string    `json:"coverage"`
}
