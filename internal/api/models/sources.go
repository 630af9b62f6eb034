package models

// PollutionSource is a nearby pollution source.
type PollutionSource struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	Severity    string  `json:"severity,omitempty"`
	Distance    float64 `json:"distance"`
}

// PollutionSourcesResponse is returned by GET /api/pollution-sources.
// Radius is in kilometres.
type PollutionSourcesResponse struct {
	Sources []PollutionSource `json:"sources"`
	Center  Location          `json:"center"`
	Radius  float64           `json:"radius"`
	Count   int               `json:"count"`
}
