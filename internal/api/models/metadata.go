package models

// AQICategoryMetadata describes one index band.
type AQICategoryMetadata struct {
	Category           string `json:"category"`
	Label              string `json:"label"`
	Color              string `json:"color"`
	TextColor          string `json:"textColor"`
	Range              [2]int `json:"range"`
	HealthImplications string `json:"healthImplications"`
}

// PollutantMetadata describes one pollutant.
type PollutantMetadata struct {
	Pollutant string `json:"pollutant"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
}

// PollenCategoryMetadata describes one pollen band.
type PollenCategoryMetadata struct {
	Category    string `json:"category"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	TextColor   string `json:"textColor"`
	Description string `json:"description"`
}

// Enums is returned by GET /api/metadata/enums.
type Enums struct {
	AQICategories    []AQICategoryMetadata    `json:"aqiCategories"`
	Pollutants       []PollutantMetadata      `json:"pollutants"`
	PollenTypes      []string                 `json:"pollenTypes"`
	PollenCategories []PollenCategoryMetadata `json:"pollenCategories"`
	SourceTypes      []string                 `json:"sourceTypes"`
	Severities       []string                 `json:"severities"`
}
