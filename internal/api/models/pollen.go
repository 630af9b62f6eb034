package models

// PollenLevel is a level with its category.
type PollenLevel struct {
	Level    float64 `json:"level"`
	Category string  `json:"category"`
}

// PollenCurrent is the pollen at the first forecast hour.
type PollenCurrent struct {
	Tree      PollenLevel `json:"tree"`
	Grass     PollenLevel `json:"grass"`
	Weed      PollenLevel `json:"weed"`
	Timestamp string      `json:"timestamp"`
}

// PollenLevels are per-type levels in grains/m³.
type PollenLevels struct {
	Tree  float64 `json:"tree"`
	Grass float64 `json:"grass"`
	Weed  float64 `json:"weed"`
}

// PollenHourly is one forecast hour.
type PollenHourly struct {
	Timestamp string `json:"timestamp"`
	PollenLevels
}

// PollenDaily is the per-type peak of one forecast day.
type PollenDaily struct {
	Date string `json:"date"`
	PollenLevels
}

// PollenResponse is returned by GET /api/pollen.
type PollenResponse struct {
	Current PollenCurrent  `json:"current"`
	Hourly  []PollenHourly `json:"hourly"`
	Daily   []PollenDaily  `json:"daily"`
}
