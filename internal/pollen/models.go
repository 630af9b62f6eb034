// Package pollen provides tree, grass and weed pollen forecasts.
package pollen

import (
	"errors"

	"github.com/aerohealth/aerohealth/internal/geo"
)

// Pollen errors.
var (
	ErrProviderUnavailable = errors.New("pollen provider unavailable")
	ErrNoData              = errors.New("no pollen data for location")
)

// Type represents a category of pollen.
type Type string

const (
	Tree  Type = "tree"
	Grass Type = "grass"
	Weed  Type = "weed"
)

// AllTypes returns all supported pollen types.
func AllTypes() []Type {
	return []Type{Tree, Grass, Weed}
}

// Category represents the pollen risk level.
type Category string

const (
	CategoryLow      Category = "low"
	CategoryModerate Category = "moderate"
	CategoryHigh     Category = "high"
	CategoryVeryHigh Category = "very_high"
)

// AllCategories returns the categories from lowest to highest.
func AllCategories() []Category {
	return []Category{CategoryLow, CategoryModerate, CategoryHigh, CategoryVeryHigh}
}

// CategoryFor classifies a pollen level in grains/m³. Upper bounds are
// inclusive.
func CategoryFor(level float64) Category {
	switch {
	case level <= 2.4:
		return CategoryLow
	case level <= 4.8:
		return CategoryModerate
	case level <= 7.2:
		return CategoryHigh
	default:
		return CategoryVeryHigh
	}
}

// CategoryInfo holds display metadata for a category.
type CategoryInfo struct {
	Label       string
	Color       string
	TextColor   string
	Description string
}

var categoryInfo = map[Category]CategoryInfo{
	CategoryLow: {
		Label: "Low", Color: "#00E400", TextColor: "#000000",
		Description: "Low pollen levels. Most people will not experience symptoms.",
	},
	CategoryModerate: {
		Label: "Moderate", Color: "#FFFF00", TextColor: "#000000",
		Description: "Moderate pollen levels. Some people with allergies may experience symptoms.",
	},
	CategoryHigh: {
		Label: "High", Color: "#FF7E00", TextColor: "#000000",
		Description: "High pollen levels. Most people with allergies will experience symptoms.",
	},
	CategoryVeryHigh: {
		Label: "Very High", Color: "#FF0000", TextColor: "#FFFFFF",
		Description: "Very high pollen levels. Almost all people with allergies will experience symptoms.",
	},
}

// Info returns display metadata for c.
func Info(c Category) CategoryInfo {
	return categoryInfo[c]
}

// Sample is one hour of per-species pollen levels. Missing values are 0.
type Sample struct {
	Time    string
	Alder   float64
	Birch   float64
	Grass   float64
	Mugwort float64
	Olive   float64
	Ragweed float64
}

// Levels folds the species into tree (alder, birch, olive), grass and weed
// (mugwort, ragweed) levels, taking the maximum within each group.
func (s Sample) Levels() Levels {
	return Levels{
		Tree:  max(s.Alder, s.Birch, s.Olive),
		Grass: s.Grass,
		Weed:  max(s.Mugwort, s.Ragweed),
	}
}

// Levels are per-type pollen levels.
type Levels struct {
	Tree  float64
	Grass float64
	Weed  float64
}

// Max returns the element-wise maximum of l and o.
func (l Levels) Max(o Levels) Levels {
	return Levels{
		Tree:  max(l.Tree, o.Tree),
		Grass: max(l.Grass, o.Grass),
		Weed:  max(l.Weed, o.Weed),
	}
}

// Reading is a level with its category.
type Reading struct {
	Level    float64
	Category Category
}

// NewReading classifies level.
func NewReading(level float64) Reading {
	return Reading{Level: level, Category: CategoryFor(level)}
}

// Current is the pollen situation at the first forecast hour.
type Current struct {
	Tree      Reading
	Grass     Reading
	Weed      Reading
	Timestamp string
}

// HourlyPoint is one forecast hour.
type HourlyPoint struct {
	Timestamp string
	Levels
}

// DailyPeak is the highest level per type over one forecast day.
type DailyPeak struct {
	Date string
	Levels
}

// Forecast is the pollen outlook for a location.
type Forecast struct {
	Location geo.Point
	Current  Current
	Hourly   []HourlyPoint
	Daily    []DailyPeak
}
