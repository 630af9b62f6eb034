package aqi

// Category is an EPA index band.
type Category string

const (
	CategoryGood               Category = "good"
	CategoryModerate           Category = "moderate"
	CategoryUnhealthySensitive Category = "unhealthy_sensitive"
	CategoryUnhealthy          Category = "unhealthy"
	CategoryVeryUnhealthy      Category = "very_unhealthy"
	CategoryHazardous          Category = "hazardous"
)

// AllCategories returns the categories from best to worst.
func AllCategories() []Category {
	return []Category{
		CategoryGood,
		CategoryModerate,
		CategoryUnhealthySensitive,
		CategoryUnhealthy,
		CategoryVeryUnhealthy,
		CategoryHazardous,
	}
}

// CategoryFor classifies an index. Upper bounds are inclusive.
func CategoryFor(index int) Category {
	switch {
	case index <= 50:
		return CategoryGood
	case index <= 100:
		return CategoryModerate
	case index <= 150:
		return CategoryUnhealthySensitive
	case index <= 200:
		return CategoryUnhealthy
	case index <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}

// CategoryInfo holds display metadata for a category.
type CategoryInfo struct {
	Label              string `json:"label"`
	Color              string `json:"color"`
	TextColor          string `json:"textColor"`
	MinIndex           int    `json:"minIndex"`
	MaxIndex           int    `json:"maxIndex"`
	HealthImplications string `json:"healthImplications"`
}

var categoryInfo = map[Category]CategoryInfo{
	CategoryGood: {
		Label: "Good", Color: "#00E400", TextColor: "#000000", MinIndex: 0, MaxIndex: 50,
		HealthImplications: "Air quality is considered satisfactory, and air pollution poses little or no risk.",
	},
	CategoryModerate: {
		Label: "Moderate", Color: "#FFFF00", TextColor: "#000000", MinIndex: 51, MaxIndex: 100,
		HealthImplications: "Unusually sensitive people should consider limiting prolonged outdoor exertion.",
	},
	CategoryUnhealthySensitive: {
		Label: "Unhealthy for Sensitive Groups", Color: "#FF7E00", TextColor: "#000000", MinIndex: 101, MaxIndex: 150,
		HealthImplications: "People with respiratory or heart conditions, children, and older adults should limit prolonged outdoor exertion.",
	},
	CategoryUnhealthy: {
		Label: "Unhealthy", Color: "#FF0000", TextColor: "#FFFFFF", MinIndex: 151, MaxIndex: 200,
		HealthImplications: "Everyone should limit prolonged outdoor exertion. Sensitive groups should avoid prolonged outdoor exertion.",
	},
	CategoryVeryUnhealthy: {
		Label: "Very Unhealthy", Color: "#8F3F97", TextColor: "#FFFFFF", MinIndex: 201, MaxIndex: 300,
		HealthImplications: "Everyone should avoid prolonged outdoor exertion. Sensitive groups should remain indoors.",
	},
	CategoryHazardous: {
		Label: "Hazardous", Color: "#7E0023", TextColor: "#FFFFFF", MinIndex: 301, MaxIndex: 500,
		HealthImplications: "Everyone should avoid all outdoor exertion. Sensitive groups should remain indoors and keep activity levels low.",
	},
}

// Info returns display metadata for c. Unknown categories yield a zero value.
func Info(c Category) CategoryInfo {
	return categoryInfo[c]
}

// PollutantInfo describes a pollutant for display.
type PollutantInfo struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

var pollutantInfo = map[Pollutant]PollutantInfo{
	PM25:  {Name: "PM2.5 (Fine Particulate Matter)", Unit: "µg/m³"},
	PM10:  {Name: "PM10 (Coarse Particulate Matter)", Unit: "µg/m³"},
	Ozone: {Name: "Ozone (O₃)", Unit: "ppb"},
	NO2:   {Name: "Nitrogen Dioxide (NO₂)", Unit: "ppb"},
	SO2:   {Name: "Sulfur Dioxide (SO₂)", Unit: "ppb"},
	CO:    {Name: "Carbon Monoxide (CO)", Unit: "ppm"},
}

// Describe returns the display name and unit of p.
func Describe(p Pollutant) PollutantInfo {
	return pollutantInfo[p]
}
