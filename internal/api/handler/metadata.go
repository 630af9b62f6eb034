package handler

import (
	"net/http"

	"github.com/aerohealth/aerohealth/internal/api/models"
	"github.com/aerohealth/aerohealth/internal/api/response"
	"github.com/aerohealth/aerohealth/internal/aqi"
	"github.com/aerohealth/aerohealth/internal/pollen"
	"github.com/aerohealth/aerohealth/internal/sources"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	enums models.Enums
}

// NewMetadataHandler creates a new MetadataHandler. The enums are static and
// built once.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{enums: buildEnums()}
}

// GetEnums handles GET /api/metadata/enums - categories, pollutants and
// source kinds with their display metadata.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.enums)
}

func buildEnums() models.Enums {
	var enums models.Enums

	for _, c := range aqi.AllCategories() {
		info := aqi.Info(c)
		enums.AQICategories = append(enums.AQICategories, models.AQICategoryMetadata{
			Category:           string(c),
			Label:              info.Label,
			Color:              info.Color,
			TextColor:          info.TextColor,
			Range:              [2]int{info.MinIndex, info.MaxIndex},
			HealthImplications: info.HealthImplications,
		})
	}

	for _, p := range aqi.CanonicalOrder {
		info := aqi.Describe(p)
		enums.Pollutants = append(enums.Pollutants, models.PollutantMetadata{
			Pollutant: string(p),
			Name:      info.Name,
			Unit:      info.Unit,
		})
	}

	for _, t := range pollen.AllTypes() {
		enums.PollenTypes = append(enums.PollenTypes, string(t))
	}
	for _, c := range pollen.AllCategories() {
		info := pollen.Info(c)
		enums.PollenCategories = append(enums.PollenCategories, models.PollenCategoryMetadata{
			Category:    string(c),
			Label:       info.Label,
			Color:       info.Color,
			TextColor:   info.TextColor,
			Description: info.Description,
		})
	}

	for _, t := range []sources.Type{
		sources.TypeFactory,
		sources.TypeHighway,
		sources.TypeWildfire,
		sources.TypeAirport,
		sources.TypePort,
	} {
		enums.SourceTypes = append(enums.SourceTypes, string(t))
	}
	for _, s := range []sources.Severity{sources.SeverityLow, sources.SeverityMedium, sources.SeverityHigh} {
		enums.Severities = append(enums.Severities, string(s))
	}

	return enums
}
