package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aerohealth/aerohealth/internal/airquality"
	"github.com/aerohealth/aerohealth/internal/api/models"
	"github.com/aerohealth/aerohealth/internal/api/response"
	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/geo"
)

// AirQualityService is the air quality backend used by AirQualityHandler.
type AirQualityService interface {
	Forecast(ctx context.Context, p geo.Point) (*airquality.Forecast, error)
	Grid(ctx context.Context, center geo.Point, radius float64) (*airquality.Grid, error)
	National(ctx context.Context) (*airquality.NationalSnapshot, error)
}

// AirQualityHandler handles the air quality endpoints.
type AirQualityHandler struct {
	service AirQualityService
}

// NewAirQualityHandler creates a new AirQualityHandler.
func NewAirQualityHandler(service AirQualityService) *AirQualityHandler {
	return &AirQualityHandler{service: service}
}

// GetAQI handles GET /api/aqi - current conditions and forecast.
func (h *AirQualityHandler) GetAQI(w http.ResponseWriter, r *http.Request) {
	p, errs := parseLocation(r)
	if len(errs) > 0 {
		response.BadRequest(w, r, invalidQueryDetail, errs)
		return
	}

	forecast, err := h.service.Forecast(r.Context(), p)
	if err != nil {
		response.InternalError(w, r, "Failed to fetch air quality data")
		return
	}

	response.JSON(w, r, http.StatusOK, toAQIResponse(forecast))
}

// GetGrid handles GET /api/aqi-grid - index samples around a location.
// radius is a half-width in degrees.
func (h *AirQualityHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	p, errs := parseLocation(r)
	radius, radiusErr := parseRadius(r, airquality.DefaultGridRadius, 0, airquality.MaxGridRadius, true)
	if radiusErr != nil {
		errs = append(errs, *radiusErr)
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, invalidQueryDetail, errs)
		return
	}

	grid, err := h.service.Grid(r.Context(), p, radius)
	if err != nil {
		if errors.Is(err, airquality.ErrInvalidRadius) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "Failed to fetch AQI grid data")
		return
	}

	response.JSON(w, r, http.StatusOK, toGridResponse(grid))
}

// GetNational handles GET /api/national-aqi - the national snapshot.
func (h *AirQualityHandler) GetNational(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.National(r.Context())
	if err != nil {
		response.InternalError(w, r, "Failed to fetch national AQI data")
		return
	}

	response.JSONCached(w, r, toNationalResponse(snapshot), cache.TTLNationalAQI)
}

func toAQIResponse(f *airquality.Forecast) models.AQIResponse {
	current := models.AQICurrent{
		AQI:              f.Current.AQI,
		Category:         string(f.Current.Category),
		PrimaryPollutant: string(f.Current.PrimaryPollutant),
		UpstreamAQI:      f.Current.UpstreamAQI,
		Pollutants:       pollutantLevels(f.Current.Pollutants, false),
		Timestamp:        f.Current.Timestamp,
	}
	if len(f.Current.SubIndices) > 0 {
		current.SubIndices = make(map[string]int, len(f.Current.SubIndices))
		for p, idx := range f.Current.SubIndices {
			current.SubIndices[string(p)] = idx
		}
	}

	resp := models.AQIResponse{
		Current: current,
		Hourly:  make([]models.AQIHourly, 0, len(f.Hourly)),
		Daily:   make([]models.AQIDaily, 0, len(f.Daily)),
	}
	for _, h := range f.Hourly {
		resp.Hourly = append(resp.Hourly, models.AQIHourly{
			Timestamp:  h.Timestamp,
			AQI:        h.AQI,
			Pollutants: pollutantLevels(h.Pollutants, true),
		})
	}
	for _, d := range f.Daily {
		resp.Daily = append(resp.Daily, models.AQIDaily{
			Date:    d.Date,
			PeakAQI: d.PeakAQI,
			AvgAQI:  d.AvgAQI,
		})
	}
	return resp
}

// pollutantLevels copies c. With zeroMissing, unreported values become 0
// instead of null.
func pollutantLevels(c airquality.Concentrations, zeroMissing bool) models.PollutantLevels {
	conv := func(v *float64) *float64 {
		if v == nil {
			if !zeroMissing {
				return nil
			}
			return new(float64)
		}
		out := *v
		return &out
	}

	return models.PollutantLevels{
		PM25:  conv(c.PM25),
		PM10:  conv(c.PM10),
		Ozone: conv(c.Ozone),
		NO2:   conv(c.NO2),
		SO2:   conv(c.SO2),
		CO:    conv(c.CO),
	}
}

func toGridResponse(g *airquality.Grid) models.AQIGridResponse {
	resp := models.AQIGridResponse{
		Points: make([]models.GridPoint, 0, len(g.Points)),
		Center: [2]float64{g.Center.Lat, g.Center.Lon},
		Radius: g.Radius,
	}
	for _, p := range g.Points {
		resp.Points = append(resp.Points, models.GridPoint{p.Location.Lat, p.Location.Lon, float64(p.AQI)})
	}
	return resp
}

func toNationalResponse(s *airquality.NationalSnapshot) models.NationalAQIResponse {
	resp := models.NationalAQIResponse{
		Counties:  make([]models.County, 0, s.Count()),
		Timestamp: models.Timestamp(s.Timestamp),
		Count:     s.Count(),
		Coverage:  s.Coverage,
	}
	for _, c := range s.Counties {
		resp.Counties = append(resp.Counties, models.County{
			FIPS:      c.FIPS,
			Name:      c.Name,
			AQI:       c.AQI,
			Category:  c.Label,
			Latitude:  c.Location.Lat,
			Longitude: c.Location.Lon,
		})
	}
	return resp
}
