package handler

import (
	"context"
	"net/http"

	"github.com/aerohealth/aerohealth/internal/api/models"
	"github.com/aerohealth/aerohealth/internal/api/response"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/pollen"
)

// PollenService is the pollen backend used by PollenHandler.
type PollenService interface {
	Forecast(ctx context.Context, p geo.Point) (*pollen.Forecast, error)
}

// PollenHandler handles the pollen endpoint.
type PollenHandler struct {
	service PollenService
}

// NewPollenHandler creates a new PollenHandler.
func NewPollenHandler(service PollenService) *PollenHandler {
	return &PollenHandler{service: service}
}

// GetPollen handles GET /api/pollen.
func (h *PollenHandler) GetPollen(w http.ResponseWriter, r *http.Request) {
	p, errs := parseLocation(r)
	if len(errs) > 0 {
		response.BadRequest(w, r, invalidQueryDetail, errs)
		return
	}

	forecast, err := h.service.Forecast(r.Context(), p)
	if err != nil {
		response.InternalError(w, r, "Failed to fetch pollen data")
		return
	}

	response.JSON(w, r, http.StatusOK, toPollenResponse(forecast))
}

func toPollenResponse(f *pollen.Forecast) models.PollenResponse {
	reading := func(rd pollen.Reading) models.PollenLevel {
		return models.PollenLevel{Level: rd.Level, Category: string(rd.Category)}
	}
	levels := func(l pollen.Levels) models.PollenLevels {
		return models.PollenLevels{Tree: l.Tree, Grass: l.Grass, Weed: l.Weed}
	}

	resp := models.PollenResponse{
		Current: models.PollenCurrent{
			Tree:      reading(f.Current.Tree),
			Grass:     reading(f.Current.Grass),
			Weed:      reading(f.Current.Weed),
			Timestamp: f.Current.Timestamp,
		},
		Hourly: make([]models.PollenHourly, 0, len(f.Hourly)),
		Daily:  make([]models.PollenDaily, 0, len(f.Daily)),
	}
	for _, h := range f.Hourly {
		resp.Hourly = append(resp.Hourly, models.PollenHourly{Timestamp: h.Timestamp, PollenLevels: levels(h.Levels)})
	}
	for _, d := range f.Daily {
		resp.Daily = append(resp.Daily, models.PollenDaily{Date: d.Date, PollenLevels: levels(d.Levels)})
	}
	return resp
}
