package handler

import (
	"context"
	"net/http"

	"github.com/aerohealth/aerohealth/internal/api/models"
	"github.com/aerohealth/aerohealth/internal/api/response"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/weather"
)

// WindService is the wind backend used by WindHandler.
type WindService interface {
	Wind(ctx context.Context, p geo.Point) (*weather.Field, error)
}

// WindHandler handles the wind endpoint.
type WindHandler struct {
	service WindService
}

// NewWindHandler creates a new WindHandler.
func NewWindHandler(service WindService) *WindHandler {
	return &WindHandler{service: service}
}

// GetWind handles GET /api/wind - current wind and a velocity field.
func (h *WindHandler) GetWind(w http.ResponseWriter, r *http.Request) {
	p, errs := parseLocation(r)
	if len(errs) > 0 {
		response.BadRequest(w, r, invalidQueryDetail, errs)
		return
	}

	field, err := h.service.Wind(r.Context(), p)
	if err != nil {
		response.InternalError(w, r, "Failed to fetch wind data")
		return
	}

	response.JSON(w, r, http.StatusOK, toWindResponse(field))
}

func toWindResponse(f *weather.Field) models.WindResponse {
	resp := models.WindResponse{
		Current: models.WindCurrent{
			Speed:     f.Current.Speed,
			Direction: f.Current.Direction,
			Gusts:     f.Current.Gusts,
			Timestamp: f.Current.Time,
		},
		Grid: make([]models.WindVector, 0, len(f.Grid)),
		Velocity: models.Velocity{
			Header: models.VelocityHeader{
				ParameterUnit:   weather.ParameterUnit,
				ParameterNumber: weather.ParameterNumber,
				Dx:              f.Header.Dx,
				Dy:              f.Header.Dy,
				Nx:              f.Header.Nx,
				Ny:              f.Header.Ny,
				La1:             f.Header.La1,
				La2:             f.Header.La2,
				Lo1:             f.Header.Lo1,
				Lo2:             f.Header.Lo2,
			},
			Data: make([]models.VelocityRecord, 0, len(f.Grid)),
		},
	}

	for _, v := range f.Grid {
		resp.Grid = append(resp.Grid, models.WindVector{
			Lat:       v.Location.Lat,
			Lon:       v.Location.Lon,
			U:         v.U,
			V:         v.V,
			Speed:     v.Speed,
			Direction: v.Direction,
		})
		resp.Velocity.Data = append(resp.Velocity.Data, models.VelocityRecord{
			Header: models.VelocityRecordHeader{
				ParameterCategory: weather.ParameterCategory,
				ParameterNumber:   weather.ParameterNumber,
			},
			Data: [2]float64{v.U, v.V},
		})
	}
	return resp
}
