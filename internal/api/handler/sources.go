package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aerohealth/aerohealth/internal/api/models"
	"github.com/aerohealth/aerohealth/internal/api/response"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/sources"
)

// MaxSourceRadiusKm bounds the pollution source search radius.
const MaxSourceRadiusKm = 100.0

// SourceAggregator is the pollution source backend used by SourcesHandler.
type SourceAggregator interface {
	Aggregate(ctx context.Context, center geo.Point, radiusKm float64) (*sources.Result, error)
}

// SourcesHandler handles the pollution source endpoint.
type SourcesHandler struct {
	aggregator SourceAggregator
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(aggregator SourceAggregator) *SourcesHandler {
	return &SourcesHandler{aggregator: aggregator}
}

// GetSources handles GET /api/pollution-sources - nearby sources ranked by
// distance. radius is in kilometres.
func (h *SourcesHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	p, errs := parseLocation(r)
	radius, radiusErr := parseRadius(r, sources.DefaultRadiusKm, 0, MaxSourceRadiusKm, false)
	if radiusErr != nil {
		errs = append(errs, *radiusErr)
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, invalidQueryDetail, errs)
		return
	}

	result, err := h.aggregator.Aggregate(r.Context(), p, radius)
	if err != nil {
		if errors.Is(err, sources.ErrInvalidQuery) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "Failed to fetch pollution sources")
		return
	}

	response.JSON(w, r, http.StatusOK, toSourcesResponse(result))
}

func toSourcesResponse(res *sources.Result) models.PollutionSourcesResponse {
	resp := models.PollutionSourcesResponse{
		Sources: make([]models.PollutionSource, 0, res.Count()),
		Center:  models.Location{Latitude: res.Center.Lat, Longitude: res.Center.Lon},
		Radius:  res.RadiusKm,
		Count:   res.Count(),
	}
	for _, s := range res.Sources {
		resp.Sources = append(resp.Sources, models.PollutionSource{
			ID:          s.ID,
			Type:        string(s.Type),
			Name:        s.Name,
			Latitude:    s.Location.Lat,
			Longitude:   s.Location.Lon,
			Description: s.Description,
			Severity:    string(s.Severity),
			Distance:    s.DistanceKm,
		})
	}
	return resp
}
