package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/aerohealth/aerohealth/internal/api/models"
	"github.com/aerohealth/aerohealth/internal/geo"
)

const invalidQueryDetail = "invalid query parameters"

// queryFloat reads a finite float query parameter. ok is false when the
// parameter is absent.
func queryFloat(r *http.Request, name string) (v float64, ok bool, fieldErr *models.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, &models.FieldError{
			Field:   name,
			Message: "must be a number",
			Code:    models.FieldCodeInvalid,
		}
	}
	return v, true, nil
}

// parseLocation reads the required latitude and longitude parameters.
func parseLocation(r *http.Request) (geo.Point, []models.FieldError) {
	var (
		p    geo.Point
		errs []models.FieldError
	)

	read := func(name string, dst *float64, limit float64) {
		v, ok, fieldErr := queryFloat(r, name)
		switch {
		case !ok:
			errs = append(errs, models.FieldError{Field: name, Message: "is required", Code: models.FieldCodeRequired})
		case fieldErr != nil:
			errs = append(errs, *fieldErr)
		case v < -limit || v > limit:
			errs = append(errs, models.FieldError{
				Field:   name,
				Message: fmt.Sprintf("must be between %g and %g", -limit, limit),
				Code:    models.FieldCodeOutOfRange,
			})
		default:
			*dst = v
		}
	}
	read("latitude", &p.Lat, 90)
	read("longitude", &p.Lon, 180)

	return p, errs
}

// parseRadius reads the optional radius parameter, which must lie in
// [minimum, maximum]. When exclusive is set the lower bound is excluded.
func parseRadius(r *http.Request, def, minimum, maximum float64, exclusive bool) (float64, *models.FieldError) {
	v, ok, fieldErr := queryFloat(r, "radius")
	if !ok {
		return def, nil
	}
	if fieldErr != nil {
		return 0, fieldErr
	}

	if v < minimum || (exclusive && v == minimum) || v > maximum {
		lower := "at least"
		if exclusive {
			lower = "greater than"
		}
		return 0, &models.FieldError{
			Field:   "radius",
			Message: fmt.Sprintf("must be %s %g and at most %g", lower, minimum, maximum),
			Code:    models.FieldCodeOutOfRange,
		}
	}
	return v, nil
}
