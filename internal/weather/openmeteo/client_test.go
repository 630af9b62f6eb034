package openmeteo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/weather"
	"github.com/aerohealth/aerohealth/internal/weather/openmeteo"
)

func TestClient_CurrentWind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ms", q.Get("wind_speed_unit"))
		assert.Equal(t, "wind_speed_10m,wind_direction_10m,wind_gusts_10m", q.Get("current"))

		_, _ = w.Write([]byte(`{"current": {"time": "2025-03-10T08:00", "wind_speed_10m": 4.2, "wind_direction_10m": 270, "wind_gusts_10m": null}}`))
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{BaseURL: server.URL, HTTPClient: server.Client()})

	wind, err := client.CurrentWind(context.Background(), geo.Point{Lat: 51.5, Lon: -0.12})
	require.NoError(t, err)
	assert.Equal(t, weather.Wind{Speed: 4.2, Direction: 270, Gusts: 0, Time: "2025-03-10T08:00"}, wind)
}

func TestClient_CurrentWind_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{BaseURL: server.URL, HTTPClient: server.Client()})

	_, err := client.CurrentWind(context.Background(), geo.Point{})
	assert.Error(t, err)
	assert.Equal(t, openmeteo.ProviderName, client.Name())
}
