// Package openmeteo adapts the Open-Meteo forecast API to the
// weather.Provider interface.
package openmeteo

import (
	"context"
	"net/url"
	"time"

	"github.com/aerohealth/aerohealth/internal/geo"
	omapi "github.com/aerohealth/aerohealth/internal/provider/openmeteo"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
	"github.com/aerohealth/aerohealth/internal/weather"
)

// ProviderName identifies this weather provider.
const ProviderName = "open-meteo-forecast"

// ClientConfig holds configuration for the client.
type ClientConfig struct {
	// BaseURL is the forecast endpoint (default: the public Open-Meteo endpoint).
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client is created.
	HTTPClient omapi.HTTPDoer

	// Timeout for requests when HTTPClient is nil.
	Timeout time.Duration

	// Registry, when set, receives the outcome of every call.
	Registry *resilience.Registry
}

// Client fetches current wind from Open-Meteo.
type Client struct {
	api *omapi.Client
}

// NewClient creates a new client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = omapi.ForecastURL
	}

	return &Client{
		api: omapi.NewClient(omapi.ClientConfig{
			Name:       ProviderName,
			BaseURL:    baseURL,
			HTTPClient: cfg.HTTPClient,
			Timeout:    cfg.Timeout,
			Registry:   cfg.Registry,
		}),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

type currentResponse struct {
	Current struct {
		Time      string   `json:"time"`
		Speed     *float64 `json:"wind_speed_10m"`
		Direction *float64 `json:"wind_direction_10m"`
		Gusts     *float64 `json:"wind_gusts_10m"`
	} `json:"current"`
}

// CurrentWind implements weather.Provider. Speeds are requested in m/s.
func (c *Client) CurrentWind(ctx context.Context, p geo.Point) (weather.Wind, error) {
	params := url.Values{}
	params.Set("current", "wind_speed_10m,wind_direction_10m,wind_gusts_10m")
	params.Set("wind_speed_unit", "ms")
	params.Set("forecast_days", "1")

	var resp currentResponse
	if err := c.api.Get(ctx, p, params, &resp); err != nil {
		return weather.Wind{}, err
	}

	cur := resp.Current
	return weather.Wind{
		Speed:     valueOf(cur.Speed),
		Direction: valueOf(cur.Direction),
		Gusts:     valueOf(cur.Gusts),
		Time:      cur.Time,
	}, nil
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
