// Package openmeteo adapts the Open-Meteo pollen forecast to the
// pollen.Provider interface.
package openmeteo

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/pollen"
	omapi "github.com/aerohealth/aerohealth/internal/provider/openmeteo"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
)

const (
	// ProviderName identifies this pollen provider.
	ProviderName = "open-meteo-pollen"

	// ForecastDays is the pollen forecast horizon Open-Meteo supports.
	ForecastDays = 5

	hourlyVariables = "alder_pollen,birch_pollen,grass_pollen,mugwort_pollen,olive_pollen,ragweed_pollen"
)

// ClientConfig holds configuration for the client.
type ClientConfig struct {
	// BaseURL is the air quality endpoint (default: the public Open-Meteo endpoint).
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client is created.
	HTTPClient omapi.HTTPDoer

	// Timeout for requests when HTTPClient is nil.
	Timeout time.Duration

	// Registry, when set, receives the outcome of every call.
	Registry *resilience.Registry
}

// Client fetches pollen forecasts from Open-Meteo.
type Client struct {
	api *omapi.Client
}

// NewClient creates a new client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = omapi.AirQualityURL
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

type hourlyResponse struct {
	Hourly struct {
		Time    []string     `json:"time"`
		Alder   omapi.Series `json:"alder_pollen"`
		Birch   omapi.Series `json:"birch_pollen"`
		Grass   omapi.Series `json:"grass_pollen"`
		Mugwort omapi.Series `json:"mugwort_pollen"`
		Olive   omapi.Series `json:"olive_pollen"`
		Ragweed omapi.Series `json:"ragweed_pollen"`
	} `json:"hourly"`
}

// HourlyPollen implements pollen.Provider. Null values, common outside
// Europe and out of season, are reported as 0.
func (c *Client) HourlyPollen(ctx context.Context, p geo.Point) ([]pollen.Sample, error) {
	params := url.Values{}
	params.Set("hourly", hourlyVariables)
	params.Set("forecast_days", strconv.Itoa(ForecastDays))

	var resp hourlyResponse
	if err := c.api.Get(ctx, p, params, &resp); err != nil {
		return nil, err
	}

	h := resp.Hourly
	samples := make([]pollen.Sample, 0, len(h.Time))
	for i, ts := range h.Time {
		samples = append(samples, pollen.Sample{
			Time:    ts,
			Alder:   h.Alder.ValueAt(i),
			Birch:   h.Birch.ValueAt(i),
			Grass:   h.Grass.ValueAt(i),
			Mugwort: h.Mugwort.ValueAt(i),
			Olive:   h.Olive.ValueAt(i),
			Ragweed: h.Ragweed.ValueAt(i),
		})
	}

	return samples, nil
}
