// Package openmeteo adapts the Open-Meteo air quality API to the
// airquality.Provider interface.
package openmeteo

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/aerohealth/aerohealth/internal/airquality"
	"github.com/aerohealth/aerohealth/internal/geo"
	omapi "github.com/aerohealth/aerohealth/internal/provider/openmeteo"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
)

const (
	// ProviderName identifies this air quality provider.
	ProviderName = "open-meteo-air-quality"

	// ForecastDays is the forecast horizon requested for hourly data.
	ForecastDays = 7

	hourlyVariables   = "pm10,pm2_5,carbon_monoxide,nitrogen_dioxide,sulphur_dioxide,ozone,us_aqi"
	nationalVariables = "pm2_5,pm10,ozone"
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

// Client fetches air quality data from Open-Meteo.
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
		Time  []string     `json:"time"`
		PM10  omapi.Series `json:"pm10"`
		PM25  omapi.Series `json:"pm2_5"`
		CO    omapi.Series `json:"carbon_monoxide"`
		NO2   omapi.Series `json:"nitrogen_dioxide"`
		SO2   omapi.Series `json:"sulphur_dioxide"`
		Ozone omapi.Series `json:"ozone"`
		USAQI omapi.Series `json:"us_aqi"`
	} `json:"hourly"`
}

// HourlyForecast implements airquality.Provider.
func (c *Client) HourlyForecast(ctx context.Context, p geo.Point) ([]airquality.Sample, error) {
	params := url.Values{}
	params.Set("hourly", hourlyVariables)
	params.Set("forecast_days", strconv.Itoa(ForecastDays))

	var resp hourlyResponse
	if err := c.api.Get(ctx, p, params, &resp); err != nil {
		return nil, err
	}

	h := resp.Hourly
	samples := make([]airquality.Sample, 0, len(h.Time))
	for i, ts := range h.Time {
		samples = append(samples, airquality.Sample{
			Time:  ts,
			USAQI: h.USAQI.At(i),
			Concentrations: airquality.Concentrations{
				PM25:  h.PM25.At(i),
				PM10:  h.PM10.At(i),
				Ozone: h.Ozone.At(i),
				NO2:   h.NO2.At(i),
				SO2:   h.SO2.At(i),
				CO:    h.CO.At(i),
			},
		})
	}

	return samples, nil
}

type currentResponse struct {
	Current struct {
		Time  string   `json:"time"`
		USAQI *float64 `json:"us_aqi"`
		PM25  *float64 `json:"pm2_5"`
		PM10  *float64 `json:"pm10"`
		Ozone *float64 `json:"ozone"`
	} `json:"current"`
}

// CurrentIndex implements airquality.Provider.
func (c *Client) CurrentIndex(ctx context.Context, p geo.Point) (*float64, error) {
	params := url.Values{}
	params.Set("current", "us_aqi")

	var resp currentResponse
	if err := c.api.Get(ctx, p, params, &resp); err != nil {
		return nil, err
	}
	return resp.Current.USAQI, nil
}

// CurrentConcentrations implements airquality.Provider.
func (c *Client) CurrentConcentrations(ctx context.Context, p geo.Point) (airquality.Concentrations, error) {
	params := url.Values{}
	params.Set("current", nationalVariables)
	params.Set("timezone", "America/New_York")

	var resp currentResponse
	if err := c.api.Get(ctx, p, params, &resp); err != nil {
		return airquality.Concentrations{}, err
	}

	return airquality.Concentrations{
		PM25:  resp.Current.PM25,
		PM10:  resp.Current.PM10,
		Ozone: resp.Current.Ozone,
	}, nil
}
