// Package openmeteo is a minimal client for the Open-Meteo forecast and air
// quality APIs, shared by the air quality, pollen and wind services.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
)

const (
	// AirQualityURL is the Open-Meteo air quality endpoint.
	AirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

	// ForecastURL is the Open-Meteo weather forecast endpoint.
	ForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// ErrUnexpectedStatus is returned for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected status from open-meteo")

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for an Open-Meteo endpoint client.
type ClientConfig struct {
	// Name identifies the upstream in logs and circuit breakers.
	Name string

	// BaseURL is the endpoint URL.
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client is created.
	HTTPClient HTTPDoer

	// Timeout for requests when HTTPClient is nil (default: 10s).
	Timeout time.Duration

	// Registry, when set, receives the outcome of every call under Name.
	Registry *resilience.Registry
}

// Client issues GET requests against one Open-Meteo endpoint.
type Client struct {
	name       string
	baseURL    string
	httpClient HTTPDoer
	registry   *resilience.Registry
}

// NewClient creates a new endpoint client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := resilience.DefaultClientConfig(cfg.Name)
		if cfg.Timeout > 0 {
			rc.Timeout = cfg.Timeout
		}
		httpClient = resilience.NewClient(rc)
	}

	return &Client{
		name:       cfg.Name,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		registry:   cfg.Registry,
	}
}

// Name returns the upstream name.
func (c *Client) Name() string {
	return c.name
}

// Get requests p with the given query parameters and decodes the JSON body
// into out. timezone defaults to "auto".
func (c *Client) Get(ctx context.Context, p geo.Point, params url.Values, out any) error {
	err := c.get(ctx, p, params, out)
	if c.registry != nil {
		c.registry.Record(c.name, err)
	}
	return err
}

func (c *Client) get(ctx context.Context, p geo.Point, params url.Values, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("latitude", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	if q.Get("timezone") == "" {
		q.Set("timezone", "auto")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}

	return nil
}

// Series is an hourly variable. Open-Meteo encodes gaps as null.
type Series []*float64

// At returns the i-th value, or nil when out of range or null.
func (s Series) At(i int) *float64 {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

// ValueAt returns the i-th value, or 0 when out of range or null.
func (s Series) ValueAt(i int) float64 {
	if v := s.At(i); v != nil {
		return *v
	}
	return 0
}
