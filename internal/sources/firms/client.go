// Package firms reads active fire detections from NASA FIRMS.
package firms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerohealth/aerohealth/internal/provider/resilience"
	"github.com/aerohealth/aerohealth/internal/sources"
)

const (
	// DefaultBaseURL is the FIRMS API root.
	DefaultBaseURL = "https://firms.modaps.eosdis.nasa.gov"

	// DefaultSource is the VIIRS NOAA-20 near-real-time product.
	DefaultSource = "VIIRS_NOAA20_NRT"

	// DefaultDayRange requests the last 24 hours of detections.
	DefaultDayRange = 1

	// ProviderName identifies this provider.
	ProviderName = "firms"

	// PlaceholderKey is the sample key shipped in env templates.
	PlaceholderKey = "your_map_key_here"
)

// Client errors.
var (
	ErrNotConfigured    = errors.New("firms map key not configured")
	ErrUnexpectedStatus = errors.New("unexpected status from firms")
)

// KeyConfigured reports whether key is a usable map key.
func KeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderKey
}

// ClientConfig holds configuration for the FIRMS client.
type ClientConfig struct {
	// MapKey is the FIRMS API key. Required.
	MapKey string

	// BaseURL is the API root (defaults to DefaultBaseURL).
	BaseURL string

	// Source is the satellite product (defaults to DefaultSource).
	Source string

	// DayRange is how many days back to search, 1..10 (default: 1).
	DayRange int

	// HTTPClient executes requests. If nil, a resilient client is created.
	HTTPClient HTTPDoer

	// Timeout for individual requests when HTTPClient is nil (default: 10s).
	Timeout time.Duration

	Logger zerolog.Logger
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a FIRMS area API client. It implements sources.Provider.
type Client struct {
	mapKey     string
	baseURL    string
	source     string
	dayRange   int
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a FIRMS client. It returns ErrNotConfigured when the map
// key is missing or still the placeholder.
func NewClient(cfg ClientConfig) (*Client, error) {
	if !KeyConfigured(cfg.MapKey) {
		return nil, ErrNotConfigured
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	source := cfg.Source
	if source == "" {
		source = DefaultSource
	}
	dayRange := cfg.DayRange
	if dayRange <= 0 {
		dayRange = DefaultDayRange
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := resilience.DefaultClientConfig(ProviderName)
		if cfg.Timeout > 0 {
			rc.Timeout = cfg.Timeout
		}
		httpClient = resilience.NewClient(rc)
	}

	return &Client{
		mapKey:     strings.TrimSpace(cfg.MapKey),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		source:     source,
		dayRange:   dayRange,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// Name implements sources.Provider.
func (c *Client) Name() string {
	return ProviderName
}

// FetchSources implements sources.Provider.
func (c *Client) FetchSources(ctx context.Context, q sources.Query) ([]sources.Source, error) {
	detections, err := c.FetchDetections(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]sources.Source, 0, len(detections))
	for _, d := range detections {
		out = append(out, d.ToSource())
	}
	return out, nil
}

// FetchDetections returns the fire detections inside q.Region.
func (c *Client) FetchDetections(ctx context.Context, q sources.Query) ([]Detection, error) {
	// FIRMS expects west,south,east,north
	area := fmt.Sprintf("%f,%f,%f,%f", q.Region.MinLon, q.Region.MinLat, q.Region.MaxLon, q.Region.MaxLat)
	url := fmt.Sprintf("%s/api/area/csv/%s/%s/%s/%d", c.baseURL, c.mapKey, c.source, area, c.dayRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fire detections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	detections, skipped, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse fire detections: %w", err)
	}

	for _, rowErr := range skipped {
		c.logger.Debug().Err(rowErr).Msg("skipped malformed firms row")
	}
	if len(skipped) > 0 {
		c.logger.Info().
			Int("skipped", len(skipped)).
			Int("parsed", len(detections)).
			Msg("firms response contained malformed rows")
	}

	return detections, nil
}
