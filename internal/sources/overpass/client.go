// Package overpass queries the OpenStreetMap Overpass API for road and
// industrial infrastructure near a point.
package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the public Overpass interpreter endpoint.
	DefaultBaseURL = "https://overpass-api.de/api/interpreter"

	// ProviderName identifies the shared Overpass upstream.
	ProviderName = "overpass"
)

// ErrUnexpectedStatus is returned for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected status from overpass")

// ClientConfig holds configuration for the Overpass client.
type ClientConfig struct {
	// BaseURL is the interpreter URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client is created.
	HTTPClient HTTPDoer

	// Timeout for individual requests when HTTPClient is nil (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an Overpass API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Overpass client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
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
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Response is the JSON envelope returned by the interpreter.
type Response struct {
	Elements []Element `json:"elements"`
}

// Element is a node or way. Nodes carry Lat/Lon; ways queried with
// "out center" carry Center.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *LatLon           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// LatLon is a coordinate pair as encoded by Overpass.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func geoPoint(ll LatLon) geo.Point {
	return geo.Point{Lat: ll.Lat, Lon: ll.Lon}
}

// Position returns the element's own coordinate, falling back to its center.
func (e Element) Position() (geo.Point, bool) {
	if e.Lat != nil && e.Lon != nil {
		return geo.Point{Lat: *e.Lat, Lon: *e.Lon}, true
	}
	if e.Center != nil {
		return geoPoint(*e.Center), true
	}
	return geo.Point{}, false
}

// Tag returns a tag value or "".
func (e Element) Tag(key string) string {
	return e.Tags[key]
}

// Query runs an Overpass QL query and decodes the JSON response.
func (c *Client) Query(ctx context.Context, ql string) (*Response, error) {
	endpoint := c.baseURL + "?data=" + url.QueryEscape(ql)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query overpass: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	return &out, nil
}

// bbox renders a region in Overpass (south,west,north,east) order.
func bbox(r geo.Region) string {
	return fmt.Sprintf("(%f,%f,%f,%f)", r.MinLat, r.MinLon, r.MaxLat, r.MaxLon)
}
