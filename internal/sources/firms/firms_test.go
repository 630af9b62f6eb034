package firms_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/sources"
	"github.com/aerohealth/aerohealth/internal/sources/firms"
)

const header = "latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,confidence,version,bright_ti5,frp,daynight\n"

func TestParseCSV(t *testing.T) {
	body := header +
		"34.10,-118.20,330.5,0.4,0.37,2025-08-14,0942,N20,high,2.0NRT,290.1,150.2,N\n" +
		"34.20,-118.30,310.0,0.4,0.37,2025-08-14,1005,N20,nominal,2.0NRT,288.0,45.0,D\n" +
		"34.30,-118.40,301.0,0.4,0.37,2025-08-14,1110,N20,low,2.0NRT,280.0,60.0,D\n" +
		"\n" +
		"not-a-number,-118.50,300,0.4,0.37,2025-08-14,1200,N20,nominal,2.0NRT,280,20,D\n" +
		"34.50,-118.60,300,0.4\n" +
		"34.60,-118.70,300,0.4,0.37,2025-08-14,1300,N20,nominal,2.0NRT,280,n/a,D\n" +
		"34.70,-118.80,300,0.4,0.37,2025-08-14,0105,N20,nominal,2.0NRT,280,5.0,N\n"

	detections, skipped, err := firms.ParseCSV(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, detections, 4)
	assert.Len(t, skipped, 3)
	for _, e := range skipped {
		assert.ErrorIs(t, e, firms.ErrMalformedRow)
	}

	first := detections[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, geo.Point{Lat: 34.10, Lon: -118.20}, first.Location)
	assert.Equal(t, "N20", first.Satellite)
	assert.Equal(t, "high", first.Confidence)
	assert.InDelta(t, 150.2, first.FRP, 1e-9)
	assert.Equal(t, "N", first.DayNight)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	detections, skipped, err := firms.ParseCSV(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, detections)
	assert.Empty(t, skipped)

	detections, _, err = firms.ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, detections)
}

func TestDetection_Severity(t *testing.T) {
	tests := []struct {
		name       string
		confidence string
		frp        float64
		want       sources.Severity
	}{
		{"high confidence strong fire", "high", 150, sources.SeverityHigh},
		{"high confidence at threshold", "high", 100, sources.SeverityMedium},
		{"nominal confidence strong fire", "nominal", 500, sources.SeverityMedium},
		{"low confidence", "low", 500, sources.SeverityLow},
		{"weak fire", "high", 9.9, sources.SeverityLow},
		{"nominal medium fire", "nominal", 50, sources.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := firms.Detection{Confidence: tt.confidence, FRP: tt.frp}
			assert.Equal(t, tt.want, d.Severity())
		})
	}
}

func TestDetection_ToSource(t *testing.T) {
	d := firms.Detection{
		Row:        3,
		Location:   geo.Point{Lat: 34.1, Lon: -118.2},
		AcqDate:    "2025-08-14",
		AcqTime:    "942",
		Satellite:  "N20",
		Confidence: "high",
		FRP:        150.25,
	}

	src := d.ToSource()
	assert.Equal(t, "wildfire-3-2025-08-14-942", src.ID)
	assert.Equal(t, sources.TypeWildfire, src.Type)
	assert.Equal(t, "Active Fire (N20)", src.Name)
	assert.Equal(t, "Fire detected at 09:42 UTC on 2025-08-14. FRP: 150.2 MW. Confidence: high", src.Description)
	assert.Equal(t, sources.SeverityHigh, src.Severity)
}

func TestClient_FetchSources(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(header +
			"34.10,-118.20,330.5,0.4,0.37,2025-08-14,0942,N20,high,2.0NRT,290.1,150.2,N\n" +
			"broken row\n"))
	}))
	defer server.Close()

	client, err := firms.NewClient(firms.ClientConfig{MapKey: "abc123", BaseURL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, firms.ProviderName, client.Name())

	q := sources.Query{
		Center: geo.Point{Lat: 34, Lon: -118},
		Region: geo.Region{MinLat: 33.5, MaxLat: 34.5, MinLon: -118.5, MaxLon: -117.5},
	}
	srcs, err := client.FetchSources(context.Background(), q)
	require.NoError(t, err)

	require.Len(t, srcs, 1)
	assert.Equal(t, "Active Fire (N20)", srcs[0].Name)
	assert.Equal(t, "/api/area/csv/abc123/VIIRS_NOAA20_NRT/-118.500000,33.500000,-117.500000,34.500000/1", gotPath)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := firms.NewClient(firms.ClientConfig{MapKey: "abc123", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.FetchSources(context.Background(), sources.Query{})
	assert.ErrorIs(t, err, firms.ErrUnexpectedStatus)
}

func TestNewClient_RequiresKey(t *testing.T) {
	for _, key := range []string{"", "  ", firms.PlaceholderKey} {
		_, err := firms.NewClient(firms.ClientConfig{MapKey: key})
		assert.ErrorIs(t, err, firms.ErrNotConfigured, "key %q", key)
	}

	assert.True(t, firms.KeyConfigured("real-key"))
	assert.False(t, firms.KeyConfigured(firms.PlaceholderKey))
}
