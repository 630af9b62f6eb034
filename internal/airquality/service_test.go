package airquality_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerohealth/aerohealth/internal/airquality"
	"github.com/aerohealth/aerohealth/internal/aqi"
	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/geo"
)

func ptr(v float64) *float64 { return &v }

type fakeProvider struct {
	samples     []airquality.Sample
	forecastErr error

	index  func(p geo.Point) (*float64, error)
	levels func(p geo.Point) (airquality.Concentrations, error)

	indexCalls  atomic.Int32
	levelsCalls atomic.Int32
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) HourlyForecast(context.Context, geo.Point) ([]airquality.Sample, error) {
	return f.samples, f.forecastErr
}

func (f *fakeProvider) CurrentIndex(_ context.Context, p geo.Point) (*float64, error) {
	f.indexCalls.Add(1)
	return f.index(p)
}

func (f *fakeProvider) CurrentConcentrations(_ context.Context, p geo.Point) (airquality.Concentrations, error) {
	f.levelsCalls.Add(1)
	return f.levels(p)
}

func newService(t *testing.T, p airquality.Provider) (*airquality.Service, *cache.Cache, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC))
	c := cache.New(cache.Config{Clock: clock})
	svc := airquality.NewService(airquality.ServiceConfig{
		Provider: p,
		Cache:    c,
		Logger:   zerolog.New(io.Discard),
	})
	return svc, c, clock
}

var nyc = geo.Point{Lat: 40.7128, Lon: -74.006}

func forecastSamples() []airquality.Sample {
	var samples []airquality.Sample
	for i := 0; i < 24; i++ {
		samples = append(samples, airquality.Sample{
			Time:  fmt.Sprintf("2025-03-10T%02d:00", i),
			USAQI: ptr(float64(10 + i)),
			Concentrations: airquality.Concentrations{
				PM25:  ptr(40),
				Ozone: ptr(20),
			},
		})
	}
	for i := 0; i < 24; i++ {
		samples = append(samples, airquality.Sample{Time: fmt.Sprintf("2025-03-11T%02d:00", i)})
	}
	samples = append(samples,
		airquality.Sample{Time: "2025-03-12T00:00", USAQI: ptr(80)},
		airquality.Sample{Time: "2025-03-12T01:00", USAQI: ptr(90)},
	)
	return samples
}

func TestForecast(t *testing.T) {
	svc, _, _ := newService(t, &fakeProvider{samples: forecastSamples()})

	f, err := svc.Forecast(context.Background(), nyc)
	require.NoError(t, err)

	t.Run("current", func(t *testing.T) {
		assert.Equal(t, 112, f.Current.AQI)
		assert.Equal(t, aqi.CategoryUnhealthySensitive, f.Current.Category)
		assert.Equal(t, aqi.PM25, f.Current.PrimaryPollutant)
		assert.Equal(t, map[aqi.Pollutant]int{aqi.PM25: 112, aqi.Ozone: 9}, f.Current.SubIndices)
		require.NotNil(t, f.Current.UpstreamAQI)
		assert.Equal(t, 10, *f.Current.UpstreamAQI)
		assert.Equal(t, "2025-03-10T00:00", f.Current.Timestamp)
		assertConsistentIndex(t, f.Current)
	})

	t.Run("hourly", func(t *testing.T) {
		require.Len(t, f.Hourly, airquality.HourlyPoints)
		assert.Equal(t, 33, f.Hourly[23].AQI)
	})

	t.Run("daily skips days without an index", func(t *testing.T) {
		require.Len(t, f.Daily, 2)
		assert.Equal(t, airquality.DailySummary{Date: "2025-03-10", PeakAQI: 33, AvgAQI: 22}, f.Daily[0])
		assert.Equal(t, airquality.DailySummary{Date: "2025-03-12", PeakAQI: 90, AvgAQI: 85}, f.Daily[1])
	})
}

func assertConsistentIndex(t *testing.T, c airquality.Current) {
	t.Helper()
	require.NotEmpty(t, c.SubIndices)
	highest := 0
	for _, idx := range c.SubIndices {
		highest = max(highest, idx)
	}
	assert.Equal(t, c.SubIndices[c.PrimaryPollutant], c.AQI)
	assert.Equal(t, highest, c.AQI)
	assert.Equal(t, aqi.CategoryFor(c.AQI), c.Category)
}

func TestForecast_CurrentIndexFollowsConcentrations(t *testing.T) {
	tests := []struct {
		name    string
		levels  airquality.Concentrations
		primary aqi.Pollutant
	}{
		{
			name:    "ozone dominates",
			levels:  airquality.Concentrations{PM25: ptr(5), Ozone: ptr(180)},
			primary: aqi.Ozone,
		},
		{
			name:    "tie goes to pm2_5",
			levels:  airquality.Concentrations{PM25: ptr(0), PM10: ptr(0)},
			primary: aqi.PM25,
		},
		{
			name:    "carbon monoxide in micrograms",
			levels:  airquality.Concentrations{CO: ptr(12000), NO2: ptr(10)},
			primary: aqi.CO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := []airquality.Sample{{Time: "2025-03-10T00:00", USAQI: ptr(3), Concentrations: tt.levels}}
			svc, _, _ := newService(t, &fakeProvider{samples: samples})

			f, err := svc.Forecast(context.Background(), nyc)
			require.NoError(t, err)
			assert.Equal(t, tt.primary, f.Current.PrimaryPollutant)
			assertConsistentIndex(t, f.Current)
		})
	}
}

func TestForecast_CurrentWithoutConcentrations(t *testing.T) {
	t.Run("upstream index reported", func(t *testing.T) {
		samples := []airquality.Sample{{Time: "2025-03-10T00:00", USAQI: ptr(64)}}
		svc, _, _ := newService(t, &fakeProvider{samples: samples})

		f, err := svc.Forecast(context.Background(), nyc)
		require.NoError(t, err)
		assert.Equal(t, 64, f.Current.AQI)
		assert.Equal(t, aqi.CategoryModerate, f.Current.Category)
		assert.Empty(t, f.Current.PrimaryPollutant, "no pollutant is named without readings")
		assert.Empty(t, f.Current.SubIndices)
	})

	t.Run("nothing reported", func(t *testing.T) {
		svc, _, _ := newService(t, &fakeProvider{samples: []airquality.Sample{{Time: "2025-03-10T00:00"}}})

		f, err := svc.Forecast(context.Background(), nyc)
		require.NoError(t, err)
		assert.Equal(t, 0, f.Current.AQI)
		assert.Empty(t, f.Current.PrimaryPollutant)
		assert.Empty(t, f.Current.SubIndices)
		assert.Nil(t, f.Current.UpstreamAQI)
		assert.Len(t, f.Hourly, 1)
		assert.Empty(t, f.Daily)
	})
}

func TestForecast_Errors(t *testing.T) {
	svc, _, _ := newService(t, &fakeProvider{forecastErr: errors.New("timeout")})
	_, err := svc.Forecast(context.Background(), nyc)
	assert.ErrorIs(t, err, airquality.ErrProviderUnavailable)

	svc, _, _ = newService(t, &fakeProvider{})
	_, err = svc.Forecast(context.Background(), nyc)
	assert.ErrorIs(t, err, airquality.ErrNoData)
}

func TestGridCells(t *testing.T) {
	cells := airquality.GridCells(geo.Point{Lat: 10, Lon: 20}, 0.5)
	require.Len(t, cells, airquality.GridSize*airquality.GridSize)

	assert.InDelta(t, 9.5, cells[0].Lat, 1e-9)
	assert.InDelta(t, 19.5, cells[0].Lon, 1e-9)
	assert.InDelta(t, 9.5, cells[1].Lat, 1e-9)
	assert.InDelta(t, 19.7, cells[1].Lon, 1e-9)
	assert.InDelta(t, 10.3, cells[24].Lat, 1e-9)
	assert.InDelta(t, 20.3, cells[24].Lon, 1e-9)
}

func TestGrid(t *testing.T) {
	center := geo.Point{Lat: 10, Lon: 20}
	cells := airquality.GridCells(center, 0.5)

	p := &fakeProvider{index: func(pt geo.Point) (*float64, error) {
		switch pt {
		case cells[0]:
			return nil, errors.New("upstream down")
		case cells[1]:
			return ptr(0), nil
		case cells[2]:
			return nil, nil
		}
		return ptr(42), nil
	}}
	svc, c, clock := newService(t, p)

	grid, err := svc.Grid(context.Background(), center, 0.5)
	require.NoError(t, err)

	assert.Len(t, grid.Points, 22, "failed, zero and missing cells are dropped")
	for _, pt := range grid.Points {
		assert.Equal(t, 42, pt.AQI)
	}
	assert.Equal(t, center, grid.Center)
	assert.Equal(t, 0.5, grid.Radius)
	assert.Equal(t, int32(25), p.indexCalls.Load())

	again, err := svc.Grid(context.Background(), center, 0.5)
	require.NoError(t, err)
	assert.Same(t, grid, again)
	assert.Equal(t, int32(25), p.indexCalls.Load())

	clock.Advance(cache.TTLAQIGrid + time.Second)
	assert.False(t, c.Has(airquality.GridCacheKey(center, 0.5)))
}

func TestGrid_InvalidRadius(t *testing.T) {
	svc, _, _ := newService(t, &fakeProvider{})

	for _, r := range []float64{0, -1, airquality.MaxGridRadius + 1} {
		_, err := svc.Grid(context.Background(), nyc, r)
		assert.ErrorIs(t, err, airquality.ErrInvalidRadius, "radius %v", r)
	}
}

func TestNational(t *testing.T) {
	failing := airquality.SampleLocations[1].Location
	empty := airquality.SampleLocations[2].Location

	p := &fakeProvider{levels: func(pt geo.Point) (airquality.Concentrations, error) {
		switch pt {
		case failing:
			return airquality.Concentrations{}, errors.New("rate limited")
		case empty:
			return airquality.Concentrations{}, nil
		}
		return airquality.Concentrations{PM25: ptr(40), PM10: ptr(20), Ozone: ptr(30)}, nil
	}}
	svc, _, clock := newService(t, p)

	snap, err := svc.National(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(airquality.NationalSampleSize), p.levelsCalls.Load())
	assert.Equal(t, airquality.NationalSampleSize-2, snap.Count())
	assert.Equal(t, airquality.NationalCoverage, snap.Coverage)
	assert.Equal(t, clock.Now().UTC(), snap.Timestamp)

	first := snap.Counties[0]
	assert.Equal(t, "36061", first.FIPS)
	assert.Equal(t, "New York, NY", first.Name)
	assert.Equal(t, 112, first.AQI)
	assert.Equal(t, aqi.CategoryUnhealthySensitive, first.Category)
	assert.Equal(t, "Unhealthy for Sensitive Groups", first.Label)

	_, err = svc.National(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(airquality.NationalSampleSize), p.levelsCalls.Load(), "served from cache")
}

func TestNational_AllFail(t *testing.T) {
	p := &fakeProvider{levels: func(geo.Point) (airquality.Concentrations, error) {
		return airquality.Concentrations{}, errors.New("down")
	}}
	svc, c, _ := newService(t, p)

	_, err := svc.National(context.Background())
	assert.ErrorIs(t, err, airquality.ErrProviderUnavailable)
	assert.False(t, c.Has(airquality.NationalCacheKey()))
}

func TestConcentrations_Readings(t *testing.T) {
	levels := airquality.Concentrations{PM25: ptr(12), Ozone: ptr(100), CO: ptr(-1)}

	readings := levels.Readings()
	require.Len(t, readings, 2)
	assert.Equal(t, aqi.Reading{Pollutant: aqi.PM25, Concentration: 12}, readings[0])
	assert.Equal(t, aqi.Ozone, readings[1].Pollutant)
	assert.InDelta(t, 50.94, readings[1].Concentration, 0.01)
}
