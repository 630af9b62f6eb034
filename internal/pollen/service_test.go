package pollen_test

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

	"github.com/aerohealth/aerohealth/internal/cache"
	"github.com/aerohealth/aerohealth/internal/geo"
	"github.com/aerohealth/aerohealth/internal/pollen"
)

type fakeProvider struct {
	samples []pollen.Sample
	err     error
	calls   atomic.Int32
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) HourlyPollen(context.Context, geo.Point) ([]pollen.Sample, error) {
	f.calls.Add(1)
	return f.samples, f.err
}

var berlin = geo.Point{Lat: 52.52, Lon: 13.41}

func newService(p pollen.Provider) (*pollen.Service, *cache.Cache, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	c := cache.New(cache.Config{Clock: clock})
	return pollen.NewService(pollen.ServiceConfig{
		Provider: p,
		Cache:    c,
		Logger:   zerolog.New(io.Discard),
	}), c, clock
}

// samplesFor builds n hourly samples starting at midnight on 2025-04-01.
func samplesFor(n int, fill func(i int, s *pollen.Sample)) []pollen.Sample {
	samples := make([]pollen.Sample, n)
	for i := range samples {
		samples[i].Time = fmt.Sprintf("2025-04-%02dT%02d:00", 1+i/24, i%24)
		if fill != nil {
			fill(i, &samples[i])
		}
	}
	return samples
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		level float64
		want  pollen.Category
	}{
		{0, pollen.CategoryLow},
		{2.4, pollen.CategoryLow},
		{2.5, pollen.CategoryModerate},
		{4.8, pollen.CategoryModerate},
		{4.9, pollen.CategoryHigh},
		{7.2, pollen.CategoryHigh},
		{7.3, pollen.CategoryVeryHigh},
		{50, pollen.CategoryVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pollen.CategoryFor(tt.level), "level %v", tt.level)
	}
	assert.Equal(t, "Very High", pollen.Info(pollen.CategoryVeryHigh).Label)
}

func TestSample_Levels(t *testing.T) {
	s := pollen.Sample{Alder: 1, Birch: 6, Olive: 2, Grass: 3, Mugwort: 4, Ragweed: 0.5}
	assert.Equal(t, pollen.Levels{Tree: 6, Grass: 3, Weed: 4}, s.Levels())
}

func TestForecast(t *testing.T) {
	samples := samplesFor(5*24, func(i int, s *pollen.Sample) {
		switch {
		case i == 0:
			s.Birch = 5.0
			s.Grass = 1.0
			s.Ragweed = 8.0
		case i == 30:
			s.Alder = 3.3
		case i >= 96:
			s.Grass = float64(i - 96)
		}
	})
	p := &fakeProvider{samples: samples}
	svc, _, _ := newService(p)

	f, err := svc.Forecast(context.Background(), berlin)
	require.NoError(t, err)

	assert.Equal(t, pollen.Reading{Level: 5.0, Category: pollen.CategoryHigh}, f.Current.Tree)
	assert.Equal(t, pollen.Reading{Level: 1.0, Category: pollen.CategoryLow}, f.Current.Grass)
	assert.Equal(t, pollen.Reading{Level: 8.0, Category: pollen.CategoryVeryHigh}, f.Current.Weed)
	assert.Equal(t, "2025-04-01T00:00", f.Current.Timestamp)

	require.Len(t, f.Hourly, pollen.HourlyPoints)
	assert.Equal(t, 5.0, f.Hourly[0].Tree)

	require.Len(t, f.Daily, 5, "empty days are kept")
	assert.Equal(t, "2025-04-01", f.Daily[0].Date)
	assert.Equal(t, pollen.Levels{Tree: 5, Grass: 1, Weed: 8}, f.Daily[0].Levels)
	assert.Equal(t, pollen.Levels{Tree: 3.3}, f.Daily[1].Levels)
	assert.Equal(t, pollen.Levels{}, f.Daily[2].Levels)
	assert.Equal(t, "2025-04-05", f.Daily[4].Date)
	assert.Equal(t, 23.0, f.Daily[4].Grass)
}

func TestForecast_Cached(t *testing.T) {
	p := &fakeProvider{samples: samplesFor(3, nil)}
	svc, c, clock := newService(p)

	first, err := svc.Forecast(context.Background(), berlin)
	require.NoError(t, err)
	second, err := svc.Forecast(context.Background(), berlin)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), p.calls.Load())
	assert.Len(t, first.Daily, 1)

	clock.Advance(cache.TTLPollen + time.Second)
	assert.False(t, c.Has(pollen.CacheKey(berlin)))
}

func TestForecast_Errors(t *testing.T) {
	svc, c, _ := newService(&fakeProvider{err: errors.New("boom")})
	_, err := svc.Forecast(context.Background(), berlin)
	assert.ErrorIs(t, err, pollen.ErrProviderUnavailable)
	assert.False(t, c.Has(pollen.CacheKey(berlin)))

	svc, _, _ = newService(&fakeProvider{})
	_, err = svc.Forecast(context.Background(), berlin)
	assert.ErrorIs(t, err, pollen.ErrNoData)
}
