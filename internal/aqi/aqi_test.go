package aqi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerohealth/aerohealth/internal/aqi"
)

func TestIndexFor_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		pollutant aqi.Pollutant
		conc      float64
		want      int
	}{
		{"pm2_5 zero", aqi.PM25, 0, 0},
		{"pm2_5 top of good", aqi.PM25, 12.0, 50},
		{"pm2_5 bottom of moderate", aqi.PM25, 12.1, 51},
		{"pm2_5 top of moderate", aqi.PM25, 35.4, 100},
		{"pm2_5 bottom of usg", aqi.PM25, 35.5, 101},
		{"pm2_5 top of table", aqi.PM25, 500.4, 500},
		{"pm10 mid moderate", aqi.PM10, 100, 73},
		{"pm10 top of good", aqi.PM10, 54, 50},
		{"ozone top of moderate", aqi.Ozone, 70, 100},
		{"no2 top of good", aqi.NO2, 53, 50},
		{"so2 top of usg", aqi.SO2, 185, 150},
		{"co top of moderate", aqi.CO, 9.4, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := aqi.IndexFor(tt.pollutant, tt.conc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexFor_Saturates(t *testing.T) {
	got, err := aqi.IndexFor(aqi.PM25, 900)
	require.NoError(t, err)
	assert.Equal(t, 500, got)

	// ozone table tops out at 300
	got, err = aqi.IndexFor(aqi.Ozone, 450)
	require.NoError(t, err)
	assert.Equal(t, 300, got)
}

func TestIndexFor_GapClampsToNextSegment(t *testing.T) {
	got, err := aqi.IndexFor(aqi.PM25, 12.05)
	require.NoError(t, err)
	assert.Equal(t, 51, got)

	got, err = aqi.IndexFor(aqi.PM10, 54.5)
	require.NoError(t, err)
	assert.Equal(t, 51, got)
}

func TestIndexFor_Errors(t *testing.T) {
	_, err := aqi.IndexFor(aqi.PM25, -1)
	assert.ErrorIs(t, err, aqi.ErrInvalidConcentration)

	_, err = aqi.IndexFor(aqi.Pollutant("lead"), 1)
	assert.ErrorIs(t, err, aqi.ErrUnknownPollutant)
}

func TestIndexFor_Monotonic(t *testing.T) {
	for pollutant, table := range aqi.Breakpoints {
		t.Run(string(pollutant), func(t *testing.T) {
			limit := table[len(table)-1].CHigh * 1.2
			step := limit / 5000

			prev := -1
			for c := 0.0; c <= limit; c += step {
				idx, err := aqi.IndexFor(pollutant, c)
				require.NoError(t, err)
				require.GreaterOrEqual(t, idx, prev, "index decreased at c=%v", c)
				require.LessOrEqual(t, idx, 500)
				prev = idx
			}
		})
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		index int
		want  aqi.Category
	}{
		{0, aqi.CategoryGood},
		{50, aqi.CategoryGood},
		{51, aqi.CategoryModerate},
		{100, aqi.CategoryModerate},
		{101, aqi.CategoryUnhealthySensitive},
		{150, aqi.CategoryUnhealthySensitive},
		{151, aqi.CategoryUnhealthy},
		{200, aqi.CategoryUnhealthy},
		{201, aqi.CategoryVeryUnhealthy},
		{300, aqi.CategoryVeryUnhealthy},
		{301, aqi.CategoryHazardous},
		{500, aqi.CategoryHazardous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, aqi.CategoryFor(tt.index), "index %d", tt.index)
	}
}

func TestPrimaryPollutant_TieBreak(t *testing.T) {
	// pm10 listed first, both map to 50; pm2_5 wins by canonical order
	readings := []aqi.Reading{
		{Pollutant: aqi.PM10, Concentration: 54},
		{Pollutant: aqi.PM25, Concentration: 12.0},
	}

	primary, sub, err := aqi.PrimaryPollutant(readings)
	require.NoError(t, err)
	assert.Equal(t, aqi.PM25, primary)
	assert.Equal(t, 50, sub[aqi.PM25])
	assert.Equal(t, 50, sub[aqi.PM10])

	readings = []aqi.Reading{
		{Pollutant: aqi.CO, Concentration: 4.4},
		{Pollutant: aqi.Ozone, Concentration: 54},
		{Pollutant: aqi.NO2, Concentration: 53},
	}
	primary, _, err = aqi.PrimaryPollutant(readings)
	require.NoError(t, err)
	assert.Equal(t, aqi.Ozone, primary)
}

func TestPrimaryPollutant_StrictMax(t *testing.T) {
	readings := []aqi.Reading{
		{Pollutant: aqi.PM25, Concentration: 10},
		{Pollutant: aqi.Ozone, Concentration: 90},
		{Pollutant: aqi.NO2, Concentration: 20},
	}

	primary, sub, err := aqi.PrimaryPollutant(readings)
	require.NoError(t, err)
	assert.Equal(t, aqi.Ozone, primary)
	assert.Len(t, sub, 3)
}

func TestPrimaryPollutant_NoReadings(t *testing.T) {
	_, _, err := aqi.PrimaryPollutant(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, aqi.ErrNoReadings)

	var nre *aqi.NoReadingsError
	assert.True(t, errors.As(err, &nre))
}

func TestCompute_Invariant(t *testing.T) {
	readings := []aqi.Reading{
		{Pollutant: aqi.PM25, Concentration: 40},
		{Pollutant: aqi.PM10, Concentration: 60},
		{Pollutant: aqi.Ozone, Concentration: 30},
		{Pollutant: aqi.NO2, Concentration: 10},
		{Pollutant: aqi.SO2, Concentration: 5},
		{Pollutant: aqi.CO, Concentration: 0.5},
	}

	res, err := aqi.Compute(readings)
	require.NoError(t, err)

	maxSub := 0
	for _, v := range res.SubIndices {
		maxSub = max(maxSub, v)
	}
	assert.Equal(t, res.SubIndices[res.PrimaryPollutant], res.Index)
	assert.Equal(t, maxSub, res.Index)
	assert.Equal(t, aqi.PM25, res.PrimaryPollutant)
	assert.Equal(t, aqi.CategoryUnhealthySensitive, res.Category)
}

func TestCompute_PropagatesInvalidReading(t *testing.T) {
	_, err := aqi.Compute([]aqi.Reading{{Pollutant: aqi.PM25, Concentration: -3}})
	assert.ErrorIs(t, err, aqi.ErrInvalidConcentration)
}

func TestReadingsFrom(t *testing.T) {
	pm := 8.0
	o3 := 20.0
	readings := aqi.ReadingsFrom(map[aqi.Pollutant]*float64{
		aqi.Ozone: &o3,
		aqi.PM25:  &pm,
		aqi.CO:    nil,
	})

	require.Len(t, readings, 2)
	assert.Equal(t, aqi.PM25, readings[0].Pollutant)
	assert.Equal(t, aqi.Ozone, readings[1].Pollutant)
}

func TestInfo(t *testing.T) {
	info := aqi.Info(aqi.CategoryUnhealthySensitive)
	assert.Equal(t, "Unhealthy for Sensitive Groups", info.Label)
	assert.Equal(t, "#FF7E00", info.Color)
	assert.Equal(t, 101, info.MinIndex)

	assert.Equal(t, "ppm", aqi.Describe(aqi.CO).Unit)
	assert.Empty(t, aqi.Info(aqi.Category("unknown")).Label)
}

func TestFromMicrograms(t *testing.T) {
	assert.Equal(t, 12.5, aqi.FromMicrograms(aqi.PM25, 12.5))
	assert.Equal(t, 40.0, aqi.FromMicrograms(aqi.PM10, 40))

	// 100 µg/m³ of ozone is about 51 ppb
	assert.InDelta(t, 50.94, aqi.FromMicrograms(aqi.Ozone, 100), 0.01)
	assert.InDelta(t, 53.14, aqi.FromMicrograms(aqi.NO2, 100), 0.01)

	// CO is reported in ppm
	assert.InDelta(t, 0.873, aqi.FromMicrograms(aqi.CO, 1000), 0.001)
}
