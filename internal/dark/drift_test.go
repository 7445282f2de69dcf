package dark

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinSeriesAveragesWindowsAndDropsRemainder(t *testing.T) {
	series := make([]float64, 25)
	for i := range series {
		series[i] = float64(i)
	}
	time, value := binSeries(series, 10)

	require.Len(t, time, 2)
	require.Len(t, value, 2)
	assert.InDelta(t, 4.5, time[0], 1e-12)
	assert.InDelta(t, 4.5, value[0], 1e-12)
	assert.InDelta(t, 14.5, time[1], 1e-12)
	assert.InDelta(t, 14.5, value[1], 1e-12)
}

func TestFitDriftRecoversKnownSlope(t *testing.T) {
	const slope = 2.5e-3
	series := make([]float64, 2000)
	for i := range series {
		// zero-mean deterministic jitter on top of the linear trend
		series[i] = slope*float64(i) + 0.05*math.Sin(float64(i)*1.3)
	}

	d := FitDrift(series)
	require.True(t, d.Defined())
	assert.InDelta(t, slope, d.Slope, 1e-4)
	assert.Len(t, d.Value, 200)
}

func TestFitDriftConstantSeriesIsFlat(t *testing.T) {
	series := make([]float64, 50)
	for i := range series {
		series[i] = 1.25
	}
	d := FitDrift(series)
	require.True(t, d.Defined())
	assert.InDelta(t, 0.0, d.Slope, 1e-12)
	assert.InDelta(t, 1.25, d.Intercept, 1e-12)
}

func TestFitDriftTooShort(t *testing.T) {
	d := FitDrift(make([]float64, 15))
	require.Error(t, d.Err)
	assert.False(t, d.Defined())
}
