package dark

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glint-photonics/darkcal/internal/cube"
)

func runConstantDiagnostics(t *testing.T, frames int, values ...float64) (*Average, *Diagnostics) {
	t.Helper()
	loader := memLoader{}
	paths := make([]string, len(values))
	for i, v := range values {
		paths[i] = string(rune('a' + i))
		loader[paths[i]] = constCube(frames, v)
	}
	geom := testGeometry()

	avg, err := ComputeAverage(paths, loader, geom, true)
	require.NoError(t, err)
	d, err := RunDiagnostics(paths, loader, geom, -50, 50, avg)
	require.NoError(t, err)
	return avg, d
}

func TestDiagnosticsConstantZeroDarkIsASpikeAtZero(t *testing.T) {
	_, d := runConstantDiagnostics(t, 10, 0, 0, 0)

	// Every mean-subtracted pixel is exactly zero, so the global histogram
	// is a single spike in the bin containing zero.
	zeroBin := -1
	for i, v := range d.Global {
		if v != 0 {
			require.Equal(t, -1, zeroBin, "more than one populated bin")
			zeroBin = i
		}
	}
	require.NotEqual(t, -1, zeroBin)
	assert.InDelta(t, 1.0, d.Global[zeroBin], 1e-12)
	assert.LessOrEqual(t, d.Bins.Edges[zeroBin], 0.0)
	assert.Greater(t, d.Bins.Edges[zeroBin+1], 0.0)

	if d.GlobalFit.Defined() {
		assert.InDelta(t, 0.0, d.GlobalFit.Mean, 0.6)
	}
}

func TestDiagnosticsChannelRowsNormalizeToUnitSum(t *testing.T) {
	_, d := runConstantDiagnostics(t, 10, 1.5, 2.5, 3.5)

	for k, row := range d.Channel {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		assert.InDeltaf(t, 1.0, sum, 1e-9, "channel %d", k)
	}
}

func TestDiagnosticsTraceAndSeriesLengths(t *testing.T) {
	avg, d := runConstantDiagnostics(t, 10, 1, 2, 3)

	require.Len(t, d.DarkCurrent, cube.NumChannels)
	for _, series := range d.DarkCurrent {
		assert.Len(t, series, 30)
	}
	assert.Len(t, d.Pixel.Values, 30)
	assert.Len(t, d.PixelCenter.Values, 30)
	assert.Len(t, d.FrameMeans, 30)
	assert.Len(t, avg.FrameMeans, 30)
}

func TestDiagnosticsConstantDarkHasNoDrift(t *testing.T) {
	_, d := runConstantDiagnostics(t, 10, 2, 2, 2)

	for k, drift := range d.ChannelDrift {
		require.Truef(t, drift.Defined(), "channel %d", k)
		assert.InDeltaf(t, 0.0, drift.Slope, 1e-9, "channel %d", k)
	}
	require.True(t, d.FrameDrift.Defined())
	assert.InDelta(t, 0.0, d.FrameDrift.Slope, 1e-9)
}

func TestDiagnosticsBaselineRemovalCentersChannels(t *testing.T) {
	// Identical exposures: after subtracting the per-channel average every
	// slice value is zero, so the per-channel dark current sits at zero.
	_, d := runConstantDiagnostics(t, 10, 4.2, 4.2)
	for _, series := range d.DarkCurrent {
		for _, v := range series {
			assert.InDelta(t, 0.0, v, 1e-12)
		}
	}
}

func TestDiagnosticsRejectsBadEdges(t *testing.T) {
	avg := &Average{}
	_, err := RunDiagnostics(nil, memLoader{}, testGeometry(), 50, -50, avg)
	require.Error(t, err)
}

func TestDiagnosticsShapeDriftAborts(t *testing.T) {
	loader := memLoader{"short": cube.NewCube(2, 100, cube.DetectorWidth)}
	geom := testGeometry()

	_, err := ComputeAverage([]string{"short"}, loader, geom, false)
	require.Error(t, err)
	var shapeErr *cube.ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}
