package monitor

import (
	"testing"

	"github.com/glint-photonics/darkcal/internal/cube"
	"github.com/glint-photonics/darkcal/internal/dark"
)

func syntheticDiagnostics() *dark.Diagnostics {
	d := &dark.Diagnostics{
		Bins:         dark.NewBins(-10, 10),
		ChannelFits:  make([]dark.FitResult, cube.NumChannels),
		ChannelDrift: make([]dark.DriftResult, cube.NumChannels),
		FrameMeans:   []float64{1, 1, 1},
	}
	d.Channel = make([][]float64, cube.NumChannels)
	for k := range d.Channel {
		d.Channel[k] = make([]float64, d.Bins.Count())
		d.ChannelFits[k] = dark.FitResult{Amplitude: 0.1, Mean: 0, Sigma: 2}
		d.ChannelDrift[k] = dark.DriftResult{Slope: 1e-6, Time: []float64{4.5, 14.5}, Value: []float64{1, 1}}
	}
	d.Global = make([]float64, d.Bins.Count())
	d.GlobalFit = dark.FitResult{Amplitude: 0.1, Mean: 0, Sigma: 2}
	d.FrameDrift = dark.DriftResult{Slope: 0}
	return d
}

func TestLogRendererHandlesDefinedAndUndefinedFits(t *testing.T) {
	d := syntheticDiagnostics()
	d.ChannelFits[3] = dark.FitResult{Err: errFake}
	d.ChannelDrift[7] = dark.DriftResult{Err: errFake}

	if err := (LogRenderer{}).Render(&dark.Average{}, d); err != nil {
		t.Fatalf("LogRenderer.Render: %v", err)
	}
}

func TestDropNonPositive(t *testing.T) {
	x, y := dropNonPositive([]float64{1, 2, 3, 4}, []float64{0.5, 0, -1, 2})
	if len(x) != 2 || len(y) != 2 {
		t.Fatalf("kept %d/%d points, want 2/2", len(x), len(y))
	}
	if x[0] != 1 || x[1] != 4 {
		t.Fatalf("kept wrong x values: %v", x)
	}
}

func TestXYPairs(t *testing.T) {
	pts := xyPairs([]float64{1, 2}, []float64{3, 4})
	if len(pts) != 2 || pts[1].X != 2 || pts[1].Y != 4 {
		t.Fatalf("xyPairs = %v", pts)
	}
}

var errFake = fakeError{}

type fakeError struct{}

func (fakeError) Error() string { return "synthetic failure" }
