package dark

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// driftBinning is the number of consecutive frames averaged together before
// the drift regression. Any trailing remainder that does not fill a whole
// window is dropped.
const driftBinning = 10

// DriftResult is the linear trend of one dark-current series over the run.
// Slope is the drift per frame. The binned series are kept for plotting.
type DriftResult struct {
	Slope     float64
	Intercept float64
	Time      []float64
	Value     []float64
	Err       error
}

// Defined reports whether the regression produced a usable trend.
func (d DriftResult) Defined() bool { return d.Err == nil }

// binSeries averages contiguous non-overlapping windows of width w over
// series, returning the binned values and the matching binned time axis
// (the mean frame index of each window).
func binSeries(series []float64, w int) (time, value []float64) {
	n := len(series) / w
	time = make([]float64, n)
	value = make([]float64, n)
	for i := 0; i < n; i++ {
		tsum, vsum := 0.0, 0.0
		for j := 0; j < w; j++ {
			tsum += float64(i*w + j)
			vsum += series[i*w+j]
		}
		time[i] = tsum / float64(w)
		value[i] = vsum / float64(w)
	}
	return time, value
}

// FitDrift downsamples the per-frame series by 10-frame windows and fits a
// degree-1 polynomial of binned value against binned frame index.
func FitDrift(series []float64) DriftResult {
	time, value := binSeries(series, driftBinning)
	if len(value) < 2 {
		return DriftResult{Err: fmt.Errorf("dark: drift fit needs at least %d frames, got %d", 2*driftBinning, len(series))}
	}
	intercept, slope := stat.LinearRegression(time, value, nil, false)
	if !finite(slope) || !finite(intercept) {
		return DriftResult{Time: time, Value: value, Err: fmt.Errorf("dark: drift regression diverged")}
	}
	return DriftResult{Slope: slope, Intercept: intercept, Time: time, Value: value}
}
