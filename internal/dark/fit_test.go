package dark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestFitGaussianRoundTrip(t *testing.T) {
	const (
		amplitude = 0.08
		mean      = 2.5
		sigma     = 7.0
	)
	b := NewBins(-50, 50)
	y := make([]float64, len(b.Centers))
	for i, x := range b.Centers {
		y[i] = Gaussian(x, amplitude, mean, sigma)
	}

	fit := FitGaussian(b.Centers, y, floats.Max(y), 0, 50)
	require.NoError(t, fit.Err)
	require.True(t, fit.Defined())
	assert.InDelta(t, amplitude, fit.Amplitude, 1e-4)
	assert.InDelta(t, mean, fit.Mean, 1e-3)
	assert.InDelta(t, sigma, fit.Sigma, 1e-3)
}

func TestFitGaussianSigmaSignNormalized(t *testing.T) {
	b := NewBins(-30, 30)
	y := make([]float64, len(b.Centers))
	for i, x := range b.Centers {
		y[i] = Gaussian(x, 0.1, 0, 4)
	}

	// A negative starting sigma still converges to a positive width.
	fit := FitGaussian(b.Centers, y, 0.1, 0, -10)
	require.True(t, fit.Defined())
	assert.Greater(t, fit.Sigma, 0.0)
	assert.InDelta(t, 4.0, fit.Sigma, 1e-3)
}

func TestFitGaussianRejectsShortInput(t *testing.T) {
	fit := FitGaussian([]float64{0, 1}, []float64{1, 1}, 1, 0, 1)
	require.Error(t, fit.Err)
	assert.False(t, fit.Defined())
}

func TestFitGaussianMismatchedInput(t *testing.T) {
	fit := FitGaussian([]float64{0, 1, 2}, []float64{1, 1}, 1, 0, 1)
	require.Error(t, fit.Err)
}
