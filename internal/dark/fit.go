package dark

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
)

// Gaussian evaluates the Gaussian model A*exp(-(x-mu)^2 / (2 sigma^2)) used
// for every histogram fit in the diagnostics.
func Gaussian(x, amplitude, mean, sigma float64) float64 {
	d := x - mean
	return amplitude * math.Exp(-d*d/(2*sigma*sigma))
}

// FitResult is a fitted Gaussian for one histogram. A fit that fails to
// converge is isolated to its channel: Err is set, the parameters are
// undefined, and the rest of the run proceeds.
type FitResult struct {
	Amplitude float64
	Mean      float64
	Sigma     float64
	Err       error
}

// Defined reports whether the fit produced usable parameters.
func (r FitResult) Defined() bool { return r.Err == nil }

// FitGaussian estimates (amplitude, mean, sigma) for the histogram y sampled
// at x via Levenberg-Marquardt nonlinear least squares, starting from the
// given initial guess.
func FitGaussian(x, y []float64, amplitude0, mean0, sigma0 float64) FitResult {
	if len(x) != len(y) || len(x) < 3 {
		return FitResult{Err: fmt.Errorf("dark: gaussian fit needs matched x/y with at least 3 samples, got %d/%d", len(x), len(y))}
	}

	residuals := func(dst, p []float64) {
		a, mu, sigma := p[0], p[1], p[2]
		for i := range x {
			dst[i] = Gaussian(x[i], a, mu, sigma) - y[i]
		}
	}

	jac := lm.NumJac{Func: residuals}
	problem := lm.LMProblem{
		Dim:        3,
		Size:       len(x),
		Func:       residuals,
		Jac:        jac.Jac,
		InitParams: []float64{amplitude0, mean0, sigma0},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	res, err := lm.LM(problem, &lm.Settings{Iterations: 200, ObjectiveTol: 1e-16})
	if err != nil {
		return FitResult{Err: fmt.Errorf("dark: gaussian fit: %w", err)}
	}
	a, mu, sigma := res.X[0], res.X[1], math.Abs(res.X[2])
	if !finite(a) || !finite(mu) || !finite(sigma) {
		return FitResult{Err: fmt.Errorf("dark: gaussian fit diverged to non-finite parameters")}
	}
	return FitResult{Amplitude: a, Mean: mu, Sigma: sigma}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
