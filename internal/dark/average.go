// Package dark computes the calibrated dark reference of the nulling camera
// from a set of raw dark exposures, and derives per-channel noise and drift
// diagnostics used to validate detector stability.
//
// The dark is the detector signal with no incident light: the electronic and
// thermal noise floor that is subtracted from every science frame.
package dark

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	"github.com/glint-photonics/darkcal/internal/cube"
)

// Average is the running dark accumulator and, once finalized, the
// superdark: the frame-count-weighted average over every frame of every
// exposure in the run.
type Average struct {
	// Frame is the whole-frame accumulator, Height x Width row-major.
	Frame  []float64
	Height int
	Width  int

	// Channel is the per-channel accumulator in
	// [spatial][channel][spectral] order.
	Channel  []float64
	Spatial  int
	Channels int
	Spectral int

	// FrameCount is the total number of frames accumulated.
	FrameCount float64

	// Normalized is false when no frame was accumulated: the zero-valued
	// accumulators are returned as-is rather than dividing by zero.
	Normalized bool

	// FrameMeans is the whole-frame spatial mean of every frame, in
	// file-list order. Only collected when requested; it feeds the
	// whole-frame drift analysis.
	FrameMeans []float64
}

// ChannelIdx returns the flat index of (spatial, channel, spectral) in
// Channel.
func (a *Average) ChannelIdx(y, k, w int) int {
	return (y*a.Channels+k)*a.Spectral + w
}

// ComputeAverage streams through the exposures in order, accumulating the
// whole-frame and per-channel sums and the total frame count, then divides
// both sums by the count. A run with zero usable frames yields the
// zero-initialized accumulators with Normalized=false.
//
// When collectFrameMeans is set, the per-frame whole-frame mean is recorded
// alongside the sums so that the diagnostics pass does not need to re-read
// the files for it.
//
// The result is order-independent up to float64 rounding: accumulation is a
// plain elementwise sum, so permuting paths moves only the association of
// the additions, not their values.
func ComputeAverage(paths []string, loader cube.Loader, geom *cube.Geometry, collectFrameMeans bool) (*Average, error) {
	avg := &Average{
		Frame:    make([]float64, cube.DetectorHeight*cube.DetectorWidth),
		Height:   cube.DetectorHeight,
		Width:    cube.DetectorWidth,
		Channel:  make([]float64, cube.DetectorWidth*geom.NumChannels()*cube.SpectralWidth),
		Spatial:  cube.DetectorWidth,
		Channels: geom.NumChannels(),
		Spectral: cube.SpectralWidth,
	}

	for i, path := range paths {
		log.Printf("process %d/%d: %s", i+1, len(paths), path)
		c, err := loader.Load(path)
		if err != nil {
			return nil, err
		}

		if err := c.SumFramesInto(avg.Frame); err != nil {
			return nil, err
		}
		avg.FrameCount += float64(c.Frames)

		sl, err := cube.Extract(c, geom)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := sl.SumFramesInto(avg.Channel); err != nil {
			return nil, err
		}

		if collectFrameMeans {
			for f := 0; f < c.Frames; f++ {
				avg.FrameMeans = append(avg.FrameMeans, c.FrameMean(f))
			}
		}
	}

	if avg.FrameCount == 0 {
		log.Printf("no frames accumulated, leaving superdark unnormalized")
		return avg, nil
	}

	floats.Scale(1/avg.FrameCount, avg.Frame)
	floats.Scale(1/avg.FrameCount, avg.Channel)
	avg.Normalized = true
	return avg, nil
}
