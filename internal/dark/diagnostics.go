package dark

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/glint-photonics/darkcal/internal/cube"
)

// Fixed probe pixel for the non-uniformity traces: spatial column 56 of
// channel 15 (the P1 photometric tap). The first trace averages its whole
// spectral window, the second keeps only spectral sample 10.
const (
	traceColumn  = 56
	traceChannel = 15
	traceSample  = 10
)

// Trace is one scalar dark-current series over the run, with its histogram
// (sqrt-of-sample-count binning) and Gaussian fit.
type Trace struct {
	Values  []float64
	Centers []float64
	Hist    []float64
	Fit     FitResult
}

// Diagnostics is the output of the monitoring pass: combined normalized
// histograms, their Gaussian fits, the probe-pixel traces, and the drift
// trends of every channel and of the whole frame.
type Diagnostics struct {
	Bins Bins

	// Channel holds one normalized histogram per channel; a channel whose
	// histogram recorded no counts keeps an all-zero row and an undefined
	// fit. Global is the whole-frame, mean-subtracted histogram.
	Channel     [][]float64
	ChannelFits []FitResult
	Global      []float64
	GlobalFit   FitResult

	// Pixel is the spectral-window mean of the probe pixel; PixelCenter is
	// its single central spectral sample.
	Pixel       Trace
	PixelCenter Trace

	// DarkCurrent is the per-frame spatial+spectral mean of every channel,
	// in file-list order; ChannelDrift its 10-frame-binned linear trends.
	DarkCurrent  [][]float64
	ChannelDrift []DriftResult

	// FrameMeans is the whole-frame per-frame mean collected by the
	// accumulator pass; FrameDrift its trend.
	FrameMeans []float64
	FrameDrift DriftResult
}

// RunDiagnostics re-streams the exposures and builds the monitoring
// products. avg must be the finalized output of ComputeAverage for the same
// path list: its per-channel average is the baseline subtracted from every
// slice, and its FrameMeans feed the whole-frame drift trend.
func RunDiagnostics(paths []string, loader cube.Loader, geom *cube.Geometry, edgeMin, edgeMax int, avg *Average) (*Diagnostics, error) {
	if edgeMax <= edgeMin {
		return nil, fmt.Errorf("dark: histogram edges (%d, %d) are not increasing", edgeMin, edgeMax)
	}

	nch := geom.NumChannels()
	bins := NewBins(edgeMin, edgeMax)
	global := make([]float64, bins.Count())
	channel := make([][]float64, nch)
	for k := range channel {
		channel[k] = make([]float64, bins.Count())
	}
	darkCurrent := make([][]float64, nch)
	var dk56, dk56bis []float64

	var frameBuf []float64
	var chanBuf []float64

	for i, path := range paths {
		log.Printf("histogram %d/%d: %s", i+1, len(paths), path)
		c, err := loader.Load(path)
		if err != nil {
			return nil, err
		}

		// Whole-frame histogram with each frame's own spatial mean removed.
		perFrame := c.Height * c.Width
		if cap(frameBuf) < perFrame {
			frameBuf = make([]float64, perFrame)
		}
		frameBuf = frameBuf[:perFrame]
		for f := 0; f < c.Frames; f++ {
			mean := c.FrameMean(f)
			base := f * perFrame
			for j := 0; j < perFrame; j++ {
				frameBuf[j] = c.Data[base+j] - mean
			}
			floats.Add(global, bins.Histogram(frameBuf))
		}

		sl, err := cube.Extract(c, geom)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := sl.SubtractBaseline(avg.Channel); err != nil {
			return nil, err
		}
		if sl.Spatial <= traceColumn || sl.Channels <= traceChannel {
			return nil, fmt.Errorf("dark: %s: slices %dx%d cannot address probe pixel (%d, %d)",
				path, sl.Spatial, sl.Channels, traceColumn, traceChannel)
		}

		cm := sl.ChannelMeans()
		for f := 0; f < sl.Frames; f++ {
			for k := 0; k < nch; k++ {
				darkCurrent[k] = append(darkCurrent[k], cm[f*nch+k])
			}
		}
		dk56 = append(dk56, sl.PixelSpectralMean(traceColumn, traceChannel)...)
		dk56bis = append(dk56bis, sl.PixelSample(traceColumn, traceChannel, traceSample)...)

		perChan := sl.Frames * sl.Spatial * sl.Spectral
		if cap(chanBuf) < perChan {
			chanBuf = make([]float64, perChan)
		}
		chanBuf = chanBuf[:perChan]
		for k := 0; k < nch; k++ {
			j := 0
			for f := 0; f < sl.Frames; f++ {
				for y := 0; y < sl.Spatial; y++ {
					base := sl.Idx(f, y, k, 0)
					for w := 0; w < sl.Spectral; w++ {
						chanBuf[j] = sl.Data[base+w]
						j++
					}
				}
			}
			floats.Add(channel[k], bins.Histogram(chanBuf))
		}
	}

	d := &Diagnostics{
		Bins:         bins,
		Channel:      channel,
		ChannelFits:  make([]FitResult, nch),
		Global:       global,
		DarkCurrent:  darkCurrent,
		ChannelDrift: make([]DriftResult, nch),
		FrameMeans:   avg.FrameMeans,
	}

	// Normalize and fit each channel independently; a zero-count or
	// non-converging channel is marked undefined and the run continues.
	for k := 0; k < nch; k++ {
		if !normalize(channel[k]) {
			d.ChannelFits[k] = FitResult{Err: fmt.Errorf("dark: channel %d histogram recorded no counts in range", k)}
			continue
		}
		d.ChannelFits[k] = FitGaussian(bins.Centers, channel[k], floats.Max(channel[k]), 0, 50)
		if err := d.ChannelFits[k].Err; err != nil {
			log.Printf("channel %d fit undefined: %v", k, err)
		}
	}
	if normalize(global) {
		d.GlobalFit = FitGaussian(bins.Centers, global, floats.Max(global), 0, 50)
	} else {
		d.GlobalFit = FitResult{Err: fmt.Errorf("dark: global histogram recorded no counts in range")}
	}

	d.Pixel = newTrace(dk56)
	d.PixelCenter = newTrace(dk56bis)

	for k := 0; k < nch; k++ {
		d.ChannelDrift[k] = FitDrift(darkCurrent[k])
		if dr := d.ChannelDrift[k]; dr.Defined() {
			log.Printf("channel %d binned dark current: mean=%.4f std=%.4f drift=%.3e/frame",
				k, stat.Mean(dr.Value, nil), stat.StdDev(dr.Value, nil), dr.Slope)
		}
	}
	d.FrameDrift = FitDrift(avg.FrameMeans)

	return d, nil
}

// newTrace histograms a probe-pixel series with floor(sqrt(n)) bins and fits
// a Gaussian seeded from the sample moments.
func newTrace(values []float64) Trace {
	t := Trace{Values: values}
	nb := int(math.Sqrt(float64(len(values))))
	if nb < 1 {
		t.Fit = FitResult{Err: fmt.Errorf("dark: trace too short to histogram (%d samples)", len(values))}
		return t
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if hi == lo {
		hi = lo + 1 // degenerate constant trace still gets one populated bin
	}
	step := (hi - lo) / float64(nb)
	edges := make([]float64, nb+1)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	t.Centers = make([]float64, nb)
	for i := range t.Centers {
		t.Centers[i] = edges[i] + step/2
	}

	t.Hist = make([]float64, nb)
	for _, v := range values {
		i := int((v - lo) / step)
		if i >= nb { // the max lands in the last, closed bin
			i = nb - 1
		}
		t.Hist[i]++
	}
	if !normalize(t.Hist) {
		t.Fit = FitResult{Err: fmt.Errorf("dark: trace histogram recorded no counts")}
		return t
	}
	t.Fit = FitGaussian(t.Centers, t.Hist, floats.Max(t.Hist), stat.Mean(values, nil), stat.StdDev(values, nil))
	return t
}
