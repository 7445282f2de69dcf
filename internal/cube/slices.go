package cube

import "fmt"

// ShapeError reports an exposure whose frame geometry is incompatible with
// the fixed channel layout.
type ShapeError struct {
	Channel int
	Height  int
	Start   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("cube: channel %d window [%d,%d) outside frame height %d",
		e.Channel, e.Start, e.Start+SpectralWidth, e.Height)
}

// Slices is the per-exposure channel extraction: for every frame and every
// spatial column, the 20-pixel spectral window of each channel. Layout is
// [frame][spatial][channel][spectral], flattened into Data. Slices are
// transient: recomputed per exposure, aggregated, never persisted directly.
type Slices struct {
	Frames   int
	Spatial  int
	Channels int
	Spectral int
	Data     []float64
}

// NewSlices allocates a zero-filled slice stack.
func NewSlices(frames, spatial, channels, spectral int) *Slices {
	return &Slices{
		Frames:   frames,
		Spatial:  spatial,
		Channels: channels,
		Spectral: spectral,
		Data:     make([]float64, frames*spatial*channels*spectral),
	}
}

// Idx returns the flat index of (frame, spatial, channel, spectral).
func (s *Slices) Idx(f, y, k, w int) int {
	return ((f*s.Spatial+y)*s.Channels+k)*s.Spectral + w
}

// At returns the value at (frame, spatial, channel, spectral).
func (s *Slices) At(f, y, k, w int) float64 { return s.Data[s.Idx(f, y, k, w)] }

// Extract carves the channel windows out of every frame of c. The spectral
// windows are recomputed from the exposure's own frame height so that a file
// with drifted dimensions fails loudly instead of slicing garbage.
func Extract(c *Cube, g *Geometry) (*Slices, error) {
	n := g.NumChannels()
	starts := make([]int, n)
	for k := 0; k < n; k++ {
		start := g.windowStart(k)
		if start < 0 || start+SpectralWidth > c.Height {
			return nil, &ShapeError{Channel: k, Height: c.Height, Start: start}
		}
		starts[k] = start
	}

	sl := NewSlices(c.Frames, c.Width, n, SpectralWidth)
	for f := 0; f < c.Frames; f++ {
		for y := 0; y < c.Width; y++ {
			for k := 0; k < n; k++ {
				base := sl.Idx(f, y, k, 0)
				for w := 0; w < SpectralWidth; w++ {
					sl.Data[base+w] = c.At(f, starts[k]+w, y)
				}
			}
		}
	}
	return sl, nil
}

// SumFramesInto adds the sum over the frame axis into dst, which must have
// Spatial*Channels*Spectral elements in [spatial][channel][spectral] order.
func (s *Slices) SumFramesInto(dst []float64) error {
	perFrame := s.Spatial * s.Channels * s.Spectral
	if len(dst) != perFrame {
		return fmt.Errorf("cube: slice sum target has %d elements, want %d", len(dst), perFrame)
	}
	for f := 0; f < s.Frames; f++ {
		base := f * perFrame
		for i := 0; i < perFrame; i++ {
			dst[i] += s.Data[base+i]
		}
	}
	return nil
}

// SubtractBaseline removes a per-pixel baseline (the finalized per-channel
// average, [spatial][channel][spectral]) from every frame in place.
func (s *Slices) SubtractBaseline(baseline []float64) error {
	perFrame := s.Spatial * s.Channels * s.Spectral
	if len(baseline) != perFrame {
		return fmt.Errorf("cube: baseline has %d elements, want %d", len(baseline), perFrame)
	}
	for f := 0; f < s.Frames; f++ {
		base := f * perFrame
		for i := 0; i < perFrame; i++ {
			s.Data[base+i] -= baseline[i]
		}
	}
	return nil
}

// ChannelMeans collapses the spatial and spectral axes, returning one mean
// per frame and channel in [frame][channel] order.
func (s *Slices) ChannelMeans() []float64 {
	out := make([]float64, s.Frames*s.Channels)
	norm := float64(s.Spatial * s.Spectral)
	for f := 0; f < s.Frames; f++ {
		for y := 0; y < s.Spatial; y++ {
			for k := 0; k < s.Channels; k++ {
				base := s.Idx(f, y, k, 0)
				sum := 0.0
				for w := 0; w < s.Spectral; w++ {
					sum += s.Data[base+w]
				}
				out[f*s.Channels+k] += sum
			}
		}
		for k := 0; k < s.Channels; k++ {
			out[f*s.Channels+k] /= norm
		}
	}
	return out
}

// PixelSpectralMean returns, per frame, the spectral-window mean of one
// pixel (spatial column y, channel k).
func (s *Slices) PixelSpectralMean(y, k int) []float64 {
	out := make([]float64, s.Frames)
	for f := 0; f < s.Frames; f++ {
		base := s.Idx(f, y, k, 0)
		sum := 0.0
		for w := 0; w < s.Spectral; w++ {
			sum += s.Data[base+w]
		}
		out[f] = sum / float64(s.Spectral)
	}
	return out
}

// PixelSample returns, per frame, the single spectral sample w of pixel
// (spatial column y, channel k).
func (s *Slices) PixelSample(y, k, w int) []float64 {
	out := make([]float64, s.Frames)
	for f := 0; f < s.Frames; f++ {
		out[f] = s.At(f, y, k, w)
	}
	return out
}
