// Package cube models raw detector datacubes: stacks of sequential frames
// read from one exposure file, plus the channel geometry used to carve each
// frame into the 16 interferometric outputs.
package cube

import "fmt"

// Cube is one loaded exposure: Frames frames of Height x Width pixels,
// stored frame-major in Data. A Cube is immutable once loaded and is
// discarded after it has contributed to the running accumulators.
type Cube struct {
	Frames int
	Height int
	Width  int
	Data   []float64
}

// Loader decodes an exposure file into a Cube. Implementations must return
// an error for unreadable or malformed files; the pipeline aborts the run
// rather than silently dropping frames from the weighted average.
type Loader interface {
	Load(path string) (*Cube, error)
}

// NewCube allocates a zero-filled cube with the given dimensions.
func NewCube(frames, height, width int) *Cube {
	return &Cube{
		Frames: frames,
		Height: height,
		Width:  width,
		Data:   make([]float64, frames*height*width),
	}
}

// Idx returns the flat index of pixel (y, x) in frame f.
func (c *Cube) Idx(f, y, x int) int { return (f*c.Height+y)*c.Width + x }

// At returns the pixel value at (y, x) in frame f.
func (c *Cube) At(f, y, x int) float64 { return c.Data[(f*c.Height+y)*c.Width+x] }

// Set stores a pixel value at (y, x) in frame f.
func (c *Cube) Set(f, y, x int, v float64) { c.Data[(f*c.Height+y)*c.Width+x] = v }

// SumFramesInto adds the sum over the frame axis into dst, which must have
// Height*Width elements laid out row-major.
func (c *Cube) SumFramesInto(dst []float64) error {
	if len(dst) != c.Height*c.Width {
		return fmt.Errorf("cube: frame sum target has %d elements, want %d", len(dst), c.Height*c.Width)
	}
	perFrame := c.Height * c.Width
	for f := 0; f < c.Frames; f++ {
		base := f * perFrame
		for i := 0; i < perFrame; i++ {
			dst[i] += c.Data[base+i]
		}
	}
	return nil
}

// FrameMean returns the spatial mean of frame f.
func (c *Cube) FrameMean(f int) float64 {
	perFrame := c.Height * c.Width
	base := f * perFrame
	sum := 0.0
	for i := 0; i < perFrame; i++ {
		sum += c.Data[base+i]
	}
	return sum / float64(perFrame)
}
