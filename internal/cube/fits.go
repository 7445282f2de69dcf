package cube

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"
)

// FITSLoader decodes dark exposures stored as FITS image cubes: the primary
// HDU holds NAXIS3 frames of NAXIS2 x NAXIS1 pixels. Integer and float
// BITPIX variants are converted to float64.
type FITSLoader struct{}

// Load reads the exposure at path into a Cube.
func (FITSLoader) Load(path string) (*Cube, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cube: open %s: %w", path, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("cube: parse %s: %w", path, err)
	}
	defer f.Close()

	hdu := f.HDU(0)
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("cube: %s: primary HDU is not an image", path)
	}

	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 3 {
		return nil, fmt.Errorf("cube: %s: want a 3-axis datacube, got %d axes", path, len(axes))
	}
	width, height, frames := axes[0], axes[1], axes[2]
	if width <= 0 || height <= 0 || frames <= 0 {
		return nil, fmt.Errorf("cube: %s: degenerate axes %v", path, axes)
	}

	data, err := readPixels(img, hdr.Bitpix())
	if err != nil {
		return nil, fmt.Errorf("cube: %s: %w", path, err)
	}
	if len(data) != frames*height*width {
		return nil, fmt.Errorf("cube: %s: payload has %d pixels, axes %v imply %d",
			path, len(data), axes, frames*height*width)
	}

	return &Cube{Frames: frames, Height: height, Width: width, Data: data}, nil
}

// readPixels reads the image payload for the given BITPIX and widens it to
// float64. FITS stores NAXIS1 fastest, which matches the Cube layout.
func readPixels(img fitsio.Image, bitpix int) ([]float64, error) {
	switch bitpix {
	case 8:
		var raw []uint8
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case 32:
		var raw []int32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case -32:
		var raw []float32
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case -64:
		var raw []float64
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

func widen[T uint8 | int16 | int32 | float32](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}
