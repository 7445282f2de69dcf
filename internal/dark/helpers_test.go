package dark

import (
	"fmt"
	"math"

	"github.com/glint-photonics/darkcal/internal/cube"
)

// memLoader serves synthetic cubes from memory.
type memLoader map[string]*cube.Cube

func (m memLoader) Load(path string) (*cube.Cube, error) {
	c, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("no cube at %s", path)
	}
	return c, nil
}

// constCube builds a full-size detector cube with every pixel set to v.
func constCube(frames int, v float64) *cube.Cube {
	c := cube.NewCube(frames, cube.DetectorHeight, cube.DetectorWidth)
	for i := range c.Data {
		c.Data[i] = v
	}
	return c
}

// waveCube builds a full-size cube with a deterministic per-pixel pattern,
// distinct across frames, for order-sensitivity checks.
func waveCube(frames int, seed float64) *cube.Cube {
	c := cube.NewCube(frames, cube.DetectorHeight, cube.DetectorWidth)
	for i := range c.Data {
		c.Data[i] = math.Sin(seed + float64(i)*0.013)
	}
	return c
}

func testGeometry() *cube.Geometry { return cube.NewGeometry(cube.NumChannels) }
