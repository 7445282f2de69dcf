package cube

// Detector geometry of the nulling camera. The 16 outputs are imaged as
// horizontal bands stacked along the 344-pixel axis; each band is dispersed
// across the 96-pixel axis and read out over a 20-pixel spectral window
// centred on the band.
const (
	// NumChannels is the number of interferometric outputs on the detector.
	NumChannels = 16

	// DetectorHeight and DetectorWidth are the fixed frame dimensions.
	DetectorHeight = 344
	DetectorWidth  = 96

	// SpectralWidth is the number of pixels kept around each channel centre.
	SpectralWidth = 20
)

// Geometry holds the channel band positions for a run. Computed once and
// shared read-only by every exposure in the run.
type Geometry struct {
	// Positions are the channel centre coordinates along the stacking axis.
	Positions []float64
	// Sep is the centre-to-centre gap between adjacent channels, in pixels.
	Sep float64
}

// NewGeometry computes the centre position of each of n channel bands on the
// detector. Bands tile the stacking axis evenly, so the separation is the
// detector height divided by the channel count and the first centre sits at
// half a separation.
func NewGeometry(n int) *Geometry {
	sep := float64(DetectorHeight) / float64(n)
	pos := make([]float64, n)
	for k := range pos {
		pos[k] = sep/2 + float64(k)*sep
	}
	return &Geometry{Positions: pos, Sep: sep}
}

// NumChannels returns the number of channel bands in the geometry.
func (g *Geometry) NumChannels() int { return len(g.Positions) }

// windowStart returns the first pixel of the spectral window for channel k.
func (g *Geometry) windowStart(k int) int {
	return int(g.Positions[k]+0.5) - SpectralWidth/2
}
