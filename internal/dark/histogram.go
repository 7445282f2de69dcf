package dark

import "gonum.org/v1/gonum/floats"

// Bins holds the shared histogram binning for a run: unit-width bins spanning
// [edgeMin-0.5, edgeMax+0.5]. Edges has one more element than there are bins;
// Centers are the bin midpoints used for fitting.
type Bins struct {
	Edges   []float64
	Centers []float64
}

// NewBins builds the run binning from the integer histogram bounds. The edge
// sequence has edgeMax-edgeMin+1 points, matching the unit bin width.
func NewBins(edgeMin, edgeMax int) Bins {
	n := edgeMax - edgeMin + 1
	lo := float64(edgeMin) - 0.5
	hi := float64(edgeMax) + 0.5
	step := (hi - lo) / float64(n-1)

	edges := make([]float64, n)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	centers := make([]float64, n-1)
	for i := range centers {
		centers[i] = edges[i] + step/2
	}
	return Bins{Edges: edges, Centers: centers}
}

// Count returns the number of bins.
func (b Bins) Count() int { return len(b.Edges) - 1 }

// LeftEdges returns the left edge of every bin.
func (b Bins) LeftEdges() []float64 { return b.Edges[:len(b.Edges)-1] }

// Histogram counts data into the bins. Values outside [Edges[0], Edges[last])
// are discarded, matching the closed-open bin convention.
func (b Bins) Histogram(data []float64) []float64 {
	lo := b.Edges[0]
	hi := b.Edges[len(b.Edges)-1]
	n := b.Count()
	step := (hi - lo) / float64(n)

	counts := make([]float64, n)
	for _, v := range data {
		if v < lo || v >= hi {
			continue
		}
		i := int((v - lo) / step)
		if i >= n { // rounding at the upper edge
			i = n - 1
		}
		counts[i]++
	}
	return counts
}

// normalize divides counts by their total, in place, and reports whether the
// total was nonzero. A channel that recorded no counts in range stays
// all-zero and its histogram is treated as undefined downstream.
func normalize(counts []float64) bool {
	total := floats.Sum(counts)
	if total == 0 {
		return false
	}
	floats.Scale(1/total, counts)
	return true
}
