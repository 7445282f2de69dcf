// Package persist writes the calibration products as HDF5 key/value
// containers: the superdark pair, the fitted histogram parameters, and the
// combined histograms.
package persist

// TrackLabel binds a named detector output to its channel index in the
// extraction order. The table is fixed wiring of the instrument: four
// photometric taps, six null outputs and six antinull outputs interleaved
// across the 16 bands.
type TrackLabel struct {
	Name  string
	Index int
}

// TrackLabels is the ordered index-to-label table used for every per-channel
// artifact key.
var TrackLabels = []TrackLabel{
	{"p1", 15}, {"p2", 13}, {"p3", 2}, {"p4", 0},
	{"null1", 11}, {"null2", 3}, {"null3", 1}, {"null4", 6},
	{"null5", 5}, {"null6", 8},
	{"antinull1", 9}, {"antinull2", 12}, {"antinull3", 14},
	{"antinull4", 4}, {"antinull5", 7}, {"antinull6", 10},
}
