package persist

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/glint-photonics/darkcal/internal/dark"
)

// Artifact file names under the output path.
const (
	SuperdarkFile        = "superdark.hdf5"
	SuperdarkChannelFile = "superdarkchannel.hdf5"
	FitParamsFile        = "hist_dk_params.hdf5"
	ChannelHistFile      = "hist_dk_slices.hdf5"
	GlobalHistFile       = "hist_dk.hdf5"
)

// SaveSuperdark writes the finalized whole-frame and per-channel averages to
// their two artifacts.
func SaveSuperdark(dir string, avg *dark.Average) error {
	if err := writeFile(filepath.Join(dir, SuperdarkFile), []dataset{{
		name: "superdark",
		dims: []uint{uint(avg.Height), uint(avg.Width)},
		data: avg.Frame,
	}}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, SuperdarkChannelFile), []dataset{{
		name: "superdarkchannel",
		dims: []uint{uint(avg.Spatial), uint(avg.Channels), uint(avg.Spectral)},
		data: avg.Channel,
	}})
}

// SaveFitParams writes the fitted (amplitude, mean, sigma) triple of every
// channel under its track label. An undefined fit is stored as a NaN triple
// so the artifact still carries all 16 keys.
func SaveFitParams(dir string, fits []dark.FitResult) error {
	sets := make([]dataset, 0, len(TrackLabels))
	for _, tl := range TrackLabels {
		if tl.Index >= len(fits) {
			return fmt.Errorf("persist: no fit for track %s (index %d)", tl.Name, tl.Index)
		}
		fit := fits[tl.Index]
		params := []float64{fit.Amplitude, fit.Mean, fit.Sigma}
		if !fit.Defined() {
			params = []float64{math.NaN(), math.NaN(), math.NaN()}
		}
		sets = append(sets, dataset{name: tl.Name, dims: []uint{3}, data: params})
	}
	return writeFile(filepath.Join(dir, FitParamsFile), sets)
}

// SaveChannelHistograms writes each channel's normalized histogram paired
// with the bin left edges, one bins-by-2 dataset per track label.
func SaveChannelHistograms(dir string, d *dark.Diagnostics) error {
	left := d.Bins.LeftEdges()
	sets := make([]dataset, 0, len(TrackLabels))
	for _, tl := range TrackLabels {
		if tl.Index >= len(d.Channel) {
			return fmt.Errorf("persist: no histogram for track %s (index %d)", tl.Name, tl.Index)
		}
		row := d.Channel[tl.Index]
		paired := make([]float64, 0, 2*len(row))
		for i := range row {
			paired = append(paired, row[i], left[i])
		}
		sets = append(sets, dataset{name: tl.Name, dims: []uint{uint(len(row)), 2}, data: paired})
	}
	return writeFile(filepath.Join(dir, ChannelHistFile), sets)
}

// SaveGlobalHistogram writes the whole-frame normalized histogram stacked
// over the bin left edges under the single key "histogram".
func SaveGlobalHistogram(dir string, d *dark.Diagnostics) error {
	left := d.Bins.LeftEdges()
	data := make([]float64, 0, 2*len(d.Global))
	data = append(data, d.Global...)
	data = append(data, left...)
	return writeFile(filepath.Join(dir, GlobalHistFile), []dataset{{
		name: "histogram",
		dims: []uint{2, uint(len(d.Global))},
		data: data,
	}})
}
