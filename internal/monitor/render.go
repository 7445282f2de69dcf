// Package monitor renders the dark-calibration diagnostics: combined noise
// histograms with their Gaussian fits, and dark-current drift trends. The
// Renderer interface lets callers swap the gonum/plot PNG output for plain
// log summaries.
package monitor

import (
	"log"

	"github.com/glint-photonics/darkcal/internal/dark"
	"github.com/glint-photonics/darkcal/internal/persist"
)

// Renderer consumes the finalized superdark and diagnostics of a run.
type Renderer interface {
	Render(avg *dark.Average, d *dark.Diagnostics) error
}

// LogRenderer summarizes fits and drift trends on the process log.
type LogRenderer struct{}

// Render prints one line per track plus the whole-frame summary.
func (LogRenderer) Render(avg *dark.Average, d *dark.Diagnostics) error {
	for _, tl := range persist.TrackLabels {
		fit := d.ChannelFits[tl.Index]
		drift := d.ChannelDrift[tl.Index]
		switch {
		case !fit.Defined():
			log.Printf("%s: fit undefined: %v", tl.Name, fit.Err)
		case !drift.Defined():
			log.Printf("%s: mu=%.3f sigma=%.3f drift undefined: %v", tl.Name, fit.Mean, fit.Sigma, drift.Err)
		default:
			log.Printf("%s: mu=%.3f sigma=%.3f drift=%.3e/frame", tl.Name, fit.Mean, fit.Sigma, drift.Slope)
		}
	}
	if d.GlobalFit.Defined() {
		log.Printf("full frame: mu=%.3f sigma=%.3f", d.GlobalFit.Mean, d.GlobalFit.Sigma)
	} else {
		log.Printf("full frame: fit undefined: %v", d.GlobalFit.Err)
	}
	if d.FrameDrift.Defined() {
		log.Printf("full frame drift=%.3e/frame over %d frames", d.FrameDrift.Slope, len(d.FrameMeans))
	}
	return nil
}
