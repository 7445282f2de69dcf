package monitor

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/glint-photonics/darkcal/internal/dark"
)

// Figure file names under the output directory.
const (
	globalHistFile     = "histogram_dark_fullframe.png"
	channelHistFile    = "histogram_dark.png"
	channelHistLogFile = "histogram_dark_logscale.png"
	driftGridFile      = "avg_time_lapse.png"
	pixelHistFile      = "histogram_dark_pixel.png"
	pixelCenterFile    = "histogram_dark_pixel_center.png"
	pixelTrendFile     = "trend_pixel.png"
	pixelCenterTrend   = "trend_pixel_center.png"
	frameTrendFile     = "avg_dark_fullframe.png"
)

// driftSubsample thins the raw per-frame series in the drift panels so the
// binned series and the fit stay visible.
const driftSubsample = 500

// PlotRenderer writes the monitoring figure set as PNGs.
type PlotRenderer struct {
	OutputDir string
}

// Render produces every figure. The first failing figure aborts rendering;
// the numeric results it draws from are unaffected.
func (r PlotRenderer) Render(avg *dark.Average, d *dark.Diagnostics) error {
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return fmt.Errorf("monitor: create output dir: %w", err)
	}

	steps := []struct {
		name string
		fn   func(*dark.Average, *dark.Diagnostics) error
	}{
		{globalHistFile, r.globalHistogram},
		{channelHistFile, func(a *dark.Average, d *dark.Diagnostics) error { return r.channelGrid(d, false) }},
		{channelHistLogFile, func(a *dark.Average, d *dark.Diagnostics) error { return r.channelGrid(d, true) }},
		{driftGridFile, func(a *dark.Average, d *dark.Diagnostics) error { return r.driftGrid(d) }},
		{pixelHistFile, func(a *dark.Average, d *dark.Diagnostics) error {
			return r.traceHistogram(d.Pixel, "Probe pixel dark current", pixelHistFile)
		}},
		{pixelCenterFile, func(a *dark.Average, d *dark.Diagnostics) error {
			return r.traceHistogram(d.PixelCenter, "Probe pixel centre dark current", pixelCenterFile)
		}},
		{pixelTrendFile, func(a *dark.Average, d *dark.Diagnostics) error {
			return r.traceTrend(d.Pixel.Values, "Probe pixel dark current", pixelTrendFile)
		}},
		{pixelCenterTrend, func(a *dark.Average, d *dark.Diagnostics) error {
			return r.traceTrend(d.PixelCenter.Values, "Probe pixel centre dark current", pixelCenterTrend)
		}},
		{frameTrendFile, r.frameTrend},
	}
	for _, s := range steps {
		if err := s.fn(avg, d); err != nil {
			return fmt.Errorf("monitor: %s: %w", s.name, err)
		}
	}
	return nil
}

// globalHistogram draws the whole-frame histogram with its fit overlay.
func (r PlotRenderer) globalHistogram(_ *dark.Average, d *dark.Diagnostics) error {
	p := plot.New()
	p.Title.Text = "Histogram of the background noise, whole frame"
	p.X.Label.Text = "Dark current (ADU)"
	p.Y.Label.Text = "Counts (normalised)"

	histLine, err := plotter.NewLine(xyPairs(d.Bins.Centers, d.Global))
	if err != nil {
		return err
	}
	histLine.Width = vg.Points(2)
	p.Add(histLine)
	p.Legend.Add("histogram", histLine)

	if d.GlobalFit.Defined() {
		fitLine, err := plotter.NewLine(gaussianCurve(d.Bins.Centers, d.GlobalFit))
		if err != nil {
			return err
		}
		p.Add(fitLine)
		p.Legend.Add(fitLabel(d.GlobalFit), fitLine)
	}
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 6*vg.Inch, filepath.Join(r.OutputDir, globalHistFile))
}

// channelGrid draws the 4x4 per-channel histogram grid, linear or log scale.
func (r PlotRenderer) channelGrid(d *dark.Diagnostics, logScale bool) error {
	file := channelHistFile
	if logScale {
		file = channelHistLogFile
	}

	plots := make([][]*plot.Plot, 4)
	for row := range plots {
		plots[row] = make([]*plot.Plot, 4)
		for col := range plots[row] {
			k := row*4 + col
			p := plot.New()
			p.Title.Text = fmt.Sprintf("Track %d", k+1)
			p.X.Label.Text = "Dark current (ADU)"
			p.Y.Label.Text = "Count"
			if logScale {
				p.Y.Scale = plot.LogScale{}
				p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
				p.Y.Min = 1e-8
				p.Y.Max = 10
			}

			centers, hist := d.Bins.Centers, d.Channel[k]
			if logScale {
				centers, hist = dropNonPositive(centers, hist)
			}
			histLine, err := plotter.NewLine(xyPairs(centers, hist))
			if err != nil {
				return err
			}
			histLine.Width = vg.Points(1)
			p.Add(histLine)

			if fit := d.ChannelFits[k]; fit.Defined() {
				fc, fy := d.Bins.Centers, gaussianValues(d.Bins.Centers, fit)
				if logScale {
					fc, fy = dropNonPositive(fc, fy)
				}
				fitLine, err := plotter.NewLine(xyPairs(fc, fy))
				if err != nil {
					return err
				}
				p.Add(fitLine)
				p.Legend.Add(fitLabel(fit), fitLine)
				p.Legend.Top = true
				p.Legend.Left = true
			}
			plots[row][col] = p
		}
	}

	return r.saveGrid(plots, file)
}

// driftGrid draws the 4x4 dark-current drift grid: subsampled raw series,
// 10-frame binned series, and the fitted trend.
func (r PlotRenderer) driftGrid(d *dark.Diagnostics) error {
	plots := make([][]*plot.Plot, 4)
	for row := range plots {
		plots[row] = make([]*plot.Plot, 4)
		for col := range plots[row] {
			k := row*4 + col
			p := plot.New()
			p.X.Label.Text = "Frame"
			p.Y.Label.Text = "Avg dark current"

			series := d.DarkCurrent[k]
			raw := make(plotter.XYs, 0, len(series)/driftSubsample+1)
			for i := 0; i < len(series); i += driftSubsample {
				raw = append(raw, plotter.XY{X: float64(i), Y: series[i]})
			}
			rawLine, err := plotter.NewLine(raw)
			if err != nil {
				return err
			}
			p.Add(rawLine)

			drift := d.ChannelDrift[k]
			if drift.Defined() {
				p.Title.Text = fmt.Sprintf("Track %d (drift = %.3e/frame)", k+1, drift.Slope)
				binLine, err := plotter.NewLine(xyPairs(drift.Time, drift.Value))
				if err != nil {
					return err
				}
				binLine.Width = vg.Points(2)
				p.Add(binLine)

				fit := make(plotter.XYs, len(raw))
				for i, xy := range raw {
					fit[i] = plotter.XY{X: xy.X, Y: drift.Intercept + drift.Slope*xy.X}
				}
				fitLine, err := plotter.NewLine(fit)
				if err != nil {
					return err
				}
				p.Add(fitLine)
				if k == 0 {
					p.Legend.Add("data (subsampled)", rawLine)
					p.Legend.Add("binned data", binLine)
					p.Legend.Add("fit", fitLine)
					p.Legend.Top = true
				}
			} else {
				p.Title.Text = fmt.Sprintf("Track %d (drift undefined)", k+1)
			}
			plots[row][col] = p
		}
	}

	return r.saveGrid(plots, driftGridFile)
}

// traceHistogram draws one probe-pixel histogram with its fit overlay.
func (r PlotRenderer) traceHistogram(t dark.Trace, title, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Dark current"
	p.Y.Label.Text = "Counts (normalised)"

	centers, hist := dropNonPositive(t.Centers, t.Hist)
	if len(hist) == 0 {
		return nil
	}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	histLine, err := plotter.NewLine(xyPairs(centers, hist))
	if err != nil {
		return err
	}
	histLine.Width = vg.Points(2)
	p.Add(histLine)
	p.Legend.Add("histogram", histLine)

	if t.Fit.Defined() {
		fc, fy := dropNonPositive(t.Centers, gaussianValues(t.Centers, t.Fit))
		fitLine, err := plotter.NewLine(xyPairs(fc, fy))
		if err != nil {
			return err
		}
		p.Add(fitLine)
		p.Legend.Add(fitLabel(t.Fit), fitLine)
	}
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 6*vg.Inch, filepath.Join(r.OutputDir, file))
}

// traceTrend draws one probe-pixel series against frame index.
func (r PlotRenderer) traceTrend(values []float64, title, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Avg amplitude"

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(14*vg.Inch, 6*vg.Inch, filepath.Join(r.OutputDir, file))
}

// frameTrend draws the whole-frame average dark current with its binned
// series and fitted trend.
func (r PlotRenderer) frameTrend(avg *dark.Average, d *dark.Diagnostics) error {
	p := plot.New()
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Avg dark current"
	p.Title.Text = "Average dark current on whole frame"

	pts := make(plotter.XYs, len(d.FrameMeans))
	for i, v := range d.FrameMeans {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	rawLine, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	rawLine.Width = vg.Points(2)
	p.Add(rawLine)
	p.Legend.Add("data", rawLine)

	if d.FrameDrift.Defined() {
		p.Title.Text = fmt.Sprintf("Average dark current on whole frame (drift = %.3e/frame)", d.FrameDrift.Slope)
		binLine, err := plotter.NewLine(xyPairs(d.FrameDrift.Time, d.FrameDrift.Value))
		if err != nil {
			return err
		}
		binLine.Width = vg.Points(2)
		p.Add(binLine)
		p.Legend.Add("binned data", binLine)

		fit := make(plotter.XYs, len(pts))
		for i, xy := range pts {
			fit[i] = plotter.XY{X: xy.X, Y: d.FrameDrift.Intercept + d.FrameDrift.Slope*xy.X}
		}
		fitLine, err := plotter.NewLine(fit)
		if err != nil {
			return err
		}
		p.Add(fitLine)
		p.Legend.Add("fit", fitLine)
	}
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 6*vg.Inch, filepath.Join(r.OutputDir, frameTrendFile))
}

// saveGrid aligns a 4x4 plot grid on one canvas and writes it as PNG.
func (r PlotRenderer) saveGrid(plots [][]*plot.Plot, file string) error {
	img := vgimg.New(19.2*vg.Inch, 10.8*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			if plots[row][col] != nil {
				plots[row][col].Draw(canvases[row][col])
			}
		}
	}

	w, err := os.Create(filepath.Join(r.OutputDir, file))
	if err != nil {
		return err
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return err
	}
	return nil
}

// xyPairs zips matched x/y slices into plotter points.
func xyPairs(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return pts
}

// fitLabel formats the legend entry for a fitted Gaussian.
func fitLabel(fit dark.FitResult) string {
	return fmt.Sprintf("fit (mu=%.3f, sigma=%.3f)", fit.Mean, fit.Sigma)
}

// gaussianValues evaluates a fitted Gaussian over x.
func gaussianValues(x []float64, fit dark.FitResult) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = dark.Gaussian(v, fit.Amplitude, fit.Mean, fit.Sigma)
	}
	return y
}

// gaussianCurve evaluates a fitted Gaussian over x as plotter points.
func gaussianCurve(x []float64, fit dark.FitResult) plotter.XYs {
	return xyPairs(x, gaussianValues(x, fit))
}

// dropNonPositive filters out points whose y is not positive, for log-scale
// axes.
func dropNonPositive(x, y []float64) ([]float64, []float64) {
	fx := make([]float64, 0, len(x))
	fy := make([]float64, 0, len(y))
	for i := range y {
		if y[i] > 0 {
			fx = append(fx, x[i])
			fy = append(fy, y[i])
		}
	}
	return fx, fy
}
