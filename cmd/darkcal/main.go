// Command darkcal computes the calibrated dark (superdark) of the nulling
// camera from a folder of raw dark exposures, and optionally derives the
// detector-stability diagnostics: per-channel noise histograms, Gaussian
// fits, and dark-current drift trends.
package main

import (
	"flag"
	"log"

	"github.com/glint-photonics/darkcal/internal/config"
	"github.com/glint-photonics/darkcal/internal/cube"
	"github.com/glint-photonics/darkcal/internal/dark"
	"github.com/glint-photonics/darkcal/internal/fsutil"
	"github.com/glint-photonics/darkcal/internal/monitor"
	"github.com/glint-photonics/darkcal/internal/persist"
)

var (
	configPath = flag.String("config", "", "Optional JSON run configuration")
	dataFolder = flag.String("data", "", "Folder containing the dark exposures")
	outputPath = flag.String("out", "", "Output folder for artifacts and figures")
	keyword    = flag.String("keyword", "", "Substring filter on exposure file names")
	firstFile  = flag.Int("first", -1, "First file index to process (inclusive, -1 = start)")
	lastFile   = flag.Int("last", -1, "Last file index to process (exclusive, -1 = end)")
	edgeMin    = flag.Int("edge-min", 0, "Minimal histogram edge (ADU)")
	edgeMax    = flag.Int("edge-max", 0, "Maximal histogram edge (ADU)")
	save       = flag.Bool("save", false, "Persist the superdark and monitoring artifacts")
	monitorRun = flag.Bool("monitor", false, "Run the diagnostics pass")
	plots      = flag.Bool("plots", false, "Render the monitoring figures as PNGs")
)

func main() {
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg.Merge(fileCfg)
	}
	cfg.Merge(flagOverrides())

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// flagOverrides builds a partial config from the flags the user actually set,
// so file-configured values survive unset flags.
func flagOverrides() *config.RunConfig {
	o := &config.RunConfig{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			o.DataFolder = dataFolder
		case "out":
			o.OutputPath = outputPath
		case "keyword":
			o.Keyword = keyword
		case "first":
			o.FirstFile = firstFile
		case "last":
			o.LastFile = lastFile
		case "edge-min":
			o.EdgeMin = edgeMin
		case "edge-max":
			o.EdgeMax = edgeMax
		case "save":
			o.Save = save
		case "monitor":
			o.Monitor = monitorRun
		case "plots":
			o.Plots = plots
		}
	})
	return o
}

func run(cfg *config.RunConfig) error {
	fsys := fsutil.OSFileSystem{}

	paths, err := dark.SelectExposures(fsys, *cfg.DataFolder, *cfg.Keyword, *cfg.FirstFile, *cfg.LastFile)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(*cfg.OutputPath, 0755); err != nil {
		return err
	}

	geom := cube.NewGeometry(cube.NumChannels)
	loader := cube.FITSLoader{}

	avg, err := dark.ComputeAverage(paths, loader, geom, *cfg.Monitor)
	if err != nil {
		return err
	}
	log.Printf("superdark from %d files, %.0f frames", len(paths), avg.FrameCount)

	if *cfg.Save && avg.Normalized {
		if err := persist.SaveSuperdark(*cfg.OutputPath, avg); err != nil {
			return err
		}
	}

	if !*cfg.Monitor {
		return nil
	}

	diag, err := dark.RunDiagnostics(paths, loader, geom, *cfg.EdgeMin, *cfg.EdgeMax, avg)
	if err != nil {
		return err
	}

	// A failed artifact write skips the remaining writes but the computed
	// diagnostics are still reported.
	var saveErr error
	if *cfg.Save {
		saveErr = saveDiagnostics(*cfg.OutputPath, diag)
		if saveErr != nil {
			log.Printf("artifact write failed, remaining writes skipped: %v", saveErr)
		}
	}

	if err := (monitor.LogRenderer{}).Render(avg, diag); err != nil {
		return err
	}
	if *cfg.Plots {
		r := monitor.PlotRenderer{OutputDir: *cfg.OutputPath}
		if err := r.Render(avg, diag); err != nil {
			return err
		}
	}
	return saveErr
}

func saveDiagnostics(dir string, diag *dark.Diagnostics) error {
	if err := persist.SaveFitParams(dir, diag.ChannelFits); err != nil {
		return err
	}
	if err := persist.SaveChannelHistograms(dir, diag); err != nil {
		return err
	}
	return persist.SaveGlobalHistogram(dir, diag)
}
