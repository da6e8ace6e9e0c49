// Command voxelsim runs a model through a full assemble, explode and
// reassemble cycle without a window and reports how the physics behaved.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/voxelforge/internal/config"
	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/preset"
)

var (
	flagStep       = flag.Float64("step", 1.0/60, "Simulation step in seconds")
	flagPlotHeight = flag.Int("plot-height", 10, "Height of the awake-particle plot")
	flagList       = flag.Bool("list", false, "List presets and exit")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Logs only go to the console in debug mode so they don't interleave with the report.
	if cfg.Logging.Level == "debug" {
		if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	catalog := preset.Builtin()
	if cfg.Presets.Dir != "" {
		if _, err := catalog.LoadDir(cfg.Presets.Dir); err != nil {
			fmt.Fprintf(os.Stderr, "Preset dir: %v\n", err)
		}
	}

	if *flagList {
		for i, name := range catalog.Names() {
			p, _ := catalog.At(i)
			fmt.Printf("%d  %-12s %d voxels\n", i+1, name, p.Voxels.Len())
		}
		return
	}

	p, err := catalog.Get(cfg.Animation.StartPreset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	seed := cfg.Animation.Seed
	if seed == 0 {
		seed = 1
	}
	rep, err := Simulate(Options{
		Tunables:      cfg.Physics,
		AssembleDelay: cfg.Animation.AssembleDelay.Seconds(),
		Seed:          seed,
		Step:          *flagStep,
	}, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(Render(rep, *flagPlotHeight))
}
