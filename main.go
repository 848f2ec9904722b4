package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	empty := flag.Bool("empty", false, "Start with an empty world")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	opts := game.Options{
		Seed:      *seed,
		Empty:     *empty,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	if *headless {
		if err := runHeadless(cfg, opts, *maxTicks); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ecosystem")
	defer rl.CloseWindow()
	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	sim, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return
	}
	defer sim.Close()

	viewer := renderer.NewViewer(sim)
	for !rl.WindowShouldClose() {
		viewer.Update()
		viewer.Draw()

		if *maxTicks > 0 && int(sim.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the simulation at the fixed configured dt.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int) error {
	sim, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer sim.Close()

	slog.Info("starting headless simulation",
		"seed", sim.Seed(),
		"stats_window", cfg.Telemetry.StatsWindow,
		"max_ticks", maxTicks,
	)

	dt := cfg.Derived.DT32
	for {
		sim.Step(dt)

		if maxTicks > 0 && int(sim.Tick()) >= maxTicks {
			slog.Info("max_ticks_reached", "tick", sim.Tick(), "population", sim.Stats())
			return nil
		}
	}
}
