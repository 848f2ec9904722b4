package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Options control how a simulation is created.
//
// Population history is sampled every telemetry.history_interval seconds of
// simulated time, the sum of the dt values passed to Step, not wall-clock
// time. A viewer running at 4x speed fills the history four times faster.
type Options struct {
	Seed      int64  // 0 picks a time-based seed
	Empty     bool   // skip the initial seed population
	OutputDir string // CSV output directory; empty disables file output
	LogStats  bool   // log window stats and bookmarks

	// OnWindow is called with every flushed stats window.
	OnWindow func(telemetry.WindowStats)
}

// Simulation owns the world and runs every system in a fixed order.
type Simulation struct {
	cfg   *config.Config
	rng   *rand.Rand
	seed  int64
	store *systems.Store

	sunlight  *systems.Sunlight
	snapshots *systems.Snapshots

	environment *systems.EnvironmentSystem
	prey        *systems.PreyMovementSystem
	hunting     *systems.HuntingSystem
	scavengers  *systems.ScavengerMovementSystem
	feeding     *systems.FeedingSystem
	lifecycle   *systems.LifecycleSystem

	cmds   systems.CommandBuffer
	events systems.Events

	// Telemetry
	collector *telemetry.Collector
	history   *telemetry.History
	sample    telemetry.Sample
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	logStats  bool
	onWindow  func(telemetry.WindowStats)

	// Organism iteration
	plantFilter *ecs.Filter4[components.Position, components.Genome, components.Energy, components.Plant]
	preyFilter  *ecs.Filter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Prey]
	predFilter  *ecs.Filter6[components.Position, components.Velocity, components.Genome, components.Energy, components.HuntTarget, components.Predator]
	scavFilter  *ecs.Filter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Scavenger]
	deadFilter  *ecs.Filter4[components.Position, components.Genome, components.Energy, components.Corpse]

	tick    int32
	elapsed float64
}

// New creates a simulation from a validated configuration.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	store := systems.NewStore(cfg, rng)
	light := systems.NewSunlight(cfg.Sunlight)
	w := store.World

	s := &Simulation{
		cfg:       cfg,
		rng:       rng,
		seed:      seed,
		store:     store,
		sunlight:  light,
		snapshots: systems.NewSnapshots(store),

		environment: systems.NewEnvironmentSystem(store, light),
		prey:        systems.NewPreyMovementSystem(store),
		hunting:     systems.NewHuntingSystem(store),
		scavengers:  systems.NewScavengerMovementSystem(store),
		feeding:     systems.NewFeedingSystem(store),
		lifecycle:   systems.NewLifecycleSystem(store),

		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32),
		history:   telemetry.NewHistory(cfg.Telemetry.HistoryInterval, 0),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		logStats:  opts.LogStats,
		onWindow:  opts.OnWindow,

		plantFilter: ecs.NewFilter4[components.Position, components.Genome, components.Energy, components.Plant](w),
		preyFilter:  ecs.NewFilter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Prey](w),
		predFilter:  ecs.NewFilter6[components.Position, components.Velocity, components.Genome, components.Energy, components.HuntTarget, components.Predator](w),
		scavFilter:  ecs.NewFilter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Scavenger](w),
		deadFilter:  ecs.NewFilter4[components.Position, components.Genome, components.Energy, components.Corpse](w),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	if !opts.Empty {
		s.seedPopulation()
	}

	slog.Info("simulation_start",
		"seed", seed,
		"world_width", cfg.World.Width,
		"world_height", cfg.World.Height,
		"population", s.Stats(),
		"output_dir", s.output.Dir(),
	)

	return s, nil
}

// seedPopulation spawns the configured initial organisms.
func (s *Simulation) seedPopulation() {
	pc := s.cfg.Population
	initial := [...]int{pc.InitialPlants, pc.InitialPrey, pc.InitialPredators, pc.InitialScavengers}
	for _, kind := range components.LivingKinds {
		for i := 0; i < initial[kind]; i++ {
			s.store.SpawnRandom(kind)
		}
	}
}

// Step advances the simulation by dt seconds.
func (s *Simulation) Step(dt float32) {
	s.perf.StartTick()
	s.events.Reset()

	s.perf.StartPhase(telemetry.PhaseEnvironment)
	s.environment.Update(dt, &s.cmds, &s.events)

	s.perf.StartPhase(telemetry.PhaseSnapshot)
	s.snapshots.Capture()

	s.perf.StartPhase(telemetry.PhasePreyMovement)
	s.prey.Update(dt, s.snapshots)

	s.perf.StartPhase(telemetry.PhaseHunting)
	s.hunting.Update(dt, s.snapshots)

	s.perf.StartPhase(telemetry.PhaseScavengerMovement)
	s.scavengers.Update(dt, s.snapshots)

	// Feeding works on post-movement positions.
	s.perf.StartPhase(telemetry.PhaseSnapshot)
	s.snapshots.Capture()

	s.perf.StartPhase(telemetry.PhaseFeeding)
	s.feeding.Update(s.snapshots, &s.cmds, &s.events)

	s.perf.StartPhase(telemetry.PhaseLifecycle)
	s.lifecycle.Update(dt, &s.cmds, &s.events)

	s.perf.StartPhase(telemetry.PhaseStats)
	s.tick++
	s.elapsed += float64(dt)
	s.recordEvents()
	if s.history.Advance(float64(dt)) {
		s.recordHistory()
	}
	s.flushTelemetry()

	s.perf.EndTick()
}

// Stats returns the current population counts.
func (s *Simulation) Stats() telemetry.PopulationStats {
	return telemetry.PopulationStats{
		Plants:     s.store.Count(components.KindPlant),
		Prey:       s.store.Count(components.KindPrey),
		Predators:  s.store.Count(components.KindPredator),
		Scavengers: s.store.Count(components.KindScavenger),
		Corpses:    s.store.Count(components.KindCorpse),
	}
}

// History returns the recorded population snapshots, oldest first. Snapshots
// are spaced by simulated time; see Options.
func (s *Simulation) History() []telemetry.Snapshot {
	return s.history.Records()
}

// Sunlight returns the current light intensity.
func (s *Simulation) Sunlight() float32 {
	return s.sunlight.Intensity
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Elapsed returns the simulated time in seconds.
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}

// Seed returns the seed the random source was created with.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Config returns the simulation configuration.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Store exposes the entity store for tests and tools.
func (s *Simulation) Store() *systems.Store {
	return s.store
}

// Perf returns the rolling performance statistics.
func (s *Simulation) Perf() telemetry.PerfStats {
	return s.perf.Stats()
}

// RecordFrame marks the end of a rendered frame for frame timing.
func (s *Simulation) RecordFrame() {
	s.perf.RecordFrame()
}

// Hunters returns how many predators targeted e at the start of the last step.
func (s *Simulation) Hunters(e ecs.Entity) int {
	return s.hunting.Hunters(e)
}

// Close flushes and closes any output files.
func (s *Simulation) Close() error {
	return s.output.Close()
}
