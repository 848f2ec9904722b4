package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
)

func newTestSimulation(t *testing.T, cfg *config.Config, opts Options) *Simulation {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	sim, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { sim.Close() })
	return sim
}

func TestNewSeedsInitialPopulation(t *testing.T) {
	cfg := config.MustDefault()
	sim := newTestSimulation(t, cfg, Options{})

	pop := sim.Stats()
	pc := cfg.Population
	want := telemetry.PopulationStats{
		Plants:     pc.InitialPlants,
		Prey:       pc.InitialPrey,
		Predators:  pc.InitialPredators,
		Scavengers: pc.InitialScavengers,
	}
	if pop != want {
		t.Errorf("Stats() = %+v, want %+v", pop, want)
	}

	halfW, halfH := float32(cfg.World.Width/2), float32(cfg.World.Height/2)
	sim.EachOrganism(func(o OrganismView) {
		if o.X < -halfW || o.X > halfW || o.Y < -halfH || o.Y > halfH {
			t.Errorf("%v spawned outside the world at (%v, %v)", o.Kind, o.X, o.Y)
		}
	})
}

func TestLongRunCoexistence(t *testing.T) {
	if testing.Short() {
		t.Skip("long run")
	}

	cfg := config.MustDefault()
	sim := newTestSimulation(t, cfg, Options{})
	dt := cfg.Derived.DT32

	for i := 0; i < 3600; i++ {
		sim.Step(dt)

		pop := sim.Stats()
		if pop.Plants > cfg.Population.MaxPlants {
			t.Fatalf("tick %d: %d plants exceeds cap %d", sim.Tick(), pop.Plants, cfg.Population.MaxPlants)
		}
		if pop.Prey >= 500 {
			t.Fatalf("tick %d: prey population ran away to %d", sim.Tick(), pop.Prey)
		}
	}

	pop := sim.Stats()
	for _, kind := range components.LivingKinds {
		if pop.Count(kind) == 0 {
			t.Errorf("%v went extinct after 3600 ticks (final %+v)", kind, pop)
		}
	}

	var nan bool
	sim.EachOrganism(func(o OrganismView) {
		if math.IsNaN(float64(o.X)) || math.IsNaN(float64(o.Y)) || math.IsNaN(float64(o.Energy)) {
			nan = true
		}
	})
	if nan {
		t.Error("NaN position or energy after long run")
	}
}

func TestHistoryInterval(t *testing.T) {
	cfg := config.MustDefault()
	sim := newTestSimulation(t, cfg, Options{})
	dt := cfg.Derived.DT32

	for i := 0; i < 600; i++ {
		sim.Step(dt)
	}

	history := sim.History()
	if len(history) != 10 {
		t.Fatalf("len(History()) = %d after 10s, want 10", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].Tick-history[i-1].Tick != 60 {
			t.Errorf("records %d and %d are %d ticks apart, want 60",
				i-1, i, history[i].Tick-history[i-1].Tick)
		}
	}
	if last := history[len(history)-1]; last.Prey != sim.Stats().Prey {
		t.Errorf("latest record prey = %d, want %d", last.Prey, sim.Stats().Prey)
	}
}

func TestEmptyWorldStatsAreZero(t *testing.T) {
	cfg := config.MustDefault()
	cfg.Population.ImmigrationChance = 0
	cfg.Plants.RespawnRate = 0
	sim := newTestSimulation(t, cfg, Options{Empty: true})

	for i := 0; i < 60; i++ {
		sim.Step(cfg.Derived.DT32)
	}

	if sim.Stats() != (telemetry.PopulationStats{}) {
		t.Fatalf("empty world gained organisms: %+v", sim.Stats())
	}

	history := sim.History()
	if len(history) != 1 {
		t.Fatalf("len(History()) = %d, want 1", len(history))
	}
	h := history[0]
	for name, v := range map[string]float64{
		"AvgAgePrey":       h.AvgAgePrey,
		"AvgSpeedPredator": h.AvgSpeedPredator,
		"TotalEnergy":      h.TotalEnergy,
	} {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
}

func TestSunlightStaysInRange(t *testing.T) {
	cfg := config.MustDefault()
	sim := newTestSimulation(t, cfg, Options{Empty: true})

	for i := 0; i < 1200; i++ {
		sim.Step(cfg.Derived.DT32)
		if l := sim.Sunlight(); l < 0.4-1e-5 || l > 1.0+1e-5 {
			t.Fatalf("tick %d: sunlight %v outside [0.4, 1.0]", sim.Tick(), l)
		}
	}
	if math.Abs(sim.Elapsed()-20) > 1e-3 {
		t.Errorf("Elapsed() = %v, want 20", sim.Elapsed())
	}
}

func TestSameSeedSameOutcome(t *testing.T) {
	cfg := config.MustDefault()
	a := newTestSimulation(t, cfg, Options{Seed: 7})
	b := newTestSimulation(t, cfg, Options{Seed: 7})

	for i := 0; i < 120; i++ {
		a.Step(cfg.Derived.DT32)
		b.Step(cfg.Derived.DT32)
	}

	if a.Stats() != b.Stats() {
		t.Errorf("same seed diverged: %+v vs %+v", a.Stats(), b.Stats())
	}
}

func TestWindowCallback(t *testing.T) {
	cfg := config.MustDefault()
	cfg.Telemetry.StatsWindow = 1

	var windows []telemetry.WindowStats
	sim := newTestSimulation(t, cfg, Options{OnWindow: func(w telemetry.WindowStats) {
		windows = append(windows, w)
	}})

	for i := 0; i < 180; i++ {
		sim.Step(cfg.Derived.DT32)
	}

	if len(windows) != 3 {
		t.Fatalf("got %d windows in 3s, want 3", len(windows))
	}
	if windows[2].PlantCount != sim.Stats().Plants {
		t.Errorf("last window plants = %d, want %d", windows[2].PlantCount, sim.Stats().Plants)
	}
}
