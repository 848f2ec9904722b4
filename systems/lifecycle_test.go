package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

func preyEnergies(s *Store) []float32 {
	f := ecs.NewFilter2[components.Energy, components.Prey](s.World)
	var out []float32
	q := f.Query()
	for q.Next() {
		en, _ := q.Get()
		out = append(out, en.Value)
	}
	return out
}

func alwaysBreed(cfg *config.Config) {
	cfg.Species.Prey.ReproductionRate = 1
	cfg.Species.Prey.ReproductionRateSparse = 1
	cfg.Species.Plant.ReproductionRate = 1
	cfg.Species.Plant.ReproductionRateSparse = 1
	cfg.Lifecycle.Species = nil // no metabolism or aging
}

func TestReproductionConservesEnergy(t *testing.T) {
	s := newTestStore(t, alwaysBreed)
	parent := spawnAt(s, components.KindPrey, 0, 0, 180)

	var cmds CommandBuffer
	var ev Events
	NewLifecycleSystem(s).Update(1.0/60, &cmds, &ev)

	energies := preyEnergies(s)
	if len(energies) != 2 {
		t.Fatalf("got %d prey, want parent and child", len(energies))
	}
	if energies[0]+energies[1] != 180 {
		t.Errorf("parent + child energy = %v, want 180", energies[0]+energies[1])
	}
	if got := s.EnergyMap.Get(parent).Value; got != 90 {
		t.Errorf("parent energy = %v, want 90", got)
	}
	if ev.Births[components.KindPrey] != 1 {
		t.Errorf("Births = %d, want 1", ev.Births[components.KindPrey])
	}
}

func TestOffspringInheritsGenome(t *testing.T) {
	s := newTestStore(t, alwaysBreed)
	parent := spawnAt(s, components.KindPrey, 0, 0, 180)
	want := *s.GenomeMap.Get(parent)

	var cmds CommandBuffer
	NewLifecycleSystem(s).Update(1.0/60, &cmds, &Events{})

	f := ecs.NewFilter3[components.Position, components.Genome, components.Prey](s.World)
	q := f.Query()
	for q.Next() {
		pos, g, _ := q.Get()
		if *g != want {
			t.Errorf("genome %+v differs from parent %+v", *g, want)
		}
		if pos.X < -20 || pos.X > 20 || pos.Y < -20 || pos.Y > 20 {
			t.Errorf("offspring at (%v, %v) outside the spread", pos.X, pos.Y)
		}
	}
}

func TestNoReproductionBelowThreshold(t *testing.T) {
	s := newTestStore(t, alwaysBreed)
	spawnAt(s, components.KindPrey, 0, 0, 90) // threshold is 100

	var cmds CommandBuffer
	NewLifecycleSystem(s).Update(1.0/60, &cmds, &Events{})

	if s.Count(components.KindPrey) != 1 {
		t.Errorf("prey count = %d, want 1", s.Count(components.KindPrey))
	}
}

func TestPlantCapLimitsReproduction(t *testing.T) {
	s := newTestStore(t, func(cfg *config.Config) {
		alwaysBreed(cfg)
		cfg.Population.MaxPlants = 4
	})
	for i := 0; i < 3; i++ {
		spawnAt(s, components.KindPlant, float32(i*100), 0, 140)
	}

	var cmds CommandBuffer
	NewLifecycleSystem(s).Update(1.0/60, &cmds, &Events{})

	if got := s.Count(components.KindPlant); got != 4 {
		t.Errorf("plant count = %d, want capped at 4", got)
	}
}

func TestStarvationBecomesCorpse(t *testing.T) {
	s := newTestStore(t, nil)
	e := spawnAt(s, components.KindPrey, 0, 0, 0.001)

	var cmds CommandBuffer
	var ev Events
	NewLifecycleSystem(s).Update(1.0/60, &cmds, &ev)

	if s.Count(components.KindPrey) != 0 || s.Count(components.KindCorpse) != 1 {
		t.Fatalf("counts = %d prey, %d corpses; want 0, 1",
			s.Count(components.KindPrey), s.Count(components.KindCorpse))
	}
	if kind, _ := s.KindOf(e); kind != components.KindCorpse {
		t.Errorf("KindOf = %v, want corpse", kind)
	}
	if s.VelMap.HasAll(e) || s.StaminaMap.HasAll(e) {
		t.Error("corpse kept velocity or stamina")
	}
	if got := s.EnergyMap.Get(e).Value; got != 30 {
		t.Errorf("corpse energy = %v, want floor 30", got)
	}
	c := s.CorpseMap.Get(e)
	if c.Origin != components.KindPrey {
		t.Errorf("corpse origin = %v, want prey", c.Origin)
	}
	if c.Timer >= c.MaxTimer {
		t.Errorf("corpse timer %v did not start decaying in the death tick", c.Timer)
	}
	if ev.Starved[components.KindPrey] != 1 || ev.Deaths[components.KindPrey] != 1 {
		t.Errorf("starved/deaths = %d/%d, want 1/1", ev.Starved[components.KindPrey], ev.Deaths[components.KindPrey])
	}
}

func TestOldAgeBecomesCorpse(t *testing.T) {
	s := newTestStore(t, nil)
	e := spawnAt(s, components.KindPredator, 0, 0, 100)
	s.EnergyMap.Get(e).Age = 300

	var cmds CommandBuffer
	var ev Events
	NewLifecycleSystem(s).Update(1.0/60, &cmds, &ev)

	if kind, _ := s.KindOf(e); kind != components.KindCorpse {
		t.Fatalf("KindOf = %v, want corpse", kind)
	}
	if s.HuntMap.HasAll(e) || s.WaypointMap.HasAll(e) {
		t.Error("corpse kept hunt target or waypoint")
	}
	if ev.OldAge[components.KindPredator] != 1 {
		t.Errorf("OldAge = %d, want 1", ev.OldAge[components.KindPredator])
	}
}

func TestDyingOrganismDoesNotReproduce(t *testing.T) {
	s := newTestStore(t, alwaysBreed)
	e := spawnAt(s, components.KindPrey, 0, 0, 180)
	s.EnergyMap.Get(e).Age = 301

	var cmds CommandBuffer
	var ev Events
	NewLifecycleSystem(s).Update(1.0/60, &cmds, &ev)

	if ev.Births[components.KindPrey] != 0 {
		t.Error("organism reproduced on its death tick")
	}
}

func TestCorpseDecayIsMonotonic(t *testing.T) {
	s := newTestStore(t, nil)
	e := spawnAt(s, components.KindScavenger, 0, 0, 50)
	s.Kill(e)

	sys := NewLifecycleSystem(s)
	var cmds CommandBuffer
	var ev Events

	prev := s.CorpseMap.Get(e).Fade()
	for i := 0; i < 40; i++ {
		sys.Update(1, &cmds, &ev)
		if !s.World.Alive(e) {
			break
		}
		fade := s.CorpseMap.Get(e).Fade()
		if fade >= prev {
			t.Fatalf("fade rose or stalled: %v -> %v", prev, fade)
		}
		prev = fade
	}

	if s.World.Alive(e) {
		t.Fatal("corpse never decayed")
	}
	if s.Count(components.KindCorpse) != 0 {
		t.Errorf("corpse count = %d, want 0", s.Count(components.KindCorpse))
	}
	if ev.CorpsesDecayed != 1 {
		t.Errorf("CorpsesDecayed = %d, want 1", ev.CorpsesDecayed)
	}
}

func TestLifecycleSpeciesSelection(t *testing.T) {
	s := newTestStore(t, func(cfg *config.Config) {
		cfg.Lifecycle.Species = []string{"prey"}
	})
	prey := spawnAt(s, components.KindPrey, 0, 0, 50)
	plant := spawnAt(s, components.KindPlant, 100, 0, 50)

	var cmds CommandBuffer
	NewLifecycleSystem(s).Update(1, &cmds, &Events{})

	if s.EnergyMap.Get(prey).Age != 1 {
		t.Error("prey did not age")
	}
	if en := s.EnergyMap.Get(plant); en.Age != 0 || en.Value != 50 {
		t.Errorf("plant outside the lifecycle changed: %+v", *en)
	}
}
