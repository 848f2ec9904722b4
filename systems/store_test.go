package systems

import (
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestSpawnDefaults(t *testing.T) {
	s := newTestStore(t, nil)

	prey := spawnAt(s, components.KindPrey, 0, 0, 50)
	if st := s.StaminaMap.Get(prey); st.Current != st.Max || st.Max != 100 {
		t.Errorf("prey stamina = %+v, want full at 100", *st)
	}

	pred := spawnAt(s, components.KindPredator, 0, 0, 50)
	if s.HuntMap.Get(pred).Active {
		t.Error("new predator has a target")
	}
	wp := s.WaypointMap.Get(pred)
	if d := ToroidalDistance(0, 0, wp.X, wp.Y, s.cfg.Derived.WorldW32, s.cfg.Derived.WorldH32); d < 99 || d > 201 {
		t.Errorf("waypoint distance = %v, want 100-200", d)
	}

	plant := spawnAt(s, components.KindPlant, 0, 0, 50)
	if s.VelMap.HasAll(plant) {
		t.Error("plant has a velocity")
	}
}

func TestSpawnWrapsPosition(t *testing.T) {
	s := newTestStore(t, nil)
	e := spawnAt(s, components.KindPrey, s.cfg.Derived.HalfW32+10, 0, 50)
	if pos := s.PosMap.Get(e); pos.X != -s.cfg.Derived.HalfW32 {
		t.Errorf("spawn X = %v, want wrapped to %v", pos.X, -s.cfg.Derived.HalfW32)
	}
}

func TestCountsTrackLifecycle(t *testing.T) {
	s := newTestStore(t, nil)
	a := spawnAt(s, components.KindPrey, 0, 0, 50)
	b := spawnAt(s, components.KindPrey, 10, 0, 50)

	if _, ok := s.Kill(a); !ok {
		t.Fatal("Kill failed")
	}
	if _, ok := s.Kill(a); ok {
		t.Error("killing a corpse again should fail")
	}
	if s.Count(components.KindPrey) != 1 || s.Count(components.KindCorpse) != 1 {
		t.Errorf("counts = %d prey, %d corpses; want 1, 1",
			s.Count(components.KindPrey), s.Count(components.KindCorpse))
	}

	if !s.Remove(b) {
		t.Fatal("Remove failed")
	}
	if s.Remove(b) {
		t.Error("removing twice should fail")
	}
	if s.IsLivingPrey(b) {
		t.Error("removed prey still reported living")
	}
	if s.Count(components.KindPrey) != 0 {
		t.Errorf("prey count = %d, want 0", s.Count(components.KindPrey))
	}
}

func TestCommandBufferOrdering(t *testing.T) {
	s := newTestStore(t, nil)
	dead := spawnAt(s, components.KindPrey, 0, 0, 50)
	gone := spawnAt(s, components.KindPrey, 10, 0, 50)

	var cmds CommandBuffer
	var ev Events
	cmds.Kill(dead)
	cmds.Remove(gone)
	cmds.Kill(gone) // already removed by the time deaths run
	cmds.Spawn(Birth{Kind: components.KindPlant, X: 5, Y: 5, Genome: testGenome(components.KindPlant), Energy: 30})
	if cmds.Pending() != 4 {
		t.Fatalf("Pending() = %d, want 4", cmds.Pending())
	}

	cmds.Apply(s, &ev)

	if cmds.Pending() != 0 {
		t.Errorf("Pending() = %d after Apply, want 0", cmds.Pending())
	}
	if ev.Deaths[components.KindPrey] != 1 {
		t.Errorf("Deaths = %d, want 1", ev.Deaths[components.KindPrey])
	}
	if s.Count(components.KindPlant) != 1 || s.Count(components.KindCorpse) != 1 || s.Count(components.KindPrey) != 0 {
		t.Errorf("unexpected counts: %d plants, %d corpses, %d prey",
			s.Count(components.KindPlant), s.Count(components.KindCorpse), s.Count(components.KindPrey))
	}
}

func TestRandomGenomeWithinRanges(t *testing.T) {
	s := newTestStore(t, nil)
	sp := s.Species(components.KindPredator)
	for i := 0; i < 100; i++ {
		g := s.RandomGenome(components.KindPredator)
		if float64(g.Speed) < sp.Speed.Min || float64(g.Speed) > sp.Speed.Max {
			t.Fatalf("speed %v outside %+v", g.Speed, sp.Speed)
		}
		if float64(g.VisionRange) < sp.Vision.Min || float64(g.VisionRange) > sp.Vision.Max {
			t.Fatalf("vision %v outside %+v", g.VisionRange, sp.Vision)
		}
	}
}

func TestKindOf(t *testing.T) {
	s := newTestStore(t, nil)

	for _, kind := range components.LivingKinds {
		e := spawnAt(s, kind, 0, 0, 50)
		if got, ok := s.KindOf(e); !ok || got != kind {
			t.Errorf("KindOf(%v) = %v, %v", kind, got, ok)
		}
		if got := s.IsLivingPrey(e); got != (kind == components.KindPrey) {
			t.Errorf("IsLivingPrey(%v) = %v", kind, got)
		}
	}

	prey := spawnAt(s, components.KindPrey, 0, 0, 50)
	if _, ok := s.Kill(prey); !ok {
		t.Fatal("Kill failed")
	}
	if got, ok := s.KindOf(prey); !ok || got != components.KindCorpse {
		t.Errorf("KindOf(killed prey) = %v, %v; want corpse", got, ok)
	}
	if s.IsLivingPrey(prey) {
		t.Error("killed prey still reported as living prey")
	}

	s.Remove(prey)
	if _, ok := s.KindOf(prey); ok {
		t.Error("KindOf(removed) reported ok")
	}
}
