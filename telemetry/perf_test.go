package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

// runTick records one tick with the given phase durations, in order.
func runTick(pc *PerfCollector, clock *fakeClock, phases []string, durs []time.Duration) {
	pc.StartTick()
	for i, phase := range phases {
		pc.StartPhase(phase)
		clock.advance(durs[i])
	}
	pc.EndTick()
}

func TestPerfCollectorPhaseAverages(t *testing.T) {
	pc, clock := newTestCollector(10)
	for i := 0; i < 4; i++ {
		runTick(pc, clock, []string{PhaseSnapshot, PhaseHunting},
			[]time.Duration{100 * time.Microsecond, 300 * time.Microsecond})
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 400*time.Microsecond {
		t.Errorf("AvgTickDuration = %v, want 400us", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseHunting] != 300*time.Microsecond {
		t.Errorf("hunting avg = %v, want 300us", stats.PhaseAvg[PhaseHunting])
	}
	if pct := stats.PhasePct[PhaseSnapshot]; pct != 25 {
		t.Errorf("snapshot pct = %v, want 25", pct)
	}
	if _, ok := stats.PhaseAvg[PhaseFeeding]; ok {
		t.Error("phase that never ran should be absent")
	}
	if stats.TicksPerSecond != 2500 {
		t.Errorf("TicksPerSecond = %v, want 2500", stats.TicksPerSecond)
	}
}

func TestPerfCollectorRepeatedPhaseAccumulates(t *testing.T) {
	pc, clock := newTestCollector(4)
	runTick(pc, clock, []string{PhaseSnapshot, PhasePreyMovement, PhaseSnapshot},
		[]time.Duration{time.Millisecond, time.Millisecond, 2 * time.Millisecond})

	if got := pc.Stats().PhaseAvg[PhaseSnapshot]; got != 3*time.Millisecond {
		t.Errorf("snapshot avg = %v, want 3ms", got)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc, clock := newTestCollector(3)
	for _, d := range []time.Duration{10, 10, 10, 1, 2, 3} {
		runTick(pc, clock, []string{PhaseLifecycle}, []time.Duration{d * time.Millisecond})
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 2*time.Millisecond {
		t.Errorf("AvgTickDuration = %v, want 2ms from the last three ticks", stats.AvgTickDuration)
	}
	if stats.MinTickDuration != time.Millisecond || stats.MaxTickDuration != 3*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 1ms/3ms", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorCustomPhases(t *testing.T) {
	pc, clock := newTestCollector(10)
	runTick(pc, clock, []string{"fast", "slow"}, []time.Duration{time.Millisecond, 9 * time.Millisecond})

	stats := pc.Stats()
	if stats.PhasePct["slow"] != 90 || stats.PhasePct["fast"] != 10 {
		t.Errorf("pct fast/slow = %v/%v, want 10/90", stats.PhasePct["fast"], stats.PhasePct["slow"])
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc, clock := newTestCollector(10)
	pc.RecordFrame()
	clock.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 20ms", stats.FrameDuration)
	}
	if stats.FPS != 50 {
		t.Errorf("FPS = %v, want 50", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: map[string]float64{
			PhaseHunting:   40,
			PhaseLifecycle: 25,
		},
	}

	rec := stats.ToCSV(600)
	if rec.WindowEnd != 600 || rec.AvgTickUS != 2000 {
		t.Errorf("WindowEnd/AvgTickUS = %d/%d, want 600/2000", rec.WindowEnd, rec.AvgTickUS)
	}
	if rec.HuntingPct != 40 || rec.LifecyclePct != 25 {
		t.Errorf("phase pct not copied: hunting=%v lifecycle=%v", rec.HuntingPct, rec.LifecyclePct)
	}
	if rec.FeedingPct != 0 {
		t.Errorf("missing phase should be 0, got %v", rec.FeedingPct)
	}
}
