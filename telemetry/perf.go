package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step, in tick order.
const (
	PhaseEnvironment       = "environment"
	PhaseSnapshot          = "snapshot"
	PhasePreyMovement      = "prey_movement"
	PhaseHunting           = "hunting"
	PhaseScavengerMovement = "scavenger_movement"
	PhaseFeeding           = "feeding"
	PhaseLifecycle         = "lifecycle"
	PhaseStats             = "stats"
)

// Phases lists every phase in tick order.
var Phases = []string{
	PhaseEnvironment, PhaseSnapshot, PhasePreyMovement, PhaseHunting,
	PhaseScavengerMovement, PhaseFeeding, PhaseLifecycle, PhaseStats,
}

// PerfCollector keeps per-phase tick timings in a ring of the last
// windowSize ticks. Phases are indexed on first use so a tick records
// into a flat slice.
type PerfCollector struct {
	now func() time.Time

	windowSize int
	ticks      []time.Duration   // ring of tick durations
	phases     [][]time.Duration // ring of per-phase durations, indexed by phaseIndex
	next       int
	filled     int

	phaseIndex map[string]int
	phaseNames []string

	current    []time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      int // index of the running phase, -1 when none

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		now:        time.Now,
		windowSize: windowSize,
		ticks:      make([]time.Duration, windowSize),
		phases:     make([][]time.Duration, windowSize),
		phaseIndex: make(map[string]int, len(Phases)),
		phase:      -1,
	}
	for _, name := range Phases {
		p.indexOf(name)
	}
	return p
}

func (p *PerfCollector) indexOf(phase string) int {
	if i, ok := p.phaseIndex[phase]; ok {
		return i
	}
	i := len(p.phaseNames)
	p.phaseIndex[phase] = i
	p.phaseNames = append(p.phaseNames, phase)
	p.current = append(p.current, 0)
	return i
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	clear(p.current)
	p.phase = -1
}

// StartPhase closes the running phase and starts timing the next one.
// Time spent in a phase entered twice in one tick accumulates.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.closePhase(now)
	p.phase = p.indexOf(phase)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.phase = -1

	p.ticks[p.next] = now.Sub(p.tickStart)
	p.phases[p.next] = append(p.phases[p.next][:0], p.current...)
	p.next = (p.next + 1) % p.windowSize
	if p.filled < p.windowSize {
		p.filled++
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration // mean time per tick
	PhasePct map[string]float64       // share of the mean tick, in percent

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return stats
	}

	var total time.Duration
	sums := make([]time.Duration, len(p.phaseNames))
	for i := 0; i < p.filled; i++ {
		d := p.ticks[i]
		total += d
		if i == 0 || d < stats.MinTickDuration {
			stats.MinTickDuration = d
		}
		if d > stats.MaxTickDuration {
			stats.MaxTickDuration = d
		}
		for j, pd := range p.phases[i] {
			sums[j] += pd
		}
	}

	n := time.Duration(p.filled)
	stats.AvgTickDuration = total / n
	for j, sum := range sums {
		if sum == 0 {
			continue
		}
		name := p.phaseNames[j]
		stats.PhaseAvg[name] = sum / n
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[name] = float64(sum/n) / float64(stats.AvgTickDuration) * 100
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	// Add phase breakdowns
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd            int32   `csv:"window_end"`
	AvgTickUS            int64   `csv:"avg_tick_us"`
	MinTickUS            int64   `csv:"min_tick_us"`
	MaxTickUS            int64   `csv:"max_tick_us"`
	TicksPerSec          float64 `csv:"ticks_per_sec"`
	FPS                  float64 `csv:"fps"`
	EnvironmentPct       float64 `csv:"environment_pct"`
	SnapshotPct          float64 `csv:"snapshot_pct"`
	PreyMovementPct      float64 `csv:"prey_movement_pct"`
	HuntingPct           float64 `csv:"hunting_pct"`
	ScavengerMovementPct float64 `csv:"scavenger_movement_pct"`
	FeedingPct           float64 `csv:"feeding_pct"`
	LifecyclePct         float64 `csv:"lifecycle_pct"`
	StatsPct             float64 `csv:"stats_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:            windowEnd,
		AvgTickUS:            s.AvgTickDuration.Microseconds(),
		MinTickUS:            s.MinTickDuration.Microseconds(),
		MaxTickUS:            s.MaxTickDuration.Microseconds(),
		TicksPerSec:          s.TicksPerSecond,
		FPS:                  s.FPS,
		EnvironmentPct:       s.PhasePct[PhaseEnvironment],
		SnapshotPct:          s.PhasePct[PhaseSnapshot],
		PreyMovementPct:      s.PhasePct[PhasePreyMovement],
		HuntingPct:           s.PhasePct[PhaseHunting],
		ScavengerMovementPct: s.PhasePct[PhaseScavengerMovement],
		FeedingPct:           s.PhasePct[PhaseFeeding],
		LifecyclePct:         s.PhasePct[PhaseLifecycle],
		StatsPct:             s.PhasePct[PhaseStats],
	}
}
