package game

import (
	"log/slog"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// recordEvents drains the tick's event counters into the stats collector.
func (s *Simulation) recordEvents() {
	ev := &s.events
	for _, kind := range components.LivingKinds {
		s.collector.RecordBirths(kind, ev.Births[kind])
		s.collector.RecordDeaths(kind, ev.Deaths[kind])
		s.collector.RecordCauses(ev.Starved[kind], ev.OldAge[kind])
		if n := ev.Immigrants[kind]; n > 0 {
			s.collector.RecordImmigrants(n)
			slog.Info("immigration", "kind", kind.String(), "count", n, "tick", s.tick)
		}
	}
	s.collector.RecordRespawns(ev.PlantsRespawned)
	s.collector.RecordFeeding(ev.PlantsEaten, ev.PreyKilled, ev.CorpsesEaten)
	s.collector.RecordDecay(ev.CorpsesDecayed)
}

// sampleOrganisms refreshes the per-species age, speed and energy sample.
func (s *Simulation) sampleOrganisms() {
	s.sample.Reset()
	s.EachOrganism(func(o OrganismView) {
		if o.Kind == components.KindCorpse {
			return
		}
		s.sample.Add(o.Kind, o.Age, o.Speed, o.Energy)
	})
}

// recordHistory appends a population snapshot to the history.
func (s *Simulation) recordHistory() {
	s.sampleOrganisms()
	snap := telemetry.BuildSnapshot(s.tick, s.elapsed, s.Stats(), &s.sample, s.sunlight.Intensity)
	s.history.Record(snap)

	if err := s.output.WriteHistory(snap); err != nil {
		slog.Error("failed to write history", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	s.sampleOrganisms()
	stats := s.collector.Flush(s.tick, s.elapsed, s.Stats(), &s.sample, s.sunlight.Intensity)
	perfStats := s.perf.Stats()

	if s.onWindow != nil {
		s.onWindow(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			slog.Info("bookmark", "bookmark", bm)
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
