package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/config"
)

// BookmarkType names a kind of notable moment.
type BookmarkType string

const (
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkExtinctionRisk   BookmarkType = "extinction_risk"
)

// Bookmark marks a notable moment detected at a window boundary.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogValue implements slog.LogValuer.
func (b Bookmark) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", string(b.Type)),
		slog.Int("tick", int(b.Tick)),
		slog.String("description", b.Description),
	)
}

// stableLookback is how many past windows join the current one when
// measuring stability.
const stableLookback = 4

// BookmarkDetector watches window stats for population events. Every
// rule sees the previous windows only; the current window is recorded
// after the rules run.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	recent  []WindowStats // oldest first, at most size entries
	size    int
	predMin int // lowest predator count since the last recovery, 0 before any window
	preyMax int // highest prey count since the last crash
	stable  int // consecutive stable windows
	atRisk  map[string]bool
}

// NewBookmarkDetector keeps historySize windows of history (at least 5).
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	historySize = max(historySize, stableLookback+1)
	return &BookmarkDetector{
		cfg:    cfg,
		recent: make([]WindowStats, 0, historySize),
		size:   historySize,
		atRisk: make(map[string]bool),
	}
}

// Check evaluates a finished window and returns the bookmarks it triggers.
func (bd *BookmarkDetector) Check(w WindowStats) []Bookmark {
	var out []Bookmark
	if len(bd.recent) > 0 {
		for _, rule := range []func(WindowStats) (Bookmark, bool){
			bd.predatorRecovery,
			bd.preyCrash,
			bd.stableEcosystem,
		} {
			if b, ok := rule(w); ok {
				out = append(out, b)
			}
		}
		out = append(out, bd.extinctionRisk(w)...)
	}

	if len(bd.recent) == bd.size {
		bd.recent = append(bd.recent[:0], bd.recent[1:]...)
	}
	bd.recent = append(bd.recent, w)

	if bd.predMin == 0 || w.PredCount < bd.predMin {
		bd.predMin = w.PredCount
	}
	bd.preyMax = max(bd.preyMax, w.PreyCount)
	return out
}

func (bd *BookmarkDetector) predatorRecovery(w WindowStats) (Bookmark, bool) {
	c := bd.cfg.PredatorRecovery
	low := bd.predMin
	if low == 0 || low > c.MinPopulation {
		return Bookmark{}, false
	}
	if w.PredCount < low*c.RecoveryMultiplier || w.PredCount < c.MinFinal {
		return Bookmark{}, false
	}
	bd.predMin = w.PredCount
	return Bookmark{
		Type:        BookmarkPredatorRecovery,
		Tick:        w.WindowEndTick,
		Description: fmt.Sprintf("Predator population recovered from %d to %d", low, w.PredCount),
	}, true
}

func (bd *BookmarkDetector) preyCrash(w WindowStats) (Bookmark, bool) {
	c := bd.cfg.PreyCrash
	peak := bd.preyMax
	if peak == 0 {
		return Bookmark{}, false
	}
	drop := 1 - float64(w.PreyCount)/float64(peak)
	if drop <= c.DropPercent || w.PreyCount > peak-c.MinDrop {
		return Bookmark{}, false
	}
	bd.preyMax = w.PreyCount
	return Bookmark{
		Type:        BookmarkPreyCrash,
		Tick:        w.WindowEndTick,
		Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", drop*100, peak, w.PreyCount),
	}, true
}

// stableEcosystem fires once when both populations have had a low
// coefficient of variation for StableWindows windows in a row.
func (bd *BookmarkDetector) stableEcosystem(w WindowStats) (Bookmark, bool) {
	c := bd.cfg.StableEcosystem
	if w.PreyCount < c.MinPrey || w.PredCount < c.MinPred {
		bd.stable = 0
		return Bookmark{}, false
	}
	if len(bd.recent) < stableLookback {
		return Bookmark{}, false
	}

	var prey, pred []float64
	for _, h := range append(bd.recent[len(bd.recent)-stableLookback:len(bd.recent):len(bd.recent)], w) {
		prey = append(prey, float64(h.PreyCount))
		pred = append(pred, float64(h.PredCount))
	}
	if coefficientOfVariation(prey) < c.CVThreshold && coefficientOfVariation(pred) < c.CVThreshold {
		bd.stable++
	} else {
		bd.stable = 0
	}
	if bd.stable != c.StableWindows {
		return Bookmark{}, false
	}
	return Bookmark{
		Type: BookmarkStableEcosystem,
		Tick: w.WindowEndTick,
		Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d windows",
			w.PreyCount, w.PredCount, c.StableWindows),
	}, true
}

// extinctionRisk fires once per animal species when it falls to MaxCount
// or fewer, and re-arms once the species recovers above it.
func (bd *BookmarkDetector) extinctionRisk(w WindowStats) []Bookmark {
	limit := bd.cfg.ExtinctionRisk.MaxCount
	var out []Bookmark
	for _, s := range []struct {
		name  string
		count int
	}{
		{"prey", w.PreyCount},
		{"predator", w.PredCount},
		{"scavenger", w.ScavengerCount},
	} {
		switch {
		case s.count > limit:
			bd.atRisk[s.name] = false
		case !bd.atRisk[s.name]:
			bd.atRisk[s.name] = true
			out = append(out, Bookmark{
				Type:        BookmarkExtinctionRisk,
				Tick:        w.WindowEndTick,
				Description: fmt.Sprintf("Only %d %s left", s.count, s.name),
			})
		}
	}
	return out
}

func coefficientOfVariation(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
