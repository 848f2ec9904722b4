package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Minimum viable population: a species that stays below this for
// extinctionGraceSec counts as functionally extinct.
const (
	minViablePop       = 3
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// FitnessEvaluator runs headless simulations and scores how long prey and
// predators coexist.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64
	lastSurvive float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the mean quality from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastSurvival returns the mean coexistence time in simulated seconds from
// the most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvive
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalSec float64
	windows     []telemetry.WindowStats
	err         error
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Every seed runs in its own goroutine against its own config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalSurvival float64
	for _, r := range results {
		if r.err != nil {
			// A config the simulation rejects is the worst possible point.
			return 0
		}
		quality := computeQuality(r.windows)
		totalFitness += fitnessOf(r.survivalSec, quality)
		totalQuality += quality
		totalSurvival += r.survivalSec
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSurvive = totalSurvival / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional extinction
// of prey or predators, or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var result runResult
	sim, err := game.New(cfg, game.Options{
		Seed: seed,
		OnWindow: func(w telemetry.WindowStats) {
			result.windows = append(result.windows, w)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer sim.Close()

	dt := cfg.Derived.DT32
	var preyBelow, predBelow float64
	for sim.Tick() < fe.maxTicks {
		sim.Step(dt)

		if sim.Elapsed() < warmupSec {
			continue
		}
		stats := sim.Stats()
		if stats.Prey == 0 || stats.Predators == 0 {
			break
		}

		preyBelow = belowFor(preyBelow, stats.Prey, float64(dt))
		predBelow = belowFor(predBelow, stats.Predators, float64(dt))
		if preyBelow >= extinctionGraceSec || predBelow >= extinctionGraceSec {
			break
		}
	}

	result.survivalSec = sim.Elapsed()
	return result
}

// belowFor accumulates how long a count has stayed under minViablePop.
func belowFor(acc float64, count int, dt float64) float64 {
	if count < minViablePop {
		return acc + dt
	}
	return 0
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Lifecycle.Species = append([]string(nil), fe.baseConfig.Lifecycle.Species...)
	cfg.Refresh()
	return &cfg
}

// fitnessOf combines coexistence time and quality (lower = better).
// Survival dominates; quality adds up to a 20% bonus to separate configs
// with similar survival.
func fitnessOf(survivalSec, quality float64) float64 {
	return -(survivalSec * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.25

	qualityWarmupWindows = 3 // skip the first windows
	targetPreyPerPred    = 10.0
)

// computeQuality scores ecosystem health in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, huntSum float64
	var huntCount int
	prey := make([]float64, 0, len(windows))
	pred := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.PreyCount < minViablePop || w.PredCount < minViablePop {
			continue
		}
		prey = append(prey, float64(w.PreyCount))
		pred = append(pred, float64(w.PredCount))

		logErr := math.Log(float64(w.PreyCount) / float64(w.PredCount) / targetPreyPerPred)
		ratioSum += math.Exp(-logErr * logErr)

		if w.KillsPerPred > 0 {
			huntSum += 1 - math.Exp(-w.KillsPerPred)
			huntCount++
		}
	}
	if len(prey) == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(len(prey))

	stabilityScore := 0.0
	if len(prey) >= 2 {
		cvPrey := cv(prey)
		cvPred := cv(pred)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	huntScore := 0.0
	if huntCount > 0 {
		huntScore = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore
	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
