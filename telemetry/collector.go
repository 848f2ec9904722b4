package telemetry

import (
	"math"

	"github.com/pthm-cable/ecosim/components"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window, indexed by living kind
	births     [4]int
	deaths     [4]int
	starved    int
	oldAge     int
	immigrants int

	plantsRespawned int
	plantsEaten     int
	kills           int
	corpsesEaten    int
	corpsesDecayed  int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirths records offspring of a kind.
func (c *Collector) RecordBirths(kind components.Kind, n int) {
	c.births[kind] += n
}

// RecordDeaths records corpse conversions of a kind.
func (c *Collector) RecordDeaths(kind components.Kind, n int) {
	c.deaths[kind] += n
}

// RecordCauses records why organisms died.
func (c *Collector) RecordCauses(starved, oldAge int) {
	c.starved += starved
	c.oldAge += oldAge
}

// RecordImmigrants records organisms that arrived from outside.
func (c *Collector) RecordImmigrants(n int) {
	c.immigrants += n
}

// RecordRespawns records spontaneously sprouted plants.
func (c *Collector) RecordRespawns(n int) {
	c.plantsRespawned += n
}

// RecordFeeding records what was eaten.
func (c *Collector) RecordFeeding(plantsEaten, kills, corpsesEaten int) {
	c.plantsEaten += plantsEaten
	c.kills += kills
	c.corpsesEaten += corpsesEaten
}

// RecordDecay records corpses that rotted away.
func (c *Collector) RecordDecay(n int) {
	c.corpsesDecayed += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// pop and sample describe the world at the end of the window.
func (c *Collector) Flush(currentTick int32, simTime float64, pop PopulationStats, sample *Sample, sunlight float32) WindowStats {
	prey := SummarizeEnergy(sample.Energies[components.KindPrey])
	pred := SummarizeEnergy(sample.Energies[components.KindPredator])

	var killsPerPred float64
	if pop.Predators > 0 {
		killsPerPred = float64(c.kills) / float64(pop.Predators)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		PlantCount:     pop.Plants,
		PreyCount:      pop.Prey,
		PredCount:      pop.Predators,
		ScavengerCount: pop.Scavengers,
		CorpseCount:    pop.Corpses,

		PlantBirths:     c.births[components.KindPlant],
		PreyBirths:      c.births[components.KindPrey],
		PredBirths:      c.births[components.KindPredator],
		ScavengerBirths: c.births[components.KindScavenger],
		PreyDeaths:      c.deaths[components.KindPrey],
		PredDeaths:      c.deaths[components.KindPredator],
		ScavengerDeaths: c.deaths[components.KindScavenger],
		Starved:         c.starved,
		OldAge:          c.oldAge,
		Immigrants:      c.immigrants,
		PlantsRespawned: c.plantsRespawned,

		PlantsEaten:    c.plantsEaten,
		Kills:          c.kills,
		CorpsesEaten:   c.corpsesEaten,
		CorpsesDecayed: c.corpsesDecayed,
		KillsPerPred:   killsPerPred,

		PreyEnergyMean: prey.Mean,
		PreyEnergyP10:  prey.P10,
		PreyEnergyP50:  prey.P50,
		PreyEnergyP90:  prey.P90,

		PredEnergyMean: pred.Mean,
		PredEnergyP10:  pred.P10,
		PredEnergyP50:  pred.P50,
		PredEnergyP90:  pred.P90,

		ScavengerEnergyMean: safeMean(sample.Energies[components.KindScavenger]),
		PlantEnergyMean:     safeMean(sample.Energies[components.KindPlant]),

		TotalEnergy: sample.TotalEnergy(),
		Sunlight:    float64(sunlight),
	}

	// Reset for next window
	start := currentTick
	*c = Collector{
		windowDurationSec:   c.windowDurationSec,
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     start,
	}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
