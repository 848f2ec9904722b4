package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// Sunlight is a continuous day/night oscillator.
type Sunlight struct {
	CycleTime float64
	Intensity float32
	cfg       config.SunlightConfig
}

// NewSunlight creates an oscillator at cycle time zero.
func NewSunlight(cfg config.SunlightConfig) *Sunlight {
	s := &Sunlight{cfg: cfg}
	s.Intensity = s.At(0)
	return s
}

// At returns the intensity at a given cycle time.
func (s *Sunlight) At(t float64) float32 {
	return float32(math.Sin(t*s.cfg.Frequency)*s.cfg.Amplitude + s.cfg.Baseline)
}

// Advance moves the cycle forward by dt and updates the intensity.
func (s *Sunlight) Advance(dt float32) {
	s.CycleTime += float64(dt)
	s.Intensity = s.At(s.CycleTime)
}

// EnvironmentSystem grows plants, respawns them and brings in immigrants.
type EnvironmentSystem struct {
	filter ecs.Filter3[components.Genome, components.Energy, components.Plant]
	store  *Store
	light  *Sunlight
}

// NewEnvironmentSystem creates a new environment system.
func NewEnvironmentSystem(s *Store, light *Sunlight) *EnvironmentSystem {
	return &EnvironmentSystem{
		filter: *ecs.NewFilter3[components.Genome, components.Energy, components.Plant](s.World),
		store:  s,
		light:  light,
	}
}

// Update advances sunlight and applies growth, respawn and immigration.
func (sys *EnvironmentSystem) Update(dt float32, cmds *CommandBuffer, ev *Events) {
	cfg := sys.store.cfg
	rng := sys.store.rng

	sys.light.Advance(dt)
	intensity := sys.light.Intensity

	// Photosynthesis
	gain := float32(cfg.Energy.PlantFromSun) * intensity * dt
	maxEnergy := float32(cfg.Species.Plant.MaxEnergy)
	query := sys.filter.Query()
	for query.Next() {
		genome, energy, _ := query.Get()
		energy.Value += gain * genome.Size
		if energy.Value > maxEnergy {
			energy.Value = maxEnergy
		}
	}

	// Respawn
	if sys.store.Count(components.KindPlant) < cfg.Population.MaxPlants &&
		chance(rng, cfg.Plants.RespawnRate*float64(intensity)*float64(dt)) {
		cmds.Spawn(sys.randomBirth(components.KindPlant))
		ev.PlantsRespawned++
	}

	// Immigration keeps every animal species from staying extinct.
	pc := cfg.Population
	for _, kind := range [...]components.Kind{components.KindPrey, components.KindPredator, components.KindScavenger} {
		if sys.store.Count(kind) >= pc.ImmigrationThreshold {
			continue
		}
		if !chance(rng, pc.ImmigrationChance*float64(dt)) {
			continue
		}
		n := pc.ImmigrationMin + rng.Intn(pc.ImmigrationMax-pc.ImmigrationMin+1)
		for i := 0; i < n; i++ {
			cmds.Spawn(sys.randomBirth(kind))
		}
		ev.Immigrants[kind] += n
	}

	cmds.Apply(sys.store, ev)
}

func (sys *EnvironmentSystem) randomBirth(kind components.Kind) Birth {
	x, y := sys.store.RandomPosition()
	return Birth{
		Kind:   kind,
		X:      x,
		Y:      y,
		Genome: sys.store.RandomGenome(kind),
		Energy: sys.store.InitialEnergy(kind),
	}
}
