package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// Store owns the ECS world and the per-species component sets.
// All structural changes (spawn, removal, corpse conversion) go through it
// so population counts stay exact without querying.
type Store struct {
	World *ecs.World
	cfg   *config.Config
	rng   *rand.Rand

	plantMapper *ecs.Map4[
		components.Position,
		components.Genome,
		components.Energy,
		components.Plant,
	]
	preyMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Genome,
		components.Energy,
		components.Stamina,
		components.Prey,
	]
	predatorMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Genome,
		components.Energy,
		components.HuntTarget,
		components.Waypoint,
		components.Predator,
	]
	scavengerMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Genome,
		components.Energy,
		components.Waypoint,
		components.Scavenger,
	]

	// Individual component mappers for lookups
	PosMap      *ecs.Map1[components.Position]
	VelMap      *ecs.Map1[components.Velocity]
	GenomeMap   *ecs.Map1[components.Genome]
	EnergyMap   *ecs.Map1[components.Energy]
	StaminaMap  *ecs.Map1[components.Stamina]
	HuntMap     *ecs.Map1[components.HuntTarget]
	WaypointMap *ecs.Map1[components.Waypoint]
	CorpseMap   *ecs.Map1[components.Corpse]

	plantTag     *ecs.Map1[components.Plant]
	preyTag      *ecs.Map1[components.Prey]
	predatorTag  *ecs.Map1[components.Predator]
	scavengerTag *ecs.Map1[components.Scavenger]

	counts [5]int
}

// NewStore creates an empty world.
func NewStore(cfg *config.Config, rng *rand.Rand) *Store {
	world := ecs.NewWorld()
	return &Store{
		World: world,
		cfg:   cfg,
		rng:   rng,
		plantMapper: ecs.NewMap4[
			components.Position,
			components.Genome,
			components.Energy,
			components.Plant,
		](world),
		preyMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Genome,
			components.Energy,
			components.Stamina,
			components.Prey,
		](world),
		predatorMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Genome,
			components.Energy,
			components.HuntTarget,
			components.Waypoint,
			components.Predator,
		](world),
		scavengerMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Genome,
			components.Energy,
			components.Waypoint,
			components.Scavenger,
		](world),
		PosMap:       ecs.NewMap1[components.Position](world),
		VelMap:       ecs.NewMap1[components.Velocity](world),
		GenomeMap:    ecs.NewMap1[components.Genome](world),
		EnergyMap:    ecs.NewMap1[components.Energy](world),
		StaminaMap:   ecs.NewMap1[components.Stamina](world),
		HuntMap:      ecs.NewMap1[components.HuntTarget](world),
		WaypointMap:  ecs.NewMap1[components.Waypoint](world),
		CorpseMap:    ecs.NewMap1[components.Corpse](world),
		plantTag:     ecs.NewMap1[components.Plant](world),
		preyTag:      ecs.NewMap1[components.Prey](world),
		predatorTag:  ecs.NewMap1[components.Predator](world),
		scavengerTag: ecs.NewMap1[components.Scavenger](world),
	}
}

// Config returns the configuration the store was built with.
func (s *Store) Config() *config.Config {
	return s.cfg
}

// Rand returns the shared random source.
func (s *Store) Rand() *rand.Rand {
	return s.rng
}

// Count returns the current number of organisms of the given kind.
func (s *Store) Count(kind components.Kind) int {
	return s.counts[kind]
}

// Species returns the configuration block for a living kind.
func (s *Store) Species(kind components.Kind) *config.SpeciesConfig {
	switch kind {
	case components.KindPlant:
		return &s.cfg.Species.Plant
	case components.KindPrey:
		return &s.cfg.Species.Prey
	case components.KindPredator:
		return &s.cfg.Species.Predator
	default:
		return &s.cfg.Species.Scavenger
	}
}

// KindOf reports what a live entity is. ok is false for removed entities.
func (s *Store) KindOf(e ecs.Entity) (kind components.Kind, ok bool) {
	if e.IsZero() || !s.World.Alive(e) {
		return 0, false
	}
	switch {
	case s.CorpseMap.HasAll(e):
		return components.KindCorpse, true
	case s.plantTag.HasAll(e):
		return components.KindPlant, true
	case s.preyTag.HasAll(e):
		return components.KindPrey, true
	case s.predatorTag.HasAll(e):
		return components.KindPredator, true
	case s.scavengerTag.HasAll(e):
		return components.KindScavenger, true
	}
	return 0, false
}

// IsLivingPrey reports whether e still refers to a living prey.
func (s *Store) IsLivingPrey(e ecs.Entity) bool {
	return !e.IsZero() && s.World.Alive(e) && s.preyTag.HasAll(e)
}

// RandomGenome draws a genome from the species ranges.
func (s *Store) RandomGenome(kind components.Kind) components.Genome {
	sp := s.Species(kind)
	return components.Genome{
		Speed:                 uniform(s.rng, sp.Speed),
		Size:                  uniform(s.rng, sp.Size),
		Metabolism:            uniform(s.rng, sp.Metabolism),
		ReproductionThreshold: uniform(s.rng, sp.ReproductionThreshold),
		VisionRange:           uniform(s.rng, sp.Vision),
	}
}

// RandomPosition returns a uniformly random point in the world.
func (s *Store) RandomPosition() (float32, float32) {
	d := &s.cfg.Derived
	return between(s.rng, -d.HalfW32, d.HalfW32), between(s.rng, -d.HalfH32, d.HalfH32)
}

// InitialEnergy draws a starting energy for a new organism of the given kind.
func (s *Store) InitialEnergy(kind components.Kind) float32 {
	return uniform(s.rng, s.Species(kind).InitialEnergy)
}

// SpawnRandom creates an organism at a random position with a random genome
// and starting energy.
func (s *Store) SpawnRandom(kind components.Kind) ecs.Entity {
	x, y := s.RandomPosition()
	return s.Spawn(kind, x, y, s.RandomGenome(kind), s.InitialEnergy(kind))
}

// Spawn creates a living organism with default behavioral state:
// full stamina for prey, no hunt target, a fresh waypoint for predators and scavengers.
func (s *Store) Spawn(kind components.Kind, x, y float32, genome components.Genome, energy float32) ecs.Entity {
	d := &s.cfg.Derived
	x, y = Wrap(x, y, d.WorldW32, d.WorldH32)
	pos := components.Position{X: x, Y: y}
	en := components.Energy{Value: energy}

	var e ecs.Entity
	switch kind {
	case components.KindPlant:
		e = s.plantMapper.NewEntity(&pos, &genome, &en, &components.Plant{})
	case components.KindPrey:
		st := s.cfg.Behavior.Stamina
		stamina := components.Stamina{
			Current:   float32(st.Max),
			Max:       float32(st.Max),
			RegenRate: float32(st.RegenRate),
		}
		e = s.preyMapper.NewEntity(&pos, &components.Velocity{}, &genome, &en, &stamina, &components.Prey{})
	case components.KindPredator:
		wp := s.NewWaypoint(x, y)
		e = s.predatorMapper.NewEntity(&pos, &components.Velocity{}, &genome, &en,
			&components.HuntTarget{}, &wp, &components.Predator{})
	case components.KindScavenger:
		wp := s.NewWaypoint(x, y)
		e = s.scavengerMapper.NewEntity(&pos, &components.Velocity{}, &genome, &en, &wp, &components.Scavenger{})
	default:
		panic("systems: cannot spawn " + kind.String())
	}
	s.counts[kind]++
	return e
}

// NewWaypoint picks an exploration target at a random bearing from (x, y).
func (s *Store) NewWaypoint(x, y float32) components.Waypoint {
	wc := s.cfg.Behavior.Waypoint
	d := &s.cfg.Derived
	angle := s.rng.Float64() * 2 * math.Pi
	dist := float64(uniform(s.rng, wc.Distance))
	wx, wy := Wrap(x+float32(math.Cos(angle)*dist), y+float32(math.Sin(angle)*dist), d.WorldW32, d.WorldH32)
	return components.Waypoint{X: wx, Y: wy, ReachedThreshold: float32(wc.ReachedThreshold)}
}

// Remove deletes an organism or corpse from the world.
// Entities that are already gone are ignored.
func (s *Store) Remove(e ecs.Entity) bool {
	kind, ok := s.KindOf(e)
	if !ok {
		return false
	}
	s.World.RemoveEntity(e)
	s.counts[kind]--
	return true
}

// Kill turns a living organism into a corpse. The corpse keeps position,
// genome and energy (floored at lifecycle.corpse_min_energy); everything
// else is stripped. Returns the organism's former kind.
func (s *Store) Kill(e ecs.Entity) (components.Kind, bool) {
	kind, ok := s.KindOf(e)
	if !ok || kind == components.KindCorpse {
		return kind, false
	}

	switch kind {
	case components.KindPlant:
		s.plantTag.Remove(e)
	case components.KindPrey:
		s.VelMap.Remove(e)
		s.StaminaMap.Remove(e)
		s.preyTag.Remove(e)
	case components.KindPredator:
		s.VelMap.Remove(e)
		s.HuntMap.Remove(e)
		s.WaypointMap.Remove(e)
		s.predatorTag.Remove(e)
	case components.KindScavenger:
		s.VelMap.Remove(e)
		s.WaypointMap.Remove(e)
		s.scavengerTag.Remove(e)
	}

	en := s.EnergyMap.Get(e)
	if floor := float32(s.cfg.Lifecycle.CorpseMinEnergy); en.Value < floor {
		en.Value = floor
	}

	decay := float32(s.cfg.Lifecycle.CorpseDecay)
	s.CorpseMap.Add(e, &components.Corpse{Origin: kind, Timer: decay, MaxTimer: decay})

	s.counts[kind]--
	s.counts[components.KindCorpse]++
	return kind, true
}
