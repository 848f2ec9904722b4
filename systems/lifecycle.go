package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// LifecycleSystem runs metabolism, aging, reproduction, death and corpse decay.
type LifecycleSystem struct {
	plantFilter ecs.Filter4[components.Position, components.Genome, components.Energy, components.Plant]
	preyFilter  ecs.Filter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Prey]
	predFilter  ecs.Filter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Predator]
	scavFilter  ecs.Filter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Scavenger]
	corpses     ecs.Filter1[components.Corpse]
	store       *Store

	plantBirths int // plant births queued in the current pass
	stopped     components.Velocity
}

// NewLifecycleSystem creates a new lifecycle system.
func NewLifecycleSystem(s *Store) *LifecycleSystem {
	w := s.World
	return &LifecycleSystem{
		plantFilter: *ecs.NewFilter4[components.Position, components.Genome, components.Energy, components.Plant](w),
		preyFilter:  *ecs.NewFilter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Prey](w),
		predFilter:  *ecs.NewFilter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Predator](w),
		scavFilter:  *ecs.NewFilter5[components.Position, components.Velocity, components.Genome, components.Energy, components.Scavenger](w),
		corpses:     *ecs.NewFilter1[components.Corpse](w),
		store:       s,
	}
}

// Update advances every organism's life by dt. Births and deaths are applied
// before decay so fresh corpses start decaying in the same tick.
func (sys *LifecycleSystem) Update(dt float32, cmds *CommandBuffer, ev *Events) {
	sys.plantBirths = 0

	plants := sys.plantFilter.Query()
	for plants.Next() {
		pos, genome, energy, _ := plants.Get()
		sys.live(plants.Entity(), components.KindPlant, pos, &sys.stopped, genome, energy, dt, cmds, ev)
	}

	prey := sys.preyFilter.Query()
	for prey.Next() {
		pos, vel, genome, energy, _ := prey.Get()
		sys.live(prey.Entity(), components.KindPrey, pos, vel, genome, energy, dt, cmds, ev)
	}

	preds := sys.predFilter.Query()
	for preds.Next() {
		pos, vel, genome, energy, _ := preds.Get()
		sys.live(preds.Entity(), components.KindPredator, pos, vel, genome, energy, dt, cmds, ev)
	}

	scavs := sys.scavFilter.Query()
	for scavs.Next() {
		pos, vel, genome, energy, _ := scavs.Get()
		sys.live(scavs.Entity(), components.KindScavenger, pos, vel, genome, energy, dt, cmds, ev)
	}

	cmds.Apply(sys.store, ev)

	sys.decay(dt, cmds, ev)
	cmds.Apply(sys.store, ev)
}

// live applies metabolism, aging, reproduction and the death check to one organism.
func (sys *LifecycleSystem) live(e ecs.Entity, kind components.Kind, pos *components.Position,
	vel *components.Velocity, genome *components.Genome, energy *components.Energy,
	dt float32, cmds *CommandBuffer, ev *Events) {
	cfg := sys.store.cfg
	lc := cfg.Lifecycle

	if cfg.Derived.LifecycleSet[kind.String()] {
		energy.Value -= MetabolicCost(*genome, *vel, float32(cfg.Energy.MoveCost), dt)
		energy.Age += dt
	}

	maxAge := float32(lc.MaxAge)
	dying := energy.Value <= 0 || energy.Age > maxAge

	if !dying && energy.Value > genome.ReproductionThreshold && sys.canBreed(kind) {
		sp := sys.store.Species(kind)
		rate := ReproductionRate(sys.store.Count(kind), lc.DensityThreshold, sp.ReproductionRate, sp.ReproductionRateSparse)
		if chance(sys.store.rng, rate) {
			energy.Value /= 2
			spread := float32(sp.OffspringSpread)
			rng := sys.store.rng
			cmds.Spawn(Birth{
				Kind:   kind,
				X:      pos.X + between(rng, -spread, spread),
				Y:      pos.Y + between(rng, -spread, spread),
				Genome: *genome,
				Energy: energy.Value,
			})
			if kind == components.KindPlant {
				sys.plantBirths++
			}
			ev.Births[kind]++
		}
	}

	if dying {
		cmds.Kill(e)
		if energy.Value <= 0 {
			ev.Starved[kind]++
		} else {
			ev.OldAge[kind]++
		}
	}
}

// canBreed enforces the plant cap, counting births already queued this pass.
func (sys *LifecycleSystem) canBreed(kind components.Kind) bool {
	if kind != components.KindPlant {
		return true
	}
	return sys.store.Count(components.KindPlant)+sys.plantBirths < sys.store.cfg.Population.MaxPlants
}

// decay counts corpse timers down and removes expired corpses.
func (sys *LifecycleSystem) decay(dt float32, cmds *CommandBuffer, ev *Events) {
	query := sys.corpses.Query()
	for query.Next() {
		c := query.Get()
		c.Timer -= dt
		if c.Timer <= 0 {
			cmds.Remove(query.Entity())
			ev.CorpsesDecayed++
		}
	}
}
