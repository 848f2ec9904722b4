package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// PredatorCanEat reports whether predators feed on corpses of the given origin.
func PredatorCanEat(origin components.Kind) bool {
	return origin.IsAnimal()
}

// ScavengerCanEat reports whether scavengers feed on corpses of the given origin.
// Withered plants are not food and scavengers do not eat their own kind.
func ScavengerCanEat(origin components.Kind) bool {
	return origin == components.KindPrey || origin == components.KindPredator
}

// FeedingSystem resolves proximity feeding between consumers and food.
// Each food item is eaten at most once per tick and each consumer eats at most once.
type FeedingSystem struct {
	preyFilter ecs.Filter3[components.Position, components.Energy, components.Prey]
	predFilter ecs.Filter3[components.Position, components.Energy, components.Predator]
	scavFilter ecs.Filter3[components.Position, components.Energy, components.Scavenger]
	store      *Store

	plantsEaten  []bool
	preyEaten    []bool
	corpsesEaten []bool
}

// NewFeedingSystem creates a new feeding system.
func NewFeedingSystem(s *Store) *FeedingSystem {
	return &FeedingSystem{
		preyFilter: *ecs.NewFilter3[components.Position, components.Energy, components.Prey](s.World),
		predFilter: *ecs.NewFilter3[components.Position, components.Energy, components.Predator](s.World),
		scavFilter: *ecs.NewFilter3[components.Position, components.Energy, components.Scavenger](s.World),
		store:      s,
	}
}

// Update runs grazing, predation and scavenging against the given snapshot.
func (sys *FeedingSystem) Update(snap *Snapshots, cmds *CommandBuffer, ev *Events) {
	cfg := sys.store.cfg
	fc := cfg.Feeding
	ec := cfg.Energy

	sys.plantsEaten = resetFlags(sys.plantsEaten, snap.Plants.Len())
	sys.preyEaten = resetFlags(sys.preyEaten, snap.Prey.Len())
	sys.corpsesEaten = resetFlags(sys.corpsesEaten, snap.Corpses.Len())

	plants := snap.Plants.Bodies
	corpses := snap.Corpses.Bodies
	minPlant := float32(fc.MinPlantEnergy)
	minCorpse := float32(fc.MinCorpseEnergy)

	// Prey graze
	plantOK := func(i int) bool {
		return !sys.plantsEaten[i] && plants[i].Energy > minPlant
	}
	preyGain := float32(ec.PreyFromPlant)
	preyMax := float32(cfg.Species.Prey.MaxEnergy)
	query := sys.preyFilter.Query()
	for query.Next() {
		pos, energy, _ := query.Get()
		n, ok := snap.Plants.Grid.Nearest(pos.X, pos.Y, float32(fc.PreyRadius), plantOK)
		if !ok {
			continue
		}
		sys.plantsEaten[n.Index] = true
		cmds.Remove(plants[n.Index].E)
		feed(energy, preyGain, preyMax)
		ev.PlantsEaten++
		ev.EnergyGained[components.KindPrey] += preyGain
	}

	// Predators catch live prey, otherwise take a corpse
	preyOK := func(i int) bool {
		return !sys.preyEaten[i]
	}
	predCorpseOK := func(i int) bool {
		return !sys.corpsesEaten[i] && PredatorCanEat(corpses[i].Origin) && corpses[i].Energy > minCorpse
	}
	killGain := float32(ec.PredatorFromPrey)
	corpseGain := killGain * float32(ec.CorpseFactor)
	predMax := float32(cfg.Species.Predator.MaxEnergy)
	pq := sys.predFilter.Query()
	for pq.Next() {
		pos, energy, _ := pq.Get()
		radius := float32(fc.PredatorRadius)
		if n, ok := snap.Prey.Grid.Nearest(pos.X, pos.Y, radius, preyOK); ok {
			sys.preyEaten[n.Index] = true
			cmds.Remove(snap.Prey.Bodies[n.Index].E)
			feed(energy, killGain, predMax)
			ev.PreyKilled++
			ev.EnergyGained[components.KindPredator] += killGain
			continue
		}
		if n, ok := snap.Corpses.Grid.Nearest(pos.X, pos.Y, radius, predCorpseOK); ok {
			sys.corpsesEaten[n.Index] = true
			cmds.Remove(corpses[n.Index].E)
			feed(energy, corpseGain, predMax)
			ev.CorpsesEaten++
			ev.EnergyGained[components.KindPredator] += corpseGain
		}
	}

	// Scavengers
	scavCorpseOK := func(i int) bool {
		return !sys.corpsesEaten[i] && ScavengerCanEat(corpses[i].Origin) && corpses[i].Energy > minCorpse
	}
	scavGain := float32(ec.ScavengerFromCorpse)
	scavMax := float32(cfg.Species.Scavenger.MaxEnergy)
	sq := sys.scavFilter.Query()
	for sq.Next() {
		pos, energy, _ := sq.Get()
		n, ok := snap.Corpses.Grid.Nearest(pos.X, pos.Y, float32(fc.ScavengerRadius), scavCorpseOK)
		if !ok {
			continue
		}
		sys.corpsesEaten[n.Index] = true
		cmds.Remove(corpses[n.Index].E)
		feed(energy, scavGain, scavMax)
		ev.CorpsesEaten++
		ev.EnergyGained[components.KindScavenger] += scavGain
	}

	cmds.Apply(sys.store, ev)
}

// feed adds intake and clamps at the species capacity.
func feed(e *components.Energy, gain, maxEnergy float32) {
	e.Value += gain
	if e.Value > maxEnergy {
		e.Value = maxEnergy
	}
}

func resetFlags(flags []bool, n int) []bool {
	if cap(flags) < n {
		return make([]bool, n)
	}
	flags = flags[:n]
	clear(flags)
	return flags
}
