package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// OrganismView is a read-only copy of one organism for drawing and sampling.
type OrganismView struct {
	Entity ecs.Entity
	Kind   components.Kind
	Origin components.Kind // species a corpse came from; equal to Kind otherwise

	X, Y   float32
	VX, VY float32
	Size   float32
	Speed  float32 // genome speed
	Vision float32
	Energy float32
	Age    float32

	Hunting          bool // predator with an active target
	TargetX, TargetY float32
	Fade             float32 // remaining corpse decay fraction; 1 for the living
}

// EachOrganism calls fn for every organism and corpse.
// fn must not modify the world.
func (s *Simulation) EachOrganism(fn func(OrganismView)) {
	plants := s.plantFilter.Query()
	for plants.Next() {
		pos, genome, energy, _ := plants.Get()
		fn(livingView(plants.Entity(), components.KindPlant, pos, nil, genome, energy))
	}

	prey := s.preyFilter.Query()
	for prey.Next() {
		pos, vel, genome, energy, _ := prey.Get()
		fn(livingView(prey.Entity(), components.KindPrey, pos, vel, genome, energy))
	}

	preds := s.predFilter.Query()
	for preds.Next() {
		pos, vel, genome, energy, target, _ := preds.Get()
		v := livingView(preds.Entity(), components.KindPredator, pos, vel, genome, energy)
		if target.Active && s.store.World.Alive(target.Entity) {
			tp := s.store.PosMap.Get(target.Entity)
			v.Hunting = true
			v.TargetX, v.TargetY = tp.X, tp.Y
		}
		fn(v)
	}

	scavs := s.scavFilter.Query()
	for scavs.Next() {
		pos, vel, genome, energy, _ := scavs.Get()
		fn(livingView(scavs.Entity(), components.KindScavenger, pos, vel, genome, energy))
	}

	dead := s.deadFilter.Query()
	for dead.Next() {
		pos, genome, energy, corpse := dead.Get()
		fn(OrganismView{
			Entity: dead.Entity(),
			Kind:   components.KindCorpse,
			Origin: corpse.Origin,
			X:      pos.X,
			Y:      pos.Y,
			Size:   genome.Size,
			Energy: energy.Value,
			Age:    energy.Age,
			Fade:   corpse.Fade(),
		})
	}
}

func livingView(e ecs.Entity, kind components.Kind, pos *components.Position, vel *components.Velocity,
	genome *components.Genome, energy *components.Energy) OrganismView {
	v := OrganismView{
		Entity: e,
		Kind:   kind,
		Origin: kind,
		X:      pos.X,
		Y:      pos.Y,
		Size:   genome.Size,
		Speed:  genome.Speed,
		Vision: genome.VisionRange,
		Energy: energy.Value,
		Age:    energy.Age,
		Fade:   1,
	}
	if vel != nil {
		v.VX, v.VY = vel.X, vel.Y
	}
	return v
}
