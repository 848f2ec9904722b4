package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// Body is a point-in-time copy of one organism's shared state.
type Body struct {
	E      ecs.Entity
	X, Y   float32
	VX, VY float32
	Energy float32
	Origin components.Kind // species; for corpses the former species
}

// Population is a frozen view of one group of organisms with a spatial index.
// Systems read neighbors from it so every entity reacts to the same
// start-of-pass state regardless of iteration order.
type Population struct {
	Bodies []Body
	Grid   *SpatialGrid
	index  map[ecs.Entity]int
}

// NewPopulation creates an empty population indexed over the given world size.
func NewPopulation(width, height, cellSize float32) *Population {
	return &Population{
		Grid:  NewSpatialGrid(width, height, cellSize),
		index: make(map[ecs.Entity]int),
	}
}

// Reset empties the population for reuse.
func (p *Population) Reset() {
	p.Bodies = p.Bodies[:0]
	p.Grid.Clear()
	clear(p.index)
}

// Add appends a body and indexes it.
func (p *Population) Add(b Body) {
	p.index[b.E] = len(p.Bodies)
	p.Bodies = append(p.Bodies, b)
	p.Grid.Insert(b.X, b.Y)
}

// Len returns the number of bodies.
func (p *Population) Len() int {
	return len(p.Bodies)
}

// Find returns the snapshot index of an entity.
func (p *Population) Find(e ecs.Entity) (int, bool) {
	i, ok := p.index[e]
	return i, ok
}

// Snapshots holds the frozen populations shared by the systems of one tick.
type Snapshots struct {
	Plants     *Population
	Prey       *Population
	Predators  *Population
	Scavengers *Population
	Corpses    *Population

	plantFilter *ecs.Filter3[components.Position, components.Energy, components.Plant]
	preyFilter  *ecs.Filter4[components.Position, components.Velocity, components.Energy, components.Prey]
	predFilter  *ecs.Filter4[components.Position, components.Velocity, components.Energy, components.Predator]
	scavFilter  *ecs.Filter4[components.Position, components.Velocity, components.Energy, components.Scavenger]
	deadFilter  *ecs.Filter3[components.Position, components.Energy, components.Corpse]
}

// NewSnapshots creates snapshot storage for the store's world.
func NewSnapshots(s *Store) *Snapshots {
	d := &s.cfg.Derived
	cell := float32(s.cfg.Physics.GridCellSize)
	w := s.World
	return &Snapshots{
		Plants:      NewPopulation(d.WorldW32, d.WorldH32, cell),
		Prey:        NewPopulation(d.WorldW32, d.WorldH32, cell),
		Predators:   NewPopulation(d.WorldW32, d.WorldH32, cell),
		Scavengers:  NewPopulation(d.WorldW32, d.WorldH32, cell),
		Corpses:     NewPopulation(d.WorldW32, d.WorldH32, cell),
		plantFilter: ecs.NewFilter3[components.Position, components.Energy, components.Plant](w),
		preyFilter:  ecs.NewFilter4[components.Position, components.Velocity, components.Energy, components.Prey](w),
		predFilter:  ecs.NewFilter4[components.Position, components.Velocity, components.Energy, components.Predator](w),
		scavFilter:  ecs.NewFilter4[components.Position, components.Velocity, components.Energy, components.Scavenger](w),
		deadFilter:  ecs.NewFilter3[components.Position, components.Energy, components.Corpse](w),
	}
}

// Capture copies the current state of every population.
func (sn *Snapshots) Capture() {
	sn.Plants.Reset()
	plants := sn.plantFilter.Query()
	for plants.Next() {
		pos, en, _ := plants.Get()
		sn.Plants.Add(Body{E: plants.Entity(), X: pos.X, Y: pos.Y, Energy: en.Value, Origin: components.KindPlant})
	}

	sn.Prey.Reset()
	prey := sn.preyFilter.Query()
	for prey.Next() {
		pos, vel, en, _ := prey.Get()
		sn.Prey.Add(mobileBody(prey.Entity(), pos, vel, en, components.KindPrey))
	}

	sn.Predators.Reset()
	preds := sn.predFilter.Query()
	for preds.Next() {
		pos, vel, en, _ := preds.Get()
		sn.Predators.Add(mobileBody(preds.Entity(), pos, vel, en, components.KindPredator))
	}

	sn.Scavengers.Reset()
	scavs := sn.scavFilter.Query()
	for scavs.Next() {
		pos, vel, en, _ := scavs.Get()
		sn.Scavengers.Add(mobileBody(scavs.Entity(), pos, vel, en, components.KindScavenger))
	}

	sn.Corpses.Reset()
	dead := sn.deadFilter.Query()
	for dead.Next() {
		pos, en, c := dead.Get()
		sn.Corpses.Add(Body{E: dead.Entity(), X: pos.X, Y: pos.Y, Energy: en.Value, Origin: c.Origin})
	}
}

func mobileBody(e ecs.Entity, pos *components.Position, vel *components.Velocity, en *components.Energy, kind components.Kind) Body {
	return Body{E: e, X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y, Energy: en.Value, Origin: kind}
}
