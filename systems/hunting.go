package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// HuntingSystem steers predators. Each predator keeps one prey target and
// spreads out over the available prey using snapshot hunter counts.
type HuntingSystem struct {
	filter ecs.Filter7[components.Position, components.Velocity, components.Genome,
		components.Energy, components.HuntTarget, components.Waypoint, components.Predator]
	store   *Store
	hunters map[ecs.Entity]int
	buf     []Neighbor
}

// NewHuntingSystem creates a new hunting system.
func NewHuntingSystem(s *Store) *HuntingSystem {
	return &HuntingSystem{
		filter: *ecs.NewFilter7[components.Position, components.Velocity, components.Genome,
			components.Energy, components.HuntTarget, components.Waypoint, components.Predator](s.World),
		store:   s,
		hunters: make(map[ecs.Entity]int),
		buf:     make([]Neighbor, 0, MaxQueryResults),
	}
}

// Hunters returns the hunter count per prey taken at the start of the last update.
func (sys *HuntingSystem) Hunters(e ecs.Entity) int {
	return sys.hunters[e]
}

// Update retargets and moves every predator.
func (sys *HuntingSystem) Update(dt float32, snap *Snapshots) {
	cfg := sys.store.cfg
	bc := &cfg.Behavior
	d := &cfg.Derived
	rng := sys.store.rng

	// Hunter counts are frozen before any predator changes its mind.
	clear(sys.hunters)
	query := sys.filter.Query()
	for query.Next() {
		_, _, _, _, target, _, _ := query.Get()
		if target.Active {
			sys.hunters[target.Entity]++
		}
	}

	query = sys.filter.Query()
	for query.Next() {
		pos, vel, genome, energy, target, wp, _ := query.Get()
		self := query.Entity()

		sys.retarget(pos, genome, target, snap)

		var desX, desY float32
		if target.Active {
			i, _ := snap.Prey.Find(target.Entity)
			prey := snap.Prey.Bodies[i]
			dx, dy := ToroidalDelta(pos.X, pos.Y, prey.X, prey.Y, d.WorldW32, d.WorldH32)
			desX, desY = normalize(dx, dy)
		} else {
			desX, desY = followWaypoint(sys.store, pos, wp)
		}

		exclude := -1
		if i, ok := snap.Predators.Find(self); ok {
			exclude = i
		}
		radius := float32(bc.Hunting.SeparationRadius)
		sys.buf = snap.Predators.Grid.QueryRadiusInto(sys.buf[:0], pos.X, pos.Y, radius, exclude)
		sx, sy := SeparationForce(sys.buf, radius, float32(bc.Flocking.MinDistance))
		desX += sx * float32(bc.Hunting.SeparationWeight)
		desY += sy * float32(bc.Hunting.SeparationWeight)

		if length(desX, desY) < float32(bc.Steering.WanderEpsilon) {
			desX, desY = Wander(rng)
		}

		speed := genome.Speed * AgeSpeedMultiplier(energy.Age, bc.Aging, cfg.Lifecycle.MaxAge)
		Steer(vel, desX, desY, speed, bc.Steering)
		Integrate(pos, *vel, dt, d.WorldW32, d.WorldH32)
	}
}

// retarget validates the current target and picks a new one when needed.
func (sys *HuntingSystem) retarget(pos *components.Position, genome *components.Genome,
	target *components.HuntTarget, snap *Snapshots) {
	hc := sys.store.cfg.Behavior.Hunting
	d := &sys.store.cfg.Derived

	previous := target.Entity
	wasActive := target.Active
	// A target dropped as overcrowded sits out this tick's reselection.
	var crowded ecs.Entity

	if target.Active {
		i, inSnapshot := snap.Prey.Find(target.Entity)
		switch {
		case !inSnapshot || !sys.store.IsLivingPrey(target.Entity):
			*target = components.HuntTarget{}
		case sys.hunters[target.Entity] > hc.MaxHunters:
			crowded = target.Entity
			*target = components.HuntTarget{}
		default:
			prey := snap.Prey.Bodies[i]
			dist := ToroidalDistance(pos.X, pos.Y, prey.X, prey.Y, d.WorldW32, d.WorldH32)
			if dist > genome.VisionRange*float32(hc.GiveUpFactor) {
				*target = components.HuntTarget{}
			}
		}
	}
	if target.Active {
		return
	}

	sys.buf = snap.Prey.Grid.QueryRadiusInto(sys.buf[:0], pos.X, pos.Y, genome.VisionRange, -1)
	best := -1
	bestCount := 0
	for _, n := range sys.buf {
		e := snap.Prey.Bodies[n.Index].E
		if e == crowded || !sys.store.IsLivingPrey(e) {
			continue
		}
		others := sys.hunters[e]
		if wasActive && e == previous {
			others--
		}
		if best < 0 || others < bestCount {
			best = n.Index
			bestCount = others
		}
	}
	if best >= 0 {
		*target = components.HuntTarget{Entity: snap.Prey.Bodies[best].E, Active: true}
	}
}
