package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// PreyMovementSystem steers prey: flee predators, flock, forage, wander.
type PreyMovementSystem struct {
	filter ecs.Filter6[components.Position, components.Velocity, components.Genome,
		components.Energy, components.Stamina, components.Prey]
	store *Store
	buf   []Neighbor
}

// NewPreyMovementSystem creates a new prey movement system.
func NewPreyMovementSystem(s *Store) *PreyMovementSystem {
	return &PreyMovementSystem{
		filter: *ecs.NewFilter6[components.Position, components.Velocity, components.Genome,
			components.Energy, components.Stamina, components.Prey](s.World),
		store: s,
		buf:   make([]Neighbor, 0, MaxQueryResults),
	}
}

// Update moves every prey using the snapshot taken at the start of the phase.
func (sys *PreyMovementSystem) Update(dt float32, snap *Snapshots) {
	cfg := sys.store.cfg
	bc := &cfg.Behavior
	d := &cfg.Derived
	rng := sys.store.rng

	query := sys.filter.Query()
	for query.Next() {
		pos, vel, genome, energy, stamina, _ := query.Get()
		self := query.Entity()

		var desX, desY float32

		// Flee
		sys.buf = snap.Predators.Grid.QueryRadiusInto(sys.buf[:0], pos.X, pos.Y,
			genome.VisionRange*float32(bc.Flee.VisionFactor), -1)
		fx, fy, threat, fleeing := FleeVector(sys.buf, genome.VisionRange, bc.Flee)
		desX += fx
		desY += fy

		// Flock
		if w := FlockWeight(fleeing, threat, bc.Flocking); w > 0 {
			exclude := -1
			if i, ok := snap.Prey.Find(self); ok {
				exclude = i
			}
			sys.buf = snap.Prey.Grid.QueryRadiusInto(sys.buf[:0], pos.X, pos.Y, float32(bc.Flocking.Radius), exclude)
			if kx, ky, ok := FlockVector(sys.buf, snap.Prey.Bodies, bc.Flocking); ok {
				desX += kx * w
				desY += ky * w
			}
		}

		// Forage
		if length(desX, desY) < float32(bc.Forage.MaxDesire) && threat < float32(bc.Forage.MaxThreat) {
			if n, ok := snap.Plants.Grid.Nearest(pos.X, pos.Y, genome.VisionRange, nil); ok {
				nx, ny := normalize(n.DX, n.DY)
				desX += nx * float32(bc.Forage.Weight)
				desY += ny * float32(bc.Forage.Weight)
			}
		}

		if length(desX, desY) < float32(bc.Steering.WanderEpsilon) {
			desX, desY = Wander(rng)
		}

		sprint := Sprint(stamina, fleeing, threat, energy.Value, dt, bc.Sprint)
		speed := genome.Speed * sprint * AgeSpeedMultiplier(energy.Age, bc.Aging, cfg.Lifecycle.MaxAge)
		Steer(vel, desX, desY, speed, bc.Steering)
		Integrate(pos, *vel, dt, d.WorldW32, d.WorldH32)
	}
}

// ScavengerMovementSystem steers scavengers toward corpses, otherwise along waypoints.
type ScavengerMovementSystem struct {
	filter ecs.Filter6[components.Position, components.Velocity, components.Genome,
		components.Energy, components.Waypoint, components.Scavenger]
	store *Store
}

// NewScavengerMovementSystem creates a new scavenger movement system.
func NewScavengerMovementSystem(s *Store) *ScavengerMovementSystem {
	return &ScavengerMovementSystem{
		filter: *ecs.NewFilter6[components.Position, components.Velocity, components.Genome,
			components.Energy, components.Waypoint, components.Scavenger](s.World),
		store: s,
	}
}

// Update moves every scavenger.
func (sys *ScavengerMovementSystem) Update(dt float32, snap *Snapshots) {
	cfg := sys.store.cfg
	bc := &cfg.Behavior
	d := &cfg.Derived
	rng := sys.store.rng
	minEnergy := float32(cfg.Feeding.MinCorpseEnergy)
	corpses := snap.Corpses.Bodies

	edible := func(i int) bool {
		return ScavengerCanEat(corpses[i].Origin) && corpses[i].Energy > minEnergy
	}

	query := sys.filter.Query()
	for query.Next() {
		pos, vel, genome, energy, wp, _ := query.Get()

		var desX, desY float32
		if n, ok := snap.Corpses.Grid.Nearest(pos.X, pos.Y, genome.VisionRange, edible); ok {
			desX, desY = normalize(n.DX, n.DY)
		} else {
			desX, desY = followWaypoint(sys.store, pos, wp)
		}

		if length(desX, desY) < float32(bc.Steering.WanderEpsilon) {
			desX, desY = Wander(rng)
		}

		speed := genome.Speed * AgeSpeedMultiplier(energy.Age, bc.Aging, cfg.Lifecycle.MaxAge)
		Steer(vel, desX, desY, speed, bc.Steering)
		Integrate(pos, *vel, dt, d.WorldW32, d.WorldH32)
	}
}

// followWaypoint returns the unit direction to the waypoint, assigning a new
// one first when the current one has been reached.
func followWaypoint(s *Store, pos *components.Position, wp *components.Waypoint) (float32, float32) {
	d := &s.cfg.Derived
	dx, dy := ToroidalDelta(pos.X, pos.Y, wp.X, wp.Y, d.WorldW32, d.WorldH32)
	if length(dx, dy) < wp.ReachedThreshold {
		*wp = s.NewWaypoint(pos.X, pos.Y)
		dx, dy = ToroidalDelta(pos.X, pos.Y, wp.X, wp.Y, d.WorldW32, d.WorldH32)
	}
	return normalize(dx, dy)
}
