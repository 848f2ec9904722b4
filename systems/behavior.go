package systems

import (
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// AgeSpeedMultiplier scales locomotion with age: full speed until decline age,
// a linear drop to frail speed by frail age, then a linear drop to zero at max age.
func AgeSpeedMultiplier(age float32, cfg config.AgingConfig, maxAge float64) float32 {
	decline := float32(cfg.DeclineAge)
	frail := float32(cfg.FrailAge)
	frailSpeed := float32(cfg.FrailSpeed)
	end := float32(maxAge)

	switch {
	case age < decline:
		return 1
	case age < frail:
		t := (age - decline) / (frail - decline)
		return 1 - t*(1-frailSpeed)
	case age < end:
		t := (age - frail) / (end - frail)
		return frailSpeed * (1 - t)
	default:
		return 0
	}
}

// FleeVector accumulates escape directions away from threats.
// threats must hold predators within vision*VisionFactor of the prey.
// Returns the summed direction and the strongest threat level.
func FleeVector(threats []Neighbor, vision float32, cfg config.FleeConfig) (dx, dy, threat float32, fleeing bool) {
	if vision <= 0 {
		return 0, 0, 0, false
	}
	detect := vision * float32(cfg.VisionFactor)
	for _, n := range threats {
		d := n.Dist()
		if d >= detect {
			continue
		}
		strength := (detect - d) / vision
		nx, ny := normalize(n.DX, n.DY)
		dx -= nx * strength * float32(cfg.Gain)
		dy -= ny * strength * float32(cfg.Gain)
		if strength > threat {
			threat = strength
		}
		fleeing = true
	}
	return dx, dy, threat, fleeing
}

// FlockVector computes the unweighted boids steering from neighbors:
// separation*SeparationWeight + normalized alignment*AlignmentWeight +
// normalized cohesion*CohesionWeight. ok is false when no neighbor counts.
func FlockVector(neighbors []Neighbor, bodies []Body, cfg config.FlockingConfig) (dx, dy float32, ok bool) {
	var sepX, sepY, alignX, alignY, cohX, cohY float32
	count := 0
	sepRadius := float32(cfg.SeparationRadius)
	minDist := float32(cfg.MinDistance)
	radius := float32(cfg.Radius)

	for _, n := range neighbors {
		d := n.Dist()
		if d <= minDist || d >= radius {
			continue
		}
		if d < sepRadius {
			nx, ny := normalize(n.DX, n.DY)
			push := (sepRadius - d) / sepRadius
			sepX -= nx * push
			sepY -= ny * push
		}
		b := bodies[n.Index]
		alignX += b.VX
		alignY += b.VY
		cohX += n.DX
		cohY += n.DY
		count++
	}
	if count == 0 {
		return 0, 0, false
	}

	c := float32(count)
	sepX /= c
	sepY /= c
	alignX, alignY = normalize(alignX/c, alignY/c)
	cohX, cohY = normalize(cohX/c, cohY/c)

	sw := float32(cfg.SeparationWeight)
	aw := float32(cfg.AlignmentWeight)
	cw := float32(cfg.CohesionWeight)
	return sepX*sw + alignX*aw + cohX*cw, sepY*sw + alignY*aw + cohY*cw, true
}

// FlockWeight returns the multiplier applied to the flocking vector, or zero
// when panic suppresses flocking.
func FlockWeight(fleeing bool, threat float32, cfg config.FlockingConfig) float32 {
	if !fleeing {
		return float32(cfg.CalmWeight)
	}
	if threat >= float32(cfg.PanicThreat) {
		return 0
	}
	return float32(cfg.FleeingWeight)
}

// SeparationForce sums the pushes away from every neighbor closer than
// radius. Each push has length (radius-d)/radius, so a crowd outweighs a
// unit pursuit direction.
func SeparationForce(neighbors []Neighbor, radius, minDist float32) (dx, dy float32) {
	for _, n := range neighbors {
		d := n.Dist()
		if d <= minDist || d >= radius {
			continue
		}
		nx, ny := normalize(n.DX, n.DY)
		push := (radius - d) / radius
		dx -= nx * push
		dy -= ny * push
	}
	return dx, dy
}

// Sprint decides the prey speed multiplier for this tick and drains or
// regenerates stamina accordingly. Stamina stays within [0, Max].
func Sprint(st *components.Stamina, fleeing bool, threat, energy, dt float32, cfg config.SprintConfig) float32 {
	if fleeing && threat > float32(cfg.MinThreat) &&
		st.Current > float32(cfg.MinStamina) && energy > float32(cfg.MinEnergy) {
		st.Current -= float32(cfg.Drain) * dt
		if st.Current < 0 {
			st.Current = 0
		}
		return float32(cfg.Multiplier)
	}
	st.Current += st.RegenRate * dt
	if st.Current > st.Max {
		st.Current = st.Max
	}
	return 1
}

// Wander returns a uniform random direction in [-1, 1]^2.
func Wander(rng *rand.Rand) (float32, float32) {
	return rng.Float32()*2 - 1, rng.Float32()*2 - 1
}

// Steer blends velocity toward normalize(desired)*speed by the smoothing factor.
func Steer(vel *components.Velocity, dx, dy, speed float32, cfg config.SteeringConfig) {
	nx, ny := normalize(dx, dy)
	t := float32(cfg.Smoothing)
	vel.X = lerp(vel.X, nx*speed, t)
	vel.Y = lerp(vel.Y, ny*speed, t)
}

// Integrate moves a position by velocity*dt and wraps it into the world.
func Integrate(pos *components.Position, vel components.Velocity, dt, w, h float32) {
	pos.X, pos.Y = Wrap(pos.X+vel.X*dt, pos.Y+vel.Y*dt, w, h)
}
