// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Genome holds heritable traits. It is fixed at creation and copied verbatim to offspring.
type Genome struct {
	Speed                 float32 `inspect:"bar,max:200"`
	Size                  float32 `inspect:"label,fmt:%.2f"`
	Metabolism            float32 `inspect:"label,fmt:%.2f"`
	ReproductionThreshold float32 `inspect:"label,fmt:%.0f"`
	VisionRange           float32 `inspect:"bar,max:250"`
}

// Energy tracks an organism's energy store and age.
type Energy struct {
	Value float32 `inspect:"bar,max:250"`
	Age   float32 `inspect:"label,fmt:%.1fs"` // seconds alive
}

// Stamina is the prey sprint budget.
type Stamina struct {
	Current   float32 `inspect:"bar,max:100"`
	Max       float32 `inspect:"skip"`
	RegenRate float32 `inspect:"skip"`
}

// HuntTarget is a predator's current prey, if any.
type HuntTarget struct {
	Entity ecs.Entity `inspect:"skip"`
	Active bool       `inspect:"bool"`
}

// Corpse marks a dead organism. Timer counts down to removal.
type Corpse struct {
	Origin   Kind    `inspect:"skip"`
	Timer    float32 `inspect:"bar,max:30"`
	MaxTimer float32 `inspect:"skip"`
}

// Fade returns the remaining fraction of the decay timer in [0, 1].
func (c Corpse) Fade() float32 {
	if c.MaxTimer <= 0 {
		return 0
	}
	f := c.Timer / c.MaxTimer
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Species tags. A living organism carries exactly one of these.
type (
	Plant     struct{}
	Prey      struct{}
	Predator  struct{}
	Scavenger struct{}
)
