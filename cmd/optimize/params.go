// Package main searches for ecosystem parameters with CMA-ES.
package main

import (
	"github.com/pthm-cable/ecosim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // config path, also the CSV column
	Min  float64 // Lower bound
	Max  float64 // Upper bound

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Energy economy
			{
				Name: "energy.prey_from_plant", Min: 10, Max: 60,
				get: func(c *config.Config) float64 { return c.Energy.PreyFromPlant },
				set: func(c *config.Config, v float64) { c.Energy.PreyFromPlant = v },
			},
			{
				Name: "energy.predator_from_prey", Min: 20, Max: 100,
				get: func(c *config.Config) float64 { return c.Energy.PredatorFromPrey },
				set: func(c *config.Config, v float64) { c.Energy.PredatorFromPrey = v },
			},
			{
				Name: "energy.scavenger_from_corpse", Min: 10, Max: 60,
				get: func(c *config.Config) float64 { return c.Energy.ScavengerFromCorpse },
				set: func(c *config.Config, v float64) { c.Energy.ScavengerFromCorpse = v },
			},
			{
				Name: "energy.move_cost", Min: 0, Max: 0.02,
				get: func(c *config.Config) float64 { return c.Energy.MoveCost },
				set: func(c *config.Config, v float64) { c.Energy.MoveCost = v },
			},
			// Plants
			{
				Name: "plants.respawn_rate", Min: 0.5, Max: 10,
				get: func(c *config.Config) float64 { return c.Plants.RespawnRate },
				set: func(c *config.Config, v float64) { c.Plants.RespawnRate = v },
			},
			// Reproduction
			{
				Name: "species.prey.reproduction_rate", Min: 0.002, Max: 0.03,
				get: func(c *config.Config) float64 { return c.Species.Prey.ReproductionRate },
				set: func(c *config.Config, v float64) { c.Species.Prey.ReproductionRate = v },
			},
			{
				Name: "species.predator.reproduction_rate", Min: 0.001, Max: 0.02,
				get: func(c *config.Config) float64 { return c.Species.Predator.ReproductionRate },
				set: func(c *config.Config, v float64) { c.Species.Predator.ReproductionRate = v },
			},
			// Interaction
			{
				Name: "feeding.predator_radius", Min: 8, Max: 30,
				get: func(c *config.Config) float64 { return c.Feeding.PredatorRadius },
				set: func(c *config.Config, v float64) { c.Feeding.PredatorRadius = v },
			},
			{
				Name: "behavior.flee.gain", Min: 0.5, Max: 4,
				get: func(c *config.Config) float64 { return c.Behavior.Flee.Gain },
				set: func(c *config.Config, v float64) { c.Behavior.Flee.Gain = v },
			},
			{
				Name: "population.immigration_chance", Min: 0, Max: 0.1,
				get: func(c *config.Config) float64 { return c.Population.ImmigrationChance },
				set: func(c *config.Config, v float64) { c.Population.ImmigrationChance = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes its
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	cfg.Refresh()
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	values := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		values[i] = spec.get(cfg)
	}
	return values
}
