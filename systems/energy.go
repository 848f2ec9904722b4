package systems

import "github.com/pthm-cable/ecosim/components"

// MetabolicCost returns the energy an organism spends over dt: a basal term
// scaled by metabolism and size plus a surcharge proportional to speed.
func MetabolicCost(g components.Genome, vel components.Velocity, moveCost, dt float32) float32 {
	return g.Metabolism*g.Size*dt + length(vel.X, vel.Y)*moveCost*dt
}

// ReproductionRate returns the per-tick birth probability for a species
// given its current population.
func ReproductionRate(population, densityThreshold int, normal, sparse float64) float64 {
	if population < densityThreshold {
		return sparse
	}
	return normal
}
