package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ecosim/config"
)

// length returns the magnitude of a vector.
func length(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}

// normalize returns the unit vector in the direction of (x, y), or zero for a zero vector.
func normalize(x, y float32) (float32, float32) {
	l := length(x, y)
	if l < 1e-6 {
		return 0, 0
	}
	return x / l, y / l
}

// lerp moves a toward b by factor t.
func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// uniform draws from [r.Min, r.Max). A degenerate range returns Min.
func uniform(rng *rand.Rand, r config.Range) float32 {
	if r.Max <= r.Min {
		return float32(r.Min)
	}
	return float32(r.Min + rng.Float64()*(r.Max-r.Min))
}

// between draws from [lo, hi).
func between(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// chance reports a Bernoulli trial with probability p.
func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
