package systems

import (
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestMetabolicCost(t *testing.T) {
	tests := []struct {
		name     string
		genome   components.Genome
		vel      components.Velocity
		moveCost float32
		dt       float32
		want     float32
	}{
		{"at rest", components.Genome{Metabolism: 0.5, Size: 2}, components.Velocity{}, 0.1, 1, 1},
		{"moving", components.Genome{Metabolism: 0.5, Size: 2}, components.Velocity{X: 3, Y: 4}, 0.1, 1, 1.5},
		{"scaled by dt", components.Genome{Metabolism: 0.5, Size: 2}, components.Velocity{X: 3, Y: 4}, 0.1, 0.5, 0.75},
		{"no move cost", components.Genome{Metabolism: 1, Size: 1}, components.Velocity{X: 30}, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetabolicCost(tt.genome, tt.vel, tt.moveCost, tt.dt)
			if !approx(got, tt.want) {
				t.Errorf("MetabolicCost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReproductionRate(t *testing.T) {
	if got := ReproductionRate(5, 10, 0.01, 0.05); got != 0.05 {
		t.Errorf("sparse population rate = %v, want 0.05", got)
	}
	if got := ReproductionRate(10, 10, 0.01, 0.05); got != 0.01 {
		t.Errorf("rate at threshold = %v, want 0.01", got)
	}
}
