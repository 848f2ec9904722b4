package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestAgeSpeedMultiplier(t *testing.T) {
	cfg := config.MustDefault()
	aging := cfg.Behavior.Aging
	maxAge := cfg.Lifecycle.MaxAge

	tests := []struct {
		age  float32
		want float32
	}{
		{0, 1},
		{239.9, 1},
		{240, 1},
		{255, 0.6},
		{270, 0.2},
		{285, 0.1},
		{300, 0},
		{400, 0},
	}

	for _, tt := range tests {
		if got := AgeSpeedMultiplier(tt.age, aging, maxAge); !approx(got, tt.want) {
			t.Errorf("AgeSpeedMultiplier(%v) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestAgeSpeedMultiplierMonotonic(t *testing.T) {
	cfg := config.MustDefault()
	prev := float32(1)
	for age := float32(0); age <= 320; age += 0.5 {
		m := AgeSpeedMultiplier(age, cfg.Behavior.Aging, cfg.Lifecycle.MaxAge)
		if m > prev+1e-6 {
			t.Fatalf("multiplier rose from %v to %v at age %v", prev, m, age)
		}
		if m < 0 || m > 1 {
			t.Fatalf("multiplier %v outside [0, 1] at age %v", m, age)
		}
		prev = m
	}
}

func TestFleeVector(t *testing.T) {
	cfg := config.MustDefault().Behavior.Flee

	// Predator 10 units to the east of a prey with vision 100
	threats := []Neighbor{{Index: 0, DX: 10, DY: 0, DistSq: 100}}
	dx, dy, threat, fleeing := FleeVector(threats, 100, cfg)
	if !fleeing {
		t.Fatal("expected fleeing")
	}
	if dx >= 0 || !approx(dy, 0) {
		t.Errorf("flee direction = (%v, %v), want pointing west", dx, dy)
	}
	if !approx(threat, 1.4) {
		t.Errorf("threat = %v, want 1.4", threat)
	}

	// Beyond vision*factor
	far := []Neighbor{{Index: 0, DX: 160, DY: 0, DistSq: 160 * 160}}
	if _, _, _, fleeing := FleeVector(far, 100, cfg); fleeing {
		t.Error("predator beyond detection range triggered fleeing")
	}
}

func TestFlockWeight(t *testing.T) {
	cfg := config.MustDefault().Behavior.Flocking

	tests := []struct {
		name    string
		fleeing bool
		threat  float32
		want    float32
	}{
		{"calm", false, 0, 0.6},
		{"mild threat", true, 0.3, 0.2},
		{"panic", true, 0.9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlockWeight(tt.fleeing, tt.threat, cfg); !approx(got, tt.want) {
				t.Errorf("FlockWeight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlockVectorCohesion(t *testing.T) {
	cfg := config.MustDefault().Behavior.Flocking
	bodies := []Body{{}, {}}
	// Two still neighbors to the east, beyond separation radius
	neighbors := []Neighbor{
		{Index: 0, DX: 40, DY: 5, DistSq: 40*40 + 25},
		{Index: 1, DX: 40, DY: -5, DistSq: 40*40 + 25},
	}
	dx, dy, ok := FlockVector(neighbors, bodies, cfg)
	if !ok {
		t.Fatal("expected a flocking vector")
	}
	if dx <= 0 || !approx(dy, 0) {
		t.Errorf("flock vector = (%v, %v), want pointing east", dx, dy)
	}

	if _, _, ok := FlockVector(nil, bodies, cfg); ok {
		t.Error("no neighbors should yield no vector")
	}
}

func TestSeparationForce(t *testing.T) {
	tests := []struct {
		name      string
		neighbors []Neighbor
		wantX     float32
		wantY     float32
	}{
		{"none", nil, 0, 0},
		{"single", []Neighbor{{DX: 0, DY: 25, DistSq: 625}}, 0, -0.5},
		{"pack sums", []Neighbor{
			{DX: 10, DistSq: 100},
			{DX: 10, DistSq: 100},
			{DX: 10, DistSq: 100},
			{DX: 10, DistSq: 100},
		}, -3.2, 0},
		{"outside radius", []Neighbor{{DX: 60, DistSq: 3600}}, 0, 0},
		{"coincident", []Neighbor{{DX: 0.01, DistSq: 0.0001}}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := SeparationForce(tt.neighbors, 50, 0.1)
			if !approx(dx, tt.wantX) || !approx(dy, tt.wantY) {
				t.Errorf("SeparationForce = (%v, %v), want (%v, %v)", dx, dy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestSprintStamina(t *testing.T) {
	cfg := config.MustDefault().Behavior.Sprint
	st := &components.Stamina{Current: 100, Max: 100, RegenRate: 10}

	if m := Sprint(st, true, 0.8, 50, 1, cfg); !approx(m, 2.5) {
		t.Errorf("sprint multiplier = %v, want 2.5", m)
	}
	if !approx(st.Current, 70) {
		t.Errorf("stamina after 1s sprint = %v, want 70", st.Current)
	}

	// Too hungry to sprint: regenerate instead
	if m := Sprint(st, true, 0.8, 10, 1, cfg); m != 1 {
		t.Errorf("starving prey sprinted with multiplier %v", m)
	}
	if !approx(st.Current, 80) {
		t.Errorf("stamina after regen = %v, want 80", st.Current)
	}

	for i := 0; i < 10; i++ {
		Sprint(st, false, 0, 50, 1, cfg)
	}
	if st.Current != st.Max {
		t.Errorf("stamina = %v, want capped at %v", st.Current, st.Max)
	}

	for i := 0; i < 10; i++ {
		Sprint(st, true, 1, 50, 1, cfg)
		if st.Current < 0 {
			t.Fatalf("stamina went negative: %v", st.Current)
		}
	}
}

func TestSteerAndIntegrate(t *testing.T) {
	cfg := config.MustDefault().Behavior.Steering
	vel := &components.Velocity{}

	Steer(vel, 3, 4, 100, cfg)
	if !approx(vel.X, 6) || !approx(vel.Y, 8) {
		t.Errorf("velocity after one steer = (%v, %v), want (6, 8)", vel.X, vel.Y)
	}

	pos := &components.Position{X: 399, Y: 0}
	Integrate(pos, components.Velocity{X: 120, Y: 0}, 0.1, testW, testH)
	if pos.X != -400 {
		t.Errorf("position after crossing edge = %v, want -400", pos.X)
	}
}

func TestWanderInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		x, y := Wander(rng)
		if x < -1 || x > 1 || y < -1 || y > 1 {
			t.Fatalf("Wander() = (%v, %v) outside [-1, 1]", x, y)
		}
	}
}

func TestSunlight(t *testing.T) {
	s := NewSunlight(config.MustDefault().Sunlight)
	if !approx(s.Intensity, 0.7) {
		t.Errorf("initial intensity = %v, want 0.7", s.Intensity)
	}
	if got := s.At(math.Pi); !approx(got, 1.0) {
		t.Errorf("At(pi) = %v, want 1.0", got)
	}
	if got := s.At(3 * math.Pi); !approx(got, 0.4) {
		t.Errorf("At(3pi) = %v, want 0.4", got)
	}

	s.Advance(2)
	if s.CycleTime != 2 {
		t.Errorf("CycleTime = %v, want 2", s.CycleTime)
	}
}
