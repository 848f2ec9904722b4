package systems

import (
	"math"
	"math/rand"
	"testing"
)

const (
	testW = 800
	testH = 600
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float32
		wantX, wantY float32
	}{
		{"inside", 10, -20, 10, -20},
		{"on edge", 400, -300, 400, -300},
		{"past right", 401, 0, -400, 0},
		{"past left", -450, 0, 400, 0},
		{"past top", 0, -301, 0, 300},
		{"past bottom", 0, 350, 0, -300},
		{"corner", 500, 500, -400, -300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Wrap(tt.x, tt.y, testW, testH)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Wrap(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestWrapIdempotentAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		x := (rng.Float32() - 0.5) * 3 * testW
		y := (rng.Float32() - 0.5) * 3 * testH
		wx, wy := Wrap(x, y, testW, testH)
		if wx < -testW/2 || wx > testW/2 || wy < -testH/2 || wy > testH/2 {
			t.Fatalf("Wrap(%v, %v) = (%v, %v) out of bounds", x, y, wx, wy)
		}
		if ax, ay := Wrap(wx, wy, testW, testH); ax != wx || ay != wy {
			t.Fatalf("Wrap not idempotent at (%v, %v)", wx, wy)
		}
	}
}

func TestToroidalDelta(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float32
		wantDX, wantDY float32
	}{
		{"direct", 0, 0, 10, 20, 10, 20},
		{"across right edge", 390, 0, -390, 0, 20, 0},
		{"across left edge", -390, 0, 390, 0, -20, 0},
		{"across vertical edge", 0, 290, 0, -290, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := ToroidalDelta(tt.x1, tt.y1, tt.x2, tt.y2, testW, testH)
			if math.Abs(float64(dx-tt.wantDX)) > 1e-4 || math.Abs(float64(dy-tt.wantDY)) > 1e-4 {
				t.Errorf("ToroidalDelta = (%v, %v), want (%v, %v)", dx, dy, tt.wantDX, tt.wantDY)
			}
		})
	}
}

func TestToroidalDistanceSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	maxDist := float32(math.Hypot(testW/2, testH/2)) + 1e-3
	for i := 0; i < 1000; i++ {
		x1, y1 := (rng.Float32()-0.5)*testW, (rng.Float32()-0.5)*testH
		x2, y2 := (rng.Float32()-0.5)*testW, (rng.Float32()-0.5)*testH
		ab := ToroidalDistance(x1, y1, x2, y2, testW, testH)
		ba := ToroidalDistance(x2, y2, x1, y1, testW, testH)
		if math.Abs(float64(ab-ba)) > 1e-3 {
			t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
		}
		if ab < 0 || ab > maxDist {
			t.Fatalf("distance %v outside [0, %v]", ab, maxDist)
		}
	}
}

func TestSpatialGridQueryWrapsEdges(t *testing.T) {
	g := NewSpatialGrid(testW, testH, 50)
	g.Insert(395, 0)  // 0: just inside the right edge
	g.Insert(-395, 0) // 1: just inside the left edge
	g.Insert(0, 0)    // 2: far away

	got := g.QueryRadiusInto(nil, 398, 0, 20, -1)
	if len(got) != 2 {
		t.Fatalf("found %d neighbors across the edge, want 2", len(got))
	}
	for _, n := range got {
		if n.Index == 2 {
			t.Error("far entry returned")
		}
		if n.Index == 1 && math.Abs(float64(n.DX-7)) > 1e-3 {
			t.Errorf("wrapped DX = %v, want 7", n.DX)
		}
	}

	if got := g.QueryRadiusInto(nil, 398, 0, 20, 0); len(got) != 1 || got[0].Index != 1 {
		t.Errorf("exclude failed: %+v", got)
	}
}

func TestSpatialGridNearest(t *testing.T) {
	g := NewSpatialGrid(testW, testH, 50)
	g.Insert(30, 0) // 0
	g.Insert(10, 0) // 1
	g.Insert(20, 0) // 2

	n, ok := g.Nearest(0, 0, 50, nil)
	if !ok || n.Index != 1 {
		t.Fatalf("Nearest = %d, %v; want 1, true", n.Index, ok)
	}

	n, ok = g.Nearest(0, 0, 50, func(i int) bool { return i != 1 })
	if !ok || n.Index != 2 {
		t.Errorf("Nearest with filter = %d, %v; want 2, true", n.Index, ok)
	}

	if _, ok := g.Nearest(0, 0, 10, nil); ok {
		t.Error("entry at exactly the radius should not count")
	}
}

func TestSpatialGridSmallWorldVisitsOnce(t *testing.T) {
	// Query square larger than the world must not return duplicates.
	g := NewSpatialGrid(100, 100, 40)
	for i := 0; i < 10; i++ {
		g.Insert(float32(i*10-45), float32(i*10-45))
	}

	got := g.QueryRadiusInto(nil, 0, 0, 500, -1)
	if len(got) != 10 {
		t.Fatalf("got %d results, want 10", len(got))
	}
	seen := make(map[int]bool)
	for _, n := range got {
		if seen[n.Index] {
			t.Fatalf("index %d returned twice", n.Index)
		}
		seen[n.Index] = true
	}
}

func TestSpatialGridClear(t *testing.T) {
	g := NewSpatialGrid(testW, testH, 50)
	g.Insert(0, 0)
	g.Clear()
	if g.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", g.Len())
	}
	if _, ok := g.Nearest(0, 0, 100, nil); ok {
		t.Error("cleared grid returned a neighbor")
	}
}
