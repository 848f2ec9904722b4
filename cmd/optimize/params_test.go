package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.ExtractFromConfig(config.MustDefault())
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsWithinBounds(t *testing.T) {
	pv := NewParamVector()
	raw := pv.ExtractFromConfig(config.MustDefault())
	for i, spec := range pv.Specs {
		if raw[i] < spec.Min || raw[i] > spec.Max {
			t.Errorf("%s default %v outside [%v, %v]", spec.Name, raw[i], spec.Min, spec.Max)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.MustDefault()

	values := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		values[i] = spec.Max + 1000
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s = %v, want clamped to %v", spec.Name, got[i], spec.Max)
		}
	}
}

func TestCopyConfigIsIndependent(t *testing.T) {
	base := config.MustDefault()
	fe := NewFitnessEvaluator(NewParamVector(), 10, []int64{1}, base)

	cp := fe.copyConfig()
	cp.Energy.MoveCost = 123
	if base.Energy.MoveCost == 123 {
		t.Error("copy shares energy settings with base")
	}
	if len(cp.Lifecycle.Species) > 0 {
		cp.Lifecycle.Species[0] = "changed"
		if base.Lifecycle.Species[0] == "changed" {
			t.Error("copy shares lifecycle species slice with base")
		}
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 10)
	for i := range steady {
		steady[i] = telemetry.WindowStats{PreyCount: 100, PredCount: 10, KillsPerPred: 1}
	}
	collapsed := make([]telemetry.WindowStats, 10)
	for i := range collapsed {
		collapsed[i] = telemetry.WindowStats{PreyCount: 100, PredCount: 1}
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		wantMin float64
		wantMax float64
	}{
		{"too few windows", steady[:2], 0, 0},
		{"no predators", collapsed, 0, 0},
		{"steady target ratio", steady, 0.9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeQuality(tt.windows)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("computeQuality = %v, want in [%v, %v]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestFitnessPrefersLongerSurvival(t *testing.T) {
	if fitnessOf(100, 1) >= fitnessOf(50, 1) {
		t.Error("longer survival should score lower")
	}
	if fitnessOf(100, 1) >= fitnessOf(100, 0) {
		t.Error("higher quality should score lower")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{83 * time.Second, "1m23s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
		{1500 * time.Millisecond, "0m02s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEvalLogTracksBest(t *testing.T) {
	var csvOut, term strings.Builder
	pv := NewParamVector()
	l, err := newEvalLog(&csvOut, &term, pv, 10)
	if err != nil {
		t.Fatalf("newEvalLog: %v", err)
	}

	vals := make([]float64, pv.Dim())
	l.record(vals, -100, 100, 0.5)
	l.record(vals, -50, 50, 0.5)
	l.record(vals, -300, 300, 0.5)

	if l.count != 3 || l.bestFitness != -300 {
		t.Errorf("count=%d best=%v, want 3 and -300", l.count, l.bestFitness)
	}
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,survival_sec,quality,energy.prey_from_plant") {
		t.Errorf("unexpected header %q", lines[0])
	}
}
