package telemetry

import (
	"log/slog"
	"testing"
)

func TestSummarizeEnergy(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   EnergySummary
	}{
		{"empty", nil, EnergySummary{}},
		{"single", []float64{42}, EnergySummary{Mean: 42, P10: 42, P50: 42, P90: 42}},
		{"unsorted deciles", []float64{100, 10, 90, 20, 80, 30, 70, 40, 60, 50},
			EnergySummary{Mean: 55, P10: 10, P50: 50, P90: 90}},
		{"constant", []float64{7, 7, 7, 7}, EnergySummary{Mean: 7, P10: 7, P50: 7, P90: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeEnergy(tt.values); got != tt.want {
				t.Errorf("SummarizeEnergy(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSummarizeEnergyLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	SummarizeEnergy(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered to %v", values)
	}
}

func TestWindowStatsLogValue(t *testing.T) {
	s := WindowStats{WindowEndTick: 600, PreyCount: 12, PredCount: 3}
	v := s.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}
	found := map[string]bool{}
	for _, a := range v.Group() {
		found[a.Key] = true
	}
	for _, key := range []string{"window_end", "prey", "pred", "scavengers", "corpses"} {
		if !found[key] {
			t.Errorf("LogValue missing %q", key)
		}
	}
}
