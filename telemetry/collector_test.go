package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10, 1.0/60)
	if c.WindowDurationTicks() != 600 {
		t.Fatalf("WindowDurationTicks() = %d, want 600", c.WindowDurationTicks())
	}

	c.RecordBirths(components.KindPrey, 3)
	c.RecordDeaths(components.KindPredator, 2)
	c.RecordCauses(1, 1)
	c.RecordFeeding(5, 4, 1)
	c.RecordDecay(2)

	if c.ShouldFlush(599) {
		t.Error("ShouldFlush(599) = true before the window ends")
	}
	if !c.ShouldFlush(600) {
		t.Fatal("ShouldFlush(600) = false at the window end")
	}

	var sample Sample
	sample.Add(components.KindPredator, 1, 100, 80)
	pop := PopulationStats{Prey: 10, Predators: 2}
	stats := c.Flush(600, 10, pop, &sample, 0.5)

	if stats.PreyBirths != 3 || stats.PredDeaths != 2 {
		t.Errorf("births/deaths = %d/%d, want 3/2", stats.PreyBirths, stats.PredDeaths)
	}
	if stats.Kills != 4 || stats.KillsPerPred != 2 {
		t.Errorf("kills = %d (%.1f per predator), want 4 (2.0)", stats.Kills, stats.KillsPerPred)
	}
	if stats.PredEnergyMean != 80 {
		t.Errorf("PredEnergyMean = %v, want 80", stats.PredEnergyMean)
	}

	// Counters reset and the next window starts at the flush tick
	next := c.Flush(1200, 20, pop, &sample, 0.5)
	if next.PreyBirths != 0 || next.Kills != 0 {
		t.Error("counters not reset after flush")
	}
	if next.WindowStartTick != 600 {
		t.Errorf("WindowStartTick = %d, want 600", next.WindowStartTick)
	}
}

func TestCollectorNoPredators(t *testing.T) {
	c := NewCollector(1, 1.0/60)
	c.RecordFeeding(0, 3, 0)
	var sample Sample
	stats := c.Flush(60, 1, PopulationStats{}, &sample, 1)
	if stats.KillsPerPred != 0 {
		t.Errorf("KillsPerPred = %v with no predators, want 0", stats.KillsPerPred)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := om.WriteHistory(Snapshot{Tick: int32(i * 60), Prey: 10}); err != nil {
			t.Fatalf("WriteHistory: %v", err)
		}
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 600}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "history.csv"))
	if err != nil {
		t.Fatalf("reading history.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("history.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick,time,plants,prey") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteHistory(Snapshot{}); err != nil {
		t.Errorf("nil manager WriteHistory: %v", err)
	}
}
