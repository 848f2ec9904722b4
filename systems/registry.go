package systems

import "github.com/pthm-cable/ecosim/telemetry"

// SystemInfo describes one tick phase for the perf panel.
type SystemInfo struct {
	ID          string // telemetry phase name
	Name        string
	Description string
	Category    string
}

// phaseTable lists the tick phases in execution order.
var phaseTable = []SystemInfo{
	{telemetry.PhaseEnvironment, "Environment", "Sunlight, plant growth, respawn and immigration", "environment"},
	{telemetry.PhaseSnapshot, "Snapshot", "Freezes positions and rebuilds spatial grids", "core"},
	{telemetry.PhasePreyMovement, "Prey", "Fleeing, flocking, foraging and sprinting", "behavior"},
	{telemetry.PhaseHunting, "Hunting", "Predator targeting and pursuit", "behavior"},
	{telemetry.PhaseScavengerMovement, "Scavengers", "Corpse seeking and waypoint wandering", "behavior"},
	{telemetry.PhaseFeeding, "Feeding", "Grazing, predation and scavenging", "interaction"},
	{telemetry.PhaseLifecycle, "Lifecycle", "Metabolism, aging, reproduction, death and decay", "lifecycle"},
	{telemetry.PhaseStats, "Statistics", "Population counts and history", "core"},
}

// SystemRegistry groups tick phases for display.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry returns a registry over every tick phase.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{systems: phaseTable}
}

// ByCategory returns the phases in category, in tick order.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var out []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			out = append(out, info)
		}
	}
	return out
}

// Categories returns each category once, in order of first appearance.
func (r *SystemRegistry) Categories() []string {
	var cats []string
	for i, info := range r.systems {
		if !containsCategory(r.systems[:i], info.Category) {
			cats = append(cats, info.Category)
		}
	}
	return cats
}

func containsCategory(infos []SystemInfo, category string) bool {
	for _, info := range infos {
		if info.Category == category {
			return true
		}
	}
	return false
}
