package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable overlay.
type OverlayID string

const (
	OverlayHistoryGraph OverlayID = "history_graph"
	OverlayPerf         OverlayID = "perf"
	OverlayVisionAll    OverlayID = "vision_all"
	OverlayVisionSel    OverlayID = "vision_selected"
	OverlayHuntLines    OverlayID = "hunt_lines"
	OverlayWorldEdge    OverlayID = "world_edge"
	OverlayGrid         OverlayID = "spatial_grid"
)

// OverlayDescriptor describes one overlay. Key is a letter key code;
// enabling the overlay disables Excludes.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Category string
	Key      int32
	Excludes OverlayID
	Default  bool
}

// KeyLabel returns the toggle key as printed on the keyboard.
func (d OverlayDescriptor) KeyLabel() string {
	if d.Key < rl.KeyA || d.Key > rl.KeyZ {
		return "-"
	}
	return string(rune(d.Key))
}

// defaultOverlays are listed in panel order, grouped by category.
var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayHistoryGraph, Name: "History Graph", Category: "panels", Key: rl.KeyG, Default: true},
	{ID: OverlayPerf, Name: "Performance", Category: "panels", Key: rl.KeyP},
	{ID: OverlayVisionSel, Name: "Vision (selected)", Category: "perception", Key: rl.KeyV, Excludes: OverlayVisionAll, Default: true},
	{ID: OverlayVisionAll, Name: "Vision (all)", Category: "perception", Key: rl.KeyA, Excludes: OverlayVisionSel},
	{ID: OverlayHuntLines, Name: "Hunt Lines", Category: "perception", Key: rl.KeyH},
	{ID: OverlayWorldEdge, Name: "World Edge", Category: "debug", Key: rl.KeyE, Default: true},
	{ID: OverlayGrid, Name: "Spatial Grid", Category: "debug", Key: rl.KeyX},
}

// OverlayRegistry tracks which overlays are on.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     []bool
}

// NewOverlayRegistry returns the default overlays in their default state.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{
		descriptors: defaultOverlays,
		enabled:     make([]bool, len(defaultOverlays)),
	}
	for i, d := range r.descriptors {
		r.enabled[i] = d.Default
	}
	return r
}

func (r *OverlayRegistry) index(id OverlayID) int {
	return slices.IndexFunc(r.descriptors, func(d OverlayDescriptor) bool { return d.ID == id })
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.SetEnabled(id, !r.enabled[i])
	return r.enabled[i]
}

// SetEnabled sets an overlay, switching off the one it excludes.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.enabled[i] = on
	if ex := r.index(r.descriptors[i].Excludes); on && ex >= 0 {
		r.enabled[ex] = false
	}
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	i := r.index(id)
	return i >= 0 && r.enabled[i]
}

// Categories returns each category once, in panel order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.descriptors {
		if !slices.Contains(cats, d.Category) {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// ByCategory returns the overlays in one category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, d := range r.descriptors {
		if d.Key != 0 && rl.IsKeyPressed(d.Key) {
			r.Toggle(d.ID)
		}
	}
}
