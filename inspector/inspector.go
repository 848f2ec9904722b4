// Package inspector shows details of a selected organism and the population history.
package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/ui"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// OrganismDetails are the fields shown for every living organism.
type OrganismDetails struct {
	Kind     string  `inspect:"label"`
	Position string  `inspect:"label"`
	Energy   float32 `inspect:"label,fmt:%.1f"`
	Reserve  float32 `inspect:"bar,name:Fullness"`
	Age      float32 `inspect:"label,fmt:%.1fs"`
	Size     float32 `inspect:"label,fmt:%.2f"`
}

// AnimalDetails adds movement fields.
type AnimalDetails struct {
	OrganismDetails
	Heading float32 `inspect:"angle"`
	Speed   string  `inspect:"label"`
	Vision  float32 `inspect:"label,fmt:%.0f"`
}

// PreyDetails adds hunting pressure.
type PreyDetails struct {
	AnimalDetails
	Hunters int `inspect:"label,name:Hunted by"`
}

// PredatorDetails adds the current hunt.
type PredatorDetails struct {
	AnimalDetails
	Hunting bool   `inspect:"bool"`
	Target  string `inspect:"label,omitzero"`
}

// CorpseDetails are the fields shown for a corpse.
type CorpseDetails struct {
	Kind     string  `inspect:"label"`
	Remains  string  `inspect:"label,name:Remains of"`
	Position string  `inspect:"label"`
	Energy   float32 `inspect:"label,fmt:%.1f"`
	Decay    float32 `inspect:"bar,name:Remaining"`
}

// Inspector manages organism selection and panel rendering.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	view        game.OrganismView

	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
	panelHeight  int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel to the top-right corner.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX, ins.panelY = ui.AnchorTopRight.Place(PanelWidth, 0, screenWidth, screenHeight, 10)
}

// HandleInput processes click selection. It returns true when the click
// was consumed by the inspector.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, sim *game.Simulation, cam *camera.Camera) bool {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return false
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
			int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
			ins.Deselect()
			return true
		}
		if int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
			int32(mouseY) >= ins.panelY && int32(mouseY) <= ins.panelY+ins.panelHeight {
			return true
		}
	}

	wx, wy := cam.ScreenToWorld(mouseX, mouseY)
	if v, ok := Pick(sim, wx, wy, 6/cam.Zoom); ok {
		ins.selected = v.Entity
		ins.view = v
		ins.hasSelected = true
		return true
	}
	return false
}

// Pick returns the organism whose body is closest to a world point,
// allowing slack world units beyond the drawn radius.
func Pick(sim *game.Simulation, wx, wy, slack float32) (game.OrganismView, bool) {
	cfg := sim.Config()
	w, h := cfg.Derived.WorldW32, cfg.Derived.WorldH32

	var best game.OrganismView
	bestDist := float32(math.MaxFloat32)
	found := false
	sim.EachOrganism(func(v game.OrganismView) {
		d := systems.ToroidalDistance(wx, wy, v.X, v.Y, w, h)
		if d <= ui.BodyRadius(v.Kind, v.Size)+slack && d < bestDist {
			best, bestDist, found = v, d, true
		}
	})
	return best, found
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.view = game.OrganismView{}
}

// Selected returns the current view of the selected organism.
func (ins *Inspector) Selected() (game.OrganismView, bool) {
	return ins.view, ins.hasSelected
}

// Refresh re-reads the selected organism after a step. A selection whose
// entity was removed is dropped; one that died follows its corpse.
func (ins *Inspector) Refresh(sim *game.Simulation) {
	if !ins.hasSelected {
		return
	}
	found := false
	sim.EachOrganism(func(v game.OrganismView) {
		if v.Entity == ins.selected {
			ins.view = v
			found = true
		}
	})
	if !found {
		ins.Deselect()
	}
}

// details builds the struct whose tagged fields the panel shows.
func (ins *Inspector) details(sim *game.Simulation) interface{} {
	v := ins.view
	pos := fmt.Sprintf("(%.0f, %.0f)", v.X, v.Y)

	if v.Kind == components.KindCorpse {
		return CorpseDetails{
			Kind:     "corpse",
			Remains:  v.Origin.String(),
			Position: pos,
			Energy:   v.Energy,
			Decay:    v.Fade,
		}
	}

	base := OrganismDetails{
		Kind:     v.Kind.String(),
		Position: pos,
		Energy:   v.Energy,
		Age:      v.Age,
		Size:     v.Size,
	}
	if max := float32(sim.Store().Species(v.Kind).MaxEnergy); max > 0 {
		base.Reserve = v.Energy / max
	}
	if !v.Kind.IsAnimal() {
		return base
	}

	speed := float32(math.Hypot(float64(v.VX), float64(v.VY)))
	animal := AnimalDetails{
		OrganismDetails: base,
		Heading:         float32(math.Atan2(float64(v.VY), float64(v.VX))),
		Speed:           fmt.Sprintf("%.0f / %.0f", speed, v.Speed),
		Vision:          v.Vision,
	}
	switch v.Kind {
	case components.KindPrey:
		return PreyDetails{AnimalDetails: animal, Hunters: sim.Hunters(v.Entity)}
	case components.KindPredator:
		d := PredatorDetails{AnimalDetails: animal, Hunting: v.Hunting}
		if v.Hunting {
			d.Target = fmt.Sprintf("(%.0f, %.0f)", v.TargetX, v.TargetY)
		}
		return d
	default:
		return animal
	}
}

// Draw renders the inspector panel if an organism is selected.
func (ins *Inspector) Draw(sim *game.Simulation) {
	if !ins.hasSelected {
		return
	}

	fields := ExtractFields(ins.details(sim))
	height := int32(HeaderHeight + PanelPadding*2 + 22)
	for _, f := range fields {
		height += FieldHeight(f)
	}
	ins.panelHeight = height

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	rl.DrawRectangle(x, y+2, 12, 12, ui.KindColor(ins.view.Kind))
	rl.DrawText(fmt.Sprintf("Entity %d", ins.view.Entity.ID()), x+18, y, 14, ColorHeaderText)
	y += 22

	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

// DrawSelectionHighlight marks the selected organism and optionally its vision radius.
func (ins *Inspector) DrawSelectionHighlight(cam *camera.Camera, showVision bool) {
	if !ins.hasSelected {
		return
	}
	v := ins.view
	if !cam.IsVisible(v.X, v.Y, v.Vision) {
		return
	}
	sx, sy := cam.WorldToScreen(v.X, v.Y)
	r := cam.Scale(ui.BodyRadius(v.Kind, v.Size)*1.8) + 2
	rl.DrawCircleLines(int32(sx), int32(sy), r, rl.Yellow)

	if showVision && v.Vision > 0 {
		color := ui.Fade(ui.KindColor(v.Kind), 0.25)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, cam.Scale(v.Vision), ui.Fade(color, 0.3))
		rl.DrawCircleLines(int32(sx), int32(sy), cam.Scale(v.Vision), color)
	}
}
