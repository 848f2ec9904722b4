package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSpeed is the largest steps-per-frame multiplier the slider offers.
const MaxSpeed = 10

// ControlState is what the controls panel reads and edits.
type ControlState struct {
	Paused bool
	Speed  int
}

// ControlAction reports one-shot button presses.
type ControlAction struct {
	StepOnce    bool
	ResetCamera bool
}

// ControlsPanel renders the raygui controls and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlsPanel) Contains(px, py float32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	h := c.height(overlays)
	return px >= float32(c.x) && px <= float32(c.x+c.width) && py >= float32(c.y) && py <= float32(c.y+h)
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(0)
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat)))
		rows++
	}
	return t.Padding*2 + 30 + 30 + rows*(t.LineHeight+4)
}

// Draw renders the panel, updating state in place.
func (c *ControlsPanel) Draw(state *ControlState, overlays *OverlayRegistry) ControlAction {
	var action ControlAction
	if !c.visible {
		return action
	}

	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	w := float32(c.width - pad*2)

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	third := (w - 8) / 3
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: third, Height: 22}, pauseText) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + third + 4, Y: y, Width: third, Height: 22}, "Step") {
		action.StepOnce = true
	}
	if gui.Button(rl.Rectangle{X: x + 2*(third+4), Y: y, Width: third, Height: 22}, "Center") {
		action.ResetCamera = true
	}
	y += 30

	speed := gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: y, Width: w - 80, Height: 18},
		"Speed", fmt.Sprintf("%dx", state.Speed),
		float32(state.Speed), 1, MaxSpeed,
	)
	state.Speed = int(speed + 0.5)
	y += 30

	for _, cat := range overlays.Categories() {
		y = float32(r.DrawSectionHeader(int32(x), int32(y), cat))
		for _, desc := range overlays.ByCategory(cat) {
			label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel())
			if overlays.IsEnabled(desc.ID) {
				label = "* " + label
			}
			if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: float32(r.Theme.LineHeight + 2)}, label) {
				overlays.Toggle(desc.ID)
			}
			y += float32(r.Theme.LineHeight + 4)
		}
	}
	return action
}
