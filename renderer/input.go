package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/inspector"
	"github.com/pthm-cable/ecosim/ui"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.state.Paused = !v.state.Paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.stepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.state.Speed > 1 {
		v.state.Speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.state.Speed < ui.MaxSpeed {
		v.state.Speed++
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		_, ok := v.inspector.Selected()
		v.following = ok && !v.following
	}
	v.overlays.HandleKeys()

	v.handleCameraInput()

	// Panels take clicks before the world does.
	mouse := rl.GetMousePosition()
	if v.controls.Contains(mouse.X, mouse.Y, v.overlays) {
		return
	}
	if v.overlays.IsEnabled(ui.OverlayHistoryGraph) {
		if v.history.HandleInput() || v.history.Contains(mouse.X, mouse.Y) {
			return
		}
	}
	if v.inspector.HandleInput(mouse.X, mouse.Y, v.sim, v.camera) {
		v.following = false
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.camera.Resize(w, h)
	v.inspector.Resize(int32(w), int32(h))
	v.history.Resize(int32(w), int32(h))
	v.perfPanel.SetPosition(int32(w)-inspector.PanelWidth-280, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	panSpeed := float32(8.0)

	panned := false
	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(panSpeed, 0)
		panned = true
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-panSpeed, 0)
		panned = true
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, panSpeed)
		panned = true
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -panSpeed)
		panned = true
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
		panned = true
	}
	if panned {
		v.following = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.following = false
		v.camera.Reset()
	}
}
