package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/inspector"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/ui"
)

// maxFrameDT caps the step size after a stalled frame.
const maxFrameDT = 0.05

const controlsLegend = "[Space] pause  [N] step  [,/.] speed  [Arrows] pan  [Wheel/+/-] zoom  [Home] center  [F] follow  [Tab] panel"

// Viewer draws a running simulation and handles user input.
// The window must be open before NewViewer is called.
type Viewer struct {
	sim *game.Simulation

	camera     *camera.Camera
	background *BackgroundRenderer
	organisms  *OrganismRenderer

	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector
	history   *inspector.HistoryPanel

	state     ui.ControlState
	following bool
	stepOnce  bool

	screenWidth, screenHeight float32
}

// NewViewer creates a viewer for sim sized to the current window.
func NewViewer(sim *game.Simulation) *Viewer {
	cfg := sim.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	hud := ui.NewHUD(10, 10, 260)
	v := &Viewer{
		sim:    sim,
		camera: camera.New(w, h, cfg.Derived.WorldW32, cfg.Derived.WorldH32),
		background: NewBackgroundRenderer(
			float32(cfg.Sunlight.Baseline-cfg.Sunlight.Amplitude),
			float32(cfg.Physics.GridCellSize),
		),
		organisms:    &OrganismRenderer{},
		hud:          hud,
		controls:     ui.NewControlsPanel(10, 10+hud.Height()+10, 260),
		overlays:     ui.NewOverlayRegistry(),
		inspector:    inspector.NewInspector(int32(w), int32(h)),
		history:      inspector.NewHistoryPanel(int32(w), int32(h)),
		state:        ui.ControlState{Speed: 1},
		screenWidth:  w,
		screenHeight: h,
	}
	v.perfPanel = ui.NewPerfPanel(int32(w)-inspector.PanelWidth-280, 10, systems.NewSystemRegistry())
	return v
}

// Update handles input and advances the simulation by the elapsed frame time.
func (v *Viewer) Update() {
	v.handleInput()

	if !v.state.Paused || v.stepOnce {
		dt := rl.GetFrameTime()
		if dt <= 0 || dt > maxFrameDT {
			dt = maxFrameDT
		}
		if v.stepOnce {
			dt = v.sim.Config().Derived.DT32
		}
		steps := v.state.Speed
		if v.stepOnce {
			steps = 1
		}
		for i := 0; i < steps; i++ {
			v.sim.Step(dt)
		}
		v.stepOnce = false
	}

	v.inspector.Refresh(v.sim)
	if sel, ok := v.inspector.Selected(); ok && v.following {
		v.camera.Follow(sel.X, sel.Y)
	} else if !ok {
		v.following = false
	}
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	v.background.Clear(v.sim.Sunlight())

	if v.overlays.IsEnabled(ui.OverlayGrid) {
		v.background.DrawGrid(v.camera)
	}
	if v.overlays.IsEnabled(ui.OverlayWorldEdge) {
		v.background.DrawEdge(v.camera)
	}

	v.organisms.ShowVision = v.overlays.IsEnabled(ui.OverlayVisionAll)
	v.organisms.ShowHuntLines = v.overlays.IsEnabled(ui.OverlayHuntLines)
	v.organisms.Draw(v.sim, v.camera)
	v.inspector.DrawSelectionHighlight(v.camera, v.overlays.IsEnabled(ui.OverlayVisionSel))

	v.hud.Draw(ui.HUDData{
		Stats:    v.sim.Stats(),
		Tick:     v.sim.Tick(),
		Elapsed:  v.sim.Elapsed(),
		Sunlight: v.sim.Sunlight(),
		Speed:    v.state.Speed,
		FPS:      float64(rl.GetFPS()),
		Paused:   v.state.Paused,
		Seed:     v.sim.Seed(),
	})
	action := v.controls.Draw(&v.state, v.overlays)
	if action.StepOnce {
		v.stepOnce = true
	}
	if action.ResetCamera {
		v.following = false
		v.camera.Reset()
	}

	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.sim.Perf())
	}
	if v.overlays.IsEnabled(ui.OverlayHistoryGraph) {
		v.history.Draw(v.sim.History())
	}
	v.inspector.Draw(v.sim)
	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)

	rl.EndDrawing()
	v.sim.RecordFrame()
}
