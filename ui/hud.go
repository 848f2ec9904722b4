package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Stats    telemetry.PopulationStats
	Tick     int32
	Elapsed  float64
	Sunlight float32
	Speed    int
	FPS      float64
	Paused   bool
	Seed     int64
}

// HUD renders the population and clock panel.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD panel at the given position.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Height is the panel's fixed height.
func (h *HUD) Height() int32 {
	t := h.renderer.Theme
	return t.Padding*2 + t.LineHeight*10 + 6
}

// Draw renders the HUD and returns the Y below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	pad := r.Theme.Padding
	inner := h.width - pad*2

	r.DrawPanel(h.x, h.y, h.width, h.Height())
	y := h.y + pad

	status := "running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(fmt.Sprintf("Ecosystem  [%s]", status), h.x+pad, y, 16, rl.White)
	y += r.Theme.LineHeight + 6

	largest := 1
	for _, kind := range components.LivingKinds {
		if n := data.Stats.Count(kind); n > largest {
			largest = n
		}
	}
	for _, kind := range components.LivingKinds {
		y = r.DrawSwatchCount(h.x+pad, y, KindColor(kind), kind.String(), data.Stats.Count(kind), largest, inner)
	}
	y = r.DrawSwatchCount(h.x+pad, y, ColorCorpse, "corpse", data.Stats.Corpses, largest, inner)

	y = r.DrawRatioBar(h.x+pad, y, "Sunlight", data.Sunlight, inner)
	y = r.DrawLabelValue(h.x+pad, y, "Time", fmt.Sprintf("%.1fs (tick %d)", data.Elapsed, data.Tick))
	y = r.DrawLabelValue(h.x+pad, y, "Speed", fmt.Sprintf("%dx  %.0f fps", data.Speed, data.FPS))
	y = r.DrawLabelValue(h.x+pad, y, "Seed", fmt.Sprintf("%d", data.Seed))

	return y + pad
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32, registry *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), registry: registry, x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases grouped by category in
// tick order. Phases that did not run in the window are left out.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	type group struct {
		name   string
		phases []systems.SystemInfo
	}
	var groups []group
	rows := 0
	for _, cat := range p.registry.Categories() {
		var ran []systems.SystemInfo
		for _, info := range p.registry.ByCategory(cat) {
			if _, ok := stats.PhaseAvg[info.ID]; ok {
				ran = append(ran, info)
			}
		}
		if len(ran) > 0 {
			groups = append(groups, group{cat, ran})
			rows += 1 + len(ran)
		}
	}

	width := int32(260)
	height := int32(64 + 14*rows)
	p.renderer.DrawPanel(p.x, p.y, width, height)

	x := p.x + 10
	y := p.y + 8
	rl.DrawText("System Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Tick: %s  TPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 12, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Frame: %s  FPS: %.0f", stats.FrameDuration.Round(time.Microsecond), stats.FPS),
		x, y, 12, rl.Yellow)
	y += 16

	for _, g := range groups {
		rl.DrawText(g.name, x, y, 12, p.renderer.Theme.SectionHeader)
		y += 14
		for _, info := range g.phases {
			pct := stats.PhasePct[info.ID]
			color := rl.LightGray
			if pct > 40 {
				color = rl.Red
			} else if pct > 20 {
				color = rl.Orange
			}
			rl.DrawText(
				fmt.Sprintf("  %-10s %8s %5.1f%%", info.Name, stats.PhaseAvg[info.ID].Round(time.Microsecond), pct),
				x, y, 12, color,
			)
			y += 14
		}
	}
}
