package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/ui"
)

// Line series indices
const (
	seriesPlants = iota
	seriesPrey
	seriesPredators
	seriesScavengers
	seriesCorpses
	numSeries
)

// historyWindow is how many of the newest records the graph shows.
const historyWindow = 300

// Graph colors
var (
	colorPanelTitle  = rl.Color{R: 200, G: 200, B: 220, A: 255}
	colorHistoryBg   = rl.Color{R: 20, G: 20, B: 30, A: 230}
	colorGraphBg     = rl.Color{R: 15, G: 15, B: 25, A: 255}
	colorGraphGrid   = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder = rl.Color{R: 60, G: 60, B: 70, A: 255}
)

// HistoryPanel plots population counts over simulated time, so the x axis
// does not track wall-clock time when the viewer runs faster than 1x or is
// paused. Plants use the right axis; animals and corpses share the left one.
type HistoryPanel struct {
	screenWidth  int32
	screenHeight int32

	panelWidth  int32
	panelHeight int32
	panelX      int32
	panelY      int32

	seriesVisible [numSeries]bool
	seriesNames   [numSeries]string
	seriesColors  [numSeries]rl.Color
}

// NewHistoryPanel creates a graph panel anchored to the bottom of the screen.
func NewHistoryPanel(screenWidth, screenHeight int32) *HistoryPanel {
	p := &HistoryPanel{
		panelHeight:   190,
		seriesVisible: [numSeries]bool{true, true, true, true, false},
		seriesNames:   [numSeries]string{"Plants", "Prey", "Predators", "Scavengers", "Corpses"},
		seriesColors:  [numSeries]rl.Color{ui.ColorPlant, ui.ColorPrey, ui.ColorPredator, ui.ColorScavenger, ui.ColorCorpse},
	}
	p.Resize(screenWidth, screenHeight)
	return p
}

// Resize updates panel dimensions when the window is resized.
func (p *HistoryPanel) Resize(screenWidth, screenHeight int32) {
	p.screenWidth = screenWidth
	p.screenHeight = screenHeight
	p.panelWidth = max(screenWidth-PanelWidth-40, 400)
	// Leave room for the key legend under the panel.
	p.panelX, p.panelY = ui.AnchorBottomLeft.Place(p.panelWidth, p.panelHeight+24, screenWidth, screenHeight, 10)
}

// HandleInput toggles series when their legend entry is clicked.
// It returns true when the click landed on the legend.
func (p *HistoryPanel) HandleInput() bool {
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return false
	}
	mx := rl.GetMouseX()
	my := rl.GetMouseY()

	legendY := p.panelY + p.panelHeight - 24
	legendX := p.panelX + 10
	for i := 0; i < numSeries; i++ {
		itemX := legendX + int32(i)*100
		if mx >= itemX && mx < itemX+95 && my >= legendY && my < legendY+18 {
			p.seriesVisible[i] = !p.seriesVisible[i]
			return true
		}
	}
	return false
}

// Contains reports whether a screen point is over the panel.
func (p *HistoryPanel) Contains(x, y float32) bool {
	return x >= float32(p.panelX) && x <= float32(p.panelX+p.panelWidth) &&
		y >= float32(p.panelY) && y <= float32(p.panelY+p.panelHeight)
}

// Draw renders the graph for the newest records.
func (p *HistoryPanel) Draw(history []telemetry.Snapshot) {
	rl.DrawRectangle(p.panelX, p.panelY, p.panelWidth, p.panelHeight, colorHistoryBg)
	rl.DrawRectangleLines(p.panelX, p.panelY, p.panelWidth, p.panelHeight, colorGraphBorder)
	rl.DrawText("POPULATION", p.panelX+10, p.panelY+6, 14, colorPanelTitle)

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) == 0 {
		rl.DrawText("Waiting for data...", p.panelX+100, p.panelY+80, 14, ColorTextDim)
		return
	}
	last := history[len(history)-1]
	rl.DrawText(fmt.Sprintf("t = %.0fs", last.Time), p.panelX+110, p.panelY+6, 12, ColorTextDim)

	p.drawGraph(p.panelX+10, p.panelY+24, p.panelWidth-20, p.panelHeight-54, history)
	p.drawLegend(p.panelX+10, p.panelY+p.panelHeight-24, last)
}

func (p *HistoryPanel) drawGraph(x, y, w, h int32, history []telemetry.Snapshot) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, colorGraphBorder)
	for i := int32(1); i < 4; i++ {
		rl.DrawLine(x, y+h*i/4, x+w, y+h*i/4, colorGraphGrid)
	}
	for i := int32(1); i < 6; i++ {
		rl.DrawLine(x+w*i/6, y, x+w*i/6, y+h, colorGraphGrid)
	}

	if len(history) < 2 {
		return
	}

	animals := []int{seriesPrey, seriesPredators, seriesScavengers, seriesCorpses}
	leftMax := p.seriesMax(history, animals)
	rightMax := p.seriesMax(history, []int{seriesPlants})

	for _, s := range animals {
		if p.seriesVisible[s] {
			p.drawSeriesLine(x, y, w, h, history, s, leftMax)
		}
	}
	if p.seriesVisible[seriesPlants] {
		p.drawSeriesLine(x, y, w, h, history, seriesPlants, rightMax)
	}

	rl.DrawText(fmt.Sprintf("%.0f", leftMax), x+2, y+2, 10, ColorTextDim)
	if p.seriesVisible[seriesPlants] {
		label := fmt.Sprintf("%.0f", rightMax)
		rl.DrawText(label, x+w-rl.MeasureText(label, 10)-2, y+2, 10, ui.ColorPlant)
	}
}

// seriesMax finds the largest visible value, padded by 10%.
func (p *HistoryPanel) seriesMax(history []telemetry.Snapshot, series []int) float64 {
	max := 0.0
	for _, s := range series {
		if !p.seriesVisible[s] {
			continue
		}
		for _, rec := range history {
			max = math.Max(max, seriesValue(rec, s))
		}
	}
	if max <= 0 {
		return 1
	}
	return max * 1.1
}

func (p *HistoryPanel) drawSeriesLine(x, y, w, h int32, history []telemetry.Snapshot, series int, maxVal float64) {
	color := p.seriesColors[series]
	n := len(history)

	var prevX, prevY int32
	for i, rec := range history {
		px := x + int32(float64(i)*float64(w)/float64(n-1))
		py := y + h - int32(seriesValue(rec, series)/maxVal*float64(h))
		if py < y {
			py = y
		}
		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, color)
		}
		prevX, prevY = px, py
	}
}

func (p *HistoryPanel) drawLegend(x, y int32, last telemetry.Snapshot) {
	for i := 0; i < numSeries; i++ {
		itemX := x + int32(i)*100
		color := p.seriesColors[i]
		textColor := ColorText
		if !p.seriesVisible[i] {
			color.A = 80
			textColor = ColorTextDim
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, color)
		rl.DrawText(fmt.Sprintf("%s %d", p.seriesNames[i], int(seriesValue(last, i))), itemX+14, y, 11, textColor)
	}
}

func seriesValue(rec telemetry.Snapshot, series int) float64 {
	switch series {
	case seriesPlants:
		return float64(rec.Plants)
	case seriesPrey:
		return float64(rec.Prey)
	case seriesPredators:
		return float64(rec.Predators)
	case seriesScavengers:
		return float64(rec.Scavengers)
	default:
		return float64(rec.Corpses)
	}
}
