package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawSwatchCount draws a color swatch, a label and a count bar where limit
// fills the bar.
func (r *Renderer) DrawSwatchCount(x, y int32, color rl.Color, label string, count, limit int, width int32) int32 {
	swatch := int32(10)
	rl.DrawRectangle(x, y+1, swatch, swatch, color)
	rl.DrawText(label, x+swatch+6, y, r.Theme.FontSize, r.Theme.LabelColor)

	barX := x + r.Theme.LabelWidth + swatch
	barW := width - r.Theme.LabelWidth - swatch - 50
	rl.DrawRectangle(barX, y+1, barW, r.Theme.BarHeight, r.Theme.BarBg)
	if limit > 0 && count > 0 {
		ratio := min(float32(count)/float32(limit), 1)
		rl.DrawRectangle(barX, y+1, int32(float32(barW)*ratio), r.Theme.BarHeight, color)
	}
	rl.DrawText(fmt.Sprintf("%d", count), barX+barW+6, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawRatioBar draws a [0, 1] bar colored by thresholds.
func (r *Renderer) DrawRatioBar(x, y int32, label string, value float32, width int32) int32 {
	value = min(max(value, 0), 1)
	barX := x + r.Theme.LabelWidth
	barW := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFillHigh
	if value < 0.3 {
		fill = r.Theme.BarFillLow
	} else if value < 0.6 {
		fill = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*value), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}
