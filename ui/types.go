// Package ui draws the viewer's panels: HUD, controls, performance and overlays.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
)

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
)

// Place returns the top-left corner of a w x h panel anchored on a screen.
func (a PanelAnchor) Place(w, h, screenW, screenH, margin int32) (x, y int32) {
	switch a {
	case AnchorTopRight:
		return screenW - w - margin, margin
	case AnchorBottomLeft:
		return margin, screenH - h - margin
	default:
		return margin, margin
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// Species colors shared by organism drawing, the HUD and the history graph.
var (
	ColorPlant     = rl.Color{R: 60, G: 170, B: 70, A: 255}
	ColorPrey      = rl.Color{R: 90, G: 150, B: 235, A: 255}
	ColorPredator  = rl.Color{R: 225, G: 70, B: 60, A: 255}
	ColorScavenger = rl.Color{R: 200, G: 160, B: 60, A: 255}
	ColorCorpse    = rl.Color{R: 130, G: 110, B: 100, A: 255}
)

// KindColor returns the display color for an organism kind.
func KindColor(kind components.Kind) rl.Color {
	switch kind {
	case components.KindPlant:
		return ColorPlant
	case components.KindPrey:
		return ColorPrey
	case components.KindPredator:
		return ColorPredator
	case components.KindScavenger:
		return ColorScavenger
	default:
		return ColorCorpse
	}
}

// Fade scales a color's alpha by f in [0, 1].
func Fade(c rl.Color, f float32) rl.Color {
	c.A = uint8(float32(c.A) * min(max(f, 0), 1))
	return c
}

// BodyRadius returns the drawn radius in world units for an organism.
func BodyRadius(kind components.Kind, size float32) float32 {
	switch kind {
	case components.KindPlant:
		return 3 * size
	case components.KindPredator:
		return 4 * size
	default:
		return 3.5 * size
	}
}
