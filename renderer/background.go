// Package renderer is the raylib viewer: it owns the window loop, draws the
// world through a toroidal camera and routes input to the UI panels.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/camera"
)

// Background colors at full daylight and at the darkest point.
var (
	colorDay   = rl.Color{R: 28, G: 44, B: 38, A: 255}
	colorNight = rl.Color{R: 8, G: 12, B: 22, A: 255}
	colorEdge  = rl.Color{R: 200, G: 200, B: 220, A: 90}
	colorGrid  = rl.Color{R: 255, G: 255, B: 255, A: 18}
)

// BackgroundRenderer clears the screen with a sunlight tint and draws the
// world edge and spatial grid lines.
type BackgroundRenderer struct {
	minLight float32
	cellSize float32
}

// NewBackgroundRenderer creates a background for a light cycle whose
// intensity bottoms out at minLight.
func NewBackgroundRenderer(minLight, cellSize float32) *BackgroundRenderer {
	if minLight >= 1 {
		minLight = 0
	}
	return &BackgroundRenderer{minLight: minLight, cellSize: cellSize}
}

// Clear fills the screen with a color blended between night and day.
func (b *BackgroundRenderer) Clear(sunlight float32) {
	t := (sunlight - b.minLight) / (1 - b.minLight)
	rl.ClearBackground(lerpColor(colorNight, colorDay, t))
}

// DrawEdge draws the lines where the world wraps.
func (b *BackgroundRenderer) DrawEdge(cam *camera.Camera) {
	b.drawLines(cam, cam.WorldW, cam.WorldH, colorEdge)
}

// DrawGrid draws the spatial grid cell boundaries.
func (b *BackgroundRenderer) DrawGrid(cam *camera.Camera) {
	if b.cellSize <= 0 || cam.Scale(b.cellSize) < 8 {
		return
	}
	b.drawLines(cam, b.cellSize, b.cellSize, colorGrid)
}

// drawLines draws world-fixed lines every stepX and stepY units, starting
// at the world edge.
func (b *BackgroundRenderer) drawLines(cam *camera.Camera, stepX, stepY float32, color rl.Color) {
	halfW, halfH := cam.WorldW/2, cam.WorldH/2
	sw, sh := int32(cam.ViewportW), int32(cam.ViewportH)

	for x := -halfW; x < halfW; x += stepX {
		if !cam.IsVisible(x, cam.Y, 0) {
			continue
		}
		sx, _ := cam.WorldToScreen(x, cam.Y)
		rl.DrawLine(int32(sx), 0, int32(sx), sh, color)
	}
	for y := -halfH; y < halfH; y += stepY {
		if !cam.IsVisible(cam.X, y, 0) {
			continue
		}
		_, sy := cam.WorldToScreen(cam.X, y)
		rl.DrawLine(0, int32(sy), sw, int32(sy), color)
	}
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
