package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/ui"
)

var colorHuntLine = rl.Color{R: 255, G: 90, B: 70, A: 120}

// OrganismRenderer draws organisms and corpses.
type OrganismRenderer struct {
	ShowVision    bool
	ShowHuntLines bool
}

// Draw renders every organism visible through the camera. Organisms that
// straddle the world edge are drawn on both sides.
func (r *OrganismRenderer) Draw(sim *game.Simulation, cam *camera.Camera) {
	sim.EachOrganism(func(v game.OrganismView) {
		radius := ui.BodyRadius(v.Kind, v.Size)
		if !cam.IsVisible(v.X, v.Y, radius+v.Vision) {
			return
		}
		sx, sy := cam.WorldToScreen(v.X, v.Y)
		r.drawOne(v, sx, sy, cam)
		for _, g := range cam.GhostPositions(v.X, v.Y, radius) {
			r.drawOne(v, g.X, g.Y, cam)
		}
	})
}

func (r *OrganismRenderer) drawOne(v game.OrganismView, sx, sy float32, cam *camera.Camera) {
	radius := cam.Scale(ui.BodyRadius(v.Kind, v.Size))
	if radius < 1.5 {
		radius = 1.5
	}
	center := rl.Vector2{X: sx, Y: sy}

	switch v.Kind {
	case components.KindPlant:
		color := ui.KindColor(v.Kind)
		rl.DrawCircleV(center, radius, ui.Fade(color, 0.5+0.5*energyShade(v.Energy, 150)))

	case components.KindCorpse:
		// Corpses keep a tint of their species and fade as they decay.
		color := lerpColor(ui.ColorCorpse, ui.KindColor(v.Origin), 0.35)
		rl.DrawCircleV(center, radius, ui.Fade(color, 0.15+0.7*v.Fade))
		rl.DrawCircleLines(int32(sx), int32(sy), radius, ui.Fade(rl.Black, v.Fade))

	default:
		if r.ShowVision && v.Vision > 0 {
			rl.DrawCircleLines(int32(sx), int32(sy), cam.Scale(v.Vision), ui.Fade(ui.KindColor(v.Kind), 0.2))
		}
		if r.ShowHuntLines && v.Hunting {
			tx, ty := cam.WorldToScreen(v.TargetX, v.TargetY)
			rl.DrawLineV(center, rl.Vector2{X: tx, Y: ty}, colorHuntLine)
		}
		heading := float32(math.Atan2(float64(v.VY), float64(v.VX)))
		drawOrientedTriangle(sx, sy, heading, radius, ui.KindColor(v.Kind))
	}
}

// energyShade maps energy to [0, 1] against a reference level.
func energyShade(energy, ref float32) float32 {
	s := energy / ref
	if s > 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	front := rl.Vector2{X: x + cos*radius*1.5, Y: y + sin*radius*1.5}

	backAngle := float64(heading) + math.Pi*0.8
	backLeft := rl.Vector2{
		X: x + float32(math.Cos(backAngle))*radius,
		Y: y + float32(math.Sin(backAngle))*radius,
	}
	backAngle = float64(heading) - math.Pi*0.8
	backRight := rl.Vector2{
		X: x + float32(math.Cos(backAngle))*radius,
		Y: y + float32(math.Sin(backAngle))*radius,
	}

	// DrawTriangle requires counter-clockwise winding
	rl.DrawTriangle(front, backRight, backLeft, color)
	rl.DrawTriangleLines(front, backLeft, backRight, ui.Fade(rl.White, 0.6))
}
