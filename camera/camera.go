// Package camera maps the centered toroidal world onto the screen.
package camera

import "math"

// Point is a screen position.
type Point struct {
	X, Y float32
}

// Camera is a view onto a world spanning [-WorldW/2, WorldW/2) x
// [-WorldH/2, WorldH/2) that wraps at the edges. X, Y is the world point
// drawn at the viewport center; Zoom is screen pixels per world unit.
type Camera struct {
	X, Y                 float32
	Zoom                 float32
	MinZoom, MaxZoom     float32
	ViewportW, ViewportH float32
	WorldW, WorldH       float32
}

// New creates a camera on the world origin, zoomed to fit the whole world.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   4.0,
	}
	c.MinZoom = c.fitZoom()
	c.Zoom = c.MinZoom
	return c
}

// fitZoom is the zoom at which the whole world fits on screen.
func (c *Camera) fitZoom() float32 {
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates along the
// shortest wrapped path from the camera center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)
	return c.ViewportW/2 + dx*c.Zoom, c.ViewportH/2 + dy*c.Zoom
}

// ScreenToWorld converts screen coordinates to wrapped world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom
	return wrapCentered(c.X+dx, c.WorldW), wrapCentered(c.Y+dy, c.WorldH)
}

// Scale converts a world length to screen pixels.
func (c *Camera) Scale(length float32) float32 {
	return length * c.Zoom
}

// IsVisible reports whether a circle of radius at (wx, wy) may overlap the
// viewport. It errs towards true.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return dx >= -halfW && dx <= halfW && dy >= -halfH && dy <= halfH
}

// GhostPositions returns extra screen positions for a circle that straddles
// the wrap seam, so it is drawn on both sides. At most three are returned.
func (c *Camera) GhostPositions(wx, wy, radius float32) []Point {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	// The seam is only on screen when the view covers most of the world.
	if halfW*2+radius < c.WorldW && halfH*2+radius < c.WorldH {
		return nil
	}

	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)
	sx, sy := c.WorldToScreen(wx, wy)

	var hx, vy float32
	horizontal, vertical := false, false
	if dx > c.WorldW/2-radius {
		hx, horizontal = c.ViewportW/2+(dx-c.WorldW)*c.Zoom, true
	} else if dx < -c.WorldW/2+radius {
		hx, horizontal = c.ViewportW/2+(dx+c.WorldW)*c.Zoom, true
	}
	if dy > c.WorldH/2-radius {
		vy, vertical = c.ViewportH/2+(dy-c.WorldH)*c.Zoom, true
	} else if dy < -c.WorldH/2+radius {
		vy, vertical = c.ViewportH/2+(dy+c.WorldH)*c.Zoom, true
	}

	var ghosts []Point
	if horizontal {
		ghosts = append(ghosts, Point{hx, sy})
	}
	if vertical {
		ghosts = append(ghosts, Point{sx, vy})
	}
	if horizontal && vertical {
		ghosts = append(ghosts, Point{hx, vy})
	}
	return ghosts
}

// Resize adopts a new viewport size. The zoom floor follows the fit zoom.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.Zoom = max(c.Zoom, c.MinZoom)
}

// Pan shifts the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float32) {
	c.X = wrapCentered(c.X+dx/c.Zoom, c.WorldW)
	c.Y = wrapCentered(c.Y+dy/c.Zoom, c.WorldH)
}

// Follow centers the camera on a world position.
func (c *Camera) Follow(wx, wy float32) {
	c.X = wrapCentered(wx, c.WorldW)
	c.Y = wrapCentered(wy, c.WorldH)
}

// SetZoom sets the zoom within [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = min(max(zoom, c.MinZoom), c.MaxZoom)
}

// ZoomBy scales the zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin with the whole world in view.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.Zoom = c.MinZoom
}

// toroidalDelta is the signed shortest offset from from to to on a ring of
// the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// wrapCentered maps x into [-size/2, size/2).
func wrapCentered(x, size float32) float32 {
	r := float32(math.Mod(float64(x+size/2), float64(size)))
	if r < 0 {
		r += size
	}
	return r - size/2
}
