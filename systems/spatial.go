// Package systems provides ECS systems for the simulation.
package systems

import "math"

// Neighbor holds a nearby snapshot entry with precomputed spatial data.
type Neighbor struct {
	Index  int     // index into the snapshot the grid was built from
	DX, DY float32 // toroidal delta from query origin
	DistSq float32
}

// Dist returns the neighbor distance.
func (n Neighbor) Dist() float32 {
	return float32(math.Sqrt(float64(n.DistSq)))
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid.
// It indexes snapshot positions in the centered world and wraps at the edges.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	xs, ys   []float32 // positions by snapshot index
	cells    [][]int32
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width / cellSize)
	rows := int(height / cellSize)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.xs = g.xs[:0]
	g.ys = g.ys[:0]
}

// Insert adds the next snapshot entry at the given position. Entries must be
// inserted in snapshot order so their index matches.
func (g *SpatialGrid) Insert(x, y float32) {
	idx := int32(len(g.xs))
	g.xs = append(g.xs, x)
	g.ys = append(g.ys, y)
	col, row := g.cellOf(x, y)
	c := row*g.cols + col
	g.cells[c] = append(g.cells[c], idx)
}

// Len returns the number of inserted entries.
func (g *SpatialGrid) Len() int {
	return len(g.xs)
}

// MaxQueryResults caps the number of neighbors returned by radius queries.
// This prevents density spikes from causing unbounded work.
const MaxQueryResults = 128

// QueryRadiusInto finds entries within radius and appends to dst (up to MaxQueryResults).
// exclude is a snapshot index to skip, or -1.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude int) []Neighbor {
	radiusSq := radius * radius
	g.visit(x, y, radius, func(i int) bool {
		if i == exclude {
			return true
		}
		dx, dy := ToroidalDelta(x, y, g.xs[i], g.ys[i], g.width, g.height)
		distSq := dx*dx + dy*dy
		if distSq <= radiusSq {
			dst = append(dst, Neighbor{Index: i, DX: dx, DY: dy, DistSq: distSq})
			if len(dst) >= MaxQueryResults {
				return false
			}
		}
		return true
	})
	return dst
}

// Nearest returns the closest entry strictly within radius that passes accept.
// accept may be nil.
func (g *SpatialGrid) Nearest(x, y, radius float32, accept func(i int) bool) (Neighbor, bool) {
	best := Neighbor{Index: -1}
	bestSq := radius * radius
	g.visit(x, y, radius, func(i int) bool {
		dx, dy := ToroidalDelta(x, y, g.xs[i], g.ys[i], g.width, g.height)
		distSq := dx*dx + dy*dy
		if distSq >= bestSq {
			return true
		}
		if accept != nil && !accept(i) {
			return true
		}
		best = Neighbor{Index: i, DX: dx, DY: dy, DistSq: distSq}
		bestSq = distSq
		return true
	})
	return best, best.Index >= 0
}

// visit calls fn for every entry in the cells overlapping the query square,
// each cell once even when the square wraps the whole world. fn returns false to stop.
func (g *SpatialGrid) visit(x, y, radius float32, fn func(i int) bool) {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cellOf(x, y)

	colSpan := 2*cellRadius + 1
	colStart := centerCol - cellRadius
	if colSpan >= g.cols {
		colSpan, colStart = g.cols, 0
	}
	rowSpan := 2*cellRadius + 1
	rowStart := centerRow - cellRadius
	if rowSpan >= g.rows {
		rowSpan, rowStart = g.rows, 0
	}

	for dc := 0; dc < colSpan; dc++ {
		col := mod(colStart+dc, g.cols)
		for dr := 0; dr < rowSpan; dr++ {
			row := mod(rowStart+dr, g.rows)
			for _, i := range g.cells[row*g.cols+col] {
				if !fn(int(i)) {
					return
				}
			}
		}
	}
}

// cellOf returns the cell for a centered world position.
func (g *SpatialGrid) cellOf(x, y float32) (col, row int) {
	col = int((x + g.width/2) / g.cellSize)
	row = int((y + g.height/2) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// Wrap keeps a coordinate pair inside [-w/2, w/2] x [-h/2, h/2].
// A coordinate past one edge reappears exactly at the opposite edge.
func Wrap(x, y, w, h float32) (float32, float32) {
	halfW, halfH := w/2, h/2
	if x > halfW {
		x = -halfW
	} else if x < -halfW {
		x = halfW
	}
	if y > halfH {
		y = -halfH
	} else if y < -halfH {
		y = halfH
	}
	return x, y
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float32) (dx, dy float32) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}

// ToroidalDistance returns the length of the shortest wrapped path between two points.
func ToroidalDistance(x1, y1, x2, y2, w, h float32) float32 {
	dx, dy := ToroidalDelta(x1, y1, x2, y2, w, h)
	return length(dx, dy)
}
