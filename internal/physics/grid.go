package physics

import (
	"math"
	"slices"
)

// SpatialGrid is a uniform grid for broad-phase collision detection over a
// bounded playfield. Items are inserted by centre position and index, then
// nearby items can be queried via a 3x3 cell neighbourhood lookup.
//
// Cell size must be >= the largest centre-to-centre distance at which two
// boxes can still overlap on one axis, so that every overlap is found
// within the neighbourhood. Positions outside the playfield clamp to the
// edge cells.
type SpatialGrid struct {
	origin      Vec2
	invCellSize float64 // 1 / cell size (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of items whose centre falls within the cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering bounds.
func NewSpatialGrid(bounds Rect, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(bounds.W / cellSize))
	rows := int(math.Ceil(bounds.H / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		origin:      Vec2{X: bounds.X, Y: bounds.Y},
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p Vec2, index int) {
	col, row := g.posToCell(p)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighbourhood
// around p. If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p Vec2, fn func(index int) bool) {
	col, row := g.posToCell(p)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// Candidates appends the indices near p to buf in ascending order, so
// callers can scan them in insertion order.
func (g *SpatialGrid) Candidates(p Vec2, buf []int) []int {
	buf = buf[:0]
	g.QueryAround(p, func(index int) bool {
		buf = append(buf, index)
		return false
	})
	slices.Sort(buf)
	return buf
}

// posToCell converts a position to grid cell coordinates, clamping to the
// valid range. Clamping never moves two points further apart in cell
// space, so neighbourhood queries stay complete for off-field items.
func (g *SpatialGrid) posToCell(p Vec2) (col, row int) {
	col = int(math.Floor((p.X - g.origin.X) * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor((p.Y - g.origin.Y) * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
