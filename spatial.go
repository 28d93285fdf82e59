package main

import "math"

// DefaultCellSize is roughly 2x the largest entity extent (UFO width 48),
// keeping most entities in a single cell without packing too many
// entities per cell.
const DefaultCellSize = 96.0

type cellKey struct {
	CX, CY int
}

// SpatialGrid is a uniform hash grid for broad-phase collision queries.
// An entity spanning several cells is referenced from every cell its
// bounding box overlaps; cells are created on first insert and pruned
// when their last occupant leaves.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey]map[string]Collidable
}

// NewSpatialGrid creates an empty grid with the given cell size.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[string]Collidable),
	}
}

// cellRange returns the inclusive cell coordinate range spanned by a box.
func (g *SpatialGrid) cellRange(b Box) (minCX, minCY, maxCX, maxCY int) {
	minCX = int(math.Floor(b.X / g.cellSize))
	minCY = int(math.Floor(b.Y / g.cellSize))
	maxCX = int(math.Floor((b.X + b.W) / g.cellSize))
	maxCY = int(math.Floor((b.Y + b.H) / g.cellSize))
	return
}

// Insert adds an entity to every cell its bounding box overlaps.
func (g *SpatialGrid) Insert(e Collidable) {
	minCX, minCY, maxCX, maxCY := g.cellRange(e.Bounds())
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			g.addToCell(cellKey{cx, cy}, e)
		}
	}
}

// Remove takes an entity out of every cell it occupies, recomputed from
// its current position. Empty cells are pruned.
func (g *SpatialGrid) Remove(e Collidable) {
	minCX, minCY, maxCX, maxCY := g.cellRange(e.Bounds())
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			g.removeFromCell(cellKey{cx, cy}, e)
		}
	}
}

// Update reconciles cell membership after an entity moved from
// (oldX, oldY) to its current position. Cells occupied both before and
// after the move are left untouched.
func (g *SpatialGrid) Update(e Collidable, oldX, oldY float64) {
	cur := e.Bounds()
	old := Box{X: oldX, Y: oldY, W: cur.W, H: cur.H}

	oMinX, oMinY, oMaxX, oMaxY := g.cellRange(old)
	nMinX, nMinY, nMaxX, nMaxY := g.cellRange(cur)

	if oMinX == nMinX && oMinY == nMinY && oMaxX == nMaxX && oMaxY == nMaxY {
		return
	}

	for cy := oMinY; cy <= oMaxY; cy++ {
		for cx := oMinX; cx <= oMaxX; cx++ {
			if cx >= nMinX && cx <= nMaxX && cy >= nMinY && cy <= nMaxY {
				continue // still occupied
			}
			g.removeFromCell(cellKey{cx, cy}, e)
		}
	}
	for cy := nMinY; cy <= nMaxY; cy++ {
		for cx := nMinX; cx <= nMaxX; cx++ {
			if cx >= oMinX && cx <= oMaxX && cy >= oMinY && cy <= oMaxY {
				continue // was already there
			}
			g.addToCell(cellKey{cx, cy}, e)
		}
	}
}

// QueryCandidates returns every other entity sharing at least one cell
// with e's current bounding box, de-duplicated. This is a broad-phase
// filter: false positives are expected, false negatives are not.
func (g *SpatialGrid) QueryCandidates(e Collidable) []Collidable {
	minCX, minCY, maxCX, maxCY := g.cellRange(e.Bounds())
	var result []Collidable
	var seen map[string]bool
	id := e.EntityID()
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			cell, ok := g.cells[cellKey{cx, cy}]
			if !ok {
				continue
			}
			for oid, other := range cell {
				if oid == id || seen[oid] {
					continue
				}
				if seen == nil {
					seen = make(map[string]bool, 8)
				}
				seen[oid] = true
				result = append(result, other)
			}
		}
	}
	return result
}

// Clear drops all cells and entities.
func (g *SpatialGrid) Clear() {
	g.cells = make(map[cellKey]map[string]Collidable)
}

// CellCount returns the number of live (non-empty) cells.
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}

func (g *SpatialGrid) addToCell(key cellKey, e Collidable) {
	cell, ok := g.cells[key]
	if !ok {
		cell = make(map[string]Collidable, 4)
		g.cells[key] = cell
	}
	cell[e.EntityID()] = e
}

func (g *SpatialGrid) removeFromCell(key cellKey, e Collidable) {
	cell, ok := g.cells[key]
	if !ok {
		return
	}
	delete(cell, e.EntityID())
	if len(cell) == 0 {
		delete(g.cells, key)
	}
}
