// Package grid provides the toroidal lattice the agents live on.
// Cells hold at most one agent, tracked by ID; spatial queries wrap
// around both axes.
package grid

import "fmt"

// Empty marks an unoccupied cell.
const Empty = -1

// Point is a cell coordinate on the lattice.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is a width×height toroidal lattice with single-occupancy cells.
type Grid struct {
	Width  int
	Height int
	cells  []int // agent ID per cell, Empty when unoccupied
}

// New creates an empty grid. Width and height must be positive.
func New(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]int, width*height),
	}
	for i := range g.cells {
		g.cells[i] = Empty
	}
	return g
}

// Wrap maps a coordinate onto the torus.
func (g *Grid) Wrap(p Point) Point {
	x := p.X % g.Width
	if x < 0 {
		x += g.Width
	}
	y := p.Y % g.Height
	if y < 0 {
		y += g.Height
	}
	return Point{X: x, Y: y}
}

func (g *Grid) index(p Point) int {
	p = g.Wrap(p)
	return p.Y*g.Width + p.X
}

// Occupant returns the agent ID at p, or ok=false for an empty cell.
func (g *Grid) Occupant(p Point) (id int, ok bool) {
	id = g.cells[g.index(p)]
	return id, id != Empty
}

// IsEmpty reports whether the cell at p is unoccupied.
func (g *Grid) IsEmpty(p Point) bool {
	return g.cells[g.index(p)] == Empty
}

// Place puts an agent on an empty cell. Used during construction only.
func (g *Grid) Place(id int, p Point) error {
	i := g.index(p)
	if g.cells[i] != Empty {
		return fmt.Errorf("place agent %d at %v: cell occupied by %d", id, p, g.cells[i])
	}
	g.cells[i] = id
	return nil
}

// Move relocates an agent from one cell to another. The destination must
// be empty; callers pre-filter with IsEmpty, so an occupied destination
// is a contract violation, not a condition to retry.
func (g *Grid) Move(id int, from, to Point) error {
	fi, ti := g.index(from), g.index(to)
	if g.cells[fi] != id {
		return fmt.Errorf("move agent %d from %v: cell holds %d", id, from, g.cells[fi])
	}
	if g.cells[ti] != Empty {
		return fmt.Errorf("move agent %d to %v: cell occupied by %d", id, to, g.cells[ti])
	}
	g.cells[fi] = Empty
	g.cells[ti] = id
	return nil
}

// Neighborhood returns the Moore neighborhood of p at the given radius,
// wrapped onto the torus, center excluded. Positions come back in a fixed
// row-major order so traversals are reproducible; duplicates from
// wraparound on small grids are collapsed.
func (g *Grid) Neighborhood(p Point, radius int) []Point {
	out := make([]Point, 0, (2*radius+1)*(2*radius+1)-1)
	seen := make(map[Point]struct{}, cap(out))
	center := g.Wrap(p)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			q := g.Wrap(Point{X: center.X + dx, Y: center.Y + dy})
			if q == center {
				continue
			}
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			out = append(out, q)
		}
	}
	return out
}

// Occupants returns the agent IDs found on the given positions, in
// position order, skipping empty cells.
func (g *Grid) Occupants(positions []Point) []int {
	ids := make([]int, 0, len(positions))
	for _, p := range positions {
		if id, ok := g.Occupant(p); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// CellCount returns the total number of cells.
func (g *Grid) CellCount() int {
	return g.Width * g.Height
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	n := 0
	for _, c := range g.cells {
		if c != Empty {
			n++
		}
	}
	return fmt.Sprintf("Grid(%dx%d, occupied=%d)", g.Width, g.Height, n)
}
