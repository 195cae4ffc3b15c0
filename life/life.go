// Package life implements finite Conway's Game of Life grids: immutable
// binary matrices with a forward transition rule under a configurable
// boundary policy.
package life

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for grid construction and comparison.
var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("life: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("life: all rows must have the same length")
	// ErrShapeMismatch indicates two grids of different dimensions were combined.
	ErrShapeMismatch = errors.New("life: grid dimensions do not match")
	// ErrCellValue indicates a cell value other than 0 or 1.
	ErrCellValue = errors.New("life: cell values must be 0 or 1")
)

// Boundary selects how neighbor lookups beyond the grid edges resolve.
type Boundary int

const (
	// Dead treats out-of-range coordinates as permanently dead cells.
	Dead Boundary = iota
	// Wrap takes coordinates modulo the grid dimensions (torus).
	Wrap
	// Mirror reflects coordinate -1 back to 0 and W (resp. H) back to
	// W-1. A reflected coordinate may coincide with another neighbor or
	// with the cell itself; it still contributes to the count.
	Mirror
)

func (b Boundary) String() string {
	switch b {
	case Dead:
		return "dead"
	case Wrap:
		return "wrap"
	case Mirror:
		return "mirror"
	default:
		return fmt.Sprintf("life.Boundary(%d)", int(b))
	}
}

// ParseBoundary converts a configuration name to a Boundary.
// Matching is case-insensitive.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dead":
		return Dead, nil
	case "wrap":
		return Wrap, nil
	case "mirror":
		return Mirror, nil
	}
	return 0, fmt.Errorf("life: unknown boundary condition %q", s)
}

// neighborOffsets lists the eight Moore-neighborhood offsets in a fixed
// order. The encoder relies on this order being stable.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Grid is an immutable W×H binary matrix. Cells are stored row-major:
// cell (x, y) lives at index y*W+x.
type Grid struct {
	w, h  int
	cells []uint8
}

// New returns an all-dead grid of the given dimensions.
func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyGrid
	}
	return &Grid{w: w, h: h, cells: make([]uint8, w*h)}, nil
}

// FromRows builds a grid from a slice of rows (rows[y][x]). The input is
// copied; values must be 0 or 1.
func FromRows(rows [][]uint8) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	w, h := len(rows[0]), len(rows)
	cells := make([]uint8, 0, w*h)
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
		for _, v := range row {
			if v > 1 {
				return nil, ErrCellValue
			}
			cells = append(cells, v)
		}
	}
	return &Grid{w: w, h: h, cells: cells}, nil
}

// FromDense builds a grid from a row-major cell slice of length w*h.
// The input is copied.
func FromDense(w, h int, cells []uint8) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyGrid
	}
	if len(cells) != w*h {
		return nil, ErrShapeMismatch
	}
	for _, v := range cells {
		if v > 1 {
			return nil, ErrCellValue
		}
	}
	c := make([]uint8, len(cells))
	copy(c, cells)
	return &Grid{w: w, h: h, cells: c}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Get returns the value of cell (x, y). Coordinates must be in range.
func (g *Grid) Get(x, y int) uint8 {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic(fmt.Sprintf("life: Get(%d, %d) out of range on %d×%d grid", x, y, g.w, g.h))
	}
	return g.cells[y*g.w+x]
}

// Population returns the number of live cells.
func (g *Grid) Population() int {
	n := 0
	for _, v := range g.cells {
		n += int(v)
	}
	return n
}

// Neighbors appends to buf the resolved coordinates of the eight
// neighbors of (x, y) on a w×h grid under b, in the fixed offset order.
// Under Dead, out-of-range neighbors are dropped, so the result may hold
// fewer than eight entries. Under Wrap and Mirror, a resolved coordinate
// may repeat (and under Mirror may be (x, y) itself); callers count such
// entries with multiplicity. The forward simulation and the CNF encoder
// both go through this function so their neighborhood semantics cannot
// drift apart.
func Neighbors(w, h, x, y int, b Boundary, buf [][2]int) [][2]int {
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		switch b {
		case Dead:
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
		case Wrap:
			nx = (nx + w) % w
			ny = (ny + h) % h
		case Mirror:
			nx = reflect(nx, w)
			ny = reflect(ny, h)
		}
		buf = append(buf, [2]int{nx, ny})
	}
	return buf
}

// neighborCount counts the live cells among the eight neighbors of (x, y)
// under the given boundary, with multiplicity.
func (g *Grid) neighborCount(x, y int, b Boundary, buf [][2]int) int {
	n := 0
	for _, c := range Neighbors(g.w, g.h, x, y, b, buf[:0]) {
		n += int(g.cells[c[1]*g.w+c[0]])
	}
	return n
}

// reflect maps coordinate -1 to 0 and n to n-1. Neighbor offsets only
// leave the grid by one cell, so no other values occur.
func reflect(c, n int) int {
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// Step returns the grid after one application of the Life rule: a live
// cell survives with 2 or 3 live neighbors, a dead cell becomes alive
// with exactly 3.
func (g *Grid) Step(b Boundary) *Grid {
	next := make([]uint8, len(g.cells))
	buf := make([][2]int, 0, 8)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			n := g.neighborCount(x, y, b, buf)
			alive := g.cells[y*g.w+x] == 1
			if n == 3 || (alive && n == 2) {
				next[y*g.w+x] = 1
			}
		}
	}
	return &Grid{w: g.w, h: g.h, cells: next}
}

// Equal reports whether two grids have the same dimensions and contents.
func (g *Grid) Equal(o *Grid) bool {
	if g.w != o.w || g.h != o.h {
		return false
	}
	for i, v := range g.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// Diff locates the first cell (row-major order) where two same-shaped
// grids differ. It returns ErrShapeMismatch on differing dimensions.
func Diff(a, b *Grid) (x, y int, same bool, err error) {
	if a.w != b.w || a.h != b.h {
		return 0, 0, false, ErrShapeMismatch
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return i % a.w, i / a.w, false, nil
		}
	}
	return 0, 0, true, nil
}

// String renders the grid as rows of '0' and '1' characters separated by
// newlines, matching the target-state file format.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.w + 1) * g.h)
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.w; x++ {
			b.WriteByte('0' + g.cells[y*g.w+x])
		}
	}
	return b.String()
}
