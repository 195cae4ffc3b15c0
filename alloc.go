package retrolife

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a variable request outside the declared
// coordinate or time bounds.
var ErrOutOfRange = errors.New("retrolife: variable coordinates out of range")

// VarKind distinguishes the named variable families of the encoding.
type VarKind uint8

const (
	// KindCell is the state of cell (x, y) at generation t, 0 <= t <= G.
	KindCell VarKind = iota
	// KindN3 holds "exactly three live neighbors" for (x, y) at t < G.
	KindN3
	// KindN2 holds "exactly two live neighbors" for (x, y) at t < G.
	KindN2
)

type varKey struct {
	kind    VarKind
	x, y, t int
}

// Allocator is a deterministic bijection from (kind, x, y, t) tuples to
// positive SAT variables. Cell vars are laid out eagerly, time-major
// then row-major, so Cell(x,y,t) = t*W*H + y*W + x + 1. N3/N2 vars and
// anonymous auxiliaries are handed out lazily in request order, which
// the encoder keeps fixed, so the full layout is reproducible across
// runs.
type Allocator struct {
	w, h, gens int
	next       int
	lazy       map[varKey]int
}

// NewAllocator declares bounds for a W×H grid evolved over gens
// generations (cell vars exist for t in [0, gens]).
func NewAllocator(w, h, gens int) (*Allocator, error) {
	if w <= 0 || h <= 0 || gens < 1 {
		return nil, fmt.Errorf("%w: %d×%d grid over %d generations", ErrOutOfRange, w, h, gens)
	}
	return &Allocator{
		w:    w,
		h:    h,
		gens: gens,
		next: w*h*(gens+1) + 1,
		lazy: make(map[varKey]int),
	}, nil
}

// Var returns the variable for (kind, x, y, t), allocating it on first
// request. Repeated calls with the same tuple return the same variable.
func (a *Allocator) Var(kind VarKind, x, y, t int) (int, error) {
	maxT := a.gens
	if kind != KindCell {
		maxT = a.gens - 1
	}
	if x < 0 || x >= a.w || y < 0 || y >= a.h || t < 0 || t > maxT {
		return 0, fmt.Errorf("%w: kind %d at (%d, %d, %d)", ErrOutOfRange, kind, x, y, t)
	}
	if kind == KindCell {
		return t*a.w*a.h + y*a.w + x + 1, nil
	}
	key := varKey{kind, x, y, t}
	if id, ok := a.lazy[key]; ok {
		return id, nil
	}
	id := a.next
	a.next++
	a.lazy[key] = id
	return id, nil
}

// Aux allocates a fresh anonymous auxiliary variable (cardinality
// counter registers, symmetry chain vars).
func (a *Allocator) Aux() int {
	id := a.next
	a.next++
	return id
}

// Count returns the total number of variables allocated so far.
func (a *Allocator) Count() int { return a.next - 1 }
