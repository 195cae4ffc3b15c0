package retrolife

import (
	"errors"
	"fmt"

	"github.com/rverge/retrolife/cnf"
	"github.com/rverge/retrolife/life"
)

// ErrEncoding indicates an internal invariant violation while building
// the CNF (zero dimensions, non-positive generation count).
var ErrEncoding = errors.New("retrolife: encoding failed")

// encoder builds the CNF whose models are exactly the (gens+1)-step Life
// evolutions ending in the target grid.
type encoder struct {
	alloc    *Allocator
	f        *cnf.Formula
	w, h     int
	gens     int
	boundary life.Boundary
}

// encodeProblem emits the full formula: target-fixing units, one shared
// neighbor-count ladder plus N3/N2 definitions and transition clauses
// per (cell, generation), and the optional lex-leader symmetry clause
// set over the t=0 plane.
func encodeProblem(target *life.Grid, gens int, b life.Boundary, symmetry bool) (*cnf.Formula, *Allocator, error) {
	if target == nil || target.Width() <= 0 || target.Height() <= 0 {
		return nil, nil, fmt.Errorf("%w: empty target grid", ErrEncoding)
	}
	if gens < 1 {
		return nil, nil, fmt.Errorf("%w: generations must be >= 1, got %d", ErrEncoding, gens)
	}
	alloc, err := NewAllocator(target.Width(), target.Height(), gens)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	e := &encoder{
		alloc:    alloc,
		f:        cnf.NewFormula(),
		w:        target.Width(),
		h:        target.Height(),
		gens:     gens,
		boundary: b,
	}

	// Fix the final generation to the target.
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			v := e.cell(x, y, gens)
			if target.Get(x, y) == 1 {
				e.f.AddClause(v)
			} else {
				e.f.AddClause(-v)
			}
		}
	}

	// Transition constraints for every generation step.
	for t := 0; t < gens; t++ {
		for y := 0; y < e.h; y++ {
			for x := 0; x < e.w; x++ {
				e.encodeTransition(x, y, t)
			}
		}
	}

	if symmetry {
		e.encodeSymmetry()
	}

	e.f.SetNumVars(alloc.Count())
	e.f.Freeze()
	return e.f, alloc, nil
}

// cell returns the variable for cell (x, y) at generation t. Coordinates
// come from the encoder's own loops, so range failures are bugs.
func (e *encoder) cell(x, y, t int) int {
	v, err := e.alloc.Var(KindCell, x, y, t)
	if err != nil {
		panic(err)
	}
	return v
}

// neighborVars lists the cell variables of the eight neighbors of (x, y)
// at generation t under the boundary policy. Under Dead, out-of-range
// neighbors are omitted: their contribution is known false at encode
// time, so the counter runs over a shorter list. Under Mirror the list
// can repeat a variable (reflection with multiplicity); the counter then
// counts it as many times as the forward simulation does.
func (e *encoder) neighborVars(x, y, t int) []int {
	coords := life.Neighbors(e.w, e.h, x, y, e.boundary, nil)
	lits := make([]int, len(coords))
	for i, c := range coords {
		lits[i] = e.cell(c[0], c[1], t)
	}
	return lits
}

// encodeTransition emits the constraints tying Cell(x,y,t+1) to the
// t-generation neighborhood:
//
//	Cell(t+1) ⇔ N3 ∨ (Cell(t) ∧ N2)
func (e *encoder) encodeTransition(x, y, t int) {
	atLeast := e.counter(e.neighborVars(x, y, t))
	n3, err := e.alloc.Var(KindN3, x, y, t)
	if err != nil {
		panic(err)
	}
	n2, err := e.alloc.Var(KindN2, x, y, t)
	if err != nil {
		panic(err)
	}
	e.defineExactly(n3, atLeast, 3)
	e.defineExactly(n2, atLeast, 2)

	cur := e.cell(x, y, t)
	next := e.cell(x, y, t+1)
	e.f.AddClause(-next, n3, cur)
	e.f.AddClause(-next, n3, n2)
	e.f.AddClause(next, -n3)
	e.f.AddClause(next, -cur, -n2)
}

// counter emits a sequential counter over lits and returns the final
// at-least registers: atLeast[k-1] is a variable equivalent to "at least
// k of lits are true", or 0 when k exceeds len(lits) (constantly false).
// Registers are defined in both directions,
//
//	s[i][j] ⇔ s[i-1][j] ∨ (lits[i] ∧ s[i-1][j-1])
//
// with s[i-1][0] constant true and missing registers constant false, so
// the registers are fully determined by the inputs. Counts above 4 are
// never needed (the rule only distinguishes 2, 3, and "4 or more"), so
// the ladder is capped at 4 rows.
func (e *encoder) counter(lits []int) [4]int {
	var prev []int // prev[j-1] = s[i-1][j]
	for i, x := range lits {
		m := i + 1
		if m > 4 {
			m = 4
		}
		cur := make([]int, m)
		for j := 1; j <= m; j++ {
			cur[j-1] = e.alloc.Aux()
		}
		for j := 1; j <= m; j++ {
			sij := cur[j-1]
			a := 0 // s[i-1][j]; 0 means constant false
			if j <= len(prev) {
				a = prev[j-1]
			}
			b := 0 // s[i-1][j-1]; only meaningful for j > 1
			if j > 1 && j-1 <= len(prev) {
				b = prev[j-2]
			}

			// s[i][j] ⇐ s[i-1][j] and s[i][j] ⇐ lits[i] ∧ s[i-1][j-1].
			if a != 0 {
				e.f.AddClause(-a, sij)
			}
			switch {
			case j == 1:
				e.f.AddClause(-x, sij)
			case b != 0:
				e.f.AddClause(-x, -b, sij)
			}

			// s[i][j] ⇒ s[i-1][j] ∨ lits[i] and
			// s[i][j] ⇒ s[i-1][j] ∨ s[i-1][j-1].
			if a != 0 {
				e.f.AddClause(-sij, a, x)
			} else {
				e.f.AddClause(-sij, x)
			}
			if j > 1 {
				switch {
				case a != 0 && b != 0:
					e.f.AddClause(-sij, a, b)
				case b != 0:
					e.f.AddClause(-sij, b)
				case a != 0:
					e.f.AddClause(-sij, a)
				default:
					e.f.AddClause(-sij)
				}
			}
		}
		prev = cur
	}
	var atLeast [4]int
	for k := 1; k <= 4 && k <= len(prev); k++ {
		atLeast[k-1] = prev[k-1]
	}
	return atLeast
}

// defineExactly constrains v ⇔ "exactly k of the counted literals are
// true", given the at-least registers. k is 2 or 3.
func (e *encoder) defineExactly(v int, atLeast [4]int, k int) {
	lo := atLeast[k-1]
	hi := atLeast[k]
	if lo == 0 {
		// Fewer than k literals exist; the count can never reach k.
		e.f.AddClause(-v)
		return
	}
	if hi == 0 {
		// Exactly k literals exist; at-least-k is already exactly-k.
		e.f.AddClause(-v, lo)
		e.f.AddClause(v, -lo)
		return
	}
	e.f.AddClause(-v, lo)
	e.f.AddClause(-v, -hi)
	e.f.AddClause(v, -lo, hi)
}

// encodeSymmetry emits a lex-leader constraint on the t=0 plane against
// its horizontal flip: the enumerated predecessor must not be
// lexicographically greater (row-major, dead < alive) than its mirror
// image, leaving one representative per mirror orbit. eq_i chain vars
// track prefix equality.
func (e *encoder) encodeSymmetry() {
	type pair struct{ a, b int }
	var pairs []pair
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			a := e.cell(x, y, 0)
			b := e.cell(e.w-1-x, y, 0)
			if a == b {
				// Center column under odd width; always equal.
				continue
			}
			pairs = append(pairs, pair{a, b})
		}
	}
	eq := 0 // equality chain var; 0 means "empty prefix", constant true
	for i, p := range pairs {
		if eq == 0 {
			e.f.AddClause(-p.a, p.b)
		} else {
			e.f.AddClause(-eq, -p.a, p.b)
		}
		if i == len(pairs)-1 {
			break
		}
		next := e.alloc.Aux()
		if eq == 0 {
			e.f.AddClause(-p.a, -p.b, next)
			e.f.AddClause(p.a, p.b, next)
		} else {
			e.f.AddClause(-eq, -p.a, -p.b, next)
			e.f.AddClause(-eq, p.a, p.b, next)
		}
		eq = next
	}
}
