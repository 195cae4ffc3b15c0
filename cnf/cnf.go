// Package cnf provides an append-only store for Boolean formulas in
// conjunctive normal form, plus DIMACS serialization.
//
// Literals follow the DIMACS convention: a positive integer v is the
// variable v, a negative integer -v is its negation, and zero is
// reserved. Variables are expected to form a contiguous set [1, n].
package cnf

import "fmt"

// Formula is an append-only clause accumulator. Clauses are added during
// encoding; after Freeze, the variable count is fixed and only further
// clauses (e.g. blocking clauses) may be appended.
type Formula struct {
	numVars int
	maxVar  int
	clauses [][]int
	frozen  bool
}

// NewFormula returns an empty formula.
func NewFormula() *Formula {
	return &Formula{}
}

// AddClause appends a clause given as signed literals. The literal
// slice is copied. A zero literal or an empty clause panics: the encoder
// never produces either, so hitting one is an internal bug.
func (f *Formula) AddClause(lits ...int) {
	if len(lits) == 0 {
		panic("cnf: empty clause")
	}
	cls := make([]int, len(lits))
	for i, l := range lits {
		if l == 0 {
			panic("cnf: zero literal in clause")
		}
		v := l
		if v < 0 {
			v = -v
		}
		if v > f.maxVar {
			f.maxVar = v
		}
		cls[i] = l
	}
	f.clauses = append(f.clauses, cls)
}

// SetNumVars declares the total variable count. It may only grow the
// count and panics after Freeze.
func (f *Formula) SetNumVars(n int) {
	if f.frozen {
		panic("cnf: SetNumVars on frozen formula")
	}
	if n > f.numVars {
		f.numVars = n
	}
}

// Freeze marks the end of encoding. Clauses may still be appended
// afterwards; the variable count may not change.
func (f *Formula) Freeze() {
	f.frozen = true
}

// NumVars returns the total variable count: the declared count, or the
// largest variable seen in a clause, whichever is greater.
func (f *Formula) NumVars() int {
	if f.maxVar > f.numVars {
		return f.maxVar
	}
	return f.numVars
}

// NumClauses returns the number of clauses added so far.
func (f *Formula) NumClauses() int { return len(f.clauses) }

// Clauses returns a borrowed view of the clause list. Callers must not
// mutate the returned slices.
func (f *Formula) Clauses() [][]int { return f.clauses }

// Check verifies the structural invariants: every literal references a
// variable in [1, NumVars], and no clause contains a duplicate literal
// or a literal together with its negation.
func (f *Formula) Check() error {
	n := f.NumVars()
	for i, cls := range f.clauses {
		seen := make(map[int]struct{}, len(cls))
		for _, l := range cls {
			v := l
			if v < 0 {
				v = -v
			}
			if v < 1 || v > n {
				return fmt.Errorf("cnf: clause %d references variable %d outside [1, %d]", i, v, n)
			}
			if _, ok := seen[l]; ok {
				return fmt.Errorf("cnf: clause %d contains duplicate literal %d", i, l)
			}
			if _, ok := seen[-l]; ok {
				return fmt.Errorf("cnf: clause %d contains both %d and %d", i, l, -l)
			}
			seen[l] = struct{}{}
		}
	}
	return nil
}
