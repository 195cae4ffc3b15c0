// Package sat provides the SAT backends used for predecessor search: a
// deterministic single-threaded solver and a portfolio-parallel wrapper
// around it. The solver core is a Davis-Putnam backtracking search with
// the watch-literal and decision optimizations described in the 2001
// paper Chaff: Engineering an Efficient SAT Solver.
package sat

import (
	"container/heap"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"
)

// runStatus is the internal outcome of a solver run.
type runStatus int

const (
	runSat runStatus = iota
	runUnsat
	runTimeout
	runStopped
)

type solver struct {
	// sourceVars lists each input var (we don't care that these are
	// contiguous; any integer values other than zero will do).
	//
	// If there are any input clauses with a single var, we make that
	// assignment directly and don't include this clause in our solver
	// database at all.
	//
	// If during simplification we discover that the formula is trivially
	// satisfiable or unsatisfiable, we set simpleSat to assnTrue/assnFalse
	// and skip running the search.
	sourceVars []sourceVar
	simpleSat  assnVal
	// simplified is the minimized problem input that doesn't include the
	// vars already assigned in sourceVars.
	simplified [][]int

	// Everything below is the internal solver state for the vars that
	// can't be trivially assigned based on the input.

	origVars []int // mapping of internal var back to source var

	assignments []assnVal
	watches     [][]int // watch lists (one per literal; len is 2*len(assignments))

	unassigned varHeap // unassigned vars ordered by total watch load

	decisions    []decision // assigned vars from decision
	implications []literal  // implied literals from decisions & further implications
	propIndex    int        // index of the first un-propagated implication

	clauses []clause

	// deadline bounds the wall clock for this run; the zero value means
	// no limit. stop is a cooperative cancellation flag shared between
	// portfolio workers; nil for a solo run. rng, when set, perturbs the
	// decision polarity (portfolio diversification); the run is then no
	// longer deterministic.
	deadline time.Time
	stop     *atomic.Bool
	polls    uint32
	rng      *rand.Rand

	numDecisions    int64
	numImplications int64
}

type sourceVar struct {
	// If assn is unassigned, i is the index of the corresponding solver
	// var (i.e., i is an index into assignments and other slices).
	// If assn is assnTrue or assnFalse, it means we directly assigned a
	// unit clause from the input and this source var does not appear in
	// the solver's database.
	v    int
	assn assnVal
	i    int
}

type clause struct {
	// The watch literals are the first two in the clause.
	lits []literal
}

// varHeap is a max-heap of unassigned vars ordered by the combined watch
// load of their two literals. It holds exactly the unassigned vars, so
// removal and re-insertion must tolerate both states.
type varHeap struct {
	watches [][]int // reference to parent sv.watches
	vars    []int   // max-heap slice of internal var indices
	pos     map[int]int
}

func (h *varHeap) load(v int) int {
	return len(h.watches[2*v]) + len(h.watches[2*v+1])
}

func (h *varHeap) Len() int { return len(h.vars) }

func (h *varHeap) Less(i, j int) bool {
	vi, vj := h.vars[i], h.vars[j]
	li, lj := h.load(vi), h.load(vj)
	if li != lj {
		return li > lj
	}
	// Stable tie-break keeps runs reproducible.
	return vi < vj
}

func (h *varHeap) Swap(i, j int) {
	h.vars[i], h.vars[j] = h.vars[j], h.vars[i]
	h.pos[h.vars[i]] = i
	h.pos[h.vars[j]] = j
}

func (h *varHeap) Push(x interface{}) {
	v := x.(int)
	h.pos[v] = len(h.vars)
	h.vars = append(h.vars, v)
}

func (h *varHeap) Pop() interface{} {
	v := h.vars[len(h.vars)-1]
	h.vars = h.vars[:len(h.vars)-1]
	delete(h.pos, v)
	return v
}

func newSolver(problem [][]int) *solver {
	sv := simplify(problem)
	if sv.simpleSat != unassigned {
		return sv
	}
	vars := make(map[int]int) // not including vars assigned in simplify
	for _, cls := range sv.simplified {
		for _, v := range cls {
			v = abs(v)
			if _, ok := vars[v]; !ok {
				sv.origVars = append(sv.origVars, v)
				vars[v] = 0
			}
		}
	}
	sort.Ints(sv.origVars)
	for i, v := range sv.origVars {
		vars[v] = i
	}
	for i, v := range sv.sourceVars {
		if v.assn == unassigned {
			sv.sourceVars[i].i = vars[v.v]
		}
	}
	sv.watches = make([][]int, len(sv.origVars)*2)
	sv.assignments = make([]assnVal, len(sv.origVars))
	sv.clauses = make([]clause, len(sv.simplified))
	for i, cls := range sv.simplified {
		for j, v := range cls {
			neg := false
			if v < 0 {
				neg = true
				v = -v
			}
			lit := literal(vars[v]) << 1
			if neg {
				lit ^= 1
			}
			sv.clauses[i].lits = append(sv.clauses[i].lits, lit)
			if j < 2 {
				sv.watches[lit] = append(sv.watches[lit], i)
			}
		}
	}
	sv.unassigned.watches = sv.watches
	sv.unassigned.pos = make(map[int]int)
	for v := range sv.origVars {
		sv.pushVar(v)
	}
	heap.Init(&sv.unassigned)
	return sv
}

// simplify does a round of trivial simplifications on problem by looking
// for empty and unit clauses, assigning these, and then iterating until a
// fixpoint is located.
//
// The result is returned in the form of a solver sv with only
// sv.sourceVars and sv.simplified set (as well as sv.simpleSat, if the
// problem is trivially sat/unsat). The input clause slices are not
// mutated.
func simplify(problem [][]int) *solver {
	var sv solver
	vars := make(map[int]assnVal)
	sv.simplified = make([][]int, len(problem))
	for i, cls := range problem {
		seen := make(map[int]struct{})
		var clause1 []int
		for _, v := range cls {
			if v == 0 {
				panic("sat: zero literal passed to solver")
			}
			// Get rid of duplicate literals.
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			clause1 = append(clause1, v)
			vars[abs(v)] = unassigned
		}
		sv.simplified[i] = clause1
	}
	changed := true
	for changed {
		if len(sv.simplified) == 0 {
			sv.simpleSat = assnTrue
			// Pick an arbitrary assignment for the unassigned vars.
			for v, assn := range vars {
				if assn == unassigned {
					vars[v] = assnTrue
				}
			}
			break
		}
		changed = false
		var i int
	clauseLoop:
		for _, cls := range sv.simplified {
			if len(cls) == 0 {
				sv.simpleSat = assnFalse
				return &sv
			}
			if len(cls) == 1 {
				v := cls[0]
				assn := assnTrue
				if v < 0 {
					assn = assnFalse
					v = -v
				}
				if vars[v] != unassigned && vars[v] != assn {
					sv.simpleSat = assnFalse
					return &sv
				}
				vars[v] = assn
				changed = true
				continue clauseLoop
			}
			var j int
			for _, v := range cls {
				assn := vars[abs(v)]
				if assn == unassigned {
					cls[j] = v
					j++
					continue
				}
				changed = true
				if (assn == assnTrue) == (v > 0) {
					// Clause is already satisfied.
					continue clauseLoop
				}
				// Literal is false and can be dropped.
			}
			sv.simplified[i] = cls[:j]
			i++
		}
		sv.simplified = sv.simplified[:i]
	}
	sv.sourceVars = make([]sourceVar, 0, len(vars))
	for v, assn := range vars {
		sv.sourceVars = append(sv.sourceVars, sourceVar{v: v, assn: assn})
	}
	sort.Slice(sv.sourceVars, func(i, j int) bool {
		return sv.sourceVars[i].v < sv.sourceVars[j].v
	})
	return &sv
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// A literal represents an instance of a variable or its negation in a
// clause. The value is 2 times the variable value (index) or 2x+1 for
// negation.
type literal uint32

func (l literal) assn() assnVal {
	return assnVal(l&1) + 1
}

type assnVal uint8

const (
	unassigned assnVal = 0
	assnTrue   assnVal = 1
	assnFalse  assnVal = 2
	// Assignments carry bit 2 (value 4) once the search has tried the
	// var both ways; the truth value lives in the low two bits and is
	// always read through &3.
	secondTry assnVal = 4
)

func (a assnVal) inv() assnVal { return a ^ 3 }

func (a assnVal) String() string {
	switch a & 3 {
	case unassigned:
		return "unassigned"
	case assnTrue:
		return "true"
	case assnFalse:
		return "false"
	default:
		panic("unreached")
	}
}

type decision struct {
	implicationIdx int
	lit            literal
}

func (sv *solver) run() runStatus {
	switch sv.simpleSat {
	case assnTrue:
		return runSat
	case assnFalse:
		return runUnsat
	}

	for {
		if st, ok := sv.interrupted(); ok {
			return st
		}
		// Decide on the next var to set.
		v, ok := sv.popVar()
		if !ok {
			return runSat
		}
		lit := sv.chooseLit(v)
		sv.assignments[v] = lit.assn()
		sv.numDecisions++
		sv.decisions = append(sv.decisions, decision{
			implicationIdx: len(sv.implications),
			lit:            lit,
		})
		sv.propIndex = len(sv.implications)
		sv.implications = append(sv.implications, lit)

		for !sv.bcp() {
			if !sv.resolveConflict() {
				return runUnsat
			}
		}
	}
}

// interrupted polls the cooperative stop flag on every call and the wall
// clock every 256th call.
func (sv *solver) interrupted() (runStatus, bool) {
	if sv.stop != nil && sv.stop.Load() {
		return runStopped, true
	}
	sv.polls++
	if sv.polls&255 == 0 && !sv.deadline.IsZero() && !time.Now().Before(sv.deadline) {
		return runTimeout, true
	}
	return 0, false
}

// chooseLit picks the polarity for a decision var: the literal with the
// longer watch list, so that the assignment satisfies as many watched
// clauses as possible. A portfolio rng occasionally flips it.
func (sv *solver) chooseLit(v int) literal {
	lit := literal(v) << 1
	if len(sv.watches[lit|1]) > len(sv.watches[lit]) {
		lit |= 1
	}
	if sv.rng != nil && sv.rng.Intn(4) == 0 {
		lit ^= 1
	}
	return lit
}

// bcp carries out boolean constraint propagation (BCP) which finds all
// the direct implications of the current variable state. It returns true
// once there are no more implications to be made or false if it locates
// a conflict.
func (sv *solver) bcp() bool {
	for {
		imps := sv.implications[sv.propIndex:]
		if len(imps) == 0 {
			// No implications left to propagate.
			return true
		}
		sv.propIndex = len(sv.implications)
		for _, impliedLit := range imps {
			neg := impliedLit ^ 1
			watches := sv.watches[neg]
		watchesLoop:
			for i := 0; i < len(watches); {
				clauseIdx := watches[i]
				cls := sv.clauses[clauseIdx]
				// Put the false literal at lits[1] and the
				// other watch literal at lits[0].
				if cls.lits[0] == neg {
					cls.lits[0], cls.lits[1] = cls.lits[1], cls.lits[0]
				} else if cls.lits[1] != neg {
					panic("sat: bad watch var state")
				}
				lit0 := cls.lits[0]
				if sv.assignments[lit0>>1]&3 == lit0.assn() {
					// Clause is already satisfied by the other watch.
					// Don't bother updating it further.
					i++
					continue
				}
				// Look for a replacement watch.
				for j := 2; j < len(cls.lits); j++ {
					lit := cls.lits[j]
					assn := sv.assignments[lit>>1] & 3
					if assn == lit.assn().inv() {
						// Literal is false already.
						continue
					}
					// We know that lit is available to become the
					// replacement watch literal.
					sv.watches[lit] = append(sv.watches[lit], clauseIdx)
					sv.fixVar(int(lit >> 1))
					// Remove from the neg watch list.
					watches[i], watches[len(watches)-1] = watches[len(watches)-1], watches[i]
					watches = watches[:len(watches)-1]
					sv.watches[neg] = watches
					cls.lits[1], cls.lits[j] = cls.lits[j], cls.lits[1]
					continue watchesLoop
				}
				i++
				// This is either a unit clause with the other
				// watch literal implied or it's already
				// unsatisfiable if that literal is false.
				otherWatch := cls.lits[0]
				v := int(otherWatch >> 1)
				if sv.assignments[v] != unassigned {
					return false // conflict
				}
				sv.assignments[v] = otherWatch.assn()
				sv.removeVar(v)
				sv.numImplications++
				sv.implications = append(sv.implications, otherWatch)
			}
		}
	}
}

// resolveConflict tries to fix the current conflict by flipping the most
// recently made decision that hasn't been tried both ways.
func (sv *solver) resolveConflict() bool {
	di := -1
	var d decision
	for i := len(sv.decisions) - 1; i >= 0; i-- {
		d = sv.decisions[i]
		if sv.assignments[d.lit>>1]&secondTry == 0 {
			// d hasn't been tried both ways yet.
			di = i
			break
		}
	}
	if di == -1 {
		return false // not satisfiable
	}
	// Flip d's assignment and roll back the invalidated implications.
	for i := len(sv.implications) - 1; i > d.implicationIdx; i-- {
		lit := sv.implications[i]
		sv.pushVar(int(lit >> 1))
		sv.assignments[lit>>1] = unassigned
	}
	flipped := d.lit ^ 1
	sv.implications = sv.implications[:d.implicationIdx+1]
	sv.implications[len(sv.implications)-1] = flipped
	sv.decisions = sv.decisions[:di+1]
	sv.decisions[di].lit = flipped
	sv.assignments[d.lit>>1] = flipped.assn() | secondTry
	sv.propIndex = d.implicationIdx
	return true
}

// pushVar returns v to the unassigned heap; a no-op if it is already
// there.
func (sv *solver) pushVar(v int) {
	if _, ok := sv.unassigned.pos[v]; ok {
		return
	}
	heap.Push(&sv.unassigned, v)
}

// popVar removes and returns the unassigned var with the highest watch
// load.
func (sv *solver) popVar() (int, bool) {
	if len(sv.unassigned.vars) == 0 {
		return 0, false
	}
	return heap.Pop(&sv.unassigned).(int), true
}

// removeVar takes v out of the unassigned heap; a no-op if absent.
func (sv *solver) removeVar(v int) {
	if i, ok := sv.unassigned.pos[v]; ok {
		heap.Remove(&sv.unassigned, i)
	}
}

// fixVar restores the heap ordering after v's watch load changed.
func (sv *solver) fixVar(v int) {
	if i, ok := sv.unassigned.pos[v]; ok {
		heap.Fix(&sv.unassigned, i)
	}
}

// model builds a total assignment over the vars [1, numVars]. Vars that
// appear in no clause default to false.
func (sv *solver) model(numVars int) []bool {
	assignment := make([]bool, numVars+1)
	for _, v := range sv.sourceVars {
		assn := v.assn
		if assn == unassigned {
			assn = sv.assignments[v.i] & 3
		}
		switch assn {
		case assnTrue:
			assignment[v.v] = true
		case assnFalse:
		default:
			panic("sat: incomplete solution")
		}
	}
	return assignment
}
