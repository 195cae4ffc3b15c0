package sat

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rverge/retrolife/cnf"
)

// Status is the outcome of a single solve call.
type Status int

const (
	// Sat means a satisfying assignment was found.
	Sat Status = iota
	// Unsat means the formula has no satisfying assignment.
	Unsat
	// Timeout means the deadline expired before a verdict.
	Timeout
	// Canceled means the run was abandoned because another portfolio
	// worker reached a verdict first. Backend.Solve never returns it.
	Canceled
	// Failed means the backend hit an internal failure; Result.Err holds
	// the cause.
	Failed
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	case Timeout:
		return "TIMEOUT"
	case Canceled:
		return "CANCELED"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("sat.Status(%d)", int(s))
	}
}

// Stats reports informational counters from a solve call.
type Stats struct {
	Decisions    int64
	Implications int64
	// Simplified is set when the verdict came from the simplification
	// pass alone, without entering the search loop.
	Simplified bool
}

// Result is the outcome of Backend.Solve. On Sat, Assignment is total
// over the vars [1, NumVars] and indexed by var (index 0 is unused);
// vars that appear in no clause are assigned arbitrarily.
type Result struct {
	Status     Status
	Assignment []bool
	Stats      Stats
	Err        error
}

// Backend is a SAT oracle. Solve blocks until a verdict or until the
// deadline passes; the zero deadline means no limit. The formula is
// borrowed for the duration of the call and must not be mutated during
// it.
type Backend interface {
	Solve(f *cnf.Formula, deadline time.Time) Result
}

// Sequential is the single-threaded backend. It is deterministic: the
// same formula always yields the same verdict and, on Sat, the same
// assignment.
type Sequential struct{}

func (Sequential) Solve(f *cnf.Formula, deadline time.Time) Result {
	return solveOne(f, deadline, nil, 0)
}

// Portfolio is the parallel backend: it races Threads copies of the
// sequential solver with perturbed decision polarities and returns the
// first verdict. Threads <= 0 selects GOMAXPROCS. Results are correct
// but not deterministic across runs.
type Portfolio struct {
	Threads int
}

func (p Portfolio) Solve(f *cnf.Formula, deadline time.Time) Result {
	n := p.Threads
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n == 1 {
		return solveOne(f, deadline, nil, 0)
	}
	stop := new(atomic.Bool)
	results := make(chan Result, n)
	for i := 0; i < n; i++ {
		// Worker 0 runs the unperturbed deterministic search; the rest
		// diversify via their seeds.
		go func(seed int64) {
			results <- solveOne(f, deadline, stop, seed)
		}(int64(i))
	}
	// The caller may mutate the formula (blocking clauses) as soon as we
	// return, so wait for every worker to finish, not just the winner.
	// Losers notice the stop flag at their next decision.
	var verdict, last Result
	decided := false
	for i := 0; i < n; i++ {
		res := <-results
		switch res.Status {
		case Sat, Unsat, Failed:
			if !decided {
				verdict = res
				decided = true
				stop.Store(true)
			}
		default:
			last = res
		}
	}
	if decided {
		return verdict
	}
	// Every worker timed out without a verdict.
	last.Status = Timeout
	return last
}

// solveOne runs the solver core once over the formula's clauses.
func solveOne(f *cnf.Formula, deadline time.Time, stop *atomic.Bool, seed int64) Result {
	if !deadline.IsZero() && !time.Now().Before(deadline) {
		return Result{Status: Timeout}
	}
	sv := newSolver(f.Clauses())
	sv.deadline = deadline
	sv.stop = stop
	if seed != 0 {
		sv.rng = rand.New(rand.NewSource(seed))
	}
	st := sv.run()
	res := Result{
		Stats: Stats{
			Decisions:    sv.numDecisions,
			Implications: sv.numImplications,
			Simplified:   sv.simpleSat != unassigned,
		},
	}
	switch st {
	case runSat:
		res.Status = Sat
		res.Assignment = sv.model(f.NumVars())
	case runUnsat:
		res.Status = Unsat
	case runTimeout:
		res.Status = Timeout
	case runStopped:
		res.Status = Canceled
	}
	return res
}
