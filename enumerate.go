package retrolife

import (
	"time"

	"github.com/rverge/retrolife/cnf"
	"github.com/rverge/retrolife/life"
	"github.com/rverge/retrolife/sat"
)

// Status classifies how an enumeration run ended.
type Status int

const (
	// StatusExhausted means the formula became unsatisfiable: every
	// predecessor has been found.
	StatusExhausted Status = iota
	// StatusLimitReached means max_solutions predecessors were found.
	StatusLimitReached
	// StatusInterrupted means the run stopped early; Result.Cause says
	// why.
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusExhausted:
		return "exhausted"
	case StatusLimitReached:
		return "limit reached"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Cause details an interrupted enumeration.
type Cause int

const (
	CauseNone Cause = iota
	// CauseTimeout: the wall-clock budget ran out.
	CauseTimeout
	// CauseBackend: the SAT backend reported an internal failure.
	CauseBackend
	// CauseInconsistent: a SAT model failed forward validation, which
	// indicates an encoder bug.
	CauseInconsistent
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseTimeout:
		return "timeout"
	case CauseBackend:
		return "backend error"
	case CauseInconsistent:
		return "internal inconsistency"
	default:
		return "unknown"
	}
}

// SolveStat records one backend call.
type SolveStat struct {
	Status       sat.Status
	Elapsed      time.Duration
	Decisions    int64
	Implications int64
}

// Statistics summarizes an enumeration run. Variables and Clauses
// describe the encoded formula before any blocking clauses.
type Statistics struct {
	Variables   int
	Clauses     int
	SolveTimeMS int64
	Solves      []SolveStat
}

// Result is what Problem.Solve returns: the predecessors found (possibly
// none), how the run ended, and run statistics. On StatusInterrupted the
// predecessors found so far are still present.
type Result struct {
	Predecessors []*life.Grid
	Status       Status
	Cause        Cause
	Divergence   *Divergence // set with CauseInconsistent
	Statistics   Statistics
	Warnings     []string
}

// enumerate drives repeated solve calls: extract the time-0 grid from
// each model, validate it, block it, and re-solve until the limit, an
// unsatisfiable formula, or the deadline. Blocking covers time-0 cells
// only, so evolutions that differ merely in intermediate generations do
// not produce duplicate predecessors.
func (p *Problem) enumerate(f *cnf.Formula, backend sat.Backend, limit int, budget time.Duration) *Result {
	res := &Result{
		Status: StatusInterrupted,
		Statistics: Statistics{
			Variables: p.alloc.Count(),
			Clauses:   f.NumClauses(),
		},
	}
	deadline := time.Now().Add(budget)
	w, h := p.target.Width(), p.target.Height()
	for {
		if !time.Now().Before(deadline) {
			res.Cause = CauseTimeout
			return res
		}
		start := time.Now()
		sr := backend.Solve(f, deadline)
		elapsed := time.Since(start)
		res.Statistics.SolveTimeMS += elapsed.Milliseconds()
		res.Statistics.Solves = append(res.Statistics.Solves, SolveStat{
			Status:       sr.Status,
			Elapsed:      elapsed,
			Decisions:    sr.Stats.Decisions,
			Implications: sr.Stats.Implications,
		})

		switch sr.Status {
		case sat.Unsat:
			res.Status = StatusExhausted
			res.Cause = CauseNone
			return res
		case sat.Timeout:
			res.Cause = CauseTimeout
			return res
		case sat.Sat:
		default:
			res.Cause = CauseBackend
			return res
		}

		cells := make([]uint8, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if sr.Assignment[p.cellVar(x, y, 0)] {
					cells[y*w+x] = 1
				}
			}
		}
		pred, err := life.FromDense(w, h, cells)
		if err != nil {
			res.Cause = CauseInconsistent
			return res
		}
		div, err := validate(pred, p.target, p.gens, p.boundary)
		if err != nil || div != nil {
			res.Cause = CauseInconsistent
			res.Divergence = div
			return res
		}
		res.Predecessors = append(res.Predecessors, pred)
		if len(res.Predecessors) >= limit {
			res.Status = StatusLimitReached
			res.Cause = CauseNone
			return res
		}

		// Block this model's time-0 plane: at least one cell must
		// differ next time around.
		block := make([]int, 0, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := p.cellVar(x, y, 0)
				if sr.Assignment[v] {
					block = append(block, -v)
				} else {
					block = append(block, v)
				}
			}
		}
		f.AddClause(block...)
	}
}
