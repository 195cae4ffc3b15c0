// Package retrolife computes predecessor configurations of Conway's
// Game of Life: given a target grid and a generation count G, it finds
// grids whose G-step forward evolution equals the target. The problem is
// reduced to Boolean satisfiability; models are enumerated with blocking
// clauses and each one is re-validated by forward simulation.
package retrolife

import (
	"fmt"
	"strings"
	"time"

	"github.com/rverge/retrolife/cnf"
	"github.com/rverge/retrolife/config"
	"github.com/rverge/retrolife/life"
	"github.com/rverge/retrolife/sat"
)

// Problem is a reverse-Life instance: one target grid plus the solver
// and encoding configuration. It owns the variable allocator and the
// formula; the predecessors are returned in the Result. The backend only
// borrows the formula per solve call.
type Problem struct {
	target   *life.Grid
	gens     int
	boundary life.Boundary
	symmetry bool
	limit    int
	budget   time.Duration
	backend  sat.Backend
	warnings []string

	f     *cnf.Formula
	alloc *Allocator
}

// New builds a Problem from a target grid and a validated configuration.
//
// Mirror on a single-row or single-column grid is ambiguous (the row
// reflects onto itself); such problems are demoted to Dead and a warning
// is recorded on the result rather than silently diverging.
func New(target *life.Grid, cfg *config.Config) (*Problem, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target grid", ErrEncoding)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	boundary, err := life.ParseBoundary(cfg.Simulation.BoundaryCondition)
	if err != nil {
		return nil, err
	}
	p := &Problem{
		target:   target,
		gens:     cfg.Simulation.Generations,
		boundary: boundary,
		symmetry: cfg.Encoding.SymmetryBreaking,
		limit:    cfg.Solver.MaxSolutions,
		budget:   time.Duration(cfg.Solver.TimeoutSeconds) * time.Second,
	}
	if boundary == life.Mirror && (target.Width() == 1 || target.Height() == 1) {
		p.boundary = life.Dead
		p.warnings = append(p.warnings, fmt.Sprintf(
			"mirror boundary is degenerate on a %d×%d grid; treating it as dead",
			target.Width(), target.Height()))
	}
	switch strings.ToLower(cfg.Solver.Backend) {
	case config.BackendParallel:
		p.backend = sat.Portfolio{Threads: cfg.Solver.NumThreads.Value()}
	default:
		p.backend = sat.Sequential{}
	}
	return p, nil
}

// Encode builds the CNF for this problem, or returns the already-built
// formula. Solve calls it implicitly; it is exported so callers can dump
// the formula without solving.
func (p *Problem) Encode() (*cnf.Formula, error) {
	if p.f != nil {
		return p.f, nil
	}
	f, alloc, err := encodeProblem(p.target, p.gens, p.boundary, p.symmetry)
	if err != nil {
		return nil, err
	}
	p.f = f
	p.alloc = alloc
	return f, nil
}

// Solve enumerates predecessors until the configured solution limit, an
// exhausted formula, or the timeout. Soft outcomes (timeout, backend
// failure, validation failure) are reported through Result.Status and
// Result.Cause together with any predecessors found before the
// interruption; only encoding failures surface as errors.
//
// Solve does not restart: the blocking clauses it appends stay in the
// formula, so a second call on the same Problem skips the grids that
// were blocked. The last grid of a run that reached the solution limit
// is not blocked and can be returned again.
func (p *Problem) Solve() (*Result, error) {
	f, err := p.Encode()
	if err != nil {
		return nil, err
	}
	res := p.enumerate(f, p.backend, p.limit, p.budget)
	res.Warnings = p.warnings
	return res, nil
}

// Boundary returns the effective boundary policy, after any degenerate
// Mirror demotion.
func (p *Problem) Boundary() life.Boundary { return p.boundary }

// cellVar returns the variable of cell (x, y) at generation t.
func (p *Problem) cellVar(x, y, t int) int {
	v, err := p.alloc.Var(KindCell, x, y, t)
	if err != nil {
		panic(err)
	}
	return v
}
