package cnf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseDIMACS parses text in the DIMACS CNF format.
//
// For convenience, a few non-standard variations are accepted:
//
//   - Comments (lines beginning with 'c') may appear anywhere, not just
//     in the preamble.
//   - The problem line may be missing; the variable count is then the
//     largest variable appearing in a clause.
//   - A line containing a single '%' ends the clause section (some CNF
//     collections attach trailer data after it).
func ParseDIMACS(r io.Reader) (*Formula, error) {
	var problem struct {
		vars    int
		clauses int
	}
	f := NewFormula()
	var clause []int
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if len(line) == 0 || line[0] == 'c' {
			continue
		}
		if line == "%" {
			break
		}
		if line[0] == 'p' {
			if f.NumClauses() > 0 {
				return nil, errors.New("cnf: problem line appears after clauses")
			}
			if problem.vars > 0 {
				return nil, errors.New("cnf: multiple problem lines")
			}
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[0] != "p" {
				return nil, fmt.Errorf("cnf: malformed problem line %q", line)
			}
			if fields[1] != "cnf" {
				return nil, fmt.Errorf("cnf: only cnf supported; got %q", fields[1])
			}
			var err error
			problem.vars, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("cnf: malformed #vars in problem line: %s", err)
			}
			problem.clauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("cnf: malformed #clauses in problem line: %s", err)
			}
			if problem.vars < 0 || problem.clauses < 0 {
				return nil, fmt.Errorf("cnf: invalid problem line %q", line)
			}
			continue
		}
		for _, field := range strings.Fields(line) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("cnf: invalid literal: %s", err)
			}
			if n == 0 {
				if len(clause) == 0 {
					return nil, errors.New("cnf: empty clause in input")
				}
				f.AddClause(clause...)
				clause = clause[:0]
			} else {
				clause = append(clause, n)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(clause) > 0 {
		f.AddClause(clause...)
	}

	if problem.vars > 0 {
		if f.maxVar > problem.vars {
			return nil, fmt.Errorf("cnf: formula contains var %d, but problem line asserts %d vars",
				f.maxVar, problem.vars)
		}
		if f.NumClauses() != problem.clauses {
			return nil, fmt.Errorf("cnf: problem line specifies %d clauses, but there are %d",
				problem.clauses, f.NumClauses())
		}
		f.SetNumVars(problem.vars)
	}
	return f, nil
}

// WriteDIMACS writes the formula in DIMACS CNF format. The output is
// canonical: a single problem line followed by one clause per line, each
// terminated by " 0". Identical formulas serialize to identical bytes,
// which makes the output usable as a determinism witness.
func WriteDIMACS(w io.Writer, f *Formula) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVars(), f.NumClauses())
	for _, cls := range f.clauses {
		for _, l := range cls {
			bw.WriteString(strconv.Itoa(l))
			bw.WriteByte(' ')
		}
		bw.WriteString("0\n")
	}
	return bw.Flush()
}
