package sat_test

import (
	"fmt"
	"time"

	"github.com/rverge/retrolife/cnf"
	"github.com/rverge/retrolife/sat"
)

func ExampleSequential_Solve() {
	// Problem: (¬x ∨ ¬y) ∧ (¬y ∨ z) ∧ (x ∨ ¬z ∨ y) ∧ y

	// First, encode this using integers.
	f := cnf.NewFormula()
	f.AddClause(-1, -2)
	f.AddClause(-2, 3)
	f.AddClause(1, -3, 2)
	f.AddClause(2)

	// Next, call Solve to see if the problem is satisfiable and, if so,
	// what a satisfying assignment is.
	res := sat.Sequential{}.Solve(f, time.Time{})
	if res.Status != sat.Sat {
		fmt.Println("not satisfiable")
		return
	}
	for v := 1; v <= f.NumVars(); v++ {
		if v > 1 {
			fmt.Print(" ")
		}
		if res.Assignment[v] {
			fmt.Print(v)
		} else {
			fmt.Print(-v)
		}
	}
	fmt.Println()
	// Output: -1 2 3
}
