package cnf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormulaBasics(t *testing.T) {
	f := NewFormula()
	f.AddClause(1, -3)
	f.AddClause(2)
	if got, want := f.NumClauses(), 2; got != want {
		t.Fatalf("NumClauses: got %d, want %d", got, want)
	}
	// The var count tracks the largest literal seen...
	if got, want := f.NumVars(), 3; got != want {
		t.Fatalf("NumVars: got %d, want %d", got, want)
	}
	// ...and can only be grown by SetNumVars.
	f.SetNumVars(10)
	f.SetNumVars(4)
	if got, want := f.NumVars(), 10; got != want {
		t.Fatalf("NumVars after SetNumVars: got %d, want %d", got, want)
	}
	want := [][]int{{1, -3}, {2}}
	if diff := cmp.Diff(f.Clauses(), want); diff != "" {
		t.Fatalf("Clauses (-got, +want):\n%s", diff)
	}
}

func TestAddClauseCopies(t *testing.T) {
	f := NewFormula()
	lits := []int{1, 2}
	f.AddClause(lits...)
	lits[0] = -9
	if f.Clauses()[0][0] != 1 {
		t.Fatal("AddClause aliased the caller's slice")
	}
}

func TestAddClausePanics(t *testing.T) {
	for _, tt := range []struct {
		name string
		lits []int
	}{
		{"Empty", nil},
		{"ZeroLiteral", []int{1, 0, 2}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			NewFormula().AddClause(tt.lits...)
		})
	}
}

func TestFreeze(t *testing.T) {
	f := NewFormula()
	f.AddClause(1, 2)
	f.SetNumVars(2)
	f.Freeze()
	// Appending clauses is still allowed (blocking clauses)...
	f.AddClause(-1, -2)
	if got, want := f.NumClauses(), 2; got != want {
		t.Fatalf("NumClauses: got %d, want %d", got, want)
	}
	// ...but the var count may not change.
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from SetNumVars after Freeze")
		}
	}()
	f.SetNumVars(5)
}

func TestCheck(t *testing.T) {
	ok := NewFormula()
	ok.AddClause(1, -2)
	ok.SetNumVars(2)
	if err := ok.Check(); err != nil {
		t.Fatal(err)
	}

	outOfRange := NewFormula()
	outOfRange.AddClause(1, 5)
	outOfRange.SetNumVars(5)
	if err := outOfRange.Check(); err != nil {
		t.Fatal(err) // 5 is in range once declared
	}

	dup := NewFormula()
	dup.AddClause(1, 2, 1)
	if err := dup.Check(); err == nil {
		t.Fatal("expected duplicate-literal error")
	}

	taut := NewFormula()
	taut.AddClause(1, -1)
	if err := taut.Check(); err == nil {
		t.Fatal("expected tautology error")
	}
}
