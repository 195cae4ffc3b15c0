package cnf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseDIMACS(t *testing.T) {
	for _, tt := range []struct {
		text      string
		want      [][]int
		vars      int
		roundtrip string // if different from text with the comments removed
	}{
		{
			text: `
c No vars or clauses
p cnf 0 0
`,
			want: [][]int{},
		},
		{
			text: `
c No clauses, declared vars kept
p cnf 5 0
`,
			want: [][]int{},
			vars: 5,
		},
		{
			text: `
c 1 var, 1 clause
p cnf 1 1
1 0
`,
			want: [][]int{{1}},
			vars: 1,
		},
		{
			text: `
c DIMACS example file
c
p cnf 4 3
1 3 -4 0
4 0 2
-3
`,
			want: [][]int{{1, 3, -4}, {4}, {2, -3}},
			vars: 4,
			roundtrip: `
p cnf 4 3
1 3 -4 0
4 0
2 -3 0
`,
		},
		{
			text: `
c percent sign trailer
p cnf 2 2
1 2 0
-1 2 0
%
1 2 3
x y z
`,
			want: [][]int{{1, 2}, {-1, 2}},
			vars: 2,
			roundtrip: `
p cnf 2 2
1 2 0
-1 2 0
`,
		},
		{
			text: `
c missing problem line
1 -2 0
2 3 0
`,
			want: [][]int{{1, -2}, {2, 3}},
			vars: 3,
			roundtrip: `
p cnf 3 2
1 -2 0
2 3 0
`,
		},
	} {
		text := strings.TrimSpace(tt.text)
		roundtrip := strings.TrimSpace(tt.roundtrip)
		if roundtrip == "" {
			var lines []string
			for _, line := range strings.Split(text, "\n") {
				if !strings.HasPrefix(line, "c") {
					lines = append(lines, line)
				}
			}
			roundtrip = strings.Join(lines, "\n")
		}
		name := strings.TrimPrefix(text[:strings.IndexByte(text, '\n')], "c ")
		t.Run(name, func(t *testing.T) {
			f, err := ParseDIMACS(strings.NewReader(text))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(f.Clauses(), tt.want, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("ParseDIMACS (-got, +want):\n%s", diff)
			}
			if f.NumVars() != tt.vars {
				t.Fatalf("NumVars: got %d, want %d", f.NumVars(), tt.vars)
			}

			var b strings.Builder
			if err := WriteDIMACS(&b, f); err != nil {
				t.Fatal(err)
			}
			gotText := strings.TrimSpace(b.String())
			if gotText != roundtrip {
				t.Fatalf("WriteDIMACS: got\n\n%s\n\nwant:\n\n%s\n\n", gotText, roundtrip)
			}
		})
	}
}

func TestParseDIMACSErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		text string
	}{
		{"ProblemAfterClauses", "1 0\np cnf 1 1\n"},
		{"MultipleProblemLines", "p cnf 1 1\np cnf 1 1\n1 0\n"},
		{"NotCNF", "p sat 1 1\n"},
		{"BadVarCount", "p cnf x 1\n"},
		{"TooManyVars", "p cnf 2 1\n1 3 0\n"},
		{"ClauseCountMismatch", "p cnf 2 2\n1 2 0\n"},
		{"EmptyClause", "p cnf 1 2\n1 0 0\n"},
		{"Garbage", "1 two 0\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDIMACS(strings.NewReader(tt.text)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestWriteDIMACSCanonical(t *testing.T) {
	build := func() *Formula {
		f := NewFormula()
		f.AddClause(1, -2)
		f.AddClause(2, 3, -4)
		f.SetNumVars(5)
		return f
	}
	var b1, b2 strings.Builder
	if err := WriteDIMACS(&b1, build()); err != nil {
		t.Fatal(err)
	}
	if err := WriteDIMACS(&b2, build()); err != nil {
		t.Fatal(err)
	}
	if b1.String() != b2.String() {
		t.Fatalf("serialization is not canonical:\n%s\nvs\n%s", b1.String(), b2.String())
	}
	want := "p cnf 5 2\n1 -2 0\n2 3 -4 0\n"
	if b1.String() != want {
		t.Fatalf("got %q, want %q", b1.String(), want)
	}
}
