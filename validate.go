package retrolife

import (
	"fmt"

	"github.com/rverge/retrolife/life"
)

// Divergence identifies the first cell at which a candidate's forward
// evolution misses the target, and the generation of the comparison.
type Divergence struct {
	X, Y       int
	Generation int
}

func (d Divergence) String() string {
	return fmt.Sprintf("cell (%d, %d) at generation %d", d.X, d.Y, d.Generation)
}

// validate forward-simulates candidate for gens steps under b and checks
// the result against target. It re-derives everything from Grid.Step,
// independently of the encoder, so a failure here means the CNF and the
// simulation disagree — an encoder bug that must be surfaced.
func validate(candidate, target *life.Grid, gens int, b life.Boundary) (*Divergence, error) {
	g := candidate
	for t := 0; t < gens; t++ {
		g = g.Step(b)
	}
	x, y, same, err := life.Diff(g, target)
	if err != nil {
		return nil, err
	}
	if same {
		return nil, nil
	}
	return &Divergence{X: x, Y: y, Generation: gens}, nil
}
