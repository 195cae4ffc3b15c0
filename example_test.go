package retrolife_test

import (
	"fmt"

	"github.com/rverge/retrolife"
	"github.com/rverge/retrolife/config"
	"github.com/rverge/retrolife/life"
)

func ExampleProblem_Solve() {
	// Find one grid that evolves into a horizontal blinker in a single
	// generation.
	target := life.MustParse(`
000
111
000`)

	cfg := config.Default() // one generation, dead boundary, one solution
	problem, err := retrolife.New(target, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := problem.Solve()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Status)
	fmt.Println(len(res.Predecessors))
	fmt.Println(res.Predecessors[0].Step(life.Dead).Equal(target))
	// Output:
	// limit reached
	// 1
	// true
}
