package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kr/pretty"

	"github.com/rverge/retrolife"
	"github.com/rverge/retrolife/cnf"
	"github.com/rverge/retrolife/config"
	"github.com/rverge/retrolife/life"
)

func main() {
	log.SetFlags(0)
	configPath := flag.String("c", "", "YAML configuration file")
	maxSolutions := flag.Int("n", 0, "override solver.max_solutions")
	verbosity := flag.Int("v", -1, "override solver.verbosity (0-2)")
	dumpCNF := flag.String("dump-cnf", "", "write the encoded formula in DIMACS format to `file`")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `Retrolife: reverse Game of Life search via SAT.

Usage:

  retrolife [-c config.yaml] [-n max] [-v level] [-dump-cnf file] [target.txt]

Retrolife reads a target state as lines of 0 and 1 characters and
enumerates grids whose forward evolution reaches it. Each predecessor is
printed as a 0/1 grid block followed by a blank line, then a final
status line.

If no target file is given, retrolife reads from standard input.
`)
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *maxSolutions > 0 {
		cfg.Solver.MaxSolutions = *maxSolutions
	}
	if *verbosity >= 0 {
		cfg.Solver.Verbosity = *verbosity
	}

	var r io.Reader = os.Stdin
	if flag.NArg() >= 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}
	target, err := life.Parse(r)
	if err != nil {
		log.Fatalln("Error reading target state:", err)
	}

	if cfg.Solver.Verbosity >= 2 {
		pretty.Fprintf(os.Stderr, "# config: %# v\n", cfg)
	}

	problem, err := retrolife.New(target, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if *dumpCNF != "" {
		f, err := problem.Encode()
		if err != nil {
			log.Fatal(err)
		}
		out, err := os.Create(*dumpCNF)
		if err != nil {
			log.Fatal(err)
		}
		if err := cnf.WriteDIMACS(out, f); err != nil {
			log.Fatal(err)
		}
		if err := out.Close(); err != nil {
			log.Fatal(err)
		}
	}

	res, err := problem.Solve()
	if err != nil {
		log.Fatal(err)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}
	for _, p := range res.Predecessors {
		fmt.Println(p)
		fmt.Println()
	}
	status := res.Status.String()
	if res.Status == retrolife.StatusInterrupted {
		status += " (" + res.Cause.String() + ")"
	}
	fmt.Printf("%s: %d predecessor(s)\n", status, len(res.Predecessors))

	if cfg.Solver.Verbosity >= 1 {
		st := res.Statistics
		fmt.Fprintf(os.Stderr, "# %d vars, %d clauses, %d solve(s), %d ms total\n",
			st.Variables, st.Clauses, len(st.Solves), st.SolveTimeMS)
	}
	if cfg.Solver.Verbosity >= 2 {
		for i, s := range res.Statistics.Solves {
			fmt.Fprintf(os.Stderr, "#   solve %d: %s in %s (%d decisions, %d implications)\n",
				i+1, s.Status, s.Elapsed, s.Decisions, s.Implications)
		}
	}
	if res.Status == retrolife.StatusInterrupted && res.Cause != retrolife.CauseTimeout {
		os.Exit(1)
	}
}
