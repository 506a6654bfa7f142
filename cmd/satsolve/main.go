// Command satsolve reads a DIMACS CNF problem and runs the solver
// portfolio against it, writing a SOL-format result and exiting with
// the status contract of spec.md section 6 (0 = sat produced, 1 =
// unsat proven or no answer, 2 = error).
//
// Grounded on cespare/saturday's cmd/saturday/saturday.go: stdlib flag,
// stdin-or-path input, writing the result to stdout and diagnostics to
// stderr.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmoonie/sat-solver/config"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/dimacs"
	"github.com/lmoonie/sat-solver/orchestrator"
	"github.com/lmoonie/sat-solver/sol"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("satsolve", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := config.Default()
	var (
		solverName string
		duration   string
		memory     string
	)
	fs.StringVar(&solverName, "solver", cfg.Solver.String(), "portfolio composition: auto, dpll, cdcl, local_search, brute_force")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "total worker budget")
	fs.StringVar(&duration, "duration", "5m", "wall-clock budget (int + s/m/h)")
	fs.StringVar(&memory, "memory", "2g", "virtual-memory ceiling (int + k/m/g)")
	fs.IntVar((*int)(&cfg.Verbosity), "verbosity", int(cfg.Verbosity), "diagnostic verbosity: 0 (silent), 1 (normal), 2 (verbose)")
	fs.BoolVar(&cfg.Incomplete, "incomplete", false, "permit returning without proving unsat (no effect when local_search is in the mix)")

	fs.Usage = func() {
		fmt.Fprint(stderr, `satsolve: a parallel portfolio SAT solver.

Usage:

  satsolve [options] [input.cnf]

satsolve reads a single problem specification in the DIMACS CNF
format and writes its result in SOL format. If no input file is given,
it reads from standard input.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	mode, err := config.ParseSolverMode(solverName)
	if err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
		return 2
	}
	cfg.Solver = mode

	if d, err := config.ParseDuration(duration); err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
		return 2
	} else {
		cfg.Duration = d
	}

	if m, err := config.ParseMemory(memory); err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
		return 2
	} else {
		cfg.Memory = m
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
		return 2
	}

	d := diag.New(cfg.Verbosity, stdout, stderr)

	var r io.Reader = stdin
	if fs.NArg() >= 1 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(stderr, "Warning:", err)
			return 2
		}
		defer f.Close()
		r = f
	}

	formula, err := dimacs.Parse(r)
	if err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
		return 2
	}

	ctx := signalContext()

	o := orchestrator.New(cfg, d)
	status, rec := o.Run(ctx, formula)

	if err := sol.Write(stdout, rec); err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
		return 2
	}

	return status.ExitCode(rec.IsValid())
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, the Go
// idiom closest to the original's std::stop_token propagation from a
// registered OS signal handler. Grounded on
// operator-lifecycle-manager's pkg/lib/signals/signals.go.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(2)
	}()
	return ctx
}
