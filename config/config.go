// Package config implements the orchestrator's configuration options
// (spec.md section 6): the solver mode, worker/time/memory budgets,
// verbosity, and the incomplete-answer permission flag.
package config

import (
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/lmoonie/sat-solver/diag"
)

// SolverMode selects the portfolio composition (spec.md section 4.6).
type SolverMode int

const (
	Auto SolverMode = iota
	DPLL
	CDCL
	LocalSearch
	BruteForce
)

var solverModeNames = map[string]SolverMode{
	"auto":         Auto,
	"dpll":         DPLL,
	"cdcl":         CDCL,
	"local_search": LocalSearch,
	"brute_force":  BruteForce,
}

func (m SolverMode) String() string {
	for name, mode := range solverModeNames {
		if mode == m {
			return name
		}
	}
	return "auto"
}

// ParseSolverMode parses one of the enum names from spec.md's "solver"
// option, returning ErrUnknownSolver on anything else.
func ParseSolverMode(s string) (SolverMode, error) {
	mode, ok := solverModeNames[s]
	if !ok {
		return Auto, errors.Wrapf(ErrUnknownSolver, "got %q", s)
	}
	return mode, nil
}

// Config is the fully-parsed and validated set of orchestrator
// options.
type Config struct {
	Solver     SolverMode
	Threads    int
	Duration   time.Duration
	Memory     uint64
	Verbosity  diag.Level
	Incomplete bool
}

// Default returns the configuration the orchestrator uses when no
// option is supplied (spec.md section 6's defaults: hardware
// concurrency threads, 5 minute duration, 2 GB memory).
func Default() Config {
	return Config{
		Solver:    Auto,
		Threads:   runtime.GOMAXPROCS(0),
		Duration:  5 * time.Minute,
		Memory:    2 * 1024 * 1024 * 1024,
		Verbosity: diag.Normal,
	}
}

// Validate checks option combinations the individual parsers cannot
// catch on their own (spec.md section 7's "Configuration" error kind).
func (c Config) Validate() error {
	if c.Threads < 1 {
		return errors.Wrap(ErrInvalidThreads, "threads must be a positive integer")
	}
	if c.Duration <= 0 {
		return errors.Wrap(ErrInvalidDuration, "duration must be positive")
	}
	if c.Memory == 0 {
		return errors.Wrap(ErrInvalidMemory, "memory must be positive")
	}
	if c.Verbosity < diag.Silent || c.Verbosity > diag.Verbose {
		return errors.Wrap(ErrInvalidVerbosity, "verbosity must be 0, 1, or 2")
	}
	return nil
}
