// Package solver defines the types shared by every search engine
// (DPLL, CDCL, WalkSAT, brute force) and by the orchestrator that runs
// them as a portfolio: the completion status taxonomy, the reporting
// interface a worker uses to hand results back, and the solver-kind
// tag recorded in SOL statistics.
//
// Grounded on original_source/include/orchestrator.hpp's Status enum
// and orchestrator::report_solution/report_no_solution/report_error,
// translated from a shared-state class with a mutex into a Reporter
// interface the orchestrator implements and workers call.
package solver

import "github.com/lmoonie/sat-solver/assignment"

// Kind identifies which engine produced a result, for the "SOLVER" SOL
// statistic.
type Kind int

const (
	Unknown Kind = iota
	DPLL
	CDCL
	LocalSearch
	BruteForce
)

func (k Kind) String() string {
	switch k {
	case DPLL:
		return "dpll"
	case CDCL:
		return "cdcl"
	case LocalSearch:
		return "local_search"
	case BruteForce:
		return "brute_force"
	default:
		return "unknown"
	}
}

// Status is the final outcome of a portfolio run (spec.md section 4.6
// / 7), mirroring the original's Status enum.
type Status int

const (
	Success Status = iota
	OutOfTime
	OutOfMemory
	ThreadPanic
	IntSig
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case OutOfTime:
		return "out_of_time"
	case OutOfMemory:
		return "out_of_memory"
	case ThreadPanic:
		return "thread_panic"
	case IntSig:
		return "interrupt"
	default:
		return "unknown"
	}
}

// ExitCode maps a Status to the CLI exit-code contract of spec.md
// section 6 (0 = sat produced, 1 = unsat/no-answer, 2 = error), given
// whether a satisfying assignment was actually exhibited.
func (s Status) ExitCode(satisfyingAssignmentFound bool) int {
	switch s {
	case Success:
		if satisfyingAssignmentFound {
			return 0
		}
		return 1
	default:
		return 2
	}
}

// Reporter is implemented by the orchestrator and called by every
// worker goroutine to hand back a result. Calls must be safe for
// concurrent use by multiple workers (original: orchestrator's
// std::scoped_lock-guarded methods).
type Reporter interface {
	// ReportSolution records a satisfying assignment found by a
	// worker of the given kind. Only the first reported solution wins;
	// later calls are no-ops once the run is already finished.
	ReportSolution(rec *assignment.Record, kind Kind)
	// ReportNoSolution records that one complete-solver worker
	// (a divided DPLL or CDCL branch, or the brute-force worker) exhausted its
	// search space without finding a solution. Once every complete
	// worker has reported no-solution, the portfolio concludes UNSAT.
	ReportNoSolution()
	// ReportError records that a worker's entry point recovered from
	// a panic. A complete solver's error is fatal to the whole run
	// (ThreadPanic); an incomplete solver's error only removes that
	// worker from the active pool and emits a warning.
	ReportError(isCompleteSolver bool)
}
