// Package dpll implements the parallel-division DPLL engine of
// spec.md section 4.3: unit propagation + pure-literal elimination at
// every node, dividing the top of the search tree across a worker
// budget, and chronological backtracking within each worker.
//
// Grounded on original_source/lib/solver/dpll.cpp (simplify,
// reduce_problem, sub_dpll, divide) for the algorithm, and on
// Aki0x137/concurrent-sat-solver-go/dpll/dpll.go for the Go
// concurrency idiom (goroutines joined by a sync.WaitGroup, a
// mutex-guarded shared result). Unlike the teacher's version, the
// per-node branching here does not spawn a fresh goroutine per call:
// only the top-level division fans out across goroutines, each of
// which runs its assigned sub-problem to completion sequentially —
// matching the original's stop_token-cancellable single-threaded
// sub_dpll recursion, which the spec's division step already performs
// once by construction. Go's goroutine stacks grow dynamically, so the
// recursive form of sub_dpll is kept directly rather than rebuilt as
// an explicit stack machine.
package dpll

import (
	"context"
	"strconv"
	"time"

	"github.com/lmoonie/sat-solver/assignment"
	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/solver"
)

// SubProblem is one of the divided branches produced by Divide.
type SubProblem struct {
	Formula    *cnf.Formula
	Assignment *assignment.Record
}

// simplify runs unit propagation and pure-literal elimination to a
// fixed point, recording every forced assignment into rec.
func simplify(f *cnf.Formula, rec *assignment.Record) {
	for {
		if cl, ok := f.UnitClause(); ok {
			lits, _ := f.GetClauseLiterals(cl)
			lit := lits[0]
			rec.Assign(lit.Var(), lit.Polarity())
			f.AssignAndSimplify(lit.Var(), lit.Polarity())
			continue
		}
		if lit := f.PureLiteral(); lit != 0 {
			rec.Assign(lit.Var(), lit.Polarity())
			f.AssignAndSimplify(lit.Var(), lit.Polarity())
			continue
		}
		break
	}
}

// Divide splits the problem into numSubProblems branches by assigning
// the first log2(numSubProblems) remaining variables to every
// combination of truth values, one combination per sub-problem —
// mirroring dpll::divide's bit-pattern walk over expr.variables().
func Divide(f *cnf.Formula, rec *assignment.Record, numSubProblems int) []*SubProblem {
	if numSubProblems < 1 {
		numSubProblems = 1
	}
	vars := f.Variables()
	out := make([]*SubProblem, numSubProblems)
	for i := 0; i < numSubProblems; i++ {
		subF := f.Clone()
		subRec := rec.Clone()
		j := i
		varIdx := 0
		for k := numSubProblems - 1; k > 0; k /= 2 {
			if varIdx >= len(vars) {
				break
			}
			v := vars[varIdx]
			val := j%2 != 0
			subRec.Assign(v, val)
			subF.AssignAndSimplify(v, val)
			j /= 2
			varIdx++
		}
		out[i] = &SubProblem{Formula: subF, Assignment: subRec}
	}
	return out
}

// Run searches sub for a satisfying assignment, reporting the outcome
// via reporter. It is a complete solver: a definitive no-solution
// result decrements the orchestrator's divided-worker counter.
func Run(ctx context.Context, sub *SubProblem, reporter solver.Reporter, d *diag.Diagnostics) {
	d.Debugf("dpll worker starting")
	start := time.Now()

	f := sub.Formula.Clone()
	rec := sub.Assignment.Clone()
	simplify(f, rec)

	final, ok := subSearch(ctx, f, rec)
	if !ok {
		// cancellation observed partway through the search: report
		// nothing, matching the original's silent early return when
		// its stop_token has been triggered.
		return
	}

	if final.IsValid() {
		for _, v := range sub.Formula.Variables() {
			if _, assigned := final.Get(v); !assigned {
				final.Assign(v, true)
			}
		}
		final.Stats()["ELAPSED_TIME_SECONDS"] = elapsedSeconds(start)
		reporter.ReportSolution(final, solver.DPLL)
	} else {
		reporter.ReportNoSolution()
	}
}

func elapsedSeconds(start time.Time) string {
	return strconv.FormatFloat(time.Since(start).Seconds(), 'f', -1, 64)
}

// subSearch is DPLL's recursive branch-and-backtrack core. ok is false
// only when ctx was cancelled mid-search; callers must not inspect the
// returned record in that case.
//
// The original throttles its stop_token check to once per 100ms to
// keep the check off the hot path; ctx.Done() is a non-blocking
// channel receive, cheap enough to poll at every node, so this checks
// on every call instead of tracking elapsed time separately.
func subSearch(ctx context.Context, f *cnf.Formula, rec *assignment.Record) (*assignment.Record, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	default:
	}

	if f.NumClauses() == 0 {
		rec.SetValid(true)
		return rec, true
	}
	if f.EmptyClause() {
		rec.SetValid(false)
		return rec, true
	}

	branchVar, ok := f.PickVar()
	if !ok {
		rec.SetValid(true)
		return rec, true
	}

	for _, val := range [2]bool{false, true} {
		subF := f.Clone()
		subRec := rec.Clone()
		subRec.Assign(branchVar, val)
		subF.AssignAndSimplify(branchVar, val)
		simplify(subF, subRec)

		result, ok := subSearch(ctx, subF, subRec)
		if !ok {
			return nil, false
		}
		if result.IsValid() {
			return result, true
		}
	}

	rec.SetValid(false)
	return rec, true
}
