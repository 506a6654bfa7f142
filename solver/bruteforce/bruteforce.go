// Package bruteforce implements an exhaustive complete solver: it
// enumerates every assignment of the formula's variables in binary-
// counter order until one satisfies the formula or the search space is
// exhausted. It is a supplemented feature (present in the original
// system as an explicit "brute_force" solver kind, dropped from the
// distilled specification but straightforward to carry forward as a
// baseline complete solver, e.g. for small instances or testing).
//
// Grounded on original_source/lib/solver/brute_force.cpp: assign every
// variable false, then repeatedly find the assignment's binary
// successor (flip the trailing run of trues to false and the next
// false to true) until eval() succeeds or the counter overflows.
package bruteforce

import (
	"context"
	"strconv"
	"time"

	"github.com/lmoonie/sat-solver/assignment"
	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/solver"
)

// SubProblem mirrors the DPLL/CDCL division shape, so brute force can
// participate in the same parallel-division portfolio composition.
type SubProblem struct {
	Formula    *cnf.Formula
	Assignment *assignment.Record
}

// Run enumerates every assignment of sub's remaining variables,
// reporting the outcome via reporter.
func Run(ctx context.Context, sub *SubProblem, reporter solver.Reporter, d *diag.Diagnostics) {
	d.Debugf("brute_force worker starting")
	start := time.Now()

	f := sub.Formula
	rec := sub.Assignment.Clone()

	if f.NumClauses() == 0 {
		rec.SetValid(true)
		report(rec, start, reporter)
		return
	}
	if f.EmptyClause() {
		rec.SetValid(false)
		reporter.ReportNoSolution()
		return
	}

	vars := f.Variables()
	for _, v := range vars {
		rec.Assign(v, false)
	}

	checkInterval := 0
	for {
		satisfied, err := f.Eval(rec.Map())
		if err != nil {
			reporter.ReportError(true)
			return
		}
		if satisfied {
			rec.SetValid(true)
			report(rec, start, reporter)
			return
		}

		if !increment(rec, vars) {
			// the counter overflowed: every assignment was tried.
			rec.SetValid(false)
			reporter.ReportNoSolution()
			return
		}

		checkInterval++
		if checkInterval >= 4096 {
			checkInterval = 0
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}
}

// increment advances rec to the next assignment in binary-counter
// order over vars (least-significant first), returning false once the
// counter has wrapped past the all-true assignment.
func increment(rec *assignment.Record, vars []cnf.Variable) bool {
	for _, v := range vars {
		val, _ := rec.Get(v)
		if val {
			rec.Reassign(v, false)
			continue
		}
		rec.Reassign(v, true)
		return true
	}
	return false
}

func report(rec *assignment.Record, start time.Time, reporter solver.Reporter) {
	rec.Stats()["ELAPSED_TIME_SECONDS"] = strconv.FormatFloat(time.Since(start).Seconds(), 'f', -1, 64)
	reporter.ReportSolution(rec, solver.BruteForce)
}
