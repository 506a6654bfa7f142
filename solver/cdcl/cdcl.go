// Package cdcl implements the conflict-driven clause learning engine
// of spec.md section 4.4: unit propagation, first-UIP conflict
// analysis, clause learning, and non-chronological backjumping.
//
// Grounded on original_source/lib/solver/cdcl.cpp: the trail of
// (variable, value, decision_level, reason_clause) tuples, the
// first_uip/resolve_clauses/analyze_conflict helpers, and the main
// loop's stack of formula snapshots, one saved before each decision
// (kept per spec.md Design Notes section 9's Open Question, rather than
// a two-watched-literal scheme). A backjump restores the snapshot saved
// before the backjump level's decision and retries that decision with
// the value true. Learned clauses are added only to the copy of the
// original formula that conflict analysis reads; the restored working
// formula does not contain them, so they do not take part in later
// unit propagation.
package cdcl

import (
	"context"
	"strconv"
	"time"

	"github.com/lmoonie/sat-solver/assignment"
	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/solver"
)

// SubProblem is one divided branch, identical in shape to the DPLL
// engine's (spec.md section 4.4: "parallel division: same mechanism as
// DPLL").
type SubProblem struct {
	Formula    *cnf.Formula
	Assignment *assignment.Record
}

// Divide splits the problem into numSubProblems branches by assigning
// the first log2(numSubProblems) remaining variables to every
// combination of truth values, one combination per sub-problem — the
// same bit-pattern walk as dpll.Divide, per spec.md section 4.4's
// "parallel division: same mechanism as DPLL".
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

// unitPropagate repeatedly resolves unit clauses, pushing each forced
// assignment onto the trail tagged with its reason clause. Returns
// false the moment an empty (conflict) clause appears.
func unitPropagate(f *cnf.Formula, trail *solver.Trail, level int) bool {
	for {
		cl, ok := f.UnitClause()
		if !ok {
			break
		}
		lits, _ := f.GetClauseLiterals(cl)
		lit := lits[0]
		trail.Push(solver.Entry{Var: lit.Var(), Val: lit.Polarity(), DecisionLevel: level, Reason: cl})
		f.AssignAndSimplify(lit.Var(), lit.Polarity())
		if f.EmptyClause() {
			return false
		}
	}
	return !f.EmptyClause()
}

// firstUIP reports whether clause has at most one literal assigned at
// the current decision level (spec.md section 4.4's stopping
// condition for conflict analysis).
func firstUIP(clause map[cnf.Literal]struct{}, trail *solver.Trail, level int) bool {
	count := 0
	for lit := range clause {
		if l, ok := trail.LevelOf(lit.Var()); ok && l == level {
			count++
			if count > 1 {
				return false
			}
		}
	}
	return true
}

// resolve implements resolve(A, B): the union of A and B with any
// complementary pair removed.
func resolve(a, b map[cnf.Literal]struct{}) map[cnf.Literal]struct{} {
	out := make(map[cnf.Literal]struct{}, len(a)+len(b))
	for lit := range a {
		out[lit] = struct{}{}
	}
	for lit := range b {
		if _, ok := out[lit.Complement()]; ok {
			delete(out, lit.Complement())
		} else {
			out[lit] = struct{}{}
		}
	}
	return out
}

func literalSet(lits []cnf.Literal) map[cnf.Literal]struct{} {
	out := make(map[cnf.Literal]struct{}, len(lits))
	for _, l := range lits {
		out[l] = struct{}{}
	}
	return out
}

// analyzeConflict walks the trail backward from the empty clause,
// resolving against each implicated assignment's reason clause until
// the learned clause satisfies first-UIP, then returns the learned
// clause and the backjump level (the second-highest decision level
// among its literals, or -1 if every literal is at level 0).
func analyzeConflict(f, original *cnf.Formula, trail *solver.Trail, level int) (map[cnf.Literal]struct{}, int) {
	emptyID, _ := f.GetEmptyClause()
	origLits, _ := original.GetClauseLiterals(emptyID)
	conflict := literalSet(origLits)

	entries := trail.Entries()
	for i := len(entries) - 1; i >= 0 && !firstUIP(conflict, trail, level); i-- {
		reason := entries[i].Reason
		if reason == 0 {
			break
		}
		reasonLits, ok := original.GetClauseLiterals(reason)
		if !ok {
			break
		}
		conflict = resolve(conflict, literalSet(reasonLits))
	}

	backjump := -1
	for lit := range conflict {
		if l, ok := trail.LevelOf(lit.Var()); ok && l > backjump && l < level {
			backjump = l
		}
	}
	return conflict, backjump
}

// Run searches sub for a satisfying assignment, reporting the outcome
// via reporter.
func Run(ctx context.Context, sub *SubProblem, reporter solver.Reporter, d *diag.Diagnostics) {
	d.Debugf("cdcl worker starting")
	start := time.Now()

	original := sub.Formula.Clone()
	f := sub.Formula.Clone()
	rec := sub.Assignment.Clone()

	trail := solver.NewTrail()
	snapshots := []*cnf.Formula{}

	solFound := true
	if !unitPropagate(f, trail, len(snapshots)) {
		solFound = false
	}

	nextVal := false
	for solFound && f.NumClauses() > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		snapshots = append(snapshots, f.Clone())
		branchVar, ok := f.PickVar()
		if !ok {
			break
		}
		level := len(snapshots)
		trail.Push(solver.Entry{Var: branchVar, Val: nextVal, DecisionLevel: level})
		f.AssignAndSimplify(branchVar, nextVal)
		if nextVal {
			nextVal = false
		}

		if !unitPropagate(f, trail, level) {
			learned, backjump := analyzeConflict(f, original, trail, level)
			if backjump < 0 {
				solFound = false
				break
			}
			learnedID := original.AddClause(setToSlice(learned)...)
			if learnedID != 0 {
				f.AddClause(setToSlice(learned)...)
			}
			snapshots = snapshots[:backjump]
			trail.TruncateToLevel(backjump)
			f = snapshots[len(snapshots)-1].Clone()
			nextVal = true
		}
	}

	if solFound {
		for v, val := range trail.Assignments() {
			rec.Reassign(v, val)
		}
		rec.SetValid(true)
		rec.Stats()["ELAPSED_TIME_SECONDS"] = strconv.FormatFloat(time.Since(start).Seconds(), 'f', -1, 64)
		reporter.ReportSolution(rec, solver.CDCL)
	} else {
		reporter.ReportNoSolution()
	}
}

func setToSlice(set map[cnf.Literal]struct{}) []cnf.Literal {
	out := make([]cnf.Literal, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	return out
}
