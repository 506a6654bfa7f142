// Package walksat implements the stochastic local-search engine of
// spec.md section 4.5: random initialization followed by repeated
// random-walk/greedy variable flips until the assignment satisfies the
// formula.
//
// Grounded on original_source/lib/solver/local_search.cpp: the
// rand_bool initializer, the discrete_distribution-over-unsatisfied-
// clauses clause pick, the p=0.2 random-walk-vs-greedy split, and the
// break-count computation for the greedy move.
package walksat

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/lmoonie/sat-solver/assignment"
	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/solver"
	"github.com/lmoonie/sat-solver/solver/rng"
)

// randomWalkProbability is the original's pick_random_literal_prob.
const randomWalkProbability = 0.2

// Run searches f for a satisfying assignment using WalkSAT, seeded
// with seed (distinct per worker so a multi-worker run stays
// reproducible given a master seed, per spec.md Design Notes section
// 9). WalkSAT is incomplete: it runs until it finds a solution or ctx
// is cancelled, never reporting no-solution.
func Run(ctx context.Context, f *cnf.Formula, rec *assignment.Record, seed uint64, reporter solver.Reporter, d *diag.Diagnostics) {
	d.Debugf("walksat worker starting")
	start := time.Now()

	r := rng.New(seed)
	for _, v := range f.Variables() {
		rec.Assign(v, r.Bool())
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		satisfied, err := f.Eval(rec.Map())
		if err != nil {
			reporter.ReportError(false)
			return
		}
		if satisfied {
			rec.SetValid(true)
			rec.Stats()["ELAPSED_TIME_SECONDS"] = strconv.FormatFloat(time.Since(start).Seconds(), 'f', -1, 64)
			reporter.ReportSolution(rec, solver.LocalSearch)
			return
		}

		unsat, err := f.UnsatisfiedClauses(rec.Map())
		if err != nil {
			reporter.ReportError(false)
			return
		}
		target := pickClause(unsat, r)
		lits, _ := f.GetClauseLiterals(target)

		var flipVar cnf.Variable
		if r.Float01() < randomWalkProbability {
			flipVar = pickLiteralRandomly(lits, r).Var()
		} else {
			flipVar = pickLiteralGreedy(f, rec, lits)
		}
		current, _ := rec.Get(flipVar)
		rec.Reassign(flipVar, !current)
	}
}

// pickClause chooses one of the unsatisfied clauses, biased toward a
// bounded prefix of their sorted ids (spec.md section 4.5 point 1).
func pickClause(unsat map[cnf.ClauseID]struct{}, r *rng.Rand) cnf.ClauseID {
	ids := make([]cnf.ClauseID, 0, len(unsat))
	for id := range unsat {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[r.PickIndexBiased(len(ids))]
}

// pickLiteralRandomly chooses a literal from lits, biased toward a
// bounded prefix (spec.md section 4.5 point 2).
func pickLiteralRandomly(lits []cnf.Literal, r *rng.Rand) cnf.Literal {
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })
	return lits[r.PickIndexBiased(len(lits))]
}

// pickLiteralGreedy returns the variable among lits whose flip would
// break the fewest currently-satisfied clauses (spec.md section 4.5
// point 3). Ties break on the lowest variable id, for determinism
// within a single worker.
func pickLiteralGreedy(f *cnf.Formula, rec *assignment.Record, lits []cnf.Literal) cnf.Variable {
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })

	best := cnf.Variable(0)
	bestBreak := -1
	for _, lit := range lits {
		v := lit.Var()
		bc := breakCount(f, rec, v)
		if bestBreak < 0 || bc < bestBreak {
			bestBreak = bc
			best = v
		}
	}
	return best
}

// breakCount counts the clauses currently satisfied solely by v's
// current value that would become unsatisfied if v were flipped.
func breakCount(f *cnf.Formula, rec *assignment.Record, v cnf.Variable) int {
	val, _ := rec.Get(v)
	satisfyingLit := cnf.Literal(v)
	if !val {
		satisfyingLit = -satisfyingLit
	}

	count := 0
	for _, cl := range f.ClausesContainingLiteral(satisfyingLit) {
		lits, _ := f.GetClauseLiterals(cl)
		satisfiedByOther := false
		for _, other := range lits {
			if other == satisfyingLit {
				continue
			}
			otherVal, ok := rec.Get(other.Var())
			if ok && otherVal == other.Polarity() {
				satisfiedByOther = true
				break
			}
		}
		if !satisfiedByOther {
			count++
		}
	}
	return count
}
