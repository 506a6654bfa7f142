package bruteforce_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoonie/sat-solver/assignment"
	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/solver"
	"github.com/lmoonie/sat-solver/solver/bruteforce"
)

type fakeReporter struct {
	solved *assignment.Record
	noSol  int
}

func (f *fakeReporter) ReportSolution(rec *assignment.Record, kind solver.Kind) { f.solved = rec }
func (f *fakeReporter) ReportNoSolution()                                      { f.noSol++ }
func (f *fakeReporter) ReportError(complete bool)                              {}

func buildFormula(t *testing.T, clauses [][]int) *cnf.Formula {
	t.Helper()
	maxVar := 0
	for _, cl := range clauses {
		for _, lit := range cl {
			if abs(lit) > maxVar {
				maxVar = abs(lit)
			}
		}
	}
	f := cnf.NewFormula(cnf.Variable(maxVar), len(clauses))
	for _, cl := range clauses {
		id := f.NewClauseID()
		f.EnsureClause(id)
		for _, lit := range cl {
			f.AddLiteral(cnf.Literal(lit), id)
		}
	}
	return f
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func quietDiag() *diag.Diagnostics {
	return diag.New(diag.Silent, io.Discard, io.Discard)
}

func TestRunFindsSatisfyingAssignment(t *testing.T) {
	f := buildFormula(t, [][]int{{1, 2}, {-1, 2}, {-2, 3}})
	rec := assignment.New()
	rec.SetMaxVar(f.MaxVar())

	reporter := &fakeReporter{}
	sub := &bruteforce.SubProblem{Formula: f, Assignment: rec}
	bruteforce.Run(context.Background(), sub, reporter, quietDiag())

	require.NotNil(t, reporter.solved)
	satisfied, err := f.Eval(reporter.solved.Map())
	require.NoError(t, err)
	assert.True(t, satisfied)
}

func TestRunExhaustsSearchSpaceOnUnsat(t *testing.T) {
	f := buildFormula(t, [][]int{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}})
	rec := assignment.New()
	rec.SetMaxVar(f.MaxVar())

	reporter := &fakeReporter{}
	sub := &bruteforce.SubProblem{Formula: f, Assignment: rec}
	bruteforce.Run(context.Background(), sub, reporter, quietDiag())

	assert.Nil(t, reporter.solved)
	assert.Equal(t, 1, reporter.noSol)
}
