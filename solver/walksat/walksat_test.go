package walksat_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoonie/sat-solver/assignment"
	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/solver"
	"github.com/lmoonie/sat-solver/solver/walksat"
)

type fakeReporter struct {
	solved *assignment.Record
	errs   int
}

func (f *fakeReporter) ReportSolution(rec *assignment.Record, kind solver.Kind) { f.solved = rec }
func (f *fakeReporter) ReportNoSolution()                                      {}
func (f *fakeReporter) ReportError(complete bool)                              { f.errs++ }

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
	walksat.Run(context.Background(), f, rec, 42, reporter, quietDiag())

	require.NotNil(t, reporter.solved)
	assert.True(t, reporter.solved.IsValid())
	satisfied, err := f.Eval(reporter.solved.Map())
	require.NoError(t, err)
	assert.True(t, satisfied)
}

func TestRunStopsOnCancellationWithoutSolution(t *testing.T) {
	// unsatisfiable: WalkSAT never terminates on its own, so it must
	// obey cancellation instead of looping forever.
	f := buildFormula(t, [][]int{{1}, {-1}})
	rec := assignment.New()
	rec.SetMaxVar(f.MaxVar())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	reporter := &fakeReporter{}
	done := make(chan struct{})
	go func() {
		walksat.Run(ctx, f, rec, 1, reporter, quietDiag())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("walksat did not honor cancellation")
	}
	assert.Nil(t, reporter.solved)
}
