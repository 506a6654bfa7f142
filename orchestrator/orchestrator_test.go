package orchestrator_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/config"
	"github.com/lmoonie/sat-solver/diag"
	"github.com/lmoonie/sat-solver/orchestrator"
	"github.com/lmoonie/sat-solver/solver"
)

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

func TestOrchestratorDPLLFindsSatisfyingAssignment(t *testing.T) {
	f := buildFormula(t, [][]int{{1, 2}, {-1, 2}, {-2, 3}})
	cfg := config.Default()
	cfg.Solver = config.DPLL
	cfg.Threads = 2
	cfg.Duration = 10 * time.Second

	o := orchestrator.New(cfg, quietDiag())
	status, rec := o.Run(context.Background(), f)

	require.Equal(t, solver.Success, status)
	assert.True(t, rec.IsValid())
	satisfied, err := f.Eval(rec.Map())
	require.NoError(t, err)
	assert.True(t, satisfied)
}

func TestOrchestratorCDCLProvesUnsat(t *testing.T) {
	f := buildFormula(t, [][]int{{1}, {-1}})
	cfg := config.Default()
	cfg.Solver = config.CDCL
	cfg.Threads = 1
	cfg.Duration = 10 * time.Second

	o := orchestrator.New(cfg, quietDiag())
	status, rec := o.Run(context.Background(), f)

	require.Equal(t, solver.Success, status)
	assert.False(t, rec.IsValid())
}

func TestOrchestratorRespectsAlreadyCancelledContext(t *testing.T) {
	f := buildFormula(t, [][]int{{1, 2}})
	cfg := config.Default()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := orchestrator.New(cfg, quietDiag())
	status, _ := o.Run(ctx, f)
	assert.Equal(t, solver.IntSig, status)
}

func TestOrchestratorReadyUnblocksOnceWorkersAreDispatched(t *testing.T) {
	f := buildFormula(t, [][]int{{1, 2}, {-1, 2}, {-2, 3}})
	cfg := config.Default()
	cfg.Solver = config.DPLL
	cfg.Threads = 2
	cfg.Duration = 10 * time.Second

	o := orchestrator.New(cfg, quietDiag())
	done := make(chan struct{})
	go func() {
		o.Run(context.Background(), f)
		close(done)
	}()

	assert.True(t, o.Ready(context.Background()))
	<-done
}

func TestOrchestratorReadyReturnsFalseOnCancellation(t *testing.T) {
	cfg := config.Default()
	o := orchestrator.New(cfg, quietDiag())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, o.Ready(ctx))
}

func TestOrchestratorOutOfTime(t *testing.T) {
	// a small satisfiable formula (six variables, 64 assignments) under a
	// 1ns duration budget. The monitor first checks the deadline after
	// its 500ms wait, so brute force may report its solution first;
	// either outcome is accepted.
	clauses := [][]int{
		{1, 2, 3}, {-1, -2}, {-1, -3}, {-2, -3},
		{4, 5, 6}, {-4, -5}, {-4, -6}, {-5, -6},
		{1, 4},
	}
	f := buildFormula(t, clauses)
	cfg := config.Default()
	cfg.Solver = config.BruteForce
	cfg.Threads = 1
	cfg.Duration = 1 * time.Nanosecond

	o := orchestrator.New(cfg, quietDiag())
	status, _ := o.Run(context.Background(), f)
	assert.Contains(t, []solver.Status{solver.OutOfTime, solver.Success}, status)
}
