package dimacs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoonie/sat-solver/cnf"
	"github.com/lmoonie/sat-solver/dimacs"
)

func TestParseWellFormedFormula(t *testing.T) {
	input := `c a comment line
p cnf 3 2
1 -2 0
2 3 0
`
	f, err := dimacs.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, cnf.Variable(3), f.MaxVar())
	assert.Equal(t, 2, f.DeclaredClauseCount())
	assert.Equal(t, 2, f.NumClauses())
}

func TestParseClauseSpanningMultipleLines(t *testing.T) {
	input := "p cnf 2 1\n1\n-2\n0\n"
	f, err := dimacs.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, f.NumClauses())
}

func TestParseExplicitEmptyClauseIsConflict(t *testing.T) {
	input := "p cnf 1 1\n0\n"
	f, err := dimacs.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, f.NumClauses())
	id, ok := f.GetEmptyClause()
	require.True(t, ok)
	lits, _ := f.GetClauseLiterals(id)
	assert.Empty(t, lits)
}

func TestParseMissingHeaderFails(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("1 -2 0\n"))
	assert.ErrorIs(t, err, dimacs.ErrHeaderFormat)
}

func TestParseMalformedHeaderFails(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p cnf x 2\n1 0\n"))
	assert.ErrorIs(t, err, dimacs.ErrHeaderFormat)
}

func TestParseZeroCountsRejected(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p cnf 0 2\n"))
	assert.ErrorIs(t, err, dimacs.ErrHeaderFormat)
}

func TestParseLiteralOutOfRange(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p cnf 2 1\n3 0\n"))
	assert.ErrorIs(t, err, dimacs.ErrVariableOutOfRange)
}

func TestParseNumericOverflow(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p cnf 2 1\n99999999999 0\n"))
	assert.ErrorIs(t, err, dimacs.ErrNumericOverflow)
}

func TestParseWrongClauseCountTooFew(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p cnf 2 2\n1 2 0\n"))
	assert.ErrorIs(t, err, dimacs.ErrWrongClauseCount)
}

func TestParseWrongClauseCountTooMany(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p cnf 2 1\n1 0\n-1 2 0\n"))
	assert.ErrorIs(t, err, dimacs.ErrWrongClauseCount)
}

func TestParseTrailingUnterminatedClauseIgnoredWhenCountAlreadyMet(t *testing.T) {
	// a trailing partial clause with no literals and no terminating 0,
	// after the declared count has already been satisfied, must not be
	// counted as an extra clause.
	input := "p cnf 2 1\n1 2 0\n"
	f, err := dimacs.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, f.NumClauses())
}

func TestParseIgnoresCommentsInterleavedWithClauses(t *testing.T) {
	input := "c header comment\np cnf 2 2\nc mid-stream comment\n1 2 0\nc another\n-1 -2 0\n"
	f, err := dimacs.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, f.NumClauses())
}
