// Package dimacs implements the CNF Input Reader described in
// spec.md section 4.7: a parser for the DIMACS-like "p cnf V C" header
// plus clause-terminated-by-zero body.
package dimacs

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lmoonie/sat-solver/cnf"
)

// Parse reads a byte stream in DIMACS CNF format and returns the
// resulting Formula. Blank lines and lines beginning with 'c' are
// ignored wherever they appear. The first non-ignored line must be the
// header "p cnf V C"; the body is whitespace/newline-delimited
// integers, each clause terminated by a literal 0.
func Parse(r io.Reader) (*cnf.Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		formula         *cnf.Formula
		headerSeen      bool
		declaredVars    int
		declaredClauses int
		currentID       cnf.ClauseID
		completed       int
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if !headerSeen {
			var err error
			declaredVars, declaredClauses, err = parseHeader(line)
			if err != nil {
				return nil, err
			}
			headerSeen = true
			formula = cnf.NewFormula(cnf.Variable(declaredVars), declaredClauses)
			currentID = formula.NewClauseID()
			formula.EnsureClause(currentID)
			continue
		}

		for _, field := range strings.Fields(line) {
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrNumericOverflow, "token %q", field)
			}
			if n > math.MaxInt32 || n < math.MinInt32 {
				return nil, errors.Wrapf(ErrNumericOverflow, "token %q", field)
			}
			if n == 0 {
				completed++
				currentID = formula.NewClauseID()
				formula.EnsureClause(currentID)
				continue
			}
			if abs64(n) > int64(declaredVars) {
				return nil, errors.Wrapf(ErrVariableOutOfRange, "literal %d exceeds declared max var %d", n, declaredVars)
			}
			formula.AddLiteral(cnf.Literal(n), currentID)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	if !headerSeen {
		return nil, ErrHeaderFormat
	}
	// the final clause id is only ever allocated in anticipation of a
	// next clause (by the header, or by the previous clause's
	// terminating 0); unless it went on to receive literals of its
	// own, it was never actually a clause and must be dropped so
	// NumClauses reflects only what was actually declared. This is
	// unconditional: it applies equally whether the input ended
	// exactly on a declared clause count or short of it.
	if lits, ok := formula.GetClauseLiterals(currentID); ok && len(lits) == 0 {
		formula.RemoveClause(currentID)
	}
	if completed != declaredClauses {
		return nil, errors.Wrapf(ErrWrongClauseCount, "read %d clauses, header declared %d", completed, declaredClauses)
	}
	return formula, nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// parseHeader parses a "p cnf V C" line, with V, C positive and fitting
// a 32-bit signed integer.
func parseHeader(line string) (vars, clauses int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "p" || fields[1] != "cnf" {
		return 0, 0, errors.Wrapf(ErrHeaderFormat, "line %q", line)
	}
	v, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrHeaderFormat, "variable count %q", fields[2])
	}
	c, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrHeaderFormat, "clause count %q", fields[3])
	}
	if v > math.MaxInt32 || c > math.MaxInt32 {
		return 0, 0, errors.Wrapf(ErrNumericOverflow, "line %q", line)
	}
	if v <= 0 || c <= 0 {
		return 0, 0, errors.Wrapf(ErrHeaderFormat, "variable and clause counts must be strictly positive: %q", line)
	}
	return int(v), int(c), nil
}
