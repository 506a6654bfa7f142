package dimacs

import "github.com/pkg/errors"

// Sentinel errors for the input-format error taxonomy of spec.md section 7.
var (
	ErrHeaderFormat       = errors.New("dimacs: missing or malformed \"p cnf V C\" header line")
	ErrVariableOutOfRange = errors.New("dimacs: literal magnitude exceeds the declared variable count")
	ErrNumericOverflow    = errors.New("dimacs: a clause token is not an integer, or a header or clause value does not fit in a 32-bit signed integer")
	ErrIO                 = errors.New("dimacs: I/O failure while reading input")
	ErrWrongClauseCount   = errors.New("dimacs: completed clause count does not match the declared header count")
)
