package cnf

import "github.com/pkg/errors"

// ErrMissingAssignment is returned by Eval and UnsatisfiedClauses when a
// clause refers to a variable that the supplied assignment does not cover.
var ErrMissingAssignment = errors.New("cnf: assignment is missing a variable referenced by the formula")
