// Package sol implements the SOL output format of spec.md section 6:
// a solution line, free-form statistics lines, and variable lines.
package sol

import (
	"fmt"
	"io"
	"sort"

	"github.com/lmoonie/sat-solver/assignment"
)

// Write renders rec as SOL format to w. The "valid" field is taken from
// rec's valid flag alone: 1 when it is set, -1 otherwise. A proven-
// unsatisfiable result and a run that produced no answer (timeout,
// out of memory, panic) therefore both print -1; only the CLI's exit
// code tells them apart. The caller is responsible for having already
// set rec's valid flag consistently before calling Write.
func Write(w io.Writer, rec *assignment.Record) error {
	valid := -1
	if rec.IsValid() {
		valid = 1
	}

	var clauseField string
	if rec.ProblemType() == assignment.CNF {
		clauseField = fmt.Sprintf(" %d", rec.NumClauses())
	}

	if _, err := fmt.Fprintf(w, "s %s %d %d%s\n", rec.ProblemType(), valid, rec.MaxVar(), clauseField); err != nil {
		return err
	}

	keys := make([]string, 0, len(rec.Stats()))
	for k := range rec.Stats() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "t %s %s\n", k, rec.Stats()[k]); err != nil {
			return err
		}
	}

	for _, v := range rec.SortedVariables() {
		val, _ := rec.Get(v)
		lit := int(v)
		if !val {
			lit = -lit
		}
		if _, err := fmt.Fprintf(w, "v %d\n", lit); err != nil {
			return err
		}
	}
	return nil
}
