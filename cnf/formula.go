// Package cnf implements the Formula Store: a Boolean formula in
// conjunctive normal form with a bidirectional literal<->clause index,
// supporting the incremental edit operations solver engines need
// (unit propagation, pure-literal elimination, assign-and-simplify).
package cnf

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Variable is a positive integer identifier, 1 <= v <= MaxVar.
type Variable int

// Literal is a nonzero signed integer; the sign encodes polarity.
// The complement of a literal l is -l.
type Literal int

// Var returns the variable underlying a literal.
func (l Literal) Var() Variable {
	if l < 0 {
		return Variable(-l)
	}
	return Variable(l)
}

// Polarity reports whether the literal is satisfied by assigning its
// variable to true.
func (l Literal) Polarity() bool { return l > 0 }

// Complement returns -l.
func (l Literal) Complement() Literal { return -l }

// ClauseID identifies a clause; stable and never reused within one
// Formula instance (invariant I5).
type ClauseID int

// Formula is a conjunction of clauses plus the two indices described in
// spec.md section 3: literalsOf (clause -> literal set) and clausesOf
// (literal -> clause-id set). Both sides are always updated together.
type Formula struct {
	maxVar          Variable
	declaredClauses int
	nextClauseID    ClauseID

	literalsOf map[ClauseID]map[Literal]struct{}
	clausesOf  map[Literal]map[ClauseID]struct{}
}

// NewFormula creates an empty Formula with the declared header bounds.
func NewFormula(maxVar Variable, declaredClauses int) *Formula {
	return &Formula{
		maxVar:          maxVar,
		declaredClauses: declaredClauses,
		nextClauseID:    1,
		literalsOf:      make(map[ClauseID]map[Literal]struct{}),
		clausesOf:       make(map[Literal]map[ClauseID]struct{}),
	}
}

// MaxVar returns the declared variable ceiling.
func (f *Formula) MaxVar() Variable { return f.maxVar }

// DeclaredClauseCount returns the clause count taken from the input header.
func (f *Formula) DeclaredClauseCount() int { return f.declaredClauses }

// NumClauses returns the number of clauses currently present (including
// empty conflict clauses).
func (f *Formula) NumClauses() int { return len(f.literalsOf) }

func (f *Formula) ensureLiteralEntries(lit Literal) {
	if _, ok := f.clausesOf[lit]; !ok {
		f.clausesOf[lit] = make(map[ClauseID]struct{})
	}
	comp := lit.Complement()
	if _, ok := f.clausesOf[comp]; !ok {
		f.clausesOf[comp] = make(map[ClauseID]struct{})
	}
}

// NewClauseID allocates a fresh, never-before-used clause id (used by
// CDCL to add learned clauses).
func (f *Formula) NewClauseID() ClauseID {
	id := f.nextClauseID
	f.nextClauseID++
	return id
}

// EnsureClause makes sure clause id cl exists (possibly with zero
// literals, i.e. an empty/conflict clause), without requiring any
// literal to be added. Used by the CNF reader so that an explicitly
// empty input clause ("0" with nothing before it) still becomes a real
// conflict clause instead of silently vanishing.
func (f *Formula) EnsureClause(cl ClauseID) {
	if _, ok := f.literalsOf[cl]; !ok {
		f.literalsOf[cl] = make(map[Literal]struct{})
	}
	if cl >= f.nextClauseID {
		f.nextClauseID = cl + 1
	}
}

// AddLiteral inserts l into clause c, creating c and the +-l index
// entries as needed. Idempotent on set semantics (invariant I2).
func (f *Formula) AddLiteral(lit Literal, cl ClauseID) {
	if v := lit.Var(); v > f.maxVar {
		f.maxVar = v
	}
	f.ensureLiteralEntries(lit)
	if _, ok := f.literalsOf[cl]; !ok {
		f.literalsOf[cl] = make(map[Literal]struct{})
	}
	if cl >= f.nextClauseID {
		f.nextClauseID = cl + 1
	}
	f.literalsOf[cl][lit] = struct{}{}
	f.clausesOf[lit][cl] = struct{}{}
}

// AddClause inserts a whole new clause under a fresh id, skipping it
// entirely if it is a tautology (invariant I3 permits filtering on
// insert). Returns the allocated clause id, or 0 if the clause was a
// tautology and dropped.
func (f *Formula) AddClause(lits ...Literal) ClauseID {
	seen := make(map[Literal]struct{}, len(lits))
	for _, l := range lits {
		if _, ok := seen[l.Complement()]; ok {
			return 0 // tautology; never blocks satisfaction, so drop it
		}
		seen[l] = struct{}{}
	}
	id := f.NewClauseID()
	for l := range seen {
		f.AddLiteral(l, id)
	}
	return id
}

// RemoveLiteral removes l from clause c's literal set and c from l's
// clause set. The clause itself, even if left empty, remains (an empty
// clause signals a conflict).
func (f *Formula) RemoveLiteral(lit Literal, cl ClauseID) {
	if lits, ok := f.literalsOf[cl]; ok {
		delete(lits, lit)
	}
	if clauses, ok := f.clausesOf[lit]; ok {
		delete(clauses, cl)
	}
}

// RemoveClause removes c entirely, pulling c out of every clausesOf[l]
// for l in literalsOf[c].
func (f *Formula) RemoveClause(cl ClauseID) {
	lits, ok := f.literalsOf[cl]
	if !ok {
		return
	}
	for lit := range lits {
		if clauses, ok := f.clausesOf[lit]; ok {
			delete(clauses, cl)
		}
	}
	delete(f.literalsOf, cl)
}

// AssignAndSimplify assigns variable v to boolean value b and simplifies
// the formula accordingly: every clause containing the satisfying
// literal is deleted outright; the opposite literal is dropped from
// every clause that contains it (possibly leaving empty/conflict
// clauses). Safe to call for a v that does not appear in the formula.
// Structural deletions are collected before being applied so that no
// iteration over an index entry is invalidated mid-scan.
func (f *Formula) AssignAndSimplify(v Variable, b bool) {
	sat := Literal(v)
	if !b {
		sat = -sat
	}
	unsat := sat.Complement()

	satClauses := f.clauseIDs(sat)
	for _, cl := range satClauses {
		f.RemoveClause(cl)
	}

	unsatClauses := f.clauseIDs(unsat)
	for _, cl := range unsatClauses {
		if _, stillPresent := f.literalsOf[cl]; !stillPresent {
			continue // the clause also contained `sat` (tautology) and is already gone
		}
		f.RemoveLiteral(unsat, cl)
	}
}

// clauseIDs snapshots the clause-id set for a literal into a slice.
func (f *Formula) clauseIDs(lit Literal) []ClauseID {
	set, ok := f.clausesOf[lit]
	if !ok {
		return nil
	}
	out := make([]ClauseID, 0, len(set))
	for cl := range set {
		out = append(out, cl)
	}
	return out
}

// UnitClause returns any clause whose literal set has size 1, or ok=false
// if none exists. Tie-breaking among multiple unit clauses is unspecified.
func (f *Formula) UnitClause() (ClauseID, bool) {
	for cl, lits := range f.literalsOf {
		if len(lits) == 1 {
			return cl, true
		}
	}
	return 0, false
}

// PureLiteral returns a literal l such that clausesOf[l] is nonempty and
// clausesOf[-l] is empty, or 0 if no such literal exists.
func (f *Formula) PureLiteral() Literal {
	for lit, clauses := range f.clausesOf {
		if len(clauses) == 0 {
			continue
		}
		if len(f.clausesOf[lit.Complement()]) == 0 {
			return lit
		}
	}
	return 0
}

// EmptyClause reports whether an empty (conflict) clause exists.
func (f *Formula) EmptyClause() bool {
	_, ok := f.GetEmptyClause()
	return ok
}

// GetEmptyClause returns an empty (conflict) clause's id, if any.
func (f *Formula) GetEmptyClause() (ClauseID, bool) {
	for cl, lits := range f.literalsOf {
		if len(lits) == 0 {
			return cl, true
		}
	}
	return 0, false
}

// GetClauseLiterals returns a copy of clause c's literal set.
func (f *Formula) GetClauseLiterals(cl ClauseID) ([]Literal, bool) {
	lits, ok := f.literalsOf[cl]
	if !ok {
		return nil, false
	}
	out := make([]Literal, 0, len(lits))
	for l := range lits {
		out = append(out, l)
	}
	return out, true
}

// ClauseIDs returns every clause id currently present, in no particular order.
func (f *Formula) ClauseIDs() []ClauseID {
	out := make([]ClauseID, 0, len(f.literalsOf))
	for cl := range f.literalsOf {
		out = append(out, cl)
	}
	return out
}

// ClausesContainingLiteral returns a copy of the clause-id set for a literal.
func (f *Formula) ClausesContainingLiteral(lit Literal) []ClauseID {
	return f.clauseIDs(lit)
}

// Variables returns the ordered set of variables that still appear in
// some remaining clause.
func (f *Formula) Variables() []Variable {
	seen := make(map[Variable]struct{})
	for lit, clauses := range f.clausesOf {
		if len(clauses) == 0 {
			continue
		}
		seen[lit.Var()] = struct{}{}
	}
	out := make([]Variable, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PickVar returns any variable appearing in some remaining clause.
// The choice is deterministic given identical formula state (the
// smallest remaining variable), so that worker problem-division stays
// reproducible.
func (f *Formula) PickVar() (Variable, bool) {
	vars := f.Variables()
	if len(vars) == 0 {
		return 0, false
	}
	return vars[0], true
}

// Eval reports whether every clause has at least one satisfied literal
// under assignment. Returns ErrMissingAssignment if a clause references
// a variable the assignment does not cover.
func (f *Formula) Eval(assignment map[Variable]bool) (bool, error) {
	for cl, lits := range f.literalsOf {
		satisfied := false
		for lit := range lits {
			val, ok := assignment[lit.Var()]
			if !ok {
				return false, errors.Wrapf(ErrMissingAssignment, "clause %d references variable %d", cl, lit.Var())
			}
			if val == lit.Polarity() {
				satisfied = true
			}
		}
		if !satisfied {
			return false, nil
		}
	}
	return true, nil
}

// UnsatisfiedClauses returns the set of clause-ids not satisfied under assignment.
func (f *Formula) UnsatisfiedClauses(assignment map[Variable]bool) (map[ClauseID]struct{}, error) {
	out := make(map[ClauseID]struct{})
	for cl, lits := range f.literalsOf {
		satisfied := false
		for lit := range lits {
			val, ok := assignment[lit.Var()]
			if !ok {
				return nil, errors.Wrapf(ErrMissingAssignment, "clause %d references variable %d", cl, lit.Var())
			}
			if val == lit.Polarity() {
				satisfied = true
			}
		}
		if !satisfied {
			out[cl] = struct{}{}
		}
	}
	return out, nil
}

// Clone returns a deep copy of the formula, suitable for handing a
// fresh, independently-mutable instance to each solver worker.
func (f *Formula) Clone() *Formula {
	clone := &Formula{
		maxVar:          f.maxVar,
		declaredClauses: f.declaredClauses,
		nextClauseID:    f.nextClauseID,
		literalsOf:      make(map[ClauseID]map[Literal]struct{}, len(f.literalsOf)),
		clausesOf:       make(map[Literal]map[ClauseID]struct{}, len(f.clausesOf)),
	}
	for cl, lits := range f.literalsOf {
		set := make(map[Literal]struct{}, len(lits))
		for l := range lits {
			set[l] = struct{}{}
		}
		clone.literalsOf[cl] = set
	}
	for lit, clauses := range f.clausesOf {
		set := make(map[ClauseID]struct{}, len(clauses))
		for cl := range clauses {
			set[cl] = struct{}{}
		}
		clone.clausesOf[lit] = set
	}
	return clone
}

// String renders the formula one clause per line, for debugging only;
// this is not a stable external format.
func (f *Formula) String() string {
	var ids []ClauseID
	for cl := range f.literalsOf {
		ids = append(ids, cl)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buf := make([]byte, 0, 64*len(ids))
	for _, cl := range ids {
		lits, _ := f.GetClauseLiterals(cl)
		sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })
		buf = append(buf, "{ "...)
		for _, l := range lits {
			buf = append(buf, fmt.Sprintf("%d ", l)...)
		}
		buf = append(buf, "}\n"...)
	}
	return string(buf)
}

// Fprint writes the debug form of the formula to w.
func (f *Formula) Fprint(w io.Writer) error {
	_, err := io.WriteString(w, f.String())
	return err
}
