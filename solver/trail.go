package solver

import "github.com/lmoonie/sat-solver/cnf"

// Entry is one assignment recorded on a Trail: the variable and value
// chosen, the decision level it happened at, and — for CDCL — the
// clause that forced it via unit propagation (zero for a branching
// decision).
//
// Grounded on original_source/lib/solver/cdcl.cpp's "assignment" struct
// (var, val, decision_level, reason_clause).
type Entry struct {
	Var           cnf.Variable
	Val           bool
	DecisionLevel int
	Reason        cnf.ClauseID
}

// Trail is the iterative decision/propagation history of the CDCL
// engine. The DPLL engine does not use it: its search recurses and
// keeps the history on the call stack.
type Trail struct {
	entries []Entry
}

// NewTrail returns an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Push appends an assignment.
func (t *Trail) Push(e Entry) {
	t.entries = append(t.entries, e)
}

// Len reports the number of recorded assignments.
func (t *Trail) Len() int { return len(t.entries) }

// Last returns the most recent entry. Panics on an empty trail, as the
// original's trail.back() would on an empty deque; callers only call
// this after Push or a Len check.
func (t *Trail) Last() Entry { return t.entries[len(t.entries)-1] }

// Entries returns the trail in chronological order. The slice is owned
// by the Trail; callers must not mutate it.
func (t *Trail) Entries() []Entry { return t.entries }

// TruncateToLevel removes every entry whose DecisionLevel is >= level,
// mirroring the original's "while (trail.back().decision_level >=
// backjump_level) trail.pop_back()". Returns the removed entries in
// the order they were popped (most recent first).
func (t *Trail) TruncateToLevel(level int) []Entry {
	var popped []Entry
	for len(t.entries) > 0 && t.entries[len(t.entries)-1].DecisionLevel >= level {
		popped = append(popped, t.entries[len(t.entries)-1])
		t.entries = t.entries[:len(t.entries)-1]
	}
	return popped
}

// LevelOf returns the decision level at which v was assigned, and
// whether v appears on the trail at all.
func (t *Trail) LevelOf(v cnf.Variable) (int, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Var == v {
			return t.entries[i].DecisionLevel, true
		}
	}
	return 0, false
}

// ReasonOf returns the reason clause recorded for v's assignment, and
// whether v appears on the trail.
func (t *Trail) ReasonOf(v cnf.Variable) (cnf.ClauseID, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Var == v {
			return t.entries[i].Reason, true
		}
	}
	return 0, false
}

// Assignments renders the trail as a variable -> value map, used once
// a search concludes successfully to populate the Assignment Record.
func (t *Trail) Assignments() map[cnf.Variable]bool {
	out := make(map[cnf.Variable]bool, len(t.entries))
	for _, e := range t.entries {
		out[e.Var] = e.Val
	}
	return out
}
