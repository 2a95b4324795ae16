package rules

// DecisionTable is the dense compiled form of a RuleSet: one slot per
// (state, surroundings code) pair, O(1) lookup. It is a derived, cached
// artifact; for every (state, code) it reproduces exactly what a
// first-match linear scan of the rule set would decide.
type DecisionTable struct {
	entries   [NumStates * NumSurroundings]tableEntry
	conflicts []Conflict
}

type tableEntry struct {
	action Action
	next   uint8
	rule   int16
	ok     bool
}

// Conflict records a (state, code) slot claimed by more than one rule.
// Winner and Shadowed are declaration indices into the rule set. Conflicts
// are diagnostics only; compilation always honors first-declared-wins.
type Conflict struct {
	State    int
	Code     Surroundings
	Winner   int
	Shadowed int
}

// Compile expands every rule's pattern into the concrete codes it matches
// and fills the table in declaration order. A slot written by an earlier
// rule is never overwritten by a later one. Slots left empty are legal:
// reaching one at run time is a Stuck outcome, not a compile error.
func Compile(rs *RuleSet) *DecisionTable {
	t := &DecisionTable{}
	for i, r := range rs.Rules() {
		for _, code := range r.Pattern.Expand() {
			slot := &t.entries[r.State*NumSurroundings+int(code)]
			if slot.ok {
				t.conflicts = append(t.conflicts, Conflict{
					State:    r.State,
					Code:     code,
					Winner:   int(slot.rule),
					Shadowed: i,
				})
				continue
			}
			*slot = tableEntry{action: r.Action, next: uint8(r.Next), rule: int16(i), ok: true}
		}
	}
	return t
}

// Lookup returns the action and next state for (state, code), or ok=false
// when no rule covers the pair.
func (t *DecisionTable) Lookup(state int, code Surroundings) (Action, int, bool) {
	if state < 0 || state > MaxState {
		return 0, 0, false
	}
	e := t.entries[state*NumSurroundings+int(code)]
	return e.action, int(e.next), e.ok
}

// RuleIndex returns the declaration index of the rule owning (state, code),
// or -1 when the slot is empty. Used for diagnostics and table/scan
// equivalence checks.
func (t *DecisionTable) RuleIndex(state int, code Surroundings) int {
	if state < 0 || state > MaxState {
		return -1
	}
	e := t.entries[state*NumSurroundings+int(code)]
	if !e.ok {
		return -1
	}
	return int(e.rule)
}

// Conflicts returns the shadowing diagnostics recorded during compilation,
// in discovery order. Callers must not modify the returned slice.
func (t *DecisionTable) Conflicts() []Conflict { return t.conflicts }
