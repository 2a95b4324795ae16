package rules

import (
	"fmt"
	"strings"
)

// MaxState is the largest legal state number. States live in [0, MaxState].
const MaxState = 99

// NumStates is the number of distinct states.
const NumStates = MaxState + 1

// Rule is one clause of a rule set: in State, when the surroundings match
// Pattern, perform Action and transition to Next. Rules are immutable once
// parsed; Line is the source line for diagnostics.
type Rule struct {
	State   int
	Pattern Pattern
	Action  Action
	Next    int
	Line    int
}

func (r Rule) String() string {
	return fmt.Sprintf("%d %s -> %s %d", r.State, r.Pattern, r.Action, r.Next)
}

// RuleSet is an ordered, immutable sequence of rules. Declaration order is
// priority order: the first matching rule wins.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet wraps already-validated rules. Parse is the usual constructor.
func NewRuleSet(rules []Rule) *RuleSet {
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &RuleSet{rules: cp}
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// At returns the rule at declaration index i.
func (rs *RuleSet) At(i int) Rule { return rs.rules[i] }

// Rules returns the rules in declaration order. Callers must not modify
// the returned slice.
func (rs *RuleSet) Rules() []Rule { return rs.rules }

// FirstMatch scans the rules in declaration order and returns the first one
// matching (state, code), along with its index. This linear scan is the
// reference semantics the compiled decision table must reproduce exactly.
func (rs *RuleSet) FirstMatch(state int, code Surroundings) (Rule, int, bool) {
	for i, r := range rs.rules {
		if r.State == state && r.Pattern.Matches(code) {
			return r, i, true
		}
	}
	return Rule{}, -1, false
}

// StateCount returns the number of distinct states referenced by the rule
// set, counting both current and next states.
func (rs *RuleSet) StateCount() int {
	var seen [NumStates]bool
	n := 0
	for _, r := range rs.rules {
		if !seen[r.State] {
			seen[r.State] = true
			n++
		}
		if !seen[r.Next] {
			seen[r.Next] = true
			n++
		}
	}
	return n
}

func (rs *RuleSet) String() string {
	var b strings.Builder
	for i, r := range rs.rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.String())
	}
	return b.String()
}
