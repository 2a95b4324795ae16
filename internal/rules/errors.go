package rules

import (
	"errors"
	"fmt"
)

// Parse-time error kinds. Runtime outcomes (no matching rule, step budget
// exhausted) are ordinary RunResult statuses in the sim package, never
// errors.
var (
	ErrSyntax        = errors.New("malformed rule")
	ErrUnknownSymbol = errors.New("unknown pattern symbol")
	ErrStateRange    = errors.New("state out of range")
	ErrInvalidAction = errors.New("invalid action")
)

// ParseError identifies the offending line and reason of a rule-text parse
// failure. It wraps one of the kind sentinels above for errors.Is matching.
type ParseError struct {
	Line  int
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rules: line %d: %v: %q", e.Line, e.Err, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }
