// Package sim executes compiled rule sets against rooms: a single-lane
// step engine, a data-parallel batch engine running many start positions
// in lockstep, and an exhaustive verification harness.
package sim

import (
	"fmt"

	"picogrid.dev/internal/room"
)

// Status is the terminal outcome of one run. Stuck and MaxStepsExceeded
// are expected, testable outcomes of an incomplete rule set; they are
// values, never errors.
type Status uint8

const (
	StatusCompleted Status = iota
	StatusStuck
	StatusMaxSteps
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "COMPLETED"
	case StatusStuck:
		return "STUCK"
	case StatusMaxSteps:
		return "MAX_STEPS_EXCEEDED"
	}
	return fmt.Sprintf("STATUS_%d", uint8(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Status) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case `"COMPLETED"`:
		*s = StatusCompleted
	case `"STUCK"`:
		*s = StatusStuck
	case `"MAX_STEPS_EXCEEDED"`:
		*s = StatusMaxSteps
	default:
		return fmt.Errorf("sim: unknown status %s", b)
	}
	return nil
}

// TracePoint is one recorded (position, state) pair. A trace begins with
// the start pair and gains one point per applied step.
type TracePoint struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	State int `json:"state"`
}

// RunResult is the outcome of one run. Identical inputs always produce a
// byte-identical RunResult, trace included.
type RunResult struct {
	Status          Status       `json:"status"`
	Steps           int          `json:"steps"`
	Visited         int          `json:"visited"`
	TotalOpen       int          `json:"total_open"`
	CoveragePercent float64      `json:"coverage_percent"`
	Start           room.Cell    `json:"start"`
	StartState      int          `json:"start_state"`
	FinalState      int          `json:"final_state"`
	Trace           []TracePoint `json:"trace,omitempty"`
}

// Completed reports full coverage.
func (r RunResult) Completed() bool { return r.Status == StatusCompleted }
