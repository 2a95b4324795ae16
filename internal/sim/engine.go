package sim

import (
	"errors"
	"fmt"

	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
)

// Construction-time failures. Runtime outcomes are RunResult statuses.
var (
	ErrStartOnWall   = errors.New("sim: start position is a wall or out of bounds")
	ErrBadStartState = errors.New("sim: start state out of range")
	ErrBadMaxSteps   = errors.New("sim: max steps must be positive")
)

// DefaultMaxSteps is the step budget used when Options.MaxSteps is zero.
const DefaultMaxSteps = 50000

// Options configures a single run.
type Options struct {
	// StartState is the robot's initial state, 0 by default. Starting in
	// another state supports the documented state-1/state-2 experiments.
	StartState int
	// MaxSteps is the deterministic step-count timeout. Zero means
	// DefaultMaxSteps.
	MaxSteps int
	// RecordTrace keeps the ordered (position, state) sequence in the
	// RunResult for visualization and replay.
	RecordTrace bool
}

func (o *Options) maxSteps() int {
	if o.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return o.MaxSteps
}

// Engine runs one robot instance step by step to a terminal outcome. The
// step loop is strictly sequential: each step's sensing depends on the
// previous step's position and state.
type Engine struct {
	room  *room.Room
	table *rules.DecisionTable

	row, col int
	state    int
	steps    int
	maxSteps int
	cov      coverage
	stuck    bool

	start      room.Cell
	startState int
	trace      []TracePoint
	recording  bool
}

// NewEngine validates the start position and seeds the coverage tracker
// with it. A wall or out-of-bounds start fails fast with ErrStartOnWall.
func NewEngine(r *room.Room, t *rules.DecisionTable, start room.Cell, opts Options) (*Engine, error) {
	if r.IsWall(start.Row, start.Col) {
		return nil, fmt.Errorf("%w: %s", ErrStartOnWall, start)
	}
	if opts.StartState < 0 || opts.StartState > rules.MaxState {
		return nil, fmt.Errorf("%w: %d", ErrBadStartState, opts.StartState)
	}
	if opts.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadMaxSteps, opts.MaxSteps)
	}

	e := &Engine{
		room:       r,
		table:      t,
		row:        start.Row,
		col:        start.Col,
		state:      opts.StartState,
		maxSteps:   opts.maxSteps(),
		cov:        newCoverage(r.OpenCount()),
		start:      start,
		startState: opts.StartState,
		recording:  opts.RecordTrace,
	}
	e.cov.visit(r.OpenIndex(start.Row, start.Col))
	if e.recording {
		e.trace = append(e.trace, TracePoint{Row: start.Row, Col: start.Col, State: opts.StartState})
	}
	return e, nil
}

// Step executes one transition: sense, look up, apply movement and state
// change, mark the new position visited. It reports whether the run is now
// terminal (stuck or fully covered). Movement is applied without any wall
// check; a rule moving the robot into a wall is an authoring error, not a
// guarded condition, and such positions simply never add coverage.
func (e *Engine) Step() bool {
	if e.stuck || e.cov.done() {
		return true
	}

	code := Sense(e.room, e.row, e.col)
	action, next, ok := e.table.Lookup(e.state, code)
	if !ok {
		e.stuck = true
		return true
	}

	dRow, dCol := action.Delta()
	e.row += dRow
	e.col += dCol
	e.state = next
	e.steps++
	e.cov.visit(e.room.OpenIndex(e.row, e.col))
	if e.recording {
		e.trace = append(e.trace, TracePoint{Row: e.row, Col: e.col, State: e.state})
	}
	return e.cov.done()
}

// Run steps until completion, a stuck lookup, or the step budget runs out,
// then returns the frozen result.
func (e *Engine) Run() RunResult {
	for !e.cov.done() && !e.stuck && e.steps < e.maxSteps {
		if e.Step() {
			break
		}
	}
	return e.Result()
}

// Result snapshots the run outcome at the engine's current point.
func (e *Engine) Result() RunResult {
	res := RunResult{
		Steps:           e.steps,
		Visited:         e.cov.visited,
		TotalOpen:       e.cov.total,
		CoveragePercent: e.cov.percent(),
		Start:           e.start,
		StartState:      e.startState,
		FinalState:      e.state,
		Trace:           e.trace,
	}
	switch {
	case e.cov.done():
		res.Status = StatusCompleted
	case e.stuck:
		res.Status = StatusStuck
	default:
		res.Status = StatusMaxSteps
	}
	return res
}

// Position returns the robot's current cell, which may be a wall or
// out-of-bounds cell after an unguarded move.
func (e *Engine) Position() room.Cell { return room.Cell{Row: e.row, Col: e.col} }

// State returns the current state number.
func (e *Engine) State() int { return e.state }

// Steps returns the number of applied steps so far.
func (e *Engine) Steps() int { return e.steps }

// Done reports whether the run has reached a terminal outcome.
func (e *Engine) Done() bool {
	return e.stuck || e.cov.done() || e.steps >= e.maxSteps
}

// CoveragePercent returns the current coverage in [0, 100].
func (e *Engine) CoveragePercent() float64 { return e.cov.percent() }

// VisitedCells materializes the visited set for rendering.
func (e *Engine) VisitedCells() map[room.Cell]bool {
	out := make(map[room.Cell]bool, e.cov.visited)
	for i, c := range e.room.OpenCells() {
		if e.cov.has(i) {
			out[c] = true
		}
	}
	return out
}

// Run constructs an engine and drives it to termination in one call.
func Run(r *room.Room, t *rules.DecisionTable, start room.Cell, opts Options) (RunResult, error) {
	e, err := NewEngine(r, t, start, opts)
	if err != nil {
		return RunResult{}, err
	}
	return e.Run(), nil
}
