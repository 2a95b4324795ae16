package sim

import (
	"fmt"
	"runtime"
	"sync"

	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
)

// VerifyOptions configures an exhaustive verification sweep.
type VerifyOptions struct {
	StartState int
	MaxSteps   int
	// Workers is the number of goroutines running independent positions.
	// Zero means GOMAXPROCS. Ignored when UseBatch is set.
	Workers int
	// UseBatch runs all positions as lanes of the batch engine instead of
	// independent single-lane runs. Results are identical either way.
	UseBatch bool
	// MemoryBudget is passed through to the batch engine.
	MemoryBudget int
}

// PositionResult pairs a start position with its run outcome. Err is only
// set when the run itself failed to execute; a Stuck or MaxStepsExceeded
// result is a normal outcome, not an error.
type PositionResult struct {
	Start  room.Cell `json:"start"`
	Result RunResult `json:"result"`
	Err    error     `json:"-"`
}

// Report aggregates one RunResult per open cell of the room, ordered like
// Room.OpenCells. AllPassed holds iff every position completed.
type Report struct {
	Results   []PositionResult `json:"results"`
	AllPassed bool             `json:"all_passed"`

	Completed int `json:"completed"`
	Stuck     int `json:"stuck"`
	MaxSteps  int `json:"max_steps_exceeded"`
	Errored   int `json:"errored"`

	// Step statistics over completed positions, for tuning step budgets.
	MaxStepsUsed int     `json:"max_steps_used"`
	AvgSteps     float64 `json:"avg_steps"`
}

// Failures returns the positions that did not complete, in position order.
func (rep *Report) Failures() []PositionResult {
	var out []PositionResult
	for _, pr := range rep.Results {
		if pr.Err != nil || !pr.Result.Completed() {
			out = append(out, pr)
		}
	}
	return out
}

// Verify runs the rule set from every open cell of the room and aggregates
// the outcomes. Each position gets a fresh engine and shares only the
// read-only room and table, so positions are dispatched to a worker pool
// without any locking around engine state. A failure in one position is
// captured in that position's slot and never disturbs the others.
func Verify(r *room.Room, t *rules.DecisionTable, opts VerifyOptions) *Report {
	starts := r.OpenCells()
	rep := &Report{Results: make([]PositionResult, len(starts))}

	if opts.UseBatch {
		results, err := RunBatch(r, t, starts, BatchOptions{
			StartState:   opts.StartState,
			MaxSteps:     opts.MaxSteps,
			MemoryBudget: opts.MemoryBudget,
		})
		if err != nil {
			// Starts come from OpenCells, so only option validation can
			// fail; attribute it to every position.
			for i, s := range starts {
				rep.Results[i] = PositionResult{Start: s, Err: err}
			}
		} else {
			for i, s := range starts {
				rep.Results[i] = PositionResult{Start: s, Result: results[i]}
			}
		}
	} else {
		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		if workers > len(starts) {
			workers = len(starts)
		}

		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					res, err := runPosition(r, t, starts[i], opts)
					rep.Results[i] = PositionResult{Start: starts[i], Result: res, Err: err}
				}
			}()
		}
		for i := range starts {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	rep.AllPassed = true
	var totalSteps int
	for _, pr := range rep.Results {
		switch {
		case pr.Err != nil:
			rep.Errored++
			rep.AllPassed = false
			continue
		case pr.Result.Status == StatusCompleted:
			rep.Completed++
			totalSteps += pr.Result.Steps
			if pr.Result.Steps > rep.MaxStepsUsed {
				rep.MaxStepsUsed = pr.Result.Steps
			}
		case pr.Result.Status == StatusStuck:
			rep.Stuck++
			rep.AllPassed = false
		case pr.Result.Status == StatusMaxSteps:
			rep.MaxSteps++
			rep.AllPassed = false
		}
	}
	if rep.Completed > 0 {
		rep.AvgSteps = float64(totalSteps) / float64(rep.Completed)
	}
	return rep
}

// runPosition isolates one position's run: a panic escaping the engine is
// converted to that position's error instead of taking down the sweep.
func runPosition(r *room.Room, t *rules.DecisionTable, start room.Cell, opts VerifyOptions) (res RunResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sim: verify %s: panic: %v", start, p)
		}
	}()
	return Run(r, t, start, Options{StartState: opts.StartState, MaxSteps: opts.MaxSteps})
}
