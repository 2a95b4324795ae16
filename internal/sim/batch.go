package sim

import (
	"fmt"

	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
)

// BatchOptions configures a batch run.
type BatchOptions struct {
	StartState int
	MaxSteps   int
	// MemoryBudget caps the bytes spent on visited bitmaps across live
	// lanes. When lanes * bitmap-stride exceeds it, the lanes are
	// partitioned into sequential chunks, each run to completion. Zero
	// means no cap. Chunking never changes any lane's result.
	MemoryBudget int
}

func (o *BatchOptions) maxSteps() int {
	if o.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return o.MaxSteps
}

// RunBatch executes one lane per start position against a shared decision
// table and room, all lanes advancing in lockstep one tick at a time.
// Results are ordered identically to starts, and lane i's result is
// identical to what Run would produce for the same start: batching is a
// performance reformulation, never a semantic one.
func RunBatch(r *room.Room, t *rules.DecisionTable, starts []room.Cell, opts BatchOptions) ([]RunResult, error) {
	if opts.StartState < 0 || opts.StartState > rules.MaxState {
		return nil, fmt.Errorf("%w: %d", ErrBadStartState, opts.StartState)
	}
	if opts.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadMaxSteps, opts.MaxSteps)
	}
	for i, s := range starts {
		if r.IsWall(s.Row, s.Col) {
			return nil, fmt.Errorf("%w: lane %d at %s", ErrStartOnWall, i, s)
		}
	}

	chunk := len(starts)
	stride := coverageWords(r.OpenCount())
	if opts.MemoryBudget > 0 && stride > 0 {
		if maxLanes := opts.MemoryBudget / (stride * 8); maxLanes < chunk {
			chunk = maxLanes
		}
	}
	if chunk < 1 {
		chunk = 1
	}

	codes := senseGrid(r)
	results := make([]RunResult, len(starts))
	for base := 0; base < len(starts); base += chunk {
		end := base + chunk
		if end > len(starts) {
			end = len(starts)
		}
		runLanes(r, t, codes, starts[base:end], results[base:end], opts.StartState, opts.maxSteps())
	}
	return results, nil
}

// lanes holds the batch state structure-of-arrays style: one slot per lane
// plus a shared flat bitmap, visited bits for lane i living at
// bits[i*stride : (i+1)*stride].
type lanes struct {
	rows    []int
	cols    []int
	states  []int
	steps   []int
	visited []int
	active  []bool

	bits   []uint64
	stride int
}

func runLanes(r *room.Room, t *rules.DecisionTable, codes []rules.Surroundings,
	starts []room.Cell, results []RunResult, startState, maxSteps int) {

	n := len(starts)
	total := r.OpenCount()
	ln := &lanes{
		rows:    make([]int, n),
		cols:    make([]int, n),
		states:  make([]int, n),
		steps:   make([]int, n),
		visited: make([]int, n),
		active:  make([]bool, n),
		stride:  coverageWords(total),
	}
	ln.bits = make([]uint64, n*ln.stride)

	live := 0
	for i, s := range starts {
		ln.rows[i], ln.cols[i] = s.Row, s.Col
		ln.states[i] = startState
		ln.mark(i, r.OpenIndex(s.Row, s.Col))
		if ln.visited[i] == total {
			// Vacuously complete before the first tick.
			results[i] = ln.freeze(i, StatusCompleted, starts[i], startState, total)
			continue
		}
		ln.active[i] = true
		live++
	}

	width := r.Width()
	height := r.Height()
	for live > 0 {
		// One tick: the same transition applied across every active lane.
		// Lanes share nothing mutable, so updating them in index order is
		// indistinguishable from a simultaneous update.
		for i := 0; i < n; i++ {
			if !ln.active[i] {
				continue
			}

			row, col := ln.rows[i], ln.cols[i]
			var code rules.Surroundings
			if row >= 0 && row < height && col >= 0 && col < width {
				code = codes[row*width+col]
			} else {
				code = Sense(r, row, col)
			}

			action, next, ok := t.Lookup(ln.states[i], code)
			if !ok {
				ln.active[i] = false
				live--
				results[i] = ln.freeze(i, StatusStuck, starts[i], startState, total)
				continue
			}

			dRow, dCol := action.Delta()
			ln.rows[i] += dRow
			ln.cols[i] += dCol
			ln.states[i] = next
			ln.steps[i]++
			ln.mark(i, r.OpenIndex(ln.rows[i], ln.cols[i]))

			switch {
			case ln.visited[i] == total:
				ln.active[i] = false
				live--
				results[i] = ln.freeze(i, StatusCompleted, starts[i], startState, total)
			case ln.steps[i] >= maxSteps:
				ln.active[i] = false
				live--
				results[i] = ln.freeze(i, StatusMaxSteps, starts[i], startState, total)
			}
		}
	}
}

func (ln *lanes) mark(lane, idx int) {
	if idx < 0 {
		return
	}
	word := lane*ln.stride + idx/64
	bit := uint64(1) << uint(idx%64)
	if ln.bits[word]&bit == 0 {
		ln.bits[word] |= bit
		ln.visited[lane]++
	}
}

func (ln *lanes) freeze(lane int, status Status, start room.Cell, startState, total int) RunResult {
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(ln.visited[lane]) / float64(total)
	}
	return RunResult{
		Status:          status,
		Steps:           ln.steps[lane],
		Visited:         ln.visited[lane],
		TotalOpen:       total,
		CoveragePercent: pct,
		Start:           start,
		StartState:      startState,
		FinalState:      ln.states[lane],
	}
}
