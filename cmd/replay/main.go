// Command replay reads an exported run trace, re-executes the run from the
// recorded room and rules, and cross-checks that the stored result and
// trace are reproduced exactly. Runs are deterministic, so any divergence
// means the trace file does not match the engine that produced it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
	"picogrid.dev/internal/sim"
	"picogrid.dev/internal/tracelog"
)

func main() {
	var (
		tracePath = flag.String("trace", "", "path to .jsonl.zst trace")
		every     = flag.Int("print_every", 0, "render the room every N steps (0 = no playback)")
	)
	flag.Parse()

	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "missing -trace")
		os.Exit(2)
	}

	r, err := tracelog.OpenReader(*tracePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open trace:", err)
		os.Exit(1)
	}
	defer r.Close()

	checked := 0
	for {
		var rec tracelog.RunRecord
		if err := r.Next(&rec); err != nil {
			if errors.Is(err, tracelog.ErrEOF) {
				break
			}
			fmt.Fprintln(os.Stderr, "read trace:", err)
			os.Exit(1)
		}
		if rec.Kind != "run" {
			fmt.Fprintf(os.Stderr, "skipping record kind %q\n", rec.Kind)
			continue
		}
		if err := replayRun(rec, *every); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		checked++
	}
	fmt.Printf("replay ok: %d run(s) reproduced\n", checked)
}

func replayRun(rec tracelog.RunRecord, every int) error {
	rm, err := room.FromString(rec.Room)
	if err != nil {
		return fmt.Errorf("room: %w", err)
	}
	rs, err := rules.Parse(rec.Rules)
	if err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	table := rules.Compile(rs)

	got, err := sim.Run(rm, table, rec.Result.Start, sim.Options{
		StartState:  rec.StartState,
		MaxSteps:    rec.MaxSteps,
		RecordTrace: len(rec.Result.Trace) > 0,
	})
	if err != nil {
		return err
	}

	if got.Status != rec.Result.Status || got.Steps != rec.Result.Steps ||
		got.Visited != rec.Result.Visited || got.FinalState != rec.Result.FinalState {
		return fmt.Errorf("%s: result diverged: recorded %s/%d steps, got %s/%d steps",
			rec.Scenario, rec.Result.Status, rec.Result.Steps, got.Status, got.Steps)
	}
	for i := range rec.Result.Trace {
		if i >= len(got.Trace) || got.Trace[i] != rec.Result.Trace[i] {
			return fmt.Errorf("%s: trace diverged at step %d", rec.Scenario, i)
		}
	}

	if every > 0 {
		playback(rm, rec.Result.Trace, every)
	}
	fmt.Printf("%s: %s steps=%d coverage=%.1f%% reproduced\n",
		rec.Scenario, got.Status, got.Steps, got.CoveragePercent)
	return nil
}

func playback(rm *room.Room, trace []sim.TracePoint, every int) {
	visited := make(map[room.Cell]bool, len(trace))
	for i, p := range trace {
		pos := room.Cell{Row: p.Row, Col: p.Col}
		if rm.IsOpen(pos.Row, pos.Col) {
			visited[pos] = true
		}
		if i%every == 0 || i == len(trace)-1 {
			fmt.Printf("step %d state %d\n%s\n\n", i, p.State, rm.Render(visited, pos))
		}
	}
}
