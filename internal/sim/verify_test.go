package sim

import (
	"reflect"
	"testing"

	"picogrid.dev/internal/assets"
	"picogrid.dev/internal/room"
)

func TestVerify_SweepCoversEmptyRoom(t *testing.T) {
	r := emptyRoom(t, 15)
	table := compile(t, assets.EmptyRoomRules)

	rep := Verify(r, table, VerifyOptions{})
	if !rep.AllPassed {
		t.Fatalf("sweep failed from %d positions: %+v", len(rep.Failures()), rep.Failures())
	}
	if rep.Completed != 169 || rep.Stuck != 0 || rep.MaxSteps != 0 || rep.Errored != 0 {
		t.Fatalf("counts = %d/%d/%d/%d, want 169 completed only",
			rep.Completed, rep.Stuck, rep.MaxSteps, rep.Errored)
	}
	if rep.MaxStepsUsed <= 0 || rep.AvgSteps <= 0 {
		t.Fatalf("step stats = max %d avg %v, want positive", rep.MaxStepsUsed, rep.AvgSteps)
	}
	if float64(rep.MaxStepsUsed) < rep.AvgSteps {
		t.Fatalf("max steps %d below average %v", rep.MaxStepsUsed, rep.AvgSteps)
	}
}

func TestVerify_WrongStartStateFails(t *testing.T) {
	r := emptyRoom(t, 15)
	table := compile(t, assets.EmptyRoomRules)

	// Starting in state 1 skips the climb to the top wall: the sweep only
	// covers the start row and everything below it, then walks off the grid
	// at the bottom and burns the rest of the budget out of bounds.
	rep := Verify(r, table, VerifyOptions{StartState: 1, MaxSteps: 20000})
	if rep.AllPassed {
		t.Fatal("state-1 start should not cover the room from the middle")
	}

	var middle *PositionResult
	for i := range rep.Results {
		if rep.Results[i].Start == (room.Cell{Row: 7, Col: 7}) {
			middle = &rep.Results[i]
			break
		}
	}
	if middle == nil {
		t.Fatal("no result for the middle position")
	}
	if middle.Result.Status != StatusMaxSteps {
		t.Fatalf("middle status = %v, want max steps exceeded", middle.Result.Status)
	}
	// Rows 7 through 13 fully swept, rows above never reached.
	if middle.Result.Visited != 7*13 {
		t.Fatalf("middle visited = %d, want 91", middle.Result.Visited)
	}
}

func TestVerify_FollowerCoversStandardMaze(t *testing.T) {
	r := mustRoom(t, assets.StandardMaze)
	table := compile(t, assets.MazeRules)

	if r.OpenCount() != 287 {
		t.Fatalf("standard maze has %d open cells, want 287", r.OpenCount())
	}
	rep := Verify(r, table, VerifyOptions{})
	if !rep.AllPassed || rep.Completed != 287 {
		t.Fatalf("follower failed: %d completed, %d stuck, %d over budget, failures %+v",
			rep.Completed, rep.Stuck, rep.MaxSteps, rep.Failures())
	}
}

func TestVerify_BatchPathMatchesWorkers(t *testing.T) {
	r := mustRoom(t, assets.SmallMaze)
	table := compile(t, assets.MazeRules)

	workers := Verify(r, table, VerifyOptions{Workers: 4})
	batch := Verify(r, table, VerifyOptions{UseBatch: true, MemoryBudget: 64})

	if !workers.AllPassed || workers.Completed != 31 {
		t.Fatalf("worker path: %d completed of 31, failures %+v", workers.Completed, workers.Failures())
	}
	if !reflect.DeepEqual(workers.Results, batch.Results) {
		t.Fatal("batch path produced different per-position results than the worker path")
	}
	if workers.MaxStepsUsed != batch.MaxStepsUsed || workers.AvgSteps != batch.AvgSteps {
		t.Fatalf("step stats diverged: workers max %d avg %v, batch max %d avg %v",
			workers.MaxStepsUsed, workers.AvgSteps, batch.MaxStepsUsed, batch.AvgSteps)
	}
}

func TestVerify_WorkerCountDoesNotChangeResults(t *testing.T) {
	r := emptyRoom(t, 9)
	table := compile(t, assets.EmptyRoomRules)

	one := Verify(r, table, VerifyOptions{Workers: 1})
	many := Verify(r, table, VerifyOptions{Workers: 8})
	if !reflect.DeepEqual(one.Results, many.Results) {
		t.Fatal("results depend on worker count")
	}
}

func TestReport_FailuresInPositionOrder(t *testing.T) {
	r := emptyRoom(t, 5)
	table := compile(t, "0 x*** -> N 0\n")

	rep := Verify(r, table, VerifyOptions{})
	if rep.AllPassed || rep.Stuck != r.OpenCount() {
		t.Fatalf("report = %+v, want every position stuck", rep)
	}
	failures := rep.Failures()
	if len(failures) != r.OpenCount() {
		t.Fatalf("failures = %d, want %d", len(failures), r.OpenCount())
	}
	for i, f := range failures {
		if f.Start != r.OpenCells()[i] {
			t.Fatalf("failure %d at %s, want open-cell order %s", i, f.Start, r.OpenCells()[i])
		}
	}
}
