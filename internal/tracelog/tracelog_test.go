package tracelog

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"picogrid.dev/internal/assets"
	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
	"picogrid.dev/internal/sim"
)

func TestWriteReadRoundTrip(t *testing.T) {
	r, err := room.Empty(9, 9)
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	rs, err := rules.Parse(assets.EmptyRoomRules)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	table := rules.Compile(rs)

	var records []RunRecord
	for _, start := range []room.Cell{{Row: 1, Col: 1}, {Row: 4, Col: 4}} {
		res, err := sim.Run(r, table, start, sim.Options{RecordTrace: true})
		if err != nil {
			t.Fatalf("run from %s: %v", start, err)
		}
		records = append(records, RunRecord{
			Kind:     "run",
			Scenario: "round-trip",
			Room:     r.Render(nil, room.Cell{Row: -1}),
			Rules:    assets.EmptyRoomRules,
			MaxSteps: sim.DefaultMaxSteps,
			Result:   res,
		})
	}

	path := filepath.Join(t.TempDir(), "runs", "trace.jsonl.zst")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	rd, err := OpenReader(path)
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	defer rd.Close()

	for i := range records {
		var got RunRecord
		if err := rd.Next(&got); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !reflect.DeepEqual(got, records[i]) {
			t.Fatalf("record %d changed through the file:\nwrote: %+v\nread:  %+v", i, records[i], got)
		}
	}
	var extra RunRecord
	if err := rd.Next(&extra); !errors.Is(err, ErrEOF) {
		t.Fatalf("after last record: got %v, want ErrEOF", err)
	}
}

func TestRoundTrip_RoomRebuilds(t *testing.T) {
	src, err := room.FromString(assets.SmallMaze)
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	rec := RunRecord{Kind: "run", Room: src.Render(nil, room.Cell{Row: -1})}

	path := filepath.Join(t.TempDir(), "trace.jsonl.zst")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := w.Write(rec); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rd, err := OpenReader(path)
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	defer rd.Close()
	var got RunRecord
	if err := rd.Next(&got); err != nil {
		t.Fatalf("next: %v", err)
	}
	back, err := room.FromString(got.Room)
	if err != nil {
		t.Fatalf("rebuild room: %v", err)
	}
	if back.OpenCount() != src.OpenCount() || back.Height() != src.Height() {
		t.Fatal("room did not survive the trip")
	}
}
