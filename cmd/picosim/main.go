package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"

	"picogrid.dev/internal/assets"
	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
	"picogrid.dev/internal/sim"
	"picogrid.dev/internal/tracelog"
	"picogrid.dev/internal/transport/watch"
	"picogrid.dev/internal/tuning"
	"picogrid.dev/internal/viewproto"
)

func main() {
	var (
		mode       = flag.String("mode", "run", "run (single position) or verify (every open cell)")
		scenario   = flag.String("scenario", "", "scenario JSON file (overrides -room/-rules)")
		roomArg    = flag.String("room", "room", "builtin room name, HxW for an empty room, or @file with ASCII layout")
		rulesArg   = flag.String("rules", "empty-room", "builtin rule set name or @file with rule text")
		startArg   = flag.String("start", "", "start position row,col (default: first open cell)")
		startState = flag.Int("start_state", 0, "initial state")
		maxSteps   = flag.Int("max_steps", 0, "step budget (default from tuning)")
		workers    = flag.Int("workers", 0, "verify worker goroutines (0 = GOMAXPROCS)")
		useBatch   = flag.Bool("batch", false, "verify with the batch engine instead of per-position runs")
		budget     = flag.Int("mem_budget", 0, "batch visited-bitmap budget in bytes (default from tuning)")
		tracePath  = flag.String("trace", "", "write the run trace to this .jsonl.zst file")
		watchAddr  = flag.String("watch", "", "serve a live view on this address (run mode)")
		tuningPath = flag.String("tuning", "", "tuning YAML file")
		listAssets = flag.Bool("list", false, "list builtin rooms and rule sets")
	)
	flag.Parse()

	if *listAssets {
		fmt.Println("rooms:", strings.Join(assets.RoomNames(), " "))
		fmt.Println("rule sets:", strings.Join(assets.RuleSetNames(), " "))
		return
	}

	tun := tuning.Default()
	if *tuningPath != "" {
		var err error
		if tun, err = tuning.Load(*tuningPath); err != nil {
			fmt.Fprintln(os.Stderr, "tuning:", err)
			os.Exit(1)
		}
	}
	if *maxSteps == 0 {
		*maxSteps = tun.DefaultMaxSteps
	}
	if *budget == 0 {
		*budget = tun.BatchMemoryBudgetBytes
	}
	if *workers == 0 {
		*workers = tun.VerifyWorkers
	}

	rm, rs, name, err := loadInputs(*scenario, *roomArg, *rulesArg, startState, maxSteps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	table := rules.Compile(rs)
	for _, c := range table.Conflicts() {
		fmt.Fprintf(os.Stderr, "conflict: state %d surroundings %s: rule %d (line %d) shadows rule %d (line %d)\n",
			c.State, c.Code, c.Winner, rs.At(c.Winner).Line, c.Shadowed, rs.At(c.Shadowed).Line)
	}

	switch *mode {
	case "run":
		runOne(rm, rs, table, name, *startArg, *startState, *maxSteps, *tracePath, *watchAddr, tun)
	case "verify":
		verifyAll(rm, table, *startState, *maxSteps, *workers, *useBatch, *budget)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

func loadInputs(scenarioPath, roomArg, rulesArg string, startState, maxSteps *int) (*room.Room, *rules.RuleSet, string, error) {
	if scenarioPath != "" {
		sc, err := assets.LoadScenario(scenarioPath)
		if err != nil {
			return nil, nil, "", err
		}
		rm, err := sc.BuildRoom()
		if err != nil {
			return nil, nil, "", err
		}
		rs, err := sc.BuildRules()
		if err != nil {
			return nil, nil, "", err
		}
		if sc.StartState != 0 {
			*startState = sc.StartState
		}
		if sc.MaxSteps != 0 {
			*maxSteps = sc.MaxSteps
		}
		return rm, rs, sc.Name, nil
	}

	rm, err := resolveRoom(roomArg)
	if err != nil {
		return nil, nil, "", err
	}
	rs, err := resolveRules(rulesArg)
	if err != nil {
		return nil, nil, "", err
	}
	return rm, rs, roomArg + "/" + rulesArg, nil
}

var emptyDims = regexp.MustCompile(`^(\d+)x(\d+)$`)

func resolveRoom(arg string) (*room.Room, error) {
	if strings.HasPrefix(arg, "@") {
		raw, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, err
		}
		return room.FromString(string(raw))
	}
	if m := emptyDims.FindStringSubmatch(arg); m != nil {
		h, _ := strconv.Atoi(m[1])
		w, _ := strconv.Atoi(m[2])
		return room.Empty(h, w)
	}
	return assets.Room(arg)
}

func resolveRules(arg string) (*rules.RuleSet, error) {
	if strings.HasPrefix(arg, "@") {
		raw, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, err
		}
		return rules.Parse(string(raw))
	}
	return assets.RuleSet(arg)
}

func parseStart(rm *room.Room, arg string) (room.Cell, error) {
	if arg == "" {
		open := rm.OpenCells()
		if len(open) == 0 {
			return room.Cell{}, fmt.Errorf("room has no open cells")
		}
		return open[0], nil
	}
	parts := strings.SplitN(arg, ",", 2)
	if len(parts) != 2 {
		return room.Cell{}, fmt.Errorf("bad -start %q, want row,col", arg)
	}
	r, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	c, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return room.Cell{}, fmt.Errorf("bad -start %q, want row,col", arg)
	}
	return room.Cell{Row: r, Col: c}, nil
}

func runOne(rm *room.Room, rs *rules.RuleSet, table *rules.DecisionTable, name, startArg string,
	startState, maxSteps int, tracePath, watchAddr string, tun tuning.Tuning) {

	start, err := parseStart(rm, startArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if watchAddr != "" {
		logger := log.New(os.Stderr, "watch ", log.LstdFlags)
		srv := watch.NewServer(watch.Config{
			Room:       rm,
			Table:      table,
			Start:      start,
			StartState: startState,
			MaxSteps:   maxSteps,
			TickRateHz: tun.WatchTickRateHz,
		}, logger)
		logger.Printf("serving %s (bootstrap at /bootstrap, stream at /ws, protocol %s)", watchAddr, viewproto.Version)
		if err := http.ListenAndServe(watchAddr, srv.Handler()); err != nil {
			logger.Fatal(err)
		}
		return
	}

	eng, err := sim.NewEngine(rm, table, start, sim.Options{
		StartState:  startState,
		MaxSteps:    maxSteps,
		RecordTrace: tracePath != "",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	res := eng.Run()

	fmt.Println(rm.Render(eng.VisitedCells(), eng.Position()))
	fmt.Printf("%s: start=%s state=%d status=%s steps=%d coverage=%.1f%% (%d/%d)\n",
		name, res.Start, res.StartState, res.Status, res.Steps, res.CoveragePercent, res.Visited, res.TotalOpen)

	if tracePath != "" {
		if err := writeTrace(tracePath, name, rm, rs, startState, maxSteps, res); err != nil {
			fmt.Fprintln(os.Stderr, "trace:", err)
			os.Exit(1)
		}
		fmt.Println("trace written to", tracePath)
	}
	if !res.Completed() {
		os.Exit(1)
	}
}

func writeTrace(path, name string, rm *room.Room, rs *rules.RuleSet, startState, maxSteps int, res sim.RunResult) error {
	w, err := tracelog.NewWriter(path)
	if err != nil {
		return err
	}
	rec := tracelog.RunRecord{
		Kind:       "run",
		Scenario:   name,
		Room:       rm.Render(nil, room.Cell{Row: -1}),
		Rules:      rs.String(),
		StartState: startState,
		MaxSteps:   maxSteps,
		Result:     res,
	}
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func verifyAll(rm *room.Room, table *rules.DecisionTable, startState, maxSteps, workers int, useBatch bool, budget int) {
	rep := sim.Verify(rm, table, sim.VerifyOptions{
		StartState:   startState,
		MaxSteps:     maxSteps,
		Workers:      workers,
		UseBatch:     useBatch,
		MemoryBudget: budget,
	})

	fmt.Printf("positions=%d completed=%d stuck=%d max_steps=%d errored=%d\n",
		len(rep.Results), rep.Completed, rep.Stuck, rep.MaxSteps, rep.Errored)
	if rep.Completed > 0 {
		fmt.Printf("steps: max=%d avg=%.1f\n", rep.MaxStepsUsed, rep.AvgSteps)
	}
	if rep.AllPassed {
		fmt.Println("PASSED: full coverage from every start position")
		return
	}

	fails := rep.Failures()
	fmt.Printf("FAILED: %d positions\n", len(fails))
	for i, pr := range fails {
		if i == 10 {
			fmt.Printf("  ... and %d more\n", len(fails)-10)
			break
		}
		if pr.Err != nil {
			fmt.Printf("  %s: error: %v\n", pr.Start, pr.Err)
			continue
		}
		fmt.Printf("  %s: %s coverage=%.1f%%\n", pr.Start, pr.Result.Status, pr.Result.CoveragePercent)
	}
	os.Exit(1)
}
