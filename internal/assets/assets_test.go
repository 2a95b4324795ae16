package assets

import (
	"strings"
	"testing"

	"picogrid.dev/internal/rules"
)

func TestBuiltinRuleSetsParse(t *testing.T) {
	for _, name := range RuleSetNames() {
		rs, err := RuleSet(name)
		if err != nil {
			t.Fatalf("rule set %q: %v", name, err)
		}
		if rs.Len() == 0 {
			t.Fatalf("rule set %q is empty", name)
		}
		if n := len(rules.Compile(rs).Conflicts()); n != 0 {
			t.Fatalf("rule set %q compiles with %d conflicts", name, n)
		}
	}
}

func TestBuiltinRuleSetSizes(t *testing.T) {
	want := map[string]int{
		"empty-room":         6,
		"empty-room-initial": 7,
		"maze":               12,
		"maze-initial":       16,
		"go-to-origin":       5,
	}
	for name, n := range want {
		rs, err := RuleSet(name)
		if err != nil {
			t.Fatalf("rule set %q: %v", name, err)
		}
		if rs.Len() != n {
			t.Fatalf("rule set %q has %d rules, want %d", name, rs.Len(), n)
		}
	}
}

func TestBuiltinRooms(t *testing.T) {
	maze, err := Room("maze")
	if err != nil {
		t.Fatalf("maze: %v", err)
	}
	if maze.Height() != 25 || maze.Width() != 25 || maze.OpenCount() != 287 {
		t.Fatalf("maze = %dx%d with %d open, want 25x25 with 287",
			maze.Height(), maze.Width(), maze.OpenCount())
	}

	small, err := Room("small-maze")
	if err != nil {
		t.Fatalf("small maze: %v", err)
	}
	if small.OpenCount() != 31 {
		t.Fatalf("small maze has %d open cells, want 31", small.OpenCount())
	}

	std, err := Room("room")
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	if std.OpenCount() != 23*23 {
		t.Fatalf("standard room has %d open cells, want 529", std.OpenCount())
	}

	if _, err := Room("no-such-room"); err == nil {
		t.Fatal("unknown room should fail")
	}
}

func TestRuleDigest(t *testing.T) {
	a, err := RuleDigest("maze")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("digest %q is not sha256 hex", a)
	}
	b, _ := RuleDigest("maze")
	if a != b {
		t.Fatal("digest is not stable")
	}
	c, _ := RuleDigest("empty-room")
	if a == c {
		t.Fatal("different rule sets share a digest")
	}
	if _, err := RuleDigest("no-such-rules"); err == nil {
		t.Fatal("unknown rule set should fail")
	}
}

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(`{
		"name": "sweep",
		"room": {"empty": {"height": 15, "width": 15}},
		"rules": {"builtin": "empty-room"},
		"max_steps": 20000
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r, err := s.BuildRoom()
	if err != nil {
		t.Fatalf("build room: %v", err)
	}
	if r.OpenCount() != 169 {
		t.Fatalf("room has %d open cells, want 169", r.OpenCount())
	}
	rs, err := s.BuildRules()
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	if rs.Len() != 6 {
		t.Fatalf("rules = %d, want 6", rs.Len())
	}
	if s.MaxSteps != 20000 || s.StartState != 0 {
		t.Fatalf("options = %d/%d, want 20000/0", s.MaxSteps, s.StartState)
	}
}

func TestParseScenario_InlineRoomAndRules(t *testing.T) {
	s, err := ParseScenario([]byte(`{
		"name": "inline",
		"room": {"rows": ["###", "#.#", "###"]},
		"rules": {"lines": ["0 **** -> X 0"]}
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r, err := s.BuildRoom()
	if err != nil {
		t.Fatalf("build room: %v", err)
	}
	if r.OpenCount() != 1 {
		t.Fatalf("room has %d open cells, want 1", r.OpenCount())
	}
	if _, err := s.BuildRules(); err != nil {
		t.Fatalf("build rules: %v", err)
	}
}

func TestParseScenario_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing rules", `{"name": "x", "room": {"builtin": "maze"}}`},
		{"room with no selector", `{"name": "x", "room": {}, "rules": {"builtin": "maze"}}`},
		{"room with two selectors", `{"name": "x", "room": {"builtin": "maze", "rows": ["###","#.#","###"]}, "rules": {"builtin": "maze"}}`},
		{"start state too large", `{"name": "x", "room": {"builtin": "maze"}, "rules": {"builtin": "maze"}, "start_state": 100}`},
		{"zero max steps", `{"name": "x", "room": {"builtin": "maze"}, "rules": {"builtin": "maze"}, "max_steps": 0}`},
		{"unknown field", `{"name": "x", "room": {"builtin": "maze"}, "rules": {"builtin": "maze"}, "speed": 2}`},
		{"not json", `{"name": `},
	}
	for _, tc := range cases {
		if _, err := ParseScenario([]byte(tc.raw)); err == nil {
			t.Fatalf("%s: accepted %s", tc.name, tc.raw)
		} else if !strings.Contains(err.Error(), "scenario") {
			t.Fatalf("%s: error %v lacks scenario context", tc.name, err)
		}
	}
}
