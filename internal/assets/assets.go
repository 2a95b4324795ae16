// Package assets carries the documented rule sets and room layouts as
// data, with sha256 digests so tools can pin exactly which revision of an
// asset a result was produced against.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
)

// Boustrophedon sweep for the walled empty room: go north to the top wall,
// then sweep east/west row by row, dropping south at the west wall. The
// stay transition at the north wall reuses state 1's east check instead of
// duplicating it. 6 rules, 3 states, the known minimum. Assumes start
// state 0.
const EmptyRoomRules = `
# state 0: north until the top wall, then hand over to state 1
0 x*** -> N 0
0 N*** -> X 1

# state 1: sweep east
1 *x** -> E 1
1 *E** -> W 2

# state 2: sweep west, drop a row at the west wall
2 **x* -> W 2
2 **W* -> S 1
`

// The earlier 7-rule version of the same sweep, before the stay-transition
// collapse.
const EmptyRoomInitialRules = `
0 x*** -> N 0
0 Nx** -> E 1
0 NE** -> W 2
1 *x** -> E 1
1 *E** -> W 2
2 **x* -> W 2
2 **W* -> S 1
`

// Right-hand wall follower for corridor mazes: one state per facing
// direction, three rules per state. Within each state the intersection
// check must come before the corridor check; first-declared-wins ordering
// is load-bearing here.
const MazeRules = `
# state 0: facing north, right hand on the east wall
0 *x** -> E 1
0 xE** -> N 0
0 NE** -> X 2

# state 1: facing east, right hand on the south wall
1 ***x -> S 3
1 *x*S -> E 1
1 *E*S -> X 0

# state 2: facing west, right hand on the north wall
2 x*** -> N 0
2 N*x* -> W 2
2 N*W* -> X 3

# state 3: facing south, right hand on the west wall
3 **x* -> W 2
3 **Wx -> S 3
3 **WS -> X 1
`

// The earlier 16-rule follower, four rules per state with dead ends and
// left turns still split.
const MazeInitialRules = `
0 xE** -> N 0
0 *x** -> E 1
0 NEx* -> W 2
0 NEWx -> S 3
1 *x*S -> E 1
1 ***x -> S 3
1 xE*S -> N 0
1 NExS -> W 2
2 N*x* -> W 2
2 x*** -> N 0
2 N*Wx -> S 3
2 NxWS -> E 1
3 **Wx -> S 3
3 **x* -> W 2
3 *xWS -> E 1
3 xEWS -> N 0
`

// Early movement experiment: walk toward the bottom-left corner. Leaves
// most of the room uncovered, so it never verifies.
const GoToOriginRules = `
0 **** -> X 3
3 ***x -> S 3
3 ***S -> W 2
2 **x* -> W 2
2 **W* -> X 0
`

// StandardMaze is the documented 25x25 serpentine maze: corridors one cell
// wide, every wall connected to the boundary, every open cell adjacent to
// a wall. 287 open cells.
const StandardMaze = `
#########################
#.......................#
#######################.#
#.......................#
#.#######################
#.......................#
#######################.#
#.......................#
#.#######################
#.......................#
#######################.#
#.......................#
#.#######################
#.......................#
#######################.#
#.......................#
#.#######################
#.......................#
#######################.#
#.......................#
#.#######################
#.......................#
#######################.#
#.......................#
#########################
`

// SmallMaze is a 9x9 maze with the same structural properties, for quick
// tests.
const SmallMaze = `
#########
#.......#
#######.#
#.......#
#.#######
#.......#
#######.#
#.......#
#########
`

// StandardRoomSize is the classic room dimension: 25x25 with boundary
// walls, 529 open cells.
const StandardRoomSize = 25

var ruleTexts = map[string]string{
	"empty-room":         EmptyRoomRules,
	"empty-room-initial": EmptyRoomInitialRules,
	"maze":               MazeRules,
	"maze-initial":       MazeInitialRules,
	"go-to-origin":       GoToOriginRules,
}

var roomTexts = map[string]string{
	"maze":       StandardMaze,
	"small-maze": SmallMaze,
}

// RuleSetNames lists the builtin rule sets in sorted order.
func RuleSetNames() []string { return sortedKeys(ruleTexts) }

// RoomNames lists the builtin rooms in sorted order. The parametric empty
// room is built with room.Empty, not listed here.
func RoomNames() []string {
	names := sortedKeys(roomTexts)
	return append(names, "room")
}

// RuleText returns the raw rule text of a builtin rule set.
func RuleText(name string) (string, error) {
	text, ok := ruleTexts[name]
	if !ok {
		return "", fmt.Errorf("assets: unknown rule set %q", name)
	}
	return text, nil
}

// RuleSet parses a builtin rule set.
func RuleSet(name string) (*rules.RuleSet, error) {
	text, err := RuleText(name)
	if err != nil {
		return nil, err
	}
	rs, err := rules.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("assets: rule set %q: %w", name, err)
	}
	return rs, nil
}

// Room builds a builtin room. "room" is the standard 25x25 empty room.
func Room(name string) (*room.Room, error) {
	if name == "room" {
		return room.Empty(StandardRoomSize, StandardRoomSize)
	}
	text, ok := roomTexts[name]
	if !ok {
		return nil, fmt.Errorf("assets: unknown room %q", name)
	}
	r, err := room.FromString(text)
	if err != nil {
		return nil, fmt.Errorf("assets: room %q: %w", name, err)
	}
	return r, nil
}

// RuleDigest returns the sha256 digest of a builtin rule set's raw text.
func RuleDigest(name string) (string, error) {
	text, err := RuleText(name)
	if err != nil {
		return "", err
	}
	return digest(text), nil
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
