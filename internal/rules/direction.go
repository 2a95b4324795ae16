// Package rules implements the declarative robot rule language: the rule
// model, the text parser, the surroundings codec and the compiled decision
// table. The canonical direction order is NEWS (North, East, West, South)
// and every bit assignment in this package follows it.
package rules

// Direction is one of the four compass directions in canonical NEWS order.
type Direction uint8

const (
	North Direction = iota
	East
	West
	South

	NumDirections = 4
)

var directionLetters = [NumDirections]byte{'N', 'E', 'W', 'S'}

// Row/col deltas per direction. Row 0 is the top edge, so North is -1 row.
var directionDeltas = [NumDirections][2]int{
	{-1, 0}, // North
	{0, 1},  // East
	{0, -1}, // West
	{1, 0},  // South
}

func (d Direction) String() string {
	if int(d) >= NumDirections {
		return "?"
	}
	return string(directionLetters[d])
}

// Bit returns the surroundings bit assigned to this direction:
// bit3=North, bit2=East, bit1=West, bit0=South.
func (d Direction) Bit() uint8 {
	return 1 << (3 - uint8(d))
}

// Delta returns the (row, col) displacement of a one-cell move.
func (d Direction) Delta() (int, int) {
	return directionDeltas[d][0], directionDeltas[d][1]
}

// Action is what a fired rule does: move one cell in an absolute direction,
// or stay put (a state transition without movement).
type Action uint8

const (
	ActNorth Action = iota
	ActEast
	ActWest
	ActSouth
	ActStay
)

// Delta returns the (row, col) displacement of the action. Stay is (0, 0).
func (a Action) Delta() (int, int) {
	if a == ActStay {
		return 0, 0
	}
	return Direction(a).Delta()
}

func (a Action) String() string {
	if a == ActStay {
		return "X"
	}
	return Direction(a).String()
}
