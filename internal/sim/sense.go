package sim

import (
	"picogrid.dev/internal/room"
	"picogrid.dev/internal/rules"
)

// Sense reads the four wall booleans around (row, col) and encodes them as
// a surroundings code. The position itself may be anywhere, including on a
// wall or outside the room; neighbors beyond the bounds read as walls.
func Sense(r *room.Room, row, col int) rules.Surroundings {
	return rules.EncodeSurroundings(
		r.IsOpen(row-1, col), // North
		r.IsOpen(row, col+1), // East
		r.IsOpen(row, col-1), // West
		r.IsOpen(row+1, col), // South
	)
}

// senseGrid precomputes the surroundings code of every in-bounds cell so
// batch lanes can look codes up instead of re-sensing each tick. Values
// are identical to Sense by construction.
func senseGrid(r *room.Room) []rules.Surroundings {
	codes := make([]rules.Surroundings, r.Height()*r.Width())
	for row := 0; row < r.Height(); row++ {
		for col := 0; col < r.Width(); col++ {
			codes[row*r.Width()+col] = Sense(r, row, col)
		}
	}
	return codes
}
