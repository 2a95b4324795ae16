package rules

// Surroundings is the canonical 4-bit ordinal of the four wall readings
// around a cell: a set bit means a wall, bit3=North down to bit0=South.
// This ordering is a fixed contract shared by the matcher, the compiler and
// the batch codec.
type Surroundings uint8

// NumSurroundings is the number of distinct surroundings codes.
const NumSurroundings = 16

// EncodeSurroundings packs the four open/wall readings, given in NEWS
// order, into a code in [0, 15].
func EncodeSurroundings(openNorth, openEast, openWest, openSouth bool) Surroundings {
	var code Surroundings
	if !openNorth {
		code |= Surroundings(North.Bit())
	}
	if !openEast {
		code |= Surroundings(East.Bit())
	}
	if !openWest {
		code |= Surroundings(West.Bit())
	}
	if !openSouth {
		code |= Surroundings(South.Bit())
	}
	return code
}

// Open reports whether the cell in the given direction is open.
func (s Surroundings) Open(d Direction) bool {
	return uint8(s)&d.Bit() == 0
}

// Wall reports whether there is a wall in the given direction.
func (s Surroundings) Wall(d Direction) bool {
	return !s.Open(d)
}

// Decode is the exact inverse of EncodeSurroundings.
func (s Surroundings) Decode() (openNorth, openEast, openWest, openSouth bool) {
	return s.Open(North), s.Open(East), s.Open(West), s.Open(South)
}

// String renders the classic four-letter reading, e.g. "NxWx": the
// direction letter where a wall is present and 'x' where open.
func (s Surroundings) String() string {
	var b [NumDirections]byte
	for d := Direction(0); d < NumDirections; d++ {
		if s.Wall(d) {
			b[d] = directionLetters[d]
		} else {
			b[d] = 'x'
		}
	}
	return string(b[:])
}
