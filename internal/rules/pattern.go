package rules

// PatternSymbol constrains one direction of a rule's surroundings pattern.
type PatternSymbol uint8

const (
	DontCare PatternSymbol = iota
	RequireOpen
	RequireWall
)

// Pattern is a 4-symbol surroundings template in canonical NEWS order.
type Pattern [NumDirections]PatternSymbol

// Matches reports whether the pattern accepts the given surroundings code.
func (p Pattern) Matches(s Surroundings) bool {
	for d := Direction(0); d < NumDirections; d++ {
		switch p[d] {
		case RequireOpen:
			if s.Wall(d) {
				return false
			}
		case RequireWall:
			if s.Open(d) {
				return false
			}
		}
	}
	return true
}

// Expand enumerates every concrete surroundings code the pattern matches.
// A DontCare symbol contributes both values of its bit, so a fully wild
// pattern expands to all 16 codes and each fixed symbol halves the set.
// Codes are returned in ascending order.
func (p Pattern) Expand() []Surroundings {
	var base uint8
	var wild []uint8
	for d := Direction(0); d < NumDirections; d++ {
		switch p[d] {
		case RequireWall:
			base |= d.Bit()
		case DontCare:
			wild = append(wild, d.Bit())
		}
	}

	codes := make([]Surroundings, 0, 1<<len(wild))
	for combo := 0; combo < 1<<len(wild); combo++ {
		code := base
		for i, bit := range wild {
			if combo&(1<<i) != 0 {
				code |= bit
			}
		}
		codes = append(codes, Surroundings(code))
	}
	sortSurroundings(codes)
	return codes
}

func sortSurroundings(codes []Surroundings) {
	// Insertion sort; the slice never exceeds 16 entries.
	for i := 1; i < len(codes); i++ {
		for j := i; j > 0 && codes[j-1] > codes[j]; j-- {
			codes[j-1], codes[j] = codes[j], codes[j-1]
		}
	}
}

// String renders the pattern in rule-text form, e.g. "N*x*".
func (p Pattern) String() string {
	var b [NumDirections]byte
	for d := Direction(0); d < NumDirections; d++ {
		switch p[d] {
		case RequireWall:
			b[d] = directionLetters[d]
		case RequireOpen:
			b[d] = 'x'
		default:
			b[d] = '*'
		}
	}
	return string(b[:])
}
