package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse turns rule text into a RuleSet, preserving declaration order.
//
// Grammar, one rule per line:
//
//	<state> <pattern> -> <action> <next_state>
//
// The pattern is exactly 4 symbols in NEWS order; each position accepts
// '*' (don't care), 'x' (open) or that position's own direction letter
// (wall present). The action is one of N, E, W, S or X (stay). States are
// integers in [0, 99]. Text after '#' is a comment; blank lines are
// skipped. Parse performs no conflict or coverage analysis; that is the
// compiler's job.
func Parse(text string) (*RuleSet, error) {
	var parsed []Rule

	for lineNum, raw := range strings.Split(text, "\n") {
		lineNum++ // 1-based for diagnostics
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Input: line, Err: err}
		}
		r.Line = lineNum
		parsed = append(parsed, r)
	}

	return &RuleSet{rules: parsed}, nil
}

func parseLine(line string) (Rule, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 || fields[2] != "->" {
		return Rule{}, fmt.Errorf("%w: want <state> <pattern> -> <action> <next_state>", ErrSyntax)
	}

	state, err := parseState(fields[0])
	if err != nil {
		return Rule{}, err
	}

	pattern, err := parsePattern(fields[1])
	if err != nil {
		return Rule{}, err
	}

	action, err := parseAction(fields[3])
	if err != nil {
		return Rule{}, err
	}

	next, err := parseState(fields[4])
	if err != nil {
		return Rule{}, err
	}

	return Rule{State: state, Pattern: pattern, Action: action, Next: next}, nil
}

func parseState(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: state %q is not an integer", ErrSyntax, tok)
	}
	if n < 0 || n > MaxState {
		return 0, fmt.Errorf("%w: state %d not in [0, %d]", ErrStateRange, n, MaxState)
	}
	return n, nil
}

func parsePattern(tok string) (Pattern, error) {
	var p Pattern
	if len(tok) != NumDirections {
		return p, fmt.Errorf("%w: pattern %q must have exactly %d symbols", ErrSyntax, tok, NumDirections)
	}
	for d := Direction(0); d < NumDirections; d++ {
		switch c := tok[d]; {
		case c == '*':
			p[d] = DontCare
		case c == 'x' || c == 'X':
			p[d] = RequireOpen
		case c == directionLetters[d]:
			p[d] = RequireWall
		case c == directionLetters[d]+'a'-'A':
			// Lowercase direction letter reads as "that wall absent".
			p[d] = RequireOpen
		default:
			return p, fmt.Errorf("%w: %q at position %d (%s)", ErrUnknownSymbol, string(c), d, Direction(d))
		}
	}
	return p, nil
}

func parseAction(tok string) (Action, error) {
	if len(tok) == 1 {
		switch tok[0] {
		case 'N', 'n':
			return ActNorth, nil
		case 'E', 'e':
			return ActEast, nil
		case 'W', 'w':
			return ActWest, nil
		case 'S', 's':
			return ActSouth, nil
		case 'X', 'x':
			return ActStay, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not one of N, E, W, S, X", ErrInvalidAction, tok)
}
