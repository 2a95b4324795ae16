// Package room models the bounded grid a robot runs in: rectangular,
// immutable, each cell either open or a wall, with everything outside the
// bounds reading as wall.
package room

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyGrid  = errors.New("room: empty grid")
	ErrRaggedGrid = errors.New("room: inconsistent row widths")
	ErrBadCell    = errors.New("room: invalid cell character")
	ErrTooSmall   = errors.New("room: interior requires at least 3x3")
)

// Cell is a grid position. Row 0 is the top edge, col 0 the left edge.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Room is an immutable rectangular grid. Construct with FromString or
// Empty; it is read-only for the lifetime of any engine run.
type Room struct {
	height int
	width  int
	walls  []bool // row-major, true = wall
	open   []Cell // open cells in row-major order
	index  []int  // row-major cell -> dense open index, -1 for walls
}

// Height returns the number of rows, including boundary walls.
func (r *Room) Height() int { return r.height }

// Width returns the number of columns, including boundary walls.
func (r *Room) Width() int { return r.width }

// IsWall reports whether (row, col) is a wall. Any out-of-bounds
// coordinate reads as wall, so callers may sense from arbitrary positions.
func (r *Room) IsWall(row, col int) bool {
	if row < 0 || row >= r.height || col < 0 || col >= r.width {
		return true
	}
	return r.walls[row*r.width+col]
}

// IsOpen reports whether (row, col) is an in-bounds open cell.
func (r *Room) IsOpen(row, col int) bool { return !r.IsWall(row, col) }

// OpenCells returns every open cell in row-major order. Callers must not
// modify the returned slice.
func (r *Room) OpenCells() []Cell { return r.open }

// OpenCount returns the number of open cells.
func (r *Room) OpenCount() int { return len(r.open) }

// OpenIndex maps (row, col) to its dense index among open cells, in the
// same order as OpenCells, or -1 when the position is a wall or out of
// bounds. Coverage bitmaps are keyed by this index.
func (r *Room) OpenIndex(row, col int) int {
	if row < 0 || row >= r.height || col < 0 || col >= r.width {
		return -1
	}
	return r.index[row*r.width+col]
}

func finish(height, width int, walls []bool) *Room {
	r := &Room{height: height, width: width, walls: walls}
	r.index = make([]int, height*width)
	for i, w := range walls {
		if w {
			r.index[i] = -1
			continue
		}
		r.index[i] = len(r.open)
		r.open = append(r.open, Cell{Row: i / width, Col: i % width})
	}
	return r
}

// Empty builds a room with walls only on the boundary and a fully open
// interior. Both dimensions must be at least 3.
func Empty(height, width int) (*Room, error) {
	if height < 3 || width < 3 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrTooSmall, height, width)
	}
	walls := make([]bool, height*width)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if row == 0 || row == height-1 || col == 0 || col == width-1 {
				walls[row*width+col] = true
			}
		}
	}
	return finish(height, width, walls), nil
}

// FromString builds a room from an ASCII layout: '#' or 'W' is a wall,
// '.' or ' ' is open. Rows must all have the same width. Only empty lines
// are skipped; a row made of spaces is a fully open row, not a blank line.
func FromString(s string) (*Room, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyGrid
	}

	width := len(lines[0])
	walls := make([]bool, 0, len(lines)*width)
	for rowIdx, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("%w: row 0 has %d columns, row %d has %d",
				ErrRaggedGrid, width, rowIdx, len(line))
		}
		for colIdx := 0; colIdx < width; colIdx++ {
			switch line[colIdx] {
			case '#', 'W':
				walls = append(walls, true)
			case '.', ' ':
				walls = append(walls, false)
			default:
				return nil, fmt.Errorf("%w: %q at row %d col %d",
					ErrBadCell, string(line[colIdx]), rowIdx, colIdx)
			}
		}
	}
	return finish(len(lines), width, walls), nil
}

// Render draws the room as ASCII art: '#' wall, '.' open, 'o' visited,
// 'P' the robot position. visited may be nil; pass a negative row in pos
// to omit the robot marker.
func (r *Room) Render(visited map[Cell]bool, pos Cell) string {
	var b strings.Builder
	b.Grow((r.width + 1) * r.height)
	for row := 0; row < r.height; row++ {
		for col := 0; col < r.width; col++ {
			c := Cell{Row: row, Col: col}
			switch {
			case pos.Row >= 0 && c == pos:
				b.WriteByte('P')
			case r.walls[row*r.width+col]:
				b.WriteByte('#')
			case visited[c]:
				b.WriteByte('o')
			default:
				b.WriteByte('.')
			}
		}
		if row != r.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
