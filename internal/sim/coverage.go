package sim

// coverage tracks the set of visited open cells as a bitmap over the
// room's dense open-cell indices. The visited count is monotonically
// non-decreasing and completion is exact set containment, not a
// percentage threshold.
type coverage struct {
	bits    []uint64
	visited int
	total   int
}

func coverageWords(total int) int { return (total + 63) / 64 }

func newCoverage(total int) coverage {
	return coverage{bits: make([]uint64, coverageWords(total)), total: total}
}

// visit marks an open-cell index. Negative indices (walls, out-of-bounds
// positions) are ignored; a lane escaping the room does not gain coverage.
func (c *coverage) visit(idx int) {
	if idx < 0 {
		return
	}
	word, bit := idx/64, uint(idx%64)
	if c.bits[word]&(1<<bit) == 0 {
		c.bits[word] |= 1 << bit
		c.visited++
	}
}

func (c *coverage) has(idx int) bool {
	if idx < 0 {
		return false
	}
	return c.bits[idx/64]&(1<<uint(idx%64)) != 0
}

// done reports exact containment: every open cell visited. A room with no
// open cells is vacuously done.
func (c *coverage) done() bool { return c.visited == c.total }

// percent is always in [0, 100]; an empty room reads as 0.
func (c *coverage) percent() float64 {
	if c.total == 0 {
		return 0
	}
	return 100 * float64(c.visited) / float64(c.total)
}
