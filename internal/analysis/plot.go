package analysis

import (
	"math"
	"strings"
)

// span is the value range mapped onto one axis of a grid.
type span struct{ lo, hi float64 }

// spanOf covers values, widened on both sides by pad times the range. A
// flat series gets a unit range.
func spanOf(values []float64, pad float64) span {
	s := span{math.Inf(1), math.Inf(-1)}
	for _, v := range values {
		s.lo = math.Min(s.lo, v)
		s.hi = math.Max(s.hi, v)
	}
	if s.hi == s.lo {
		s.hi = s.lo + 1
	}
	extra := (s.hi - s.lo) * pad
	return span{s.lo - extra, s.hi + extra}
}

func (s span) contains(v float64) bool { return v >= s.lo && v <= s.hi }

// cell maps v to one of n cells.
func (s span) cell(v float64, n int) int {
	return int((v - s.lo) / (s.hi - s.lo) * float64(n-1))
}

// grid is a rune plot with row zero at the top.
type grid [][]rune

func newGrid(width, height int) grid {
	g := make(grid, height)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", width))
	}
	return g
}

// plot marks the cell at column col, counting rows from the bottom.
func (g grid) plot(col, row int, r rune) {
	row = len(g) - 1 - row
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return
	}
	g[row][col] = r
}

// fill sets empty cells only, so axes stay behind data.
func (g grid) fill(col, row int, r rune) {
	row = len(g) - 1 - row
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) || g[row][col] != ' ' {
		return
	}
	g[row][col] = r
}

func (g grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
