package render

import "strings"

const (
	glyphLine   = '─'
	glyphVLine  = '│'
	glyphCircle = '○'
	glyphDot    = '●'
)

// Rasterize paints frame onto a grid of w x h character cells, scaling the
// canvas coordinates, and returns the rows with trailing spaces trimmed.
func Rasterize(frame Frame, w, h int) []string {
	if w <= 0 || h <= 0 {
		return nil
	}

	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", w))
	}

	col := func(x int) int { return clamp(x*w/CanvasWidth, w-1) }
	row := func(y int) int { return clamp(y*h/CanvasHeight, h-1) }

	for _, p := range frame {
		switch p.Kind {
		case KindText:
			r, c := row(p.Y), col(p.X)
			for _, ch := range p.Text {
				if c >= w {
					break
				}
				grid[r][c] = ch
				c++
			}
		case KindLine:
			drawLine(grid, col(p.X), row(p.Y), col(p.X2), row(p.Y2))
		case KindCircle:
			r, c := row(p.Y), col(p.X)
			if grid[r][c] != glyphDot {
				grid[r][c] = glyphCircle
			}
		case KindDot:
			grid[row(p.Y)][col(p.X)] = glyphDot
		}
	}

	lines := make([]string, h)
	for i, r := range grid {
		lines[i] = strings.TrimRight(string(r), " ")
	}
	return lines
}

// drawLine draws horizontal and vertical segments with box glyphs and any
// other slope as a stepped run of dots.
func drawLine(grid [][]rune, c1, r1, c2, r2 int) {
	switch {
	case r1 == r2:
		for c := min(c1, c2); c <= max(c1, c2); c++ {
			grid[r1][c] = glyphLine
		}
	case c1 == c2:
		for r := min(r1, r2); r <= max(r1, r2); r++ {
			grid[r][c1] = glyphVLine
		}
	default:
		steps := max(abs(c2-c1), abs(r2-r1))
		for i := 0; i <= steps; i++ {
			c := c1 + (c2-c1)*i/steps
			r := r1 + (r2-r1)*i/steps
			grid[r][c] = '·'
		}
	}
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
