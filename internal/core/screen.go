package core

import (
	"math"
	"strings"
)

// Cell is a single character of a Screen with its color.
type Cell struct {
	Rune  rune
	Color Color
}

// Screen is a 2D character buffer. Rule code never draws; the presentation
// layer projects field state into a Screen and renders it to the terminal.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a blank screen of the given size.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize reallocates the buffer and clears it.
func (s *Screen) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.width = width
	s.height = height
	s.cells = make([][]Cell, height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, width)
	}
	s.Clear()
}

// Clear fills the screen with uncolored spaces.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a colored rune. Out-of-bounds writes are ignored.
func (s *Screen) Set(x, y int, r rune, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// GetCell returns the cell at (x, y), or a blank cell when out of bounds.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Cell{Rune: ' '}
	}
	return s.cells[y][x]
}

// DrawText writes text horizontally starting at (x, y), clipped to the screen.
func (s *Screen) DrawText(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, r, c)
		i++
	}
}

// String returns the buffer without colors, one line per row.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)
	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Projection maps field coordinates onto a Screen region, top-down with +Z
// pointing up the screen.
type Projection struct {
	Field         Field
	Width, Height int // region size in cells, border included
}

// Cell returns the screen coordinates of world point v. ok is false when v
// falls outside the drawable region.
func (p Projection) Cell(v Vec3) (x, y int, ok bool) {
	h := p.Field.HalfExtent
	if h <= 0 || p.Width < 3 || p.Height < 3 {
		return 0, 0, false
	}
	innerW := float64(p.Width - 2)
	innerH := float64(p.Height - 2)
	fx := (v.X + h) / (2 * h) * innerW
	fz := (h - v.Z) / (2 * h) * innerH
	x = 1 + int(math.Floor(fx))
	y = 1 + int(math.Floor(fz))
	if x >= p.Width-1 {
		x = p.Width - 2
	}
	if y >= p.Height-1 {
		y = p.Height - 2
	}
	if fx < 0 || fz < 0 || fx > innerW || fz > innerH {
		return x, y, false
	}
	return x, y, true
}

// DrawField draws the outer boundary and the two mid-lines.
func (s *Screen) DrawField(p Projection) {
	w, h := p.Width, p.Height
	for x := 1; x < w-1; x++ {
		s.Set(x, 0, '─', ColorGray)
		s.Set(x, h-1, '─', ColorGray)
	}
	for y := 1; y < h-1; y++ {
		s.Set(0, y, '│', ColorGray)
		s.Set(w-1, y, '│', ColorGray)
	}
	s.Set(0, 0, '┌', ColorGray)
	s.Set(w-1, 0, '┐', ColorGray)
	s.Set(0, h-1, '└', ColorGray)
	s.Set(w-1, h-1, '┘', ColorGray)

	cx, cy, _ := p.Cell(Zero)
	for x := 1; x < w-1; x++ {
		s.Set(x, cy, '┄', ColorGray)
	}
	for y := 1; y < h-1; y++ {
		s.Set(cx, y, '┆', ColorGray)
	}
	s.Set(cx, cy, '┼', ColorGray)
}
