package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quadball/internal/core"
	"github.com/vovakirdan/quadball/internal/playback"
	"github.com/vovakirdan/quadball/internal/referee"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// drawMatch paints the field, the players and the ball of a session onto s.
// The projection must fit inside s.
func drawMatch(s *core.Screen, p core.Projection, sess *playback.Session) {
	s.Clear()
	s.DrawField(p)

	ref := sess.Referee()
	for _, pl := range sess.Players() {
		color := core.SeatColor(pl.Seat)

		// cell corners
		for _, corner := range []core.Vec3{
			pl.Rect.LowerLeft,
			pl.Rect.UpperRight,
			core.V(pl.Rect.LowerLeft.X, 0, pl.Rect.UpperRight.Z),
			core.V(pl.Rect.UpperRight.X, 0, pl.Rect.LowerLeft.Z),
		} {
			if x, y, ok := p.Cell(corner); ok && s.GetCell(x, y).Rune == ' ' {
				s.Set(x, y, '·', color)
			}
		}

		if x, y, ok := p.Cell(pl.Position); ok {
			r := []rune(pl.Name)[0]
			s.Set(x, y, r, color)
		}
	}

	for _, pos := range ref.Ledger().Trail() {
		if x, y, ok := p.Cell(pos); ok {
			s.Set(x, y, '∘', core.ColorYellow)
		}
	}

	ballColor := core.ColorWhite
	if ref.State() != referee.StateActive {
		ballColor = core.ColorRed
	}
	if x, y, ok := p.Cell(sess.BallPosition()); ok {
		s.Set(x, y, '●', ballColor)
	}
}
