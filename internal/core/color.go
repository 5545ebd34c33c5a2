package core

// Color is a display color hint attached to notices and screen cells.
// Values map to ANSI palette entries in the presentation layer.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// SeatColor returns the color used to draw everything owned by quadrant q.
func SeatColor(q Quadrant) Color {
	switch q {
	case Quadrant1:
		return ColorCyan
	case Quadrant2:
		return ColorMagenta
	case Quadrant3:
		return ColorGreen
	case Quadrant4:
		return ColorOrange
	default:
		return ColorDefault
	}
}
