package core

import "math"

// Quadrant identifies one of the four cells the mid-lines split the field into.
type Quadrant int

// Quadrants are numbered counter-clockwise starting from +X/+Z.
const (
	Quadrant1 Quadrant = iota + 1 // +X, +Z
	Quadrant2                     // -X, +Z
	Quadrant3                     // -X, -Z
	Quadrant4                     // +X, -Z
)

// Quadrants lists every quadrant in seat order.
var Quadrants = []Quadrant{Quadrant1, Quadrant2, Quadrant3, Quadrant4}

// String returns a short name for the quadrant.
func (q Quadrant) String() string {
	switch q {
	case Quadrant1:
		return "Q1"
	case Quadrant2:
		return "Q2"
	case Quadrant3:
		return "Q3"
	case Quadrant4:
		return "Q4"
	default:
		return "Q?"
	}
}

// ClassifyQuadrant returns the quadrant containing p by the sign of its X and Z.
// Points on an axis count as positive on that axis.
func ClassifyQuadrant(p Vec3) Quadrant {
	switch {
	case p.X >= 0 && p.Z >= 0:
		return Quadrant1
	case p.X < 0 && p.Z >= 0:
		return Quadrant2
	case p.X < 0:
		return Quadrant3
	default:
		return Quadrant4
	}
}

// Rect is an axis-aligned rectangle on the XZ plane. Y is ignored.
type Rect struct {
	LowerLeft  Vec3
	UpperRight Vec3
}

// NewRect builds a rectangle from XZ corner coordinates.
func NewRect(x0, z0, x1, z1 float64) Rect {
	return Rect{LowerLeft: V(x0, 0, z0), UpperRight: V(x1, 0, z1)}
}

// Center returns the midpoint of the rectangle (Y = 0).
func (r Rect) Center() Vec3 {
	return V((r.LowerLeft.X+r.UpperRight.X)/2, 0, (r.LowerLeft.Z+r.UpperRight.Z)/2)
}

// Width returns the X extent.
func (r Rect) Width() float64 {
	return r.UpperRight.X - r.LowerLeft.X
}

// Depth returns the Z extent.
func (r Rect) Depth() float64 {
	return r.UpperRight.Z - r.LowerLeft.Z
}

// Area returns Width*Depth, or 0 when either extent is not positive.
func (r Rect) Area() float64 {
	if r.Width() <= 0 || r.Depth() <= 0 {
		return 0
	}
	return r.Width() * r.Depth()
}

// Degenerate reports whether the rectangle encloses no area.
func (r Rect) Degenerate() bool {
	return r.Area() == 0
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec3) bool {
	return p.X >= r.LowerLeft.X && p.X <= r.UpperRight.X &&
		p.Z >= r.LowerLeft.Z && p.Z <= r.UpperRight.Z
}

// Field describes the square playing area centered at the origin.
type Field struct {
	HalfExtent float64 // distance from the center to each outer line
	LineWeight float64 // thickness of the mid-lines and outer lines
}

// Bounds returns the full playing square.
func (f Field) Bounds() Rect {
	return NewRect(-f.HalfExtent, -f.HalfExtent, f.HalfExtent, f.HalfExtent)
}

// InBounds reports whether p lies on or inside the outer boundary.
func (f Field) InBounds(p Vec3) bool {
	return math.Abs(p.X) <= f.HalfExtent && math.Abs(p.Z) <= f.HalfExtent
}

// QuadrantRect returns the cell owned by a player seated in quadrant q.
func (f Field) QuadrantRect(q Quadrant) Rect {
	h := f.HalfExtent
	switch q {
	case Quadrant2:
		return NewRect(-h, 0, 0, h)
	case Quadrant3:
		return NewRect(-h, -h, 0, 0)
	case Quadrant4:
		return NewRect(0, -h, h, 0)
	default:
		return NewRect(0, 0, h, h)
	}
}

// InOwnedRectangle reports whether p lies in the player rectangle r after
// trimming its boundary strips. With includeMiddleLines the two edges facing
// the mid-lines move inward by LineWeight; with includeOuterLines the two
// edges facing the outer boundary do.
func (f Field) InOwnedRectangle(p Vec3, r Rect, includeMiddleLines, includeOuterLines bool) bool {
	ll, ur := r.LowerLeft, r.UpperRight
	w := f.LineWeight

	switch ClassifyQuadrant(r.Center()) {
	case Quadrant1:
		if includeMiddleLines {
			ll.X += w
			ll.Z += w
		}
		if includeOuterLines {
			ur.X -= w
			ur.Z -= w
		}
	case Quadrant2:
		if includeMiddleLines {
			ur.X -= w
			ll.Z += w
		}
		if includeOuterLines {
			ll.X += w
			ur.Z -= w
		}
	case Quadrant3:
		if includeMiddleLines {
			ur.X -= w
			ur.Z -= w
		}
		if includeOuterLines {
			ll.X += w
			ll.Z += w
		}
	case Quadrant4:
		if includeMiddleLines {
			ll.X += w
			ur.Z -= w
		}
		if includeOuterLines {
			ll.Z += w
			ur.X -= w
		}
	}

	return Rect{LowerLeft: ll, UpperRight: ur}.Contains(p)
}
