// Package core provides the geometry shared by the officiating engine and its
// collaborators: world vectors, field rectangles and quadrant classification.
// It has no external dependencies so rule logic stays pure and testable.
package core

import (
	"fmt"
	"math"
)

// Vec3 is a world-space vector. Y points up; the field lies on the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the origin, also the center of the field.
var Zero = Vec3{}

// V is shorthand for building a Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// String formats the vector with two decimals per axis.
func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
