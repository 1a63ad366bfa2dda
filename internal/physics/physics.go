// Package physics provides vector math, bounding boxes and collision helpers.
package physics

import "math"

// Vec2 is a 2D vector used for positions, directions and velocities.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by f.
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns v scaled to unit length.
// The zero vector normalizes to itself instead of NaN.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// HeadingVector returns the unit vector for a heading in degrees where
// 0 points up the screen and angles grow clockwise (y grows downward).
func HeadingVector(degrees float64) Vec2 {
	rad := degrees * math.Pi / 180
	return Vec2{X: math.Sin(rad), Y: -math.Cos(rad)}
}

// PointerAngle returns the heading in degrees that faces along d,
// using the same convention as HeadingVector.
func PointerAngle(d Vec2) float64 {
	return math.Atan2(d.Y, d.X)*180/math.Pi + 90
}

// WrapDegrees wraps an angular difference into [-180, 180).
func WrapDegrees(diff float64) float64 {
	return diff - math.Floor((diff+180)/360)*360
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
