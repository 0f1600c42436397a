// Package math3d provides the vector and matrix primitives used by the Nova renderer.
//
// Vectors are homogeneous: positions carry W=1 (or the perspective weight after
// projection) and directions carry W=0.
package math3d

import "math"

// Vec4 represents a homogeneous 3D point or direction.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point creates a position vector (W=1).
func Point(x, y, z float64) Vec4 {
	return Vec4{x, y, z, 1}
}

// Dir creates a direction vector (W=0).
func Dir(x, y, z float64) Vec4 {
	return Vec4{x, y, z, 0}
}

// Add returns the component-wise sum, W included.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the component-wise difference, W included.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Negate returns the negated vector.
func (v Vec4) Negate() Vec4 {
	return Vec4{-v.X, -v.Y, -v.Z, -v.W}
}

// Dot3 returns the dot product of the XYZ parts.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot3(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Dot4 returns the dot product of all four components.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot4(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Cross3 returns the cross product of the XYZ parts as a direction.
//
//nolint:st1016 // a×b naming convention is clearer for vector operations
func (a Vec4) Cross3(b Vec4) Vec4 {
	return Vec4{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
		0,
	}
}

// Perp2 returns the XY part rotated a quarter turn counter-clockwise.
func (v Vec4) Perp2() Vec4 {
	return Vec4{-v.Y, v.X, 0, 0}
}

// Len returns the 4-component Euclidean norm.
func (v Vec4) Len() float64 {
	return math.Sqrt(v.Dot4(v))
}

// Normalize divides every component by the 4-component norm.
// The zero vector has no direction; it is returned unchanged.
func (v Vec4) Normalize() Vec4 {
	l := v.Len()
	if l == 0 {
		return Vec4{}
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W / l}
}

// Lerp returns linear interpolation.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}

// Min returns the component-wise minimum.
func (a Vec4) Min(b Vec4) Vec4 {
	return Vec4{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z), math.Min(a.W, b.W)}
}

// Max returns the component-wise maximum.
func (a Vec4) Max(b Vec4) Vec4 {
	return Vec4{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z), math.Max(a.W, b.W)}
}
