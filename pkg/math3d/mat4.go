package math3d

import "math"

// Mat4 is a 4x4 matrix stored in row-major order.
// Vectors are columns on the right: result = M·v.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For an affine transform:
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(s, s, s)
}

// RotateX creates a right-handed rotation around the X axis (radians).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a right-handed rotation around the Y axis (radians).
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a right-handed rotation around the Z axis (radians).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective creates a projection matrix from horizontal and vertical
// fields of view in degrees. The camera looks down -Z; after the divide,
// view-space depths in [near, far] map to increasing negative values, so a
// smaller projected z is always nearer.
func Perspective(hFovDeg, vFovDeg, near, far float64) Mat4 {
	r := near * math.Tan(hFovDeg*math.Pi/360)
	t := near * math.Tan(vFovDeg*math.Pi/360)
	fn := 1.0 / (far - near)

	return Mat4{
		near / r, 0, 0, 0,
		0, near / t, 0, 0,
		0, 0, fn, -near * fn,
		0, 0, -1, 0,
	}
}

// Viewport creates the screen matrix mapping x∈[-1,1] to [0,width] and
// y∈[-1,1] to [height,0]. Depth and W pass through unchanged.
func Viewport(width, height int) Mat4 {
	hw := float64(width) / 2
	hh := float64(height) / 2
	return Mat4{
		hw, 0, 0, hw,
		0, -hh, 0, hh,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices: a · b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulVec4 transforms a Vec4: M · v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]*v.W,
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]*v.W,
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]*v.W,
		m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]*v.W,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// TransposeInner transposes the upper-left 3x3 block and keeps the
// translation column and bottom row.
func (m Mat4) TransposeInner() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[3],
		m[1], m[5], m[9], m[7],
		m[2], m[6], m[10], m[11],
		m[12], m[13], m[14], m[15],
	}
}

// InvertRigid inverts a rotation+translation matrix.
// The result is meaningless for matrices with scale, shear or projection.
func (m Mat4) InvertRigid() Mat4 {
	r := m.TransposeInner()
	t := Dir(m[3], m[7], m[11])
	r[3] = -(r[0]*t.X + r[1]*t.Y + r[2]*t.Z)
	r[7] = -(r[4]*t.X + r[5]*t.Y + r[6]*t.Z)
	r[11] = -(r[8]*t.X + r[9]*t.Y + r[10]*t.Z)
	return r
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	// 2x2 minors of the bottom two rows
	s0 := m[8]*m[13] - m[9]*m[12]
	s1 := m[8]*m[14] - m[10]*m[12]
	s2 := m[8]*m[15] - m[11]*m[12]
	s3 := m[9]*m[14] - m[10]*m[13]
	s4 := m[9]*m[15] - m[11]*m[13]
	s5 := m[10]*m[15] - m[11]*m[14]

	// 2x2 minors of the top two rows
	c0 := m[0]*m[5] - m[1]*m[4]
	c1 := m[0]*m[6] - m[2]*m[4]
	c2 := m[0]*m[7] - m[3]*m[4]
	c3 := m[1]*m[6] - m[2]*m[5]
	c4 := m[1]*m[7] - m[3]*m[5]
	c5 := m[2]*m[7] - m[3]*m[6]

	return c0*s5 - c1*s4 + c2*s3 + c3*s2 - c4*s1 + c5*s0
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row*4+col]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row*4+col] = val
}

// Translation extracts the translation column.
func (m Mat4) Translation() Vec4 {
	return Dir(m[3], m[7], m[11])
}
