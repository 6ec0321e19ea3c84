package caster

import "math"

// Mat2 is a 2x2 float32 matrix in row-major order:
//
//	| m[0][0]  m[0][1] |
//	| m[1][0]  m[1][1] |
//
// Each row is uploaded to the GPU as one vec2<f32> attribute, so the
// in-memory order is the wire order.
type Mat2 [2][2]float32

// IdentityMat2 returns the identity matrix.
func IdentityMat2() Mat2 {
	return Mat2{
		{1, 0},
		{0, 1},
	}
}

// RotationMat2 creates a rotation matrix (angle in radians):
//
//	| cos θ  -sin θ |
//	| sin θ   cos θ |
func RotationMat2(angle float32) Mat2 {
	sin, cos := math.Sincos(float64(angle))
	s, c := float32(sin), float32(cos)
	return Mat2{
		{c, -s},
		{s, c},
	}
}

// ScaleMat2 creates a uniform scaling matrix.
func ScaleMat2(s float32) Mat2 {
	return Mat2{
		{s, 0},
		{0, s},
	}
}

// Mul multiplies two matrices (m * other).
func (m Mat2) Mul(other Mat2) Mat2 {
	return Mat2{
		{
			m[0][0]*other[0][0] + m[0][1]*other[1][0],
			m[0][0]*other[0][1] + m[0][1]*other[1][1],
		},
		{
			m[1][0]*other[0][0] + m[1][1]*other[1][0],
			m[1][0]*other[0][1] + m[1][1]*other[1][1],
		},
	}
}

// Apply transforms a vector by the matrix.
func (m Mat2) Apply(v Vector2[float32]) Vector2[float32] {
	return Vector2[float32]{
		X: m[0][0]*v.X + m[0][1]*v.Y,
		Y: m[1][0]*v.X + m[1][1]*v.Y,
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat2) Determinant() float32 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// IsIdentity reports whether the matrix is exactly the identity.
func (m Mat2) IsIdentity() bool {
	return m == IdentityMat2()
}
