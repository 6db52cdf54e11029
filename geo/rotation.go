package geo

import "math"

// Rotation represents an orientation as a unit complex number (cos, sin)
// rather than a bare angle. Composing rotations this way avoids repeated
// trig calls in the solver's hot loops; the angle is only recovered with
// Angle() when something external (a joint limit, a reported pose) needs it.
type Rotation struct {
	Sin, Cos float64
}

// Ident returns the identity rotation.
func Ident() Rotation { return Rotation{Sin: 0, Cos: 1} }

// NewRotation builds a Rotation from an angle in radians.
func NewRotation(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{Sin: s, Cos: c}
}

// Angle recovers the angle in radians represented by q.
func (q Rotation) Angle() float64 { return math.Atan2(q.Sin, q.Cos) }

// Mul composes q then a (applies a's rotation after q's, matching complex
// multiplication order q*a).
func (q Rotation) Mul(a Rotation) Rotation {
	return Rotation{
		Sin: q.Sin*a.Cos + q.Cos*a.Sin,
		Cos: q.Cos*a.Cos - q.Sin*a.Sin,
	}
}

// MulT composes the inverse of q with a (q^-1 * a).
func (q Rotation) MulT(a Rotation) Rotation {
	return Rotation{
		Sin: q.Cos*a.Sin - q.Sin*a.Cos,
		Cos: q.Cos*a.Cos + q.Sin*a.Sin,
	}
}

// Rotate returns v rotated by q.
func (q Rotation) Rotate(v Vec2) Vec2 {
	return Vec2{q.Cos*v.X - q.Sin*v.Y, q.Sin*v.X + q.Cos*v.Y}
}

// RotateT returns v rotated by the inverse of q (q is orthonormal, so
// the inverse is the transpose).
func (q Rotation) RotateT(v Vec2) Vec2 {
	return Vec2{q.Cos*v.X + q.Sin*v.Y, -q.Sin*v.X + q.Cos*v.Y}
}

// Mat22 is a 2x2 matrix, column-major: [col1 col2]. Used for effective
// mass (K) matrices in the contact and joint solvers.
type Mat22 struct {
	Col1, Col2 Vec2
}

// NewMat22 builds a matrix from its entries, row by row.
func NewMat22(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{Col1: Vec2{a11, a21}, Col2: Vec2{a12, a22}}
}

// MulV returns M*v.
func (m Mat22) MulV(v Vec2) Vec2 {
	return Vec2{m.Col1.X*v.X + m.Col2.X*v.Y, m.Col1.Y*v.X + m.Col2.Y*v.Y}
}

// Add returns m+a.
func (m Mat22) Add(a Mat22) Mat22 {
	return Mat22{m.Col1.Add(a.Col1), m.Col2.Add(a.Col2)}
}

// Det returns the determinant of m.
func (m Mat22) Det() float64 { return m.Col1.X*m.Col2.Y - m.Col2.X*m.Col1.Y }

// Inverse returns the inverse of m. If m is singular (det ~ 0) the zero
// matrix is returned; callers must not rely on the result in that case.
func (m Mat22) Inverse() Mat22 {
	det := m.Det()
	if AeqZ(det) {
		return Mat22{}
	}
	invDet := 1.0 / det
	return Mat22{
		Col1: Vec2{invDet * m.Col2.Y, -invDet * m.Col1.Y},
		Col2: Vec2{-invDet * m.Col2.X, invDet * m.Col1.X},
	}
}

// Solve returns x such that m*x = b, equivalent to Inverse().MulV(b) but
// without forming the inverse explicitly.
func (m Mat22) Solve(b Vec2) Vec2 {
	a11, a12, a21, a22 := m.Col1.X, m.Col2.X, m.Col1.Y, m.Col2.Y
	det := a11*a22 - a12*a21
	if AeqZ(det) {
		return Vec2{}
	}
	det = 1.0 / det
	return Vec2{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}
