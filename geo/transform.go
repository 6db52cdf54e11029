package geo

// Transform combines a rotation and a translation. It is used instead of
// carrying a full matrix since shapes never need scale or shear.
type Transform struct {
	Pos Vec2
	Rot Rotation
}

// IdentTransform returns the identity transform.
func IdentTransform() Transform { return Transform{Rot: Ident()} }

// NewTransform builds a transform from a position and angle.
func NewTransform(pos Vec2, angle float64) Transform {
	return Transform{Pos: pos, Rot: NewRotation(angle)}
}

// ToWorld maps a local-space point into world space.
func (t Transform) ToWorld(local Vec2) Vec2 {
	return t.Rot.Rotate(local).Add(t.Pos)
}

// ToWorldVec maps a local-space direction (no translation) into world space.
func (t Transform) ToWorldVec(local Vec2) Vec2 { return t.Rot.Rotate(local) }

// ToLocal maps a world-space point into the local space of t.
func (t Transform) ToLocal(world Vec2) Vec2 {
	return t.Rot.RotateT(world.Sub(t.Pos))
}

// ToLocalVec maps a world-space direction into the local space of t.
func (t Transform) ToLocalVec(world Vec2) Vec2 { return t.Rot.RotateT(world) }

// Mul composes t followed by a: applying the result to a point p is the
// same as t.ToWorld(a.ToWorld(p)).
func (t Transform) Mul(a Transform) Transform {
	return Transform{
		Pos: t.ToWorld(a.Pos),
		Rot: t.Rot.Mul(a.Rot),
	}
}

// MulT returns the transform that maps points expressed in t's frame into
// a's frame: equivalent to a^-1 * t.
func (t Transform) MulT(a Transform) Transform {
	return Transform{
		Pos: a.Rot.RotateT(t.Pos.Sub(a.Pos)),
		Rot: a.Rot.MulT(t.Rot),
	}
}
