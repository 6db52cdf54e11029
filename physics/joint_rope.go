// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// RopeJoint limits the distance between two anchor points to at most
// MaxLength, like a slack rope: it applies no force while the distance
// is below the limit and only ever pulls the bodies together, never
// apart.
type RopeJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geo.Vec2
	MaxLength                  float64

	rA, rB  geo.Vec2
	u       geo.Vec2
	mass    float64
	impulse float64
	state   int8 // 0 slack, 1 taut.
}

func NewRopeJoint(id JointId, a, b *Body, maxLength float64) *RopeJoint {
	return &RopeJoint{
		jointBase: newJointBase(id, a, b),
		MaxLength: maxLength,
	}
}

func (j *RopeJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA, j.rB = jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)

	d := b.WorldCenter().Add(j.rB).Sub(a.WorldCenter().Add(j.rA))
	length := d.Len()
	c := length - j.MaxLength
	if c > 0 {
		j.state = 1
	} else {
		j.state = 0
		j.impulse = 0
		return
	}
	if length > geo.Epsilon {
		j.u = d.Scale(1.0 / length)
	} else {
		j.u = geo.V2(1, 0)
	}

	crA := j.rA.Cross(j.u)
	crB := j.rB.Cross(j.u)
	invMassSum := a.InvMass() + b.InvMass() + a.InvInertia()*crA*crA + b.InvInertia()*crB*crB
	if invMassSum > geo.Epsilon {
		j.mass = 1.0 / invMassSum
	}

	applyImpulsePair(a, b, j.rA, j.rB, j.u.Scale(j.impulse))
}

func (j *RopeJoint) solveVelocityConstraints(dt float64) {
	if j.state == 0 {
		return
	}
	a, b := j.bodyA, j.bodyB
	relVel := relativeVelocity(a, b, j.rA, j.rB)
	cdot := j.u.Dot(relVel)
	impulse := -j.mass * cdot
	old := j.impulse
	j.impulse = math.Min(0, old+impulse) // rope only pulls, never pushes: impulse <= 0.
	impulse = j.impulse - old
	applyImpulsePair(a, b, j.rA, j.rB, j.u.Scale(impulse))
}

func (j *RopeJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	rA, rB := jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	d := b.WorldCenter().Add(rB).Sub(a.WorldCenter().Add(rA))
	length := d.Len()
	c := geo.Clamp(length-j.MaxLength, 0, maxLinearCorrection)
	if c <= 0 {
		return true
	}
	u := d.Scale(1.0 / math.Max(length, geo.Epsilon))

	crA := rA.Cross(u)
	crB := rB.Cross(u)
	invMassSum := a.InvMass() + b.InvMass() + a.InvInertia()*crA*crA + b.InvInertia()*crB*crB
	if invMassSum < geo.Epsilon {
		return true
	}
	impulse := -c / invMassSum
	p := u.Scale(impulse)
	applyPositionCorrection(a, rA, p.Neg())
	applyPositionCorrection(b, rB, p)
	return c < linearSlop
}
