// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// PulleyJoint couples two bodies through fixed ground anchors so that
// lengthA + Ratio*lengthB stays constant, the classic block-and-tackle
// constraint: pulling bodyA's rope in lets bodyB's rope out.
type PulleyJoint struct {
	jointBase

	GroundAnchorA, GroundAnchorB geo.Vec2
	LocalAnchorA, LocalAnchorB   geo.Vec2
	LengthA, LengthB             float64
	Ratio                        float64

	rA, rB, uA, uB geo.Vec2
	mass           float64
	impulse        float64
}

func NewPulleyJoint(id JointId, a, b *Body, groundA, groundB, anchorA, anchorB geo.Vec2, ratio float64) *PulleyJoint {
	j := &PulleyJoint{
		jointBase:     newJointBase(id, a, b),
		GroundAnchorA: groundA,
		GroundAnchorB: groundB,
		LocalAnchorA:  a.Transform().ToLocal(anchorA),
		LocalAnchorB:  b.Transform().ToLocal(anchorB),
		Ratio:         ratio,
	}
	j.LengthA = anchorA.Dist(groundA)
	j.LengthB = anchorB.Dist(groundB)
	return j
}

func (j *PulleyJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA, j.rB = jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)

	pA := a.WorldCenter().Add(j.rA)
	pB := b.WorldCenter().Add(j.rB)

	lengthA := pA.Dist(j.GroundAnchorA)
	lengthB := pB.Dist(j.GroundAnchorB)
	if lengthA > linearSlop {
		j.uA = j.GroundAnchorA.Sub(pA).Scale(1.0 / lengthA)
	} else {
		j.uA = geo.Vec2{}
	}
	if lengthB > linearSlop {
		j.uB = j.GroundAnchorB.Sub(pB).Scale(1.0 / lengthB)
	} else {
		j.uB = geo.Vec2{}
	}

	crA := j.rA.Cross(j.uA)
	crB := j.rB.Cross(j.uB)
	mA := a.InvMass() + a.InvInertia()*crA*crA
	mB := b.InvMass() + b.InvInertia()*crB*crB
	k := mA + j.Ratio*j.Ratio*mB
	if k > geo.Epsilon {
		j.mass = 1.0 / k
	}

	a.applyImpulseAtOffset(j.uA.Scale(-j.impulse), j.rA)
	b.applyImpulseAtOffset(j.uB.Scale(-j.Ratio*j.impulse), j.rB)
}

func (j *PulleyJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	vA := a.LinearVelocity().Add(geo.CrossSV(a.AngularVelocity(), j.rA))
	vB := b.LinearVelocity().Add(geo.CrossSV(b.AngularVelocity(), j.rB))

	cdot := -j.uA.Dot(vA) - j.Ratio*j.uB.Dot(vB)
	impulse := -j.mass * cdot
	j.impulse += impulse

	a.applyImpulseAtOffset(j.uA.Scale(-impulse), j.rA)
	b.applyImpulseAtOffset(j.uB.Scale(-j.Ratio*impulse), j.rB)
}

func (j *PulleyJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	rA, rB := jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	pA := a.WorldCenter().Add(rA)
	pB := b.WorldCenter().Add(rB)

	lengthA := pA.Dist(j.GroundAnchorA)
	lengthB := pB.Dist(j.GroundAnchorB)
	c := j.LengthA + j.Ratio*j.LengthB - lengthA - j.Ratio*lengthB

	var uA, uB geo.Vec2
	if lengthA > linearSlop {
		uA = j.GroundAnchorA.Sub(pA).Scale(1.0 / lengthA)
	}
	if lengthB > linearSlop {
		uB = j.GroundAnchorB.Sub(pB).Scale(1.0 / lengthB)
	}

	crA := rA.Cross(uA)
	crB := rB.Cross(uB)
	mA := a.InvMass() + a.InvInertia()*crA*crA
	mB := b.InvMass() + b.InvInertia()*crB*crB
	k := mA + j.Ratio*j.Ratio*mB
	if k < geo.Epsilon {
		return true
	}
	impulse := -c / k
	applyPositionCorrection(a, rA, uA.Scale(-impulse))
	applyPositionCorrection(b, rB, uB.Scale(-j.Ratio*impulse))
	return math.Abs(c) < linearSlop
}
