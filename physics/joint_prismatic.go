// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// PrismaticJoint lets bodyB slide along a fixed axis attached to bodyA
// while locking relative rotation, with an optional motor and/or
// translation limit along that axis.
type PrismaticJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geo.Vec2
	LocalAxisA                 geo.Vec2
	ReferenceAngle             float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorForce  float64

	EnableLimit bool
	LowerTrans  float64
	UpperTrans  float64

	rA, rB, axis, perp geo.Vec2
	s1, s2, a1, a2     float64
	k11, k12, k22      float64
	motorMass          float64
	motorImpulse       float64
	impulse            geo.Vec2 // [perp impulse, angular impulse]
	lowerImpulse       float64
	upperImpulse       float64
}

func NewPrismaticJoint(id JointId, a, b *Body, worldAnchor, worldAxis geo.Vec2) *PrismaticJoint {
	axis := worldAxis.Unit()
	return &PrismaticJoint{
		jointBase:      newJointBase(id, a, b),
		LocalAnchorA:   a.Transform().ToLocal(worldAnchor),
		LocalAnchorB:   b.Transform().ToLocal(worldAnchor),
		LocalAxisA:     a.Transform().ToLocalVec(axis),
		ReferenceAngle: b.Angle() - a.Angle(),
		UpperTrans:     math.Inf(1),
	}
}

func (j *PrismaticJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA, j.rB = jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	j.axis = a.Transform().Rot.Rotate(j.LocalAxisA)
	j.perp = j.axis.Perp()

	d := b.WorldCenter().Add(j.rB).Sub(a.WorldCenter()).Sub(j.rA)
	j.a1 = d.Add(j.rA).Cross(j.axis)
	j.a2 = j.rB.Cross(j.axis)
	j.s1 = d.Add(j.rA).Cross(j.perp)
	j.s2 = j.rB.Cross(j.perp)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	k := iA + iB
	if k > geo.Epsilon {
		j.motorMass = 1.0 / k
	}

	j.k11 = mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	j.k12 = iA*j.s1 + iB*j.s2
	j.k22 = iA + iB
	if j.k22 < geo.Epsilon {
		j.k22 = 1
	}

	perpImpulse := j.impulse.X
	angImpulse := j.impulse.Y
	axialImpulse := j.motorImpulse + j.lowerImpulse - j.upperImpulse

	p := j.perp.Scale(perpImpulse).Add(j.axis.Scale(axialImpulse))
	lA := perpImpulse*j.s1 + angImpulse + axialImpulse*j.a1
	lB := perpImpulse*j.s2 + angImpulse + axialImpulse*j.a2

	a.linVel = a.linVel.Sub(p.Scale(mA))
	a.angVel -= iA * lA
	b.linVel = b.linVel.Add(p.Scale(mB))
	b.angVel += iB * lB
}

func (j *PrismaticJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	if j.EnableMotor {
		cdot := j.axis.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + j.a2*b.AngularVelocity() - j.a1*a.AngularVelocity()
		impulse := j.motorMass * (j.MotorSpeed - cdot)
		old := j.motorImpulse
		maxImpulse := j.MaxMotorForce * dt
		j.motorImpulse = geo.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		j.applyAxialImpulse(impulse)
	}

	if j.EnableLimit {
		translation := j.axis.Dot(b.WorldCenter().Add(j.rB).Sub(a.WorldCenter()).Sub(j.rA))

		cLower := translation - j.LowerTrans
		cdot := j.axis.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + j.a2*b.AngularVelocity() - j.a1*a.AngularVelocity()
		lowerImp := -j.motorMass * (cdot + math.Min(cLower, 0)*baumgarteFactor/dt)
		oldLower := j.lowerImpulse
		j.lowerImpulse = math.Max(oldLower+lowerImp, 0)
		lowerImp = j.lowerImpulse - oldLower
		j.applyAxialImpulse(lowerImp)

		cUpper := j.UpperTrans - translation
		cdot2 := -(j.axis.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + j.a2*b.AngularVelocity() - j.a1*a.AngularVelocity())
		upperImp := -j.motorMass * (cdot2 + math.Min(cUpper, 0)*baumgarteFactor/dt)
		oldUpper := j.upperImpulse
		j.upperImpulse = math.Max(oldUpper+upperImp, 0)
		upperImp = j.upperImpulse - oldUpper
		j.applyAxialImpulse(-upperImp)
	}

	cdot1 := j.perp.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + j.s2*b.AngularVelocity() - j.s1*a.AngularVelocity()
	cdot2 := b.AngularVelocity() - a.AngularVelocity()

	k := geo.Mat22{Col1: geo.V2(j.k11, j.k12), Col2: geo.V2(j.k12, j.k22)}
	impulse := k.Solve(geo.V2(-cdot1, -cdot2))
	j.impulse = j.impulse.Add(impulse)

	p := j.perp.Scale(impulse.X)
	lA := impulse.X*j.s1 + impulse.Y
	lB := impulse.X*j.s2 + impulse.Y

	a.linVel = a.linVel.Sub(p.Scale(mA))
	a.angVel -= iA * lA
	b.linVel = b.linVel.Add(p.Scale(mB))
	b.angVel += iB * lB
}

func (j *PrismaticJoint) applyAxialImpulse(impulse float64) {
	a, b := j.bodyA, j.bodyB
	p := j.axis.Scale(impulse)
	lA := impulse * j.a1
	lB := impulse * j.a2
	a.linVel = a.linVel.Sub(p.Scale(a.InvMass()))
	a.angVel -= a.InvInertia() * lA
	b.linVel = b.linVel.Add(p.Scale(b.InvMass()))
	b.angVel += b.InvInertia() * lB
}

func (j *PrismaticJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	rA, rB := jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	axis := a.Transform().Rot.Rotate(j.LocalAxisA)
	perp := axis.Perp()

	d := b.WorldCenter().Add(rB).Sub(a.WorldCenter()).Sub(rA)
	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	angleError := b.Angle() - a.Angle() - j.ReferenceAngle
	perpError := perp.Dot(d)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()
	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 < geo.Epsilon {
		k22 = 1
	}
	k := geo.Mat22{Col1: geo.V2(k11, k12), Col2: geo.V2(k12, k22)}
	impulse := k.Solve(geo.V2(-perpError, -angleError))

	p := perp.Scale(impulse.X)
	lA := impulse.X*s1 + impulse.Y
	lB := impulse.X*s2 + impulse.Y

	aCenter := a.WorldCenter().Sub(p.Scale(mA))
	aAngle := a.Transform().Rot.Angle() - iA*lA
	a.transform.Rot = geo.NewRotation(aAngle)
	a.transform.Pos = aCenter.Sub(a.transform.Rot.Rotate(a.localCom))

	bCenter := b.WorldCenter().Add(p.Scale(mB))
	bAngle := b.Transform().Rot.Angle() + iB*lB
	b.transform.Rot = geo.NewRotation(bAngle)
	b.transform.Pos = bCenter.Sub(b.transform.Rot.Rotate(b.localCom))

	return math.Abs(perpError) < linearSlop && math.Abs(angleError) < linearSlop
}
