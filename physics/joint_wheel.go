// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// WheelJoint constrains bodyB to translate along an axis fixed in bodyA
// (e.g. a wheel's suspension travel) while free to rotate, with an
// optional suspension spring along the axis and an optional motor about
// the rotation.
type WheelJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geo.Vec2
	LocalAxisA                 geo.Vec2

	Frequency    float64
	DampingRatio float64

	EnableMotor   bool
	MotorSpeed    float64
	MaxMotorTorque float64

	rA, rB, axis, perp geo.Vec2
	s1, s2, a1, a2     float64
	springMass         float64
	springImpulse      float64
	bias               float64
	gamma              float64
	motorMass          float64
	motorImpulse       float64
	perpMass           float64
	perpImpulse        float64
	k12, k22           float64
	angularMass        float64
}

func NewWheelJoint(id JointId, a, b *Body, worldAnchor, worldAxis geo.Vec2) *WheelJoint {
	return &WheelJoint{
		jointBase:    newJointBase(id, a, b),
		LocalAnchorA: a.Transform().ToLocal(worldAnchor),
		LocalAnchorB: b.Transform().ToLocal(worldAnchor),
		LocalAxisA:   a.Transform().ToLocalVec(worldAxis.Unit()),
	}
}

func (j *WheelJoint) initVelocityConstraints(dt float64) {
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

	springMassInv := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	j.springMass, j.bias, j.gamma = 0, 0, 0
	if springMassInv > geo.Epsilon && j.Frequency > 0 {
		invMass := 1.0 / springMassInv
		omega := 2 * math.Pi * j.Frequency
		k := invMass * omega * omega
		c := 2 * invMass * j.DampingRatio * omega
		j.gamma = dt * (c + dt*k)
		if j.gamma > geo.Epsilon {
			j.gamma = 1.0 / j.gamma
		}
		translation := j.axis.Dot(d)
		j.bias = translation * dt * k * j.gamma
		j.springMass = 1.0 / (springMassInv + j.gamma)
	}

	if iA+iB > geo.Epsilon {
		j.motorMass = 1.0 / (iA + iB)
		j.angularMass = j.motorMass
	}

	k11 := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	j.k12 = iA*j.s1 + iB*j.s2
	j.k22 = iA + iB
	if j.k22 < geo.Epsilon {
		j.k22 = 1
	}
	j.perpMass = k11 // diagonal approximation: solved as two independent 1-D impulses below.
}

func (j *WheelJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	if j.Frequency > 0 {
		cdot := j.axis.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + j.a2*b.AngularVelocity() - j.a1*a.AngularVelocity()
		impulse := -j.springMass * (cdot + j.bias + j.gamma*j.springImpulse)
		j.springImpulse += impulse
		p := j.axis.Scale(impulse)
		a.linVel = a.linVel.Sub(p.Scale(mA))
		a.angVel -= iA * impulse * j.a1
		b.linVel = b.linVel.Add(p.Scale(mB))
		b.angVel += iB * impulse * j.a2
	}

	if j.EnableMotor {
		cdot := b.AngularVelocity() - a.AngularVelocity() - j.MotorSpeed
		impulse := -j.motorMass * cdot
		old := j.motorImpulse
		maxImpulse := j.MaxMotorTorque * dt
		j.motorImpulse = geo.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		a.nudgeAngularVelocity(-iA * impulse)
		b.nudgeAngularVelocity(iB * impulse)
	}

	cdot := j.perp.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + j.s2*b.AngularVelocity() - j.s1*a.AngularVelocity()
	impulse := -cdot / math.Max(j.perpMass, geo.Epsilon)
	j.perpImpulse += impulse
	p := j.perp.Scale(impulse)
	lA := impulse * j.s1
	lB := impulse * j.s2
	a.linVel = a.linVel.Sub(p.Scale(mA))
	a.angVel -= iA * lA
	b.linVel = b.linVel.Add(p.Scale(mB))
	b.angVel += iB * lB
}

func (j *WheelJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	rA, rB := jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	axis := a.Transform().Rot.Rotate(j.LocalAxisA)
	perp := axis.Perp()

	d := b.WorldCenter().Add(rB).Sub(a.WorldCenter()).Sub(rA)
	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)
	c := perp.Dot(d)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()
	k := mA + mB + iA*s1*s1 + iB*s2*s2
	if k < geo.Epsilon {
		return true
	}
	impulse := -c / k
	p := perp.Scale(impulse)
	applyPositionCorrection(a, rA, p.Neg())
	applyPositionCorrection(b, rB, p)
	return math.Abs(c) < linearSlop
}
