// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// WeldJoint rigidly locks both the relative position and relative angle
// of two bodies, as if welded together at the anchor point. Optionally
// soft (Frequency > 0) to behave like a stiff rotational spring instead
// of a rigid weld, matching the usual weld-joint/spring duality.
type WeldJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geo.Vec2
	ReferenceAngle             float64
	Frequency                  float64
	DampingRatio               float64

	rA, rB       geo.Vec2
	mass         geo.Mat22 // 2x2 point-constraint block; angular solved separately.
	angularMass  float64
	gamma        float64
	bias         float64
	linearImpulse geo.Vec2
	angularImpulse float64
}

func NewWeldJoint(id JointId, a, b *Body, worldAnchor geo.Vec2) *WeldJoint {
	return &WeldJoint{
		jointBase:      newJointBase(id, a, b),
		LocalAnchorA:   a.Transform().ToLocal(worldAnchor),
		LocalAnchorB:   b.Transform().ToLocal(worldAnchor),
		ReferenceAngle: b.Angle() - a.Angle(),
	}
}

func (j *WeldJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA, j.rB = jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	k := iA + iB
	j.gamma = 0
	j.bias = 0
	if k > geo.Epsilon {
		j.angularMass = 1.0 / k
		if j.Frequency > 0 {
			invMass := j.angularMass
			omega := 2 * math.Pi * j.Frequency
			kSpring := invMass * omega * omega
			c := 2 * invMass * j.DampingRatio * omega
			j.gamma = dt * (c + dt*kSpring)
			if j.gamma > geo.Epsilon {
				j.gamma = 1.0 / j.gamma
			}
			angle := b.Angle() - a.Angle() - j.ReferenceAngle
			j.bias = angle * dt * kSpring * j.gamma
			j.angularMass = 1.0 / (k + j.gamma)
		}
	}

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.mass = geo.Mat22{Col1: geo.V2(k11, k12), Col2: geo.V2(k12, k22)}

	applyImpulsePair(a, b, j.rA, j.rB, j.linearImpulse)
	a.nudgeAngularVelocity(-iA * j.angularImpulse)
	b.nudgeAngularVelocity(iB * j.angularImpulse)
}

func (j *WeldJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()

	cdotAngular := b.AngularVelocity() - a.AngularVelocity()
	angularImpulse := -j.angularMass * (cdotAngular + j.bias + j.gamma*j.angularImpulse)
	j.angularImpulse += angularImpulse
	a.nudgeAngularVelocity(-iA * angularImpulse)
	b.nudgeAngularVelocity(iB * angularImpulse)

	relVel := relativeVelocity(a, b, j.rA, j.rB)
	impulse := j.mass.Solve(relVel.Neg())
	j.linearImpulse = j.linearImpulse.Add(impulse)
	applyImpulsePair(a, b, j.rA, j.rB, impulse)
}

func (j *WeldJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	rA, rB := jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	angleOK := true
	if j.Frequency == 0 {
		angleError := b.Angle() - a.Angle() - j.ReferenceAngle
		k := iA + iB
		if k > geo.Epsilon {
			angularImpulse := -angleError / k
			a.nudgeAngle(-iA * angularImpulse)
			b.nudgeAngle(iB * angularImpulse)
		}
		angleOK = math.Abs(angleError) < linearSlop
	}

	worldA := a.WorldCenter().Add(rA)
	worldB := b.WorldCenter().Add(rB)
	c := worldB.Sub(worldA)

	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	k := geo.Mat22{Col1: geo.V2(k11, k12), Col2: geo.V2(k12, k22)}
	impulse := k.Solve(c.Neg())

	applyPositionCorrection(a, rA, impulse.Neg())
	applyPositionCorrection(b, rB, impulse)

	return angleOK && c.Len() < linearSlop
}
