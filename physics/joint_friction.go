// Copyright © 2024 drax contributors.

package physics

import "github.com/drax2d/drax/geo"

// FrictionJoint applies a maximum linear and angular "friction" force
// between two bodies with no hard position constraint: it dissipates
// relative velocity up to MaxForce/MaxTorque and then lets the bodies
// slide freely, e.g. for a top-down friction plane.
type FrictionJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geo.Vec2
	MaxForce                   float64
	MaxTorque                  float64

	rA, rB        geo.Vec2
	linearMass    geo.Mat22
	angularMass   float64
	linearImpulse geo.Vec2
	angularImpulse float64
}

func NewFrictionJoint(id JointId, a, b *Body, worldAnchor geo.Vec2) *FrictionJoint {
	return &FrictionJoint{
		jointBase:    newJointBase(id, a, b),
		LocalAnchorA: a.Transform().ToLocal(worldAnchor),
		LocalAnchorB: b.Transform().ToLocal(worldAnchor),
	}
}

func (j *FrictionJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA, j.rB = jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	k := iA + iB
	if k > geo.Epsilon {
		j.angularMass = 1.0 / k
	}

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.linearMass = geo.Mat22{Col1: geo.V2(k11, k12), Col2: geo.V2(k12, k22)}

	applyImpulsePair(a, b, j.rA, j.rB, j.linearImpulse)
	a.nudgeAngularVelocity(-iA * j.angularImpulse)
	b.nudgeAngularVelocity(iB * j.angularImpulse)
}

func (j *FrictionJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()

	cdotAngular := b.AngularVelocity() - a.AngularVelocity()
	angularImpulse := -j.angularMass * cdotAngular
	oldAngular := j.angularImpulse
	maxAngular := j.MaxTorque * dt
	j.angularImpulse = geo.Clamp(oldAngular+angularImpulse, -maxAngular, maxAngular)
	angularImpulse = j.angularImpulse - oldAngular
	a.nudgeAngularVelocity(-iA * angularImpulse)
	b.nudgeAngularVelocity(iB * angularImpulse)

	relVel := relativeVelocity(a, b, j.rA, j.rB)
	impulse := j.linearMass.Solve(relVel.Neg())
	oldLinear := j.linearImpulse
	j.linearImpulse = j.linearImpulse.Add(impulse)
	maxLinear := j.MaxForce * dt
	if j.linearImpulse.LenSqr() > maxLinear*maxLinear {
		j.linearImpulse = j.linearImpulse.Unit().Scale(maxLinear)
	}
	impulse = j.linearImpulse.Sub(oldLinear)
	applyImpulsePair(a, b, j.rA, j.rB, impulse)
}

func (j *FrictionJoint) solvePositionConstraints() bool { return true }
