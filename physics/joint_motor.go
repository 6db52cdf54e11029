// Copyright © 2024 drax contributors.

package physics

import "github.com/drax2d/drax/geo"

// MotorJoint drives bodyB towards a target linear and angular offset
// from bodyA, clamped to MaxForce/MaxTorque — the joint behind "follow
// this platform" or simple AI steering, as opposed to RevoluteJoint's
// rigid pivot.
type MotorJoint struct {
	jointBase

	LinearOffset   geo.Vec2
	AngularOffset  float64
	MaxForce       float64
	MaxTorque      float64
	CorrectionFactor float64

	rA, rB        geo.Vec2
	linearMass    geo.Mat22
	angularMass   float64
	linearImpulse geo.Vec2
	angularImpulse float64
	linearError   geo.Vec2
	angularError  float64
}

func NewMotorJoint(id JointId, a, b *Body) *MotorJoint {
	return &MotorJoint{
		jointBase:        newJointBase(id, a, b),
		LinearOffset:     a.Transform().ToLocal(b.Position()),
		AngularOffset:    b.Angle() - a.Angle(),
		CorrectionFactor: 0.3,
	}
}

func (j *MotorJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	j.rA = a.Transform().Rot.Rotate(j.LinearOffset.Sub(a.LocalCenter()))
	j.rB = b.Transform().Rot.Rotate(b.LocalCenter().Neg())

	j.linearError = b.WorldCenter().Sub(a.WorldCenter()).Sub(a.Transform().Rot.Rotate(j.LinearOffset))
	j.angularError = b.Angle() - a.Angle() - j.AngularOffset

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

func (j *MotorJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()
	invDt := 1.0 / dt

	cdotAngular := b.AngularVelocity() - a.AngularVelocity() + invDt*j.CorrectionFactor*j.angularError
	angularImpulse := -j.angularMass * cdotAngular
	oldAngular := j.angularImpulse
	maxAngular := j.MaxTorque * dt
	j.angularImpulse = geo.Clamp(oldAngular+angularImpulse, -maxAngular, maxAngular)
	angularImpulse = j.angularImpulse - oldAngular
	a.nudgeAngularVelocity(-iA * angularImpulse)
	b.nudgeAngularVelocity(iB * angularImpulse)

	relVel := relativeVelocity(a, b, j.rA, j.rB).Add(j.linearError.Scale(invDt * j.CorrectionFactor))
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

func (j *MotorJoint) solvePositionConstraints() bool { return true }
