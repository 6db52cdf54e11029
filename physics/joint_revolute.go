// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// RevoluteJoint pins a point on bodyA to a point on bodyB, leaving
// relative rotation free except for an optional motor and/or angle
// limit.
type RevoluteJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geo.Vec2
	ReferenceAngle             float64

	EnableMotor  bool
	MotorSpeed   float64
	MaxMotorTorque float64

	EnableLimit bool
	LowerAngle  float64
	UpperAngle  float64

	rA, rB     geo.Vec2
	pivotMass  geo.Mat22
	motorMass  float64
	motorImpulse float64
	limitImpulse float64
	limitState   int8 // 0 free, -1 at lower, 1 at upper, 2 equal limits.
	pivotImpulse geo.Vec2
}

func NewRevoluteJoint(id JointId, a, b *Body, worldAnchor geo.Vec2) *RevoluteJoint {
	return &RevoluteJoint{
		jointBase:      newJointBase(id, a, b),
		LocalAnchorA:   a.Transform().ToLocal(worldAnchor),
		LocalAnchorB:   b.Transform().ToLocal(worldAnchor),
		ReferenceAngle: b.Angle() - a.Angle(),
		UpperAngle:     math.Pi,
		LowerAngle:     -math.Pi,
	}
}

func (j *RevoluteJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA, j.rB = jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	j.motorMass = 1.0 / maxFloat(iA+iB, geo.Epsilon)
	if !j.EnableMotor {
		j.motorImpulse = 0
	}

	if j.EnableLimit {
		angle := b.Angle() - a.Angle() - j.ReferenceAngle
		if j.UpperAngle-j.LowerAngle < 2*linearSlop {
			j.limitState = 2
		} else if angle <= j.LowerAngle {
			if j.limitState != -1 {
				j.limitImpulse = 0
			}
			j.limitState = -1
		} else if angle >= j.UpperAngle {
			if j.limitState != 1 {
				j.limitImpulse = 0
			}
			j.limitState = 1
		} else {
			j.limitState = 0
			j.limitImpulse = 0
		}
	} else {
		j.limitState = 0
		j.limitImpulse = 0
	}

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.pivotMass = geo.Mat22{Col1: geo.V2(k11, k12), Col2: geo.V2(k12, k22)}

	axial := j.motorImpulse + j.limitImpulse
	applyImpulsePair(a, b, j.rA, j.rB, j.pivotImpulse)
	a.nudgeAngularVelocity(-iA * axial)
	b.nudgeAngularVelocity(iB * axial)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (j *RevoluteJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()

	if j.EnableMotor && j.limitState != 2 {
		cdot := b.AngularVelocity() - a.AngularVelocity() - j.MotorSpeed
		impulse := -j.motorMass * cdot
		old := j.motorImpulse
		maxImpulse := j.MaxMotorTorque * dt
		j.motorImpulse = geo.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		a.nudgeAngularVelocity(-iA * impulse)
		b.nudgeAngularVelocity(iB * impulse)
	}

	if j.EnableLimit && j.limitState != 0 {
		angle := b.Angle() - a.Angle() - j.ReferenceAngle
		cdot := b.AngularVelocity() - a.AngularVelocity()
		var c float64
		switch j.limitState {
		case -1:
			c = angle - j.LowerAngle
		case 1:
			c = angle - j.UpperAngle
		}
		bias := baumgarteFactor / dt * math.Min(c+linearSlop, 0)
		impulse := -j.motorMass * (cdot + bias)
		old := j.limitImpulse
		if j.limitState == -1 {
			j.limitImpulse = math.Max(old+impulse, 0)
		} else if j.limitState == 1 {
			j.limitImpulse = math.Min(old+impulse, 0)
		} else {
			j.limitImpulse = old + impulse
		}
		impulse = j.limitImpulse - old
		a.nudgeAngularVelocity(-iA * impulse)
		b.nudgeAngularVelocity(iB * impulse)
	}

	relVel := relativeVelocity(a, b, j.rA, j.rB)
	impulse := j.pivotMass.Solve(relVel.Neg())
	j.pivotImpulse = j.pivotImpulse.Add(impulse)
	applyImpulsePair(a, b, j.rA, j.rB, impulse)
}

func (j *RevoluteJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	rA, rB := jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)

	angleOK := true
	if j.EnableLimit {
		angle := b.Angle() - a.Angle() - j.ReferenceAngle
		var c, limitImpulse float64
		switch {
		case j.UpperAngle-j.LowerAngle < 2*linearSlop:
			c = angle - j.LowerAngle
		case angle <= j.LowerAngle:
			c = math.Min(angle-j.LowerAngle, 0)
		case angle >= j.UpperAngle:
			c = math.Max(angle-j.UpperAngle, 0)
		}
		if c != 0 {
			iA, iB := a.InvInertia(), b.InvInertia()
			mass := 1.0 / maxFloat(iA+iB, geo.Epsilon)
			limitImpulse = -mass * geo.Clamp(c, -maxLinearCorrection, maxLinearCorrection)
			a.nudgeAngle(-iA * limitImpulse)
			b.nudgeAngle(iB * limitImpulse)
			angleOK = math.Abs(c) < linearSlop
		}
	}

	worldA := a.WorldCenter().Add(rA)
	worldB := b.WorldCenter().Add(rB)
	c := worldB.Sub(worldA)
	positionError := c.Len()

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()
	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	k := geo.Mat22{Col1: geo.V2(k11, k12), Col2: geo.V2(k12, k22)}
	impulse := k.Solve(c.Neg())

	applyPositionCorrection(a, rA, impulse.Neg())
	applyPositionCorrection(b, rB, impulse)

	return angleOK && positionError < linearSlop
}
