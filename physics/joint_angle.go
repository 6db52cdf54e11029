// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// AngleJoint constrains the relative angle between two bodies to a
// fixed offset, with no effect on their relative position. Useful for
// e.g. keeping a wheel's frame upright relative to a chassis without
// otherwise coupling their motion.
type AngleJoint struct {
	jointBase

	Ratio          float64 // bodyB angle tracks Ratio * bodyA angle + ReferenceAngle.
	ReferenceAngle float64

	mass    float64
	impulse float64
}

func NewAngleJoint(id JointId, a, b *Body) *AngleJoint {
	return &AngleJoint{
		jointBase:      newJointBase(id, a, b),
		Ratio:          1,
		ReferenceAngle: b.Angle() - a.Angle(),
	}
}

func (j *AngleJoint) initVelocityConstraints(dt float64) {
	iA, iB := j.bodyA.InvInertia(), j.bodyB.InvInertia()
	k := j.Ratio*j.Ratio*iA + iB
	if k > geo.Epsilon {
		j.mass = 1.0 / k
	}
	j.bodyA.nudgeAngularVelocity(-iA * j.Ratio * j.impulse)
	j.bodyB.nudgeAngularVelocity(iB * j.impulse)
}

func (j *AngleJoint) solveVelocityConstraints(dt float64) {
	iA, iB := j.bodyA.InvInertia(), j.bodyB.InvInertia()
	cdot := j.bodyB.AngularVelocity() - j.Ratio*j.bodyA.AngularVelocity()
	impulse := -j.mass * cdot
	j.impulse += impulse
	j.bodyA.nudgeAngularVelocity(-iA * j.Ratio * impulse)
	j.bodyB.nudgeAngularVelocity(iB * impulse)
}

func (j *AngleJoint) solvePositionConstraints() bool {
	iA, iB := j.bodyA.InvInertia(), j.bodyB.InvInertia()
	c := j.bodyB.Angle() - j.Ratio*j.bodyA.Angle() - j.ReferenceAngle
	k := j.Ratio*j.Ratio*iA + iB
	if k < geo.Epsilon {
		return true
	}
	impulse := -c / k
	j.bodyA.nudgeAngle(-iA * j.Ratio * impulse)
	j.bodyB.nudgeAngle(iB * impulse)
	return math.Abs(c) < linearSlop
}
