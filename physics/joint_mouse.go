// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// MouseJoint drags a point on a single body towards a world-space
// Target with a spring-damper, the standard "picked up by the cursor"
// joint. It has no second body: BodyA is nil and the island builder and
// solver treat that as an implicit infinite-mass anchor.
type MouseJoint struct {
	jointBase

	LocalAnchor  geo.Vec2
	Target       geo.Vec2
	MaxForce     float64
	Frequency    float64
	DampingRatio float64

	r       geo.Vec2
	mass    geo.Mat22
	gamma   float64
	beta    float64
	impulse geo.Vec2
}

func NewMouseJoint(id JointId, body *Body, worldAnchor geo.Vec2) *MouseJoint {
	return &MouseJoint{
		jointBase:    newJointBase(id, nil, body),
		LocalAnchor:  body.Transform().ToLocal(worldAnchor),
		Target:       worldAnchor,
		MaxForce:     1000,
		Frequency:    5,
		DampingRatio: 0.7,
	}
}

func (j *MouseJoint) initVelocityConstraints(dt float64) {
	b := j.bodyB
	j.r = b.Transform().Rot.Rotate(j.LocalAnchor.Sub(b.LocalCenter()))

	mass := b.Mass()
	omega := 2 * math.Pi * j.Frequency
	d := 2 * mass * j.DampingRatio * omega
	k := mass * omega * omega

	j.gamma = dt * (d + dt*k)
	if j.gamma > geo.Epsilon {
		j.gamma = 1.0 / j.gamma
	}
	j.beta = dt * k * j.gamma

	invMass := b.InvMass()
	iB := b.InvInertia()
	k11 := invMass + iB*j.r.Y*j.r.Y + j.gamma
	k12 := -iB * j.r.X * j.r.Y
	k22 := invMass + iB*j.r.X*j.r.X + j.gamma
	j.mass = geo.Mat22{Col1: geo.V2(k11, k12), Col2: geo.V2(k12, k22)}

	b.applyImpulseAtOffset(j.impulse, j.r)
}

func (j *MouseJoint) solveVelocityConstraints(dt float64) {
	b := j.bodyB
	worldPoint := b.WorldCenter().Add(j.r)
	cdot := b.LinearVelocity().Add(geo.CrossSV(b.AngularVelocity(), j.r))
	c := worldPoint.Sub(j.Target)

	rhs := cdot.Add(c.Scale(j.beta)).Add(j.impulse.Scale(j.gamma))
	impulse := j.mass.Solve(rhs.Neg())

	old := j.impulse
	j.impulse = j.impulse.Add(impulse)
	maxImpulse := j.MaxForce * dt
	if j.impulse.LenSqr() > maxImpulse*maxImpulse {
		j.impulse = j.impulse.Unit().Scale(maxImpulse)
	}
	impulse = j.impulse.Sub(old)
	b.applyImpulseAtOffset(impulse, j.r)
}

func (j *MouseJoint) solvePositionConstraints() bool { return true } // pure spring: corrects itself via velocity bias.
