// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// DistanceJoint holds the distance between a point on bodyA and a point
// on bodyB fixed at Length, optionally as a soft spring rather than a
// rigid rod when Frequency > 0.
type DistanceJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geo.Vec2
	Length                     float64
	Frequency                  float64 // Hz; 0 means rigid.
	DampingRatio               float64

	rA, rB, u  geo.Vec2
	mass       float64
	bias       float64
	gamma      float64
	impulse    float64
}

func NewDistanceJoint(id JointId, a, b *Body, anchorA, anchorB geo.Vec2) *DistanceJoint {
	return &DistanceJoint{
		jointBase:    newJointBase(id, a, b),
		LocalAnchorA: anchorA,
		LocalAnchorB: anchorB,
		Length:       a.Transform().ToWorld(anchorA).Dist(b.Transform().ToWorld(anchorB)),
	}
}

func (j *DistanceJoint) initVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA, j.rB = jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)

	worldA := a.WorldCenter().Add(j.rA)
	worldB := b.WorldCenter().Add(j.rB)
	d := worldB.Sub(worldA)
	length := d.Len()
	if length > geo.Epsilon {
		j.u = d.Scale(1.0 / length)
	} else {
		j.u = geo.V2(1, 0)
	}

	crA := j.rA.Cross(j.u)
	crB := j.rB.Cross(j.u)
	invMassSum := a.InvMass() + b.InvMass() + a.InvInertia()*crA*crA + b.InvInertia()*crB*crB

	j.gamma = 0
	j.bias = 0
	if j.Frequency > 0 && invMassSum > 0 {
		invMass := 1.0 / invMassSum
		omega := 2 * math.Pi * j.Frequency
		k := invMass * omega * omega
		c := 2 * invMass * j.DampingRatio * omega
		j.gamma = dt * (c + dt*k)
		if j.gamma > geo.Epsilon {
			j.gamma = 1.0 / j.gamma
		}
		j.bias = (length - j.Length) * dt * k * j.gamma
		invMassSum += j.gamma
	}
	if invMassSum > geo.Epsilon {
		j.mass = 1.0 / invMassSum
	}

	impulse := j.u.Scale(j.impulse)
	applyImpulsePair(a, b, j.rA, j.rB, impulse)
}

func (j *DistanceJoint) solveVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	relVel := relativeVelocity(a, b, j.rA, j.rB)
	cdot := j.u.Dot(relVel)

	impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse
	applyImpulsePair(a, b, j.rA, j.rB, j.u.Scale(impulse))
}

func (j *DistanceJoint) solvePositionConstraints() bool {
	if j.Frequency > 0 {
		return true // soft constraints correct themselves through velocity bias.
	}
	a, b := j.bodyA, j.bodyB
	rA, rB := jointAnchors(a, b, j.LocalAnchorA, j.LocalAnchorB)
	d := b.WorldCenter().Add(rB).Sub(a.WorldCenter().Add(rA))
	length := d.Len()
	if length < geo.Epsilon {
		return true
	}
	u := d.Scale(1.0 / length)
	c := length - j.Length
	cClamped := geo.Clamp(c, -maxLinearCorrection, maxLinearCorrection)

	crA := rA.Cross(u)
	crB := rB.Cross(u)
	invMassSum := a.InvMass() + b.InvMass() + a.InvInertia()*crA*crA + b.InvInertia()*crB*crB
	if invMassSum < geo.Epsilon {
		return true
	}
	impulse := -cClamped / invMassSum
	p := u.Scale(impulse)
	applyPositionCorrection(a, rA, p.Neg())
	applyPositionCorrection(b, rB, p)
	return math.Abs(c) < linearSlop
}
