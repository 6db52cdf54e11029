// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// defaultVelocityIterations and defaultPositionIterations are the default
// Sequential-Impulses iteration counts: enough for stable stacks at
// typical game frame rates without dominating the step's cost.
const (
	defaultVelocityIterations = 8
	defaultPositionIterations = 3
)

// contactVelocityPoint is the solver's per-point working state for one
// velocity-iteration pass: effective masses, restitution bias and the
// running normal/tangent impulses (seeded from the Contact's warm-start
// values and written back afterward).
type contactVelocityPoint struct {
	rA, rB         geo.Vec2
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
	normalImpulse  float64
	tangentImpulse float64
}

type contactConstraint struct {
	contact     *Contact
	bodyA, bodyB *Body
	normal      geo.Vec2
	friction    float64
	points      []contactVelocityPoint
}

// solveIsland runs one full Sequential-Impulses pass over an island: integrate
// velocities, warm-start and solve velocity constraints for joints then
// contacts (tangent before normal, per point), integrate positions, then
// iteratively correct remaining position error. fixtureOf looks fixtures
// up by id; their owning bodies are found through the island's world.
func solveIsland(island *Island, gravity geo.Vec2, settings *Settings, dt float64, fixtureOf func(FixtureId) *Fixture) {
	fixtureOwner := func(id FixtureId) *Body {
		f := fixtureOf(id)
		if f == nil || len(island.Bodies) == 0 || island.Bodies[0].world == nil {
			return nil
		}
		return island.Bodies[0].world.body(f.body)
	}

	for _, b := range island.Bodies {
		b.integrateVelocity(dt, gravity)
		b.clampVelocity(settings.MaxLinearVelocity, settings.MaxAngularVelocity, dt)
	}

	constraints := make([]*contactConstraint, 0, len(island.Contacts))
	for _, c := range island.Contacts {
		if len(c.Points) == 0 || c.Sensor {
			continue
		}
		bodyA := fixtureOwner(c.FixtureA)
		bodyB := fixtureOwner(c.FixtureB)
		if bodyA == nil || bodyB == nil {
			continue
		}
		cc := buildContactConstraint(c, bodyA, bodyB)
		constraints = append(constraints, cc)
		warmStartContact(cc, settings.RestitutionVelocityThreshold)
	}
	for _, j := range island.Joints {
		j.initVelocityConstraints(dt)
	}

	for i := 0; i < settings.VelocityIterations; i++ {
		for _, j := range island.Joints {
			j.solveVelocityConstraints(dt)
		}
		for _, cc := range constraints {
			solveContactVelocity(cc)
		}
	}

	for _, b := range island.Bodies {
		b.integratePosition(dt)
	}

	for i := 0; i < settings.PositionIterations; i++ {
		jointsOK := true
		for _, j := range island.Joints {
			if !j.solvePositionConstraints() {
				jointsOK = false
			}
		}
		contactsOK := true
		for _, cc := range constraints {
			if !solveContactPosition(cc) {
				contactsOK = false
			}
		}
		if jointsOK && contactsOK {
			break
		}
	}

	for _, cc := range constraints {
		writeBackImpulses(cc)
	}

	updateSleep(island, settings, dt)
}

func buildContactConstraint(c *Contact, bodyA, bodyB *Body) *contactConstraint {
	cc := &contactConstraint{contact: c, bodyA: bodyA, bodyB: bodyB, normal: c.Normal, friction: c.Friction}
	cc.points = make([]contactVelocityPoint, len(c.Points))
	return cc
}

// warmStartContact fills in each point's geometry/mass and applies the
// impulse carried over from the previous step.
func warmStartContact(cc *contactConstraint, restitutionVelocityThreshold float64) {
	c := cc.contact
	a := cc.bodyA
	b := cc.bodyB
	tangent := cc.normal.RPerp()

	for i := range c.Points {
		p := c.Points[i]
		rA := p.Point.Sub(a.WorldCenter())
		rB := p.Point.Sub(b.WorldCenter())

		rnA := rA.Cross(cc.normal)
		rnB := rB.Cross(cc.normal)
		kNormal := a.InvMass() + b.InvMass() + a.InvInertia()*rnA*rnA + b.InvInertia()*rnB*rnB
		normalMass := 0.0
		if kNormal > geo.Epsilon {
			normalMass = 1.0 / kNormal
		}

		rtA := rA.Cross(tangent)
		rtB := rB.Cross(tangent)
		kTangent := a.InvMass() + b.InvMass() + a.InvInertia()*rtA*rtA + b.InvInertia()*rtB*rtB
		tangentMass := 0.0
		if kTangent > geo.Epsilon {
			tangentMass = 1.0 / kTangent
		}

		relVel := relativeVelocity(a, b, rA, rB)
		closingSpeed := cc.normal.Dot(relVel)
		bias := 0.0
		if closingSpeed < -restitutionVelocityThreshold {
			bias = -c.Restitution * closingSpeed
		}

		cc.points[i] = contactVelocityPoint{
			rA: rA, rB: rB,
			normalMass:     normalMass,
			tangentMass:    tangentMass,
			velocityBias:   bias,
			normalImpulse:  p.NormalImpulse,
			tangentImpulse: p.TangentImpulse,
		}

		impulse := cc.normal.Scale(p.NormalImpulse).Add(tangent.Scale(p.TangentImpulse))
		applyImpulsePair(a, b, rA, rB, impulse)
	}
}

// solveContactVelocity resolves tangent (friction) impulses before
// normal impulses, since friction this frame is bounded by the normal
// impulse accumulated so far (effectively last iteration's), the usual
// Sequential-Impulses ordering.
func solveContactVelocity(cc *contactConstraint) {
	a, b := cc.bodyA, cc.bodyB
	tangent := cc.normal.RPerp()

	for i := range cc.points {
		p := &cc.points[i]

		relVel := relativeVelocity(a, b, p.rA, p.rB)
		vt := tangent.Dot(relVel)
		dImpulse := -p.tangentMass * vt
		maxFriction := cc.friction * p.normalImpulse
		newImpulse := geo.Clamp(p.tangentImpulse+dImpulse, -maxFriction, maxFriction)
		dImpulse = newImpulse - p.tangentImpulse
		p.tangentImpulse = newImpulse
		applyImpulsePair(a, b, p.rA, p.rB, tangent.Scale(dImpulse))
	}

	for i := range cc.points {
		p := &cc.points[i]

		relVel := relativeVelocity(a, b, p.rA, p.rB)
		vn := cc.normal.Dot(relVel)
		dImpulse := -p.normalMass * (vn - p.velocityBias)
		newImpulse := math.Max(p.normalImpulse+dImpulse, 0)
		dImpulse = newImpulse - p.normalImpulse
		p.normalImpulse = newImpulse
		applyImpulsePair(a, b, p.rA, p.rB, cc.normal.Scale(dImpulse))
	}
}

// solveContactPosition runs one Nonlinear-Gauss-Seidel position
// correction for a contact's points directly against the bodies'
// current poses (not the cached rA/rB, which may be stale after other
// constraints in the island already moved these bodies this iteration).
// Returns true once every point's clamped correction is within linearSlop.
func solveContactPosition(cc *contactConstraint) bool {
	a, b := cc.bodyA, cc.bodyB
	ok := true
	for _, mp := range cc.contact.Points {
		rA := mp.Point.Sub(a.WorldCenter())
		rB := mp.Point.Sub(b.WorldCenter())

		worldA := a.WorldCenter().Add(rA)
		worldB := b.WorldCenter().Add(rB)
		separation := worldB.Sub(worldA).Dot(cc.normal) + mp.Separation

		c := geo.Clamp(baumgarteFactor*(separation+linearSlop), -maxLinearCorrection, 0)
		if separation > linearSlop {
			continue
		}
		if -c > linearSlop {
			ok = false
		}

		rnA := rA.Cross(cc.normal)
		rnB := rB.Cross(cc.normal)
		k := a.InvMass() + b.InvMass() + a.InvInertia()*rnA*rnA + b.InvInertia()*rnB*rnB
		if k < geo.Epsilon {
			continue
		}
		impulse := -c / k
		p := cc.normal.Scale(impulse)
		applyPositionCorrection(a, rA, p.Neg())
		applyPositionCorrection(b, rB, p)
	}
	return ok
}

func writeBackImpulses(cc *contactConstraint) {
	for i := range cc.points {
		cc.contact.Points[i].NormalImpulse = cc.points[i].normalImpulse
		cc.contact.Points[i].TangentImpulse = cc.points[i].tangentImpulse
	}
}

// updateSleep advances each body's sleep timer and puts the whole island
// to sleep together once every body in it has been slow for longer than
// settings.TimeToSleep; a single fast body keeps the whole island awake,
// since a sleeping body touching a moving one would otherwise lag behind.
func updateSleep(island *Island, settings *Settings, dt float64) {
	minSleepTime := math.Inf(1)
	for _, b := range island.Bodies {
		if !b.AutoSleepEnabled() || !b.IsDynamic() {
			minSleepTime = 0
			continue
		}
		linSqr := b.LinearVelocity().LenSqr()
		angSqr := b.AngularVelocity() * b.AngularVelocity()
		if linSqr > settings.LinearSleepTolerance*settings.LinearSleepTolerance ||
			angSqr > settings.AngularSleepTolerance*settings.AngularSleepTolerance {
			b.sleepTime = 0
		} else {
			b.sleepTime += dt
		}
		if b.sleepTime < minSleepTime {
			minSleepTime = b.sleepTime
		}
	}

	if minSleepTime >= settings.TimeToSleep {
		for _, b := range island.Bodies {
			b.SetAwake(false)
		}
	}
}
