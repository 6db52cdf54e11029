// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// toiTarget is the separation conservative advancement aims to land on:
// slightly positive, so the TOI solver's subsequent position-only solve
// has a sliver of separation to work with rather than exact contact.
const toiTarget = linearSlop

// sweepTransformAt linearly interpolates a body's pose between its
// previous and current step between parameter t in [0,1]; t=0 is the
// pose at the start of the step (before integratePosition ran), t=1 is
// the current pose.
func sweepTransformAt(b *Body, t float64) geo.Transform {
	angle := geo.Lerp(b.sweepAngle0, b.Angle(), t)
	center := b.sweepCenter0.Lerp(b.WorldCenter(), t)
	rot := geo.NewRotation(angle)
	return geo.Transform{Pos: center.Sub(rot.Rotate(b.localCom)), Rot: rot}
}

// timeOfImpact runs conservative advancement between fixtures a and b's
// swept motion over the step, returning the first fraction t in [0,1] at
// which they come within toiTarget of touching. ok is false if they
// never get that close during the step (fraction is meaningless then).
func timeOfImpact(fa, fb *Fixture, bodyA, bodyB *Body, settings *Settings) (float64, bool) {
	t := 0.0
	speedBound := sweepSpeedBound(bodyA) + sweepSpeedBound(bodyB)
	if speedBound < geo.Epsilon {
		return 1, false
	}

	for iter := 0; iter < settings.ToiMaxIterations; iter++ {
		tA := sweepTransformAt(bodyA, t)
		tB := sweepTransformAt(bodyB, t)
		result := gjkDistance(fa.shape, tA, fb.shape, tB)

		var separation float64
		if result.Overlapping {
			separation = 0
		} else {
			separation = result.Distance
		}

		if separation < toiTarget+settings.ToiEpsilon {
			return t, separation < toiTarget*4
		}

		dt := (separation - toiTarget) / speedBound
		t += dt
		if t >= 1 {
			return 1, false
		}
	}
	return t, false
}

// sweepSpeedBound is a conservative upper bound on how far any point of
// the body's shapes moves over the whole sweep (t from 0 to 1), combining
// the center's displacement with the swept angle times the body's
// furthest fixture extent from its center of mass (a standard
// conservative-advancement bound, in distance per unit of t).
func sweepSpeedBound(b *Body) float64 {
	return b.WorldCenter().Sub(b.sweepCenter0).Len() + math.Abs(b.Angle()-b.sweepAngle0)*b.maxFixtureExtent()
}

// resolveContinuous sweeps every bullet body's motion this step against
// the broadphase's swept-AABB candidates and, for any that would tunnel
// through another fixture, rewinds that body to its earliest time of
// impact and applies a position-only contact solve there so the next
// step's narrowphase sees a real (if shallow) overlap instead of having
// missed the fixture entirely.
func resolveContinuous(w *World) {
	if !w.settings.ContinuousEnabled {
		return
	}
	for _, bodyA := range w.Bodies() {
		if bodyA == nil || !bodyA.bullet || !bodyA.IsDynamic() {
			continue
		}

		minT := 1.0
		var hitFixA, hitFixB *Fixture
		var hitBodyB *Body

		for _, fidA := range bodyA.fixtures {
			fa := w.fixture(fidA)
			if fa == nil || fa.Sensor {
				continue
			}
			sweptAABB := fa.computeAABB(sweepTransformAt(bodyA, 0)).Union(fa.computeAABB(bodyA.Transform()))
			for _, fidB := range w.broadphase.Query(sweptAABB) {
				fb := w.fixture(fidB)
				if fb == nil || fb.Sensor || fidB == fidA {
					continue
				}
				bodyB := w.body(fb.body)
				if bodyB == nil || bodyB == bodyA || !fa.filter.ShouldCollide(fb.filter) {
					continue
				}
				if bodyB.IsDynamic() && !bodyB.bullet {
					continue // dynamic-vs-dynamic tunneling through a non-bullet body is accepted, matching common engine practice.
				}

				t, ok := timeOfImpact(fa, fb, bodyA, bodyB, w.settings)
				if ok && t < minT {
					minT = t
					hitFixA, hitFixB, hitBodyB = fa, fb, bodyB
				}
			}
		}

		if hitFixA != nil && minT < 1.0 {
			bodyA.transform = sweepTransformAt(bodyA, minT)
			manifold, ok := collide(hitFixA.shape, bodyA.Transform(), hitFixB.shape, hitBodyB.Transform())
			if ok {
				positionOnlySolve(bodyA, hitBodyB, manifold)
			}
		}
	}
}

// positionOnlySolve removes the residual penetration the TOI rewind
// leaves behind without touching velocity, so the body doesn't gain or
// lose energy purely from being caught by continuous collision.
func positionOnlySolve(a, b *Body, manifold Manifold) {
	for _, mp := range manifold.Points {
		rA := mp.Point.Sub(a.WorldCenter())
		rB := mp.Point.Sub(b.WorldCenter())
		rnA := rA.Cross(manifold.Normal)
		rnB := rB.Cross(manifold.Normal)
		k := a.InvMass() + b.InvMass() + a.InvInertia()*rnA*rnA + b.InvInertia()*rnB*rnB
		if k < geo.Epsilon {
			continue
		}
		c := geo.Clamp(mp.Separation+linearSlop, -maxLinearCorrection, 0)
		impulse := -c / k
		p := manifold.Normal.Scale(impulse)
		applyPositionCorrection(a, rA, p.Neg())
		applyPositionCorrection(b, rB, p)
	}
}
