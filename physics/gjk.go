// Copyright © 2024 drax contributors.

package physics

import "github.com/drax2d/drax/geo"

// gjkMaxIterations bounds the simplex-reduction loop; real configurations
// converge in a handful of iterations, this only guards against degenerate
// input (coincident shapes, NaN geometry) spinning forever.
const gjkMaxIterations = 32

// gjkDistanceEpsilon below this separation two shapes are treated as
// touching rather than strictly separated, matching the linear-slop scale
// used elsewhere in the solver.
const gjkDistanceEpsilon = 1e-6

// gjkPoint is a single support point of the Minkowski difference A-B: P is
// the difference itself, OnA/OnB are the witness points on each shape's
// surface whose difference produced it. Carrying the witnesses lets the
// distance algorithm reconstruct closest points, and lets the manifold code
// recover real contact points from the terminal simplex.
type gjkPoint struct {
	P   geo.Vec2
	OnA geo.Vec2
	OnB geo.Vec2
}

// gjkSimplex holds up to three points of the Minkowski difference, in the
// order they were added (newest last).
type gjkSimplex struct {
	pts [3]gjkPoint
	n   int
}

func (s *gjkSimplex) push(p gjkPoint) {
	s.pts[s.n] = p
	s.n++
}

// tripleProduct returns (a×b)×c via the BAC-CAB vector identity
// b(a·c) - a(b·c), which holds for in-plane vectors and avoids needing a
// true 3D cross product for what is otherwise a 2D algorithm.
func tripleProduct(a, b, c geo.Vec2) geo.Vec2 {
	return b.Scale(a.Dot(c)).Sub(a.Scale(b.Dot(c)))
}

// support returns the Minkowski-difference support point of shapeA-shapeB
// along world direction d.
func gjkSupport(shapeA Shape, tA geo.Transform, shapeB Shape, tB geo.Transform, d geo.Vec2) gjkPoint {
	onA := tA.ToWorld(shapeA.Support(tA.ToLocalVec(d)))
	onB := tB.ToWorld(shapeB.Support(tB.ToLocalVec(d.Neg())))
	return gjkPoint{P: onA.Sub(onB), OnA: onA, OnB: onB}
}

// gjkResult is the outcome of running GJK to termination.
type gjkResult struct {
	Overlapping bool // true: simplex encloses the origin, hand off to EPA.
	Simplex     gjkSimplex
	Distance    float64  // valid only when !Overlapping.
	ClosestA    geo.Vec2 // valid only when !Overlapping.
	ClosestB    geo.Vec2 // valid only when !Overlapping.
}

// gjkDistance runs the GJK algorithm between two shapes, terminating either
// with an enclosing simplex (shapes overlap, caller should run EPA) or with
// the closest points between the two shapes' surfaces.
func gjkDistance(shapeA Shape, tA geo.Transform, shapeB Shape, tB geo.Transform) gjkResult {
	d := tB.Pos.Sub(tA.Pos)
	if d.LenSqr() < geo.Epsilon {
		d = geo.V2(1, 0)
	}

	var simplex gjkSimplex
	simplex.push(gjkSupport(shapeA, tA, shapeB, tB, d))
	d = simplex.pts[0].P.Neg()

	for iter := 0; iter < gjkMaxIterations; iter++ {
		if d.LenSqr() < gjkDistanceEpsilon {
			return gjkResult{Overlapping: true, Simplex: simplex}
		}

		a := gjkSupport(shapeA, tA, shapeB, tB, d)
		dn := d.Unit()
		if a.P.Dot(d) < 0 && a.P.Dot(dn)-simplex.pts[0].P.Dot(dn) < gjkDistanceEpsilon {
			// The support point does not reach the origin (shapes are
			// separated) and gets no closer along d than the current
			// simplex: the simplex holds the closest features. Report the
			// closest points on it.
			closestA, closestB, _ := closestOnSimplex(simplex)
			return gjkResult{
				Overlapping: false,
				Simplex:     simplex,
				Distance:    closestA.Dist(closestB),
				ClosestA:    closestA,
				ClosestB:    closestB,
			}
		}

		simplex.push(a)
		var encloses bool
		simplex, d, encloses = reduceSimplex(simplex)
		if encloses {
			return gjkResult{Overlapping: true, Simplex: simplex}
		}
	}

	closestA, closestB, _ := closestOnSimplex(simplex)
	return gjkResult{
		Overlapping: false,
		Simplex:     simplex,
		Distance:    closestA.Dist(closestB),
		ClosestA:    closestA,
		ClosestB:    closestB,
	}
}

// reduceSimplex drops the simplex to the minimal subset that still faces
// the origin, and returns the new search direction. encloses is true once
// a 3-point simplex is found to contain the origin.
func reduceSimplex(s gjkSimplex) (gjkSimplex, geo.Vec2, bool) {
	switch s.n {
	case 2:
		return simplexLine(s)
	case 3:
		return simplexTriangle(s)
	default:
		return s, s.pts[0].P.Neg(), false
	}
}

func simplexLine(s gjkSimplex) (gjkSimplex, geo.Vec2, bool) {
	a, b := s.pts[1], s.pts[0]
	ab := b.P.Sub(a.P)
	ao := a.P.Neg()

	if ab.Dot(ao) > 0 {
		d := tripleProduct(ab, ao, ab)
		if d.LenSqr() < geo.Epsilon {
			// ao parallel to ab: origin lies on the segment, any
			// perpendicular works.
			d = ab.Perp()
		}
		return gjkSimplex{pts: [3]gjkPoint{a, b}, n: 2}, d, false
	}
	return gjkSimplex{pts: [3]gjkPoint{a}, n: 1}, ao, false
}

func simplexTriangle(s gjkSimplex) (gjkSimplex, geo.Vec2, bool) {
	a, b, c := s.pts[2], s.pts[1], s.pts[0]
	ab := b.P.Sub(a.P)
	ac := c.P.Sub(a.P)
	ao := a.P.Neg()

	abPerp := tripleProduct(ac, ab, ab) // perpendicular to ab, away from c.
	if abPerp.Dot(ao) > 0 {
		return gjkSimplex{pts: [3]gjkPoint{a, b}, n: 2}, abPerp, false
	}

	acPerp := tripleProduct(ab, ac, ac) // perpendicular to ac, away from b.
	if acPerp.Dot(ao) > 0 {
		return gjkSimplex{pts: [3]gjkPoint{a, c}, n: 2}, acPerp, false
	}

	return s, geo.Vec2{}, true
}

// closestOnSimplex projects the origin onto the final (non-enclosing)
// simplex and reconstructs the corresponding witness points on each shape
// by applying the same barycentric weights to OnA/OnB.
func closestOnSimplex(s gjkSimplex) (geo.Vec2, geo.Vec2, float64) {
	switch s.n {
	case 1:
		return s.pts[0].OnA, s.pts[0].OnB, s.pts[0].P.Len()
	case 2:
		a, b := s.pts[0], s.pts[1]
		ab := b.P.Sub(a.P)
		t := 0.0
		denom := ab.Dot(ab)
		if denom > geo.Epsilon {
			t = a.P.Neg().Dot(ab) / denom
			t = geo.Clamp(t, 0, 1)
		}
		closestA := a.OnA.Lerp(b.OnA, t)
		closestB := a.OnB.Lerp(b.OnB, t)
		return closestA, closestB, closestA.Dist(closestB)
	default:
		// A 3-point non-enclosing simplex should not occur (triangle case
		// always resolves to enclosing or a 2-simplex), but fall back to
		// the single closest vertex if it ever does.
		best := 0
		bestLen := s.pts[0].P.LenSqr()
		for i := 1; i < s.n; i++ {
			if l := s.pts[i].P.LenSqr(); l < bestLen {
				bestLen = l
				best = i
			}
		}
		return s.pts[best].OnA, s.pts[best].OnB, s.pts[best].P.Len()
	}
}
