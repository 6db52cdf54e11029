// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// epaMaxIterations bounds polytope expansion; termination in practice is
// dominated by epaEpsilon converging well before this is reached.
const epaMaxIterations = 32

// epaEpsilon is the convergence tolerance on how much further expanding a
// polytope edge can still push the closest-edge distance outward.
const epaEpsilon = 1e-5

// epaResult is the penetration depth and contact normal/witnesses
// recovered from an overlapping GJK simplex.
type epaResult struct {
	Normal  geo.Vec2 // unit, points from A towards B.
	Depth   float64
	OnA     geo.Vec2
	OnB     geo.Vec2
	Success bool
}

// epaEdge is one edge of the expanding polytope, running from pts[index]
// to pts[index+1 mod len].
type epaEdge struct {
	index    int
	normal   geo.Vec2
	distance float64
}

// epa expands the enclosing GJK simplex into the full penetration depth
// and contact normal via the standard Expanding Polytope Algorithm: grow a
// convex polygon outward from the origin, always splitting the edge
// nearest the origin, until no support point moves the boundary out
// further than epaEpsilon.
func epa(shapeA Shape, tA geo.Transform, shapeB Shape, tB geo.Transform, simplex gjkSimplex) epaResult {
	if simplex.n < 3 {
		return epaResult{}
	}

	polytope := make([]gjkPoint, simplex.n)
	copy(polytope, simplex.pts[:simplex.n])
	if signedArea(polytope) < 0 {
		polytope[1], polytope[2] = polytope[2], polytope[1]
	}

	for iter := 0; iter < epaMaxIterations; iter++ {
		edge := closestEdge(polytope)

		support := gjkSupport(shapeA, tA, shapeB, tB, edge.normal)
		d := support.P.Dot(edge.normal)

		if d-edge.distance < epaEpsilon {
			onA, onB := epaWitness(polytope, edge)
			return epaResult{
				Normal:  edge.normal,
				Depth:   edge.distance,
				OnA:     onA,
				OnB:     onB,
				Success: true,
			}
		}

		insertAt := edge.index + 1
		polytope = append(polytope, gjkPoint{})
		copy(polytope[insertAt+1:], polytope[insertAt:len(polytope)-1])
		polytope[insertAt] = support
	}

	edge := closestEdge(polytope)
	onA, onB := epaWitness(polytope, edge)
	return epaResult{Normal: edge.normal, Depth: edge.distance, OnA: onA, OnB: onB, Success: true}
}

func signedArea(pts []gjkPoint) float64 {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].P.Cross(pts[j].P)
	}
	return area
}

// closestEdge scans a CCW polytope for the edge nearest the origin and
// returns its outward-facing unit normal and distance.
func closestEdge(polytope []gjkPoint) epaEdge {
	best := epaEdge{distance: math.Inf(1)}
	for i := range polytope {
		j := (i + 1) % len(polytope)
		a := polytope[i].P
		b := polytope[j].P
		e := b.Sub(a)

		// Outward normal of a CCW edge: rotate the edge vector -90°.
		n := geo.V2(e.Y, -e.X)
		if n.LenSqr() > geo.Epsilon {
			n = n.Unit()
		}
		dist := n.Dot(a)
		if dist < 0 {
			n = n.Neg()
			dist = -dist
		}
		if dist < best.distance {
			best = epaEdge{index: i, normal: n, distance: dist}
		}
	}
	return best
}

// epaWitness recovers approximate witness points on each shape by
// barycentric-interpolating the edge endpoints' own witnesses at the
// projection of the origin onto the closest edge.
func epaWitness(polytope []gjkPoint, edge epaEdge) (geo.Vec2, geo.Vec2) {
	a := polytope[edge.index]
	b := polytope[(edge.index+1)%len(polytope)]

	ab := b.P.Sub(a.P)
	t := 0.0
	denom := ab.Dot(ab)
	if denom > geo.Epsilon {
		t = a.P.Neg().Dot(ab) / denom
		t = geo.Clamp(t, 0, 1)
	}
	return a.OnA.Lerp(b.OnA, t), a.OnB.Lerp(b.OnB, t)
}
