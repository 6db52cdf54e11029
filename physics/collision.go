// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// collide runs narrowphase collision detection between two fixtures'
// shapes and returns their contact manifold. ok is false when the shapes
// do not overlap (the broadphase pair was a false positive this frame).
func collide(a Shape, tA geo.Transform, b Shape, tB geo.Transform) (Manifold, bool) {
	if a.Kind == KindCircle && b.Kind == KindCircle {
		return collideCircles(a, tA, b, tB)
	}
	if a.Kind == KindCircle {
		return collideCirclePolygon(b, tB, a, tA, true)
	}
	if b.Kind == KindCircle {
		return collideCirclePolygon(a, tA, b, tB, false)
	}
	return collideConvex(a, tA, b, tB)
}

// collideCircles is the analytic fast path: two circles overlap exactly
// when the distance between centers is less than the sum of radii.
func collideCircles(a Shape, tA geo.Transform, b Shape, tB geo.Transform) (Manifold, bool) {
	ca := tA.ToWorld(geo.Vec2{})
	cb := tB.ToWorld(geo.Vec2{})
	d := cb.Sub(ca)
	r := a.Radius + b.Radius
	distSqr := d.LenSqr()
	if distSqr >= r*r {
		return Manifold{}, false
	}

	dist := d.Len()
	var normal geo.Vec2
	if dist > geo.Epsilon {
		normal = d.Scale(1.0 / dist)
	} else {
		normal = geo.V2(1, 0)
	}
	point := ca.Add(normal.Scale(a.Radius))
	return Manifold{
		Normal: normal,
		Points: []ManifoldPoint{{
			Point:      point,
			Separation: dist - r,
			Id:         ManifoldPointId{IsVertex: true},
		}},
	}, true
}

// collideCirclePolygon handles a circle against any other shape by
// projecting the circle's center onto the polygon's nearest feature
// (vertex or edge), the standard circle/convex-hull narrowphase test.
// circleIsA records which input order the caller used, so the returned
// manifold's normal always points from the caller's "a" fixture to "b".
func collideCirclePolygon(poly Shape, tPoly geo.Transform, circle Shape, tCircle geo.Transform, circleIsA bool) (Manifold, bool) {
	center := tPoly.ToLocal(tCircle.ToWorld(geo.Vec2{}))

	closest, onEdge := closestPointOnShape(poly, center)
	d := center.Sub(closest)
	distSqr := d.LenSqr()
	r := circle.Radius
	if distSqr >= r*r && onEdge {
		return Manifold{}, false
	}

	dist := d.Len()
	var localNormal geo.Vec2
	if dist > geo.Epsilon {
		localNormal = d.Scale(1.0 / dist)
	} else {
		localNormal = geo.V2(1, 0)
	}
	if dist >= r {
		return Manifold{}, false
	}

	worldNormal := tPoly.Rot.Rotate(localNormal)
	worldPoint := tPoly.ToWorld(closest)
	sep := dist - r

	normal := worldNormal
	if circleIsA {
		normal = worldNormal.Neg()
	}
	return Manifold{
		Normal: normal,
		Points: []ManifoldPoint{{Point: worldPoint, Separation: sep, Id: ManifoldPointId{IsVertex: true}}},
	}, true
}

// closestPointOnShape returns the closest point to p (in s's local frame)
// on s's boundary, and whether p lies strictly outside s (onEdge=false
// means p is inside, so the "closest point" is really a penetration
// witness rather than a true nearest-boundary point).
func closestPointOnShape(s Shape, p geo.Vec2) (geo.Vec2, bool) {
	switch s.Kind {
	case KindPolygon:
		return closestPointOnPolygon(s.Vertices, p)
	case KindSegment:
		return closestPointOnSegment(p, s.Vertices[0], s.Vertices[1]), true
	default:
		// Capsules, slices, half-ellipses: fall back to the support point
		// toward p, adequate for shallow circle contacts against curved
		// boundaries.
		return s.Support(p), true
	}
}

func closestPointOnPolygon(verts []geo.Vec2, p geo.Vec2) (geo.Vec2, bool) {
	inside := true
	best := verts[0]
	bestDist := math.Inf(1)
	for i := range verts {
		j := (i + 1) % len(verts)
		a, b := verts[i], verts[j]
		edge := b.Sub(a)
		n := geo.V2(edge.Y, -edge.X)
		if n.Dot(p.Sub(a)) > 0 {
			inside = false
		}
		c := closestPointOnSegment(p, a, b)
		dist := c.DistSqr(p)
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	if inside {
		return p, false
	}
	return best, true
}

// collideConvex handles polygon/capsule/slice/half-ellipse pairs via
// GJK: if GJK reports overlap, EPA recovers the penetration depth and
// normal, and the result is turned into a clipped face manifold; if GJK
// reports separation, the shapes are not touching.
func collideConvex(a Shape, tA geo.Transform, b Shape, tB geo.Transform) (Manifold, bool) {
	result := gjkDistance(a, tA, b, tB)
	if !result.Overlapping {
		return Manifold{}, false
	}

	e := epa(a, tA, b, tB, result.Simplex)
	if !e.Success {
		return Manifold{}, false
	}
	return buildPolygonManifold(a, tA, b, tB, e.Normal, e.Depth), true
}
