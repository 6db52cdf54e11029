// Copyright © 2024 drax contributors.

package physics

import "github.com/drax2d/drax/geo"

// manifoldPointCap is the maximum number of points a 2D contact manifold
// ever carries; two points fully constrain a convex-convex face contact.
const manifoldPointCap = 2

// ManifoldPointId identifies a manifold point across broadphase frames so
// the contact manager can match it to a prior frame's accumulated impulse
// for warm-starting. Circle-circle and circle-polygon manifolds only ever
// have one point and use IsVertex=true with both indices zero.
type ManifoldPointId struct {
	IndexA   int
	IndexB   int
	IsVertex bool // true for vertex-vertex/circle contacts, false for edge clips.
}

// ManifoldPoint is one point of contact between two fixtures: a world
// position, the separation along the manifold normal (negative when
// penetrating), and an identity used to carry an accumulated impulse
// across frames.
type ManifoldPoint struct {
	Point      geo.Vec2
	Separation float64
	Id         ManifoldPointId
}

// Manifold describes the contact surface between two fixtures: a shared
// normal (pointing from fixture A towards fixture B) and up to two points
// along it.
type Manifold struct {
	Normal geo.Vec2
	Points []ManifoldPoint
}

// buildPolygonManifold constructs a face manifold from an EPA result by
// picking the reference/incident edges on each shape (the edges whose
// outward normals are most closely aligned with +normal on A and -normal
// on B) and clipping the incident edge against the
// reference edge's side planes, keeping only points that remain under the
// reference face.
func buildPolygonManifold(shapeA Shape, tA geo.Transform, shapeB Shape, tB geo.Transform, normal geo.Vec2, depth float64) Manifold {
	refEdgeA, refIdxA := bestEdge(shapeA, tA, normal)
	refEdgeB, refIdxB := bestEdge(shapeB, tB, normal.Neg())

	// The reference face is whichever edge's outward normal is more closely
	// aligned with its own search direction (i.e. more face-on to the other
	// shape); ties favor A so results are deterministic.
	flip := false
	var ref, inc edgePair
	var refIdx, incIdx int
	if refEdgeA.alignment <= refEdgeB.alignment {
		ref, inc = refEdgeA, refEdgeB
		refIdx, incIdx = refIdxA, refIdxB
	} else {
		ref, inc = refEdgeB, refEdgeA
		refIdx, incIdx = refIdxB, refIdxA
		flip = true
	}

	refDir := ref.v2.Sub(ref.v1).Unit()
	clipped := clipSegment(inc.v1, inc.v2, refDir, ref.v1.Dot(refDir))
	if len(clipped) == 2 {
		clipped = clipSegment(clipped[0], clipped[1], refDir.Neg(), ref.v2.Dot(refDir.Neg()))
	}

	refNormal := geo.V2(refDir.Y, -refDir.X)
	if refNormal.Dot(normal) < 0 != flip {
		refNormal = refNormal.Neg()
	}

	points := make([]ManifoldPoint, 0, manifoldPointCap)
	for _, p := range clipped {
		sep := p.Sub(ref.v1).Dot(refNormal)
		if sep <= 0 {
			points = append(points, ManifoldPoint{
				Point:      p,
				Separation: sep,
				Id:         ManifoldPointId{IndexA: refIdx, IndexB: incIdx},
			})
		}
	}
	if len(points) == 0 {
		// Degenerate clip (grazing contact): fall back to the EPA witness
		// pair so the manifold is never empty while overlapping.
		points = append(points, ManifoldPoint{Point: normal.Scale(-depth * 0.5), Separation: -depth})
	}

	n := normal
	if flip {
		n = normal.Neg()
	}
	return Manifold{Normal: n, Points: points}
}

type edgePair struct {
	v1, v2    geo.Vec2
	alignment float64
}

// bestEdge finds the shape's edge whose outward normal is most closely
// aligned with d (the largest dot product, i.e. the face most square-on
// along d), returning its endpoints in CCW order and the vertex index
// of its first endpoint.
func bestEdge(s Shape, t geo.Transform, d geo.Vec2) (edgePair, int) {
	local := t.ToLocalVec(d)
	switch s.Kind {
	case KindCircle:
		p := t.ToWorld(s.Support(local))
		return edgePair{v1: p, v2: p, alignment: -1}, 0
	case KindPolygon:
		verts := s.Vertices
		best := -1
		bestDot := negInf
		for i := range verts {
			j := (i + 1) % len(verts)
			edge := verts[j].Sub(verts[i])
			n := geo.V2(edge.Y, -edge.X).Unit()
			dot := n.Dot(local)
			if dot > bestDot {
				bestDot = dot
				best = i
			}
		}
		j := (best + 1) % len(verts)
		return edgePair{
			v1:        t.ToWorld(verts[best]),
			v2:        t.ToWorld(verts[j]),
			alignment: -bestDot,
		}, best
	default:
		// Capsules, segments, slices and half-ellipses are curved or
		// single-edged; a single support point stands in for their
		// "edge", clipped against the polygon/circle on the other side.
		p := t.ToWorld(s.Support(local))
		return edgePair{v1: p, v2: p, alignment: -1}, 0
	}
}

const negInf = -1e300

// clipSegment keeps the portion of segment [v1,v2] on the positive side of
// the half-plane {x : n·x >= offset}, interpolating a new endpoint where
// the segment crosses the plane. Returns fewer than two points only when
// the entire segment lies outside the plane.
func clipSegment(v1, v2 geo.Vec2, n geo.Vec2, offset float64) []geo.Vec2 {
	d1 := n.Dot(v1) - offset
	d2 := n.Dot(v2) - offset

	var out []geo.Vec2
	if d1 >= 0 {
		out = append(out, v1)
	}
	if d2 >= 0 {
		out = append(out, v2)
	}
	if (d1 < 0) != (d2 < 0) {
		t := d1 / (d1 - d2)
		out = append(out, v1.Lerp(v2, t))
	}
	return out
}
