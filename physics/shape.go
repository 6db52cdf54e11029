// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// ShapeKind enumerates the convex primitives handled by the narrowphase
// and mass routines. New shapes extend this enum and the dispatch tables
// in this file rather than a class hierarchy: the set of convex shapes a
// 2D engine needs is closed and small, so a tagged variant is cheaper and
// clearer than deep inheritance.
type ShapeKind int

const (
	KindCircle ShapeKind = iota
	KindPolygon
	KindCapsule
	KindSegment
	KindSlice
	KindHalfEllipse
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindCapsule:
		return "capsule"
	case KindSegment:
		return "segment"
	case KindSlice:
		return "slice"
	case KindHalfEllipse:
		return "half-ellipse"
	default:
		return "unknown"
	}
}

// polygonRadius is a small skin thickness for polygons. Nothing in this
// package reads it: GJK, EPA and the manifold builders treat polygons as
// having no skin.
const polygonRadius = 0.005

// Shape is a convex 2D collision primitive, always defined in its own
// local space centered so that its local origin is a sensible pivot.
// Shapes carry no mutable state; a Fixture pairs one with a Transform.
type Shape struct {
	Kind ShapeKind

	Radius float64 // Circle, Capsule (minor axis), Slice.

	// Polygon / Capsule-as-polygon / Segment data, in local space.
	Vertices []geo.Vec2
	Normals  []geo.Vec2
	Centroid geo.Vec2

	// Slice: Radius and Theta define a pie-slice shape opening along +X,
	// symmetric about the X axis, apex at the local origin.
	Theta float64

	// HalfEllipse: axis-aligned half ellipse, flat side on -Y, symmetric
	// about the Y axis, apex at (0, Height).
	Width, Height float64
}

// NewCircle returns a circle shape of the given radius centered at the origin.
func NewCircle(radius float64) Shape {
	return Shape{Kind: KindCircle, Radius: radius}
}

// NewPolygon returns a convex polygon shape from vertices, which must
// already be in counter-clockwise order and describe a convex hull; use
// geo.Hull first if they are not already a hull. At least 3 vertices are required.
func NewPolygon(vertices []geo.Vec2) Shape {
	verts := append([]geo.Vec2(nil), vertices...)
	normals := make([]geo.Vec2, len(verts))
	for i := range verts {
		j := (i + 1) % len(verts)
		edge := verts[j].Sub(verts[i])
		normals[i] = edge.RPerp().Unit()
	}
	return Shape{
		Kind:     KindPolygon,
		Vertices: verts,
		Normals:  normals,
		Centroid: polygonCentroid(verts),
	}
}

// NewBox returns an axis-aligned rectangular polygon of the given full
// width and height, centered at the origin.
func NewBox(width, height float64) Shape {
	hw, hh := width*0.5, height*0.5
	return NewPolygon([]geo.Vec2{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	})
}

// NewCapsule returns a capsule: a rectangle of the given length (along X)
// capped with semicircles of the given radius.
func NewCapsule(length, radius float64) Shape {
	h := length * 0.5
	return Shape{
		Kind:     KindCapsule,
		Radius:   radius,
		Vertices: []geo.Vec2{{X: -h, Y: 0}, {X: h, Y: 0}},
	}
}

// NewSegment returns an infinitely thin line segment between a and b.
// Segments have no area or mass and are intended as static geometry (floors, walls).
func NewSegment(a, b geo.Vec2) Shape {
	return Shape{Kind: KindSegment, Vertices: []geo.Vec2{a, b}}
}

// NewSlice returns a pie-slice shape: a circular sector of the given
// radius spanning 2*theta radians, symmetric about the local +X axis,
// with its apex at the origin.
func NewSlice(radius, theta float64) Shape {
	return Shape{Kind: KindSlice, Radius: radius, Theta: theta}
}

// NewHalfEllipse returns the upper half of an axis-aligned ellipse with
// the given full width and height, flat side resting on the local X axis.
func NewHalfEllipse(width, height float64) Shape {
	return Shape{Kind: KindHalfEllipse, Width: width, Height: height}
}

func polygonCentroid(verts []geo.Vec2) geo.Vec2 {
	c := geo.Vec2{}
	area := 0.0
	origin := verts[0]
	for i := 1; i+1 < len(verts); i++ {
		e1 := verts[i].Sub(origin)
		e2 := verts[i+1].Sub(origin)
		cross := e1.Cross(e2)
		triArea := 0.5 * cross
		area += triArea
		c = c.Add(origin.Add(verts[i]).Add(verts[i+1]).Scale(triArea / 3))
	}
	if math.Abs(area) < geo.Epsilon {
		return origin
	}
	return c.Scale(1.0 / area)
}

// Support returns the point of the shape, in local space, that is
// farthest along direction d: max over p in shape of dot(p, d). Ties are
// broken deterministically by lowest vertex index, as required for
// reproducible GJK/EPA behavior.
func (s Shape) Support(d geo.Vec2) geo.Vec2 {
	switch s.Kind {
	case KindCircle:
		u := d.Unit()
		return u.Scale(s.Radius)
	case KindPolygon:
		return s.Vertices[s.supportIndex(d)]
	case KindCapsule:
		idx := 0
		if s.Vertices[1].Dot(d) > s.Vertices[0].Dot(d) {
			idx = 1
		}
		return s.Vertices[idx].Add(d.Unit().Scale(s.Radius))
	case KindSegment:
		if s.Vertices[1].Dot(d) > s.Vertices[0].Dot(d) {
			return s.Vertices[1]
		}
		return s.Vertices[0]
	case KindSlice:
		return s.sliceSupport(d)
	case KindHalfEllipse:
		return s.halfEllipseSupport(d)
	default:
		return geo.Vec2{}
	}
}

// supportIndex returns the vertex index realizing the polygon's support
// in direction d, with ties broken by lowest index.
func (s Shape) supportIndex(d geo.Vec2) int {
	best := 0
	bestDot := s.Vertices[0].Dot(d)
	for i := 1; i < len(s.Vertices); i++ {
		dp := s.Vertices[i].Dot(d)
		if dp > bestDot+geo.Epsilon {
			bestDot = dp
			best = i
		}
	}
	return best
}

func (s Shape) sliceSupport(d geo.Vec2) geo.Vec2 {
	// Candidates: the apex (origin), the two arc endpoints, and the arc
	// point in direction d if d falls within the slice's angular span.
	candidates := []geo.Vec2{
		{X: 0, Y: 0},
		{X: s.Radius * math.Cos(s.Theta), Y: s.Radius * math.Sin(s.Theta)},
		{X: s.Radius * math.Cos(s.Theta), Y: -s.Radius * math.Sin(s.Theta)},
	}
	angle := math.Atan2(d.Y, d.X)
	if math.Abs(angle) <= s.Theta {
		candidates = append(candidates, geo.Vec2{X: s.Radius * math.Cos(angle), Y: s.Radius * math.Sin(angle)})
	}
	best := candidates[0]
	bestDot := best.Dot(d)
	for _, c := range candidates[1:] {
		if dp := c.Dot(d); dp > bestDot {
			bestDot = dp
			best = c
		}
	}
	return best
}

func (s Shape) halfEllipseSupport(d geo.Vec2) geo.Vec2 {
	a, b := s.Width*0.5, s.Height
	// Parametrize the boundary of the ellipse x=a*cos(t), y=b*sin(t), t in [0,pi].
	t := math.Atan2(d.Y*b, d.X*a)
	if t < 0 {
		t += math.Pi
	}
	candidate := geo.Vec2{X: a * math.Cos(t), Y: b * math.Sin(t)}
	flatA, flatB := geo.Vec2{X: -a, Y: 0}, geo.Vec2{X: a, Y: 0}
	best := candidate
	bestDot := best.Dot(d)
	for _, c := range []geo.Vec2{flatA, flatB} {
		if dp := c.Dot(d); dp > bestDot {
			bestDot = dp
			best = c
		}
	}
	return best
}

// ComputeAABB returns the AABB of s placed at transform t.
func (s Shape) ComputeAABB(t geo.Transform) geo.AABB {
	switch s.Kind {
	case KindCircle:
		c := t.Pos
		r := geo.Vec2{X: s.Radius, Y: s.Radius}
		return geo.NewAABB(c.Sub(r), c.Add(r))
	case KindPolygon:
		min := t.ToWorld(s.Vertices[0])
		max := min
		for _, v := range s.Vertices[1:] {
			wp := t.ToWorld(v)
			min = min.Min(wp)
			max = max.Max(wp)
		}
		return geo.NewAABB(min, max)
	case KindCapsule:
		a := t.ToWorld(s.Vertices[0])
		b := t.ToWorld(s.Vertices[1])
		r := geo.Vec2{X: s.Radius, Y: s.Radius}
		return geo.NewAABB(a.Min(b).Sub(r), a.Max(b).Add(r))
	case KindSegment:
		a := t.ToWorld(s.Vertices[0])
		b := t.ToWorld(s.Vertices[1])
		return geo.NewAABB(a.Min(b), a.Max(b))
	case KindSlice, KindHalfEllipse:
		// Conservative bound: sample the support function along the four
		// axis directions, which bounds any convex shape symmetric enough
		// to not need exact vertex enumeration.
		dirs := []geo.Vec2{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
		min := t.ToWorld(s.Support(t.ToLocalVec(dirs[0])))
		max := min
		for _, d := range dirs[1:] {
			p := t.ToWorld(s.Support(t.ToLocalVec(d)))
			min = min.Min(p)
			max = max.Max(p)
		}
		return geo.NewAABB(min, max)
	default:
		return geo.AABB{}
	}
}

// Contains returns true if the world point p lies within s placed at t.
func (s Shape) Contains(p geo.Vec2, t geo.Transform) bool {
	local := t.ToLocal(p)
	switch s.Kind {
	case KindCircle:
		return local.LenSqr() <= s.Radius*s.Radius
	case KindPolygon:
		for i, n := range s.Normals {
			if n.Dot(local.Sub(s.Vertices[i])) > 0 {
				return false
			}
		}
		return true
	case KindCapsule:
		closest := closestPointOnSegment(local, s.Vertices[0], s.Vertices[1])
		return local.DistSqr(closest) <= s.Radius*s.Radius
	case KindSegment:
		return false // zero area
	case KindSlice:
		if local.LenSqr() > s.Radius*s.Radius {
			return false
		}
		angle := math.Atan2(local.Y, local.X)
		return math.Abs(angle) <= s.Theta
	case KindHalfEllipse:
		if local.Y < 0 {
			return false
		}
		a, b := s.Width*0.5, s.Height
		nx, ny := local.X/a, local.Y/b
		return nx*nx+ny*ny <= 1
	default:
		return false
	}
}

func closestPointOnSegment(p, a, b geo.Vec2) geo.Vec2 {
	ab := b.Sub(a)
	denom := ab.LenSqr()
	if denom < geo.Epsilon {
		return a
	}
	t := geo.Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Scale(t))
}

// Raycast intersects world-space ray r against s placed at transform t,
// returning whether it hit within maxLength and, if so, the hit fraction
// (in units of r.Dir's length), world point and outward world normal.
func (s Shape) Raycast(r geo.Ray, maxLength float64, t geo.Transform) (ok bool, fraction float64, point, normal geo.Vec2) {
	localOrigin := t.ToLocal(r.Origin)
	localDir := t.ToLocalVec(r.Dir)
	switch s.Kind {
	case KindCircle:
		hit, frac, n := raycastCircle(localOrigin, localDir, maxLength, s.Radius)
		if !hit {
			return false, 0, geo.Vec2{}, geo.Vec2{}
		}
		p := localOrigin.Add(localDir.Scale(frac))
		return true, frac, t.ToWorld(p), t.ToWorldVec(n)
	case KindPolygon:
		return s.raycastPolygon(localOrigin, localDir, maxLength, t)
	case KindSegment:
		hit, frac, n := raycastSegment(localOrigin, localDir, maxLength, s.Vertices[0], s.Vertices[1])
		if !hit {
			return false, 0, geo.Vec2{}, geo.Vec2{}
		}
		p := localOrigin.Add(localDir.Scale(frac))
		return true, frac, t.ToWorld(p), t.ToWorldVec(n)
	default:
		// Capsule, slice and half-ellipse have no raycast: the call
		// always reports no hit for them.
		return false, 0, geo.Vec2{}, geo.Vec2{}
	}
}

func raycastCircle(origin, dir geo.Vec2, maxLength, radius float64) (bool, float64, geo.Vec2) {
	a := dir.Dot(dir)
	b := 2 * origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 || a < geo.Epsilon {
		return false, 0, geo.Vec2{}
	}
	sqrtDisc := math.Sqrt(disc)
	t := (-b - sqrtDisc) / (2 * a)
	if t < 0 || t > maxLength {
		return false, 0, geo.Vec2{}
	}
	hit := origin.Add(dir.Scale(t))
	return true, t, hit.Unit()
}

func raycastSegment(origin, dir geo.Vec2, maxLength float64, a, b geo.Vec2) (bool, float64, geo.Vec2) {
	edge := b.Sub(a)
	normal := edge.RPerp().Unit()
	denom := normal.Dot(dir)
	if math.Abs(denom) < geo.Epsilon {
		return false, 0, geo.Vec2{}
	}
	t := normal.Dot(a.Sub(origin)) / denom
	if t < 0 || t > maxLength {
		return false, 0, geo.Vec2{}
	}
	hit := origin.Add(dir.Scale(t))
	u := hit.Sub(a).Dot(edge) / edge.LenSqr()
	if u < 0 || u > 1 {
		return false, 0, geo.Vec2{}
	}
	if denom > 0 {
		normal = normal.Neg()
	}
	return true, t, normal
}

func (s Shape) raycastPolygon(origin, dir geo.Vec2, maxLength float64, t geo.Transform) (bool, float64, geo.Vec2, geo.Vec2) {
	lower, upper := 0.0, maxLength
	index := -1
	for i, n := range s.Normals {
		num := n.Dot(s.Vertices[i].Sub(origin))
		den := n.Dot(dir)
		if den == 0 {
			if num < 0 {
				return false, 0, geo.Vec2{}, geo.Vec2{}
			}
			continue
		}
		frac := num / den
		if den < 0 && frac > lower {
			lower = frac
			index = i
		} else if den > 0 && frac < upper {
			upper = frac
		}
		if upper < lower {
			return false, 0, geo.Vec2{}, geo.Vec2{}
		}
	}
	if index < 0 {
		return false, 0, geo.Vec2{}, geo.Vec2{}
	}
	p := origin.Add(dir.Scale(lower))
	return true, lower, t.ToWorld(p), t.ToWorldVec(s.Normals[index])
}
