// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// MassData carries a shape's mass, center of mass (local space) and
// rotational inertia about that center of mass, for a given density.
type MassData struct {
	Mass    float64
	Center  geo.Vec2
	Inertia float64 // about Center, not the shape's local origin.
}

// CreateMass computes the MassData for s at the given density.
func (s Shape) CreateMass(density float64) MassData {
	switch s.Kind {
	case KindCircle:
		mass := density * math.Pi * s.Radius * s.Radius
		return MassData{
			Mass:    mass,
			Center:  geo.Vec2{},
			Inertia: mass * 0.5 * s.Radius * s.Radius,
		}
	case KindPolygon:
		return polygonMass(s, density)
	case KindCapsule:
		return capsuleMass(s, density)
	case KindSegment:
		return MassData{} // zero area: used for static geometry only.
	case KindSlice:
		return sliceMass(s, density)
	case KindHalfEllipse:
		return halfEllipseMass(s, density)
	default:
		return MassData{}
	}
}

// polygonMass integrates mass, centroid and inertia over the polygon's
// triangle fan from its first vertex, following the standard
// area/centroid/second-moment decomposition.
func polygonMass(s Shape, density float64) MassData {
	verts := s.Vertices
	origin := verts[0]
	area := 0.0
	center := geo.Vec2{}
	inertia := 0.0
	const inv3 = 1.0 / 3.0

	for i := 1; i+1 < len(verts); i++ {
		e1 := verts[i].Sub(origin)
		e2 := verts[i+1].Sub(origin)
		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea
		center = center.Add(e1.Add(e2).Scale(triArea * inv3))

		intx2 := e1.X*e1.X + e1.X*e2.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e1.Y*e2.Y + e2.Y*e2.Y
		inertia += (0.25 * inv3 * d) * (intx2 + inty2)
	}

	mass := density * area
	if area > geo.Epsilon {
		center = center.Scale(1.0 / area)
	}
	centerWorld := center.Add(origin)

	// Inertia was computed about origin; shift to the centroid (parallel
	// axis theorem, run in reverse).
	i := density*inertia - mass*center.Dot(center)
	return MassData{Mass: mass, Center: centerWorld, Inertia: i}
}

func capsuleMass(s Shape, density float64) MassData {
	a, b := s.Vertices[0], s.Vertices[1]
	length := a.Dist(b)
	r := s.Radius

	rectArea := length * 2 * r
	circleArea := math.Pi * r * r
	mass := density * (rectArea + circleArea)

	center := a.Add(b).Scale(0.5)

	// Rectangle (length x 2r) about its own centroid, plus the two half
	// circles treated as one full circle offset by half the length via
	// the parallel axis theorem (a standard capsule inertia decomposition).
	rectMass := density * rectArea
	rectInertia := rectMass * (length*length + (2*r)*(2*r)) / 12.0

	circleMass := density * circleArea
	circleInertiaLocal := circleMass * 0.5 * r * r
	h := length * 0.5
	circleInertia := circleInertiaLocal + circleMass*h*h

	return MassData{Mass: mass, Center: center, Inertia: rectInertia + circleInertia}
}

func sliceMass(s Shape, density float64) MassData {
	area := s.Radius * s.Radius * s.Theta
	mass := density * area
	// Centroid of a circular sector of half-angle theta, apex at origin,
	// measured from the apex along the axis of symmetry.
	var centroidDist float64
	if s.Theta > geo.Epsilon {
		centroidDist = (2.0 / 3.0) * s.Radius * math.Sin(s.Theta) / s.Theta
	}
	center := geo.Vec2{X: centroidDist}
	inertia := 0.5 * mass * s.Radius * s.Radius * (1 - (2.0/3.0)*math.Sin(s.Theta)*math.Sin(s.Theta)/s.Theta)
	// Shift from the apex (local origin) to the centroid.
	inertia -= mass * center.Dot(center)
	return MassData{Mass: mass, Center: center, Inertia: inertia}
}

func halfEllipseMass(s Shape, density float64) MassData {
	a, b := s.Width*0.5, s.Height
	area := 0.5 * math.Pi * a * b
	mass := density * area
	centroidY := 4 * b / (3 * math.Pi)
	center := geo.Vec2{Y: centroidY}
	// Full ellipse moment of inertia about its center is m*(a^2+b^2)/4 for
	// the equivalent full-area mass; halve the area and shift to the half's
	// own centroid via parallel axis.
	fullInertiaAboutCenter := mass * (a*a + b*b) / 4.0
	inertia := fullInertiaAboutCenter - mass*centroidY*centroidY
	if inertia < 0 {
		inertia = 0
	}
	return MassData{Mass: mass, Center: center, Inertia: inertia}
}

// ComposeMass sums fixture MassData (already expressed about each
// fixture's local origin in the body frame) into a single MassData for
// the body: mass adds directly, centers combine by their mass-weighted
// average, and inertia combines via the parallel axis theorem about the
// resulting combined center.
func ComposeMass(parts []MassData) MassData {
	total := MassData{}
	for _, p := range parts {
		total.Mass += p.Mass
		total.Center = total.Center.Add(p.Center.Scale(p.Mass))
	}
	if total.Mass > geo.Epsilon {
		total.Center = total.Center.Scale(1.0 / total.Mass)
	}
	for _, p := range parts {
		d := p.Center.Sub(total.Center)
		total.Inertia += p.Inertia + p.Mass*d.Dot(d)
	}
	return total
}
