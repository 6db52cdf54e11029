// Copyright © 2024 drax contributors.

package physics

// caster.go answers "what does this ray hit" queries against the whole
// world, built on top of each Shape's own Raycast and the broadphase's
// RayQuery for candidate pruning.

import "github.com/drax2d/drax/geo"

// RayCastHit is one fixture struck by a world ray cast.
type RayCastHit struct {
	Fixture  FixtureId
	Point    geo.Vec2
	Normal   geo.Vec2
	Fraction float64
}

// RayCastClosest returns the nearest fixture the ray from origin along
// dir (for up to maxFraction * |dir|, matching geo.Ray's convention)
// strikes, if any.
func (w *World) RayCastClosest(origin, dir geo.Vec2, maxFraction float64) (RayCastHit, bool) {
	if dir.LenSqr() < geo.Epsilon {
		return RayCastHit{}, false
	}
	ray := geo.Ray{Origin: origin, Dir: dir}
	candidates := w.broadphase.RayQuery(ray, maxFraction)

	best := RayCastHit{Fraction: maxFraction}
	found := false
	for _, fid := range candidates {
		f := w.fixture(fid)
		if f == nil {
			continue
		}
		body := w.body(f.body)
		if body == nil {
			continue
		}
		hit, fraction, point, normal := f.shape.Raycast(ray, best.Fraction, body.Transform())
		if hit && fraction <= best.Fraction {
			best = RayCastHit{Fixture: fid, Point: point, Normal: normal, Fraction: fraction}
			found = true
		}
	}
	return best, found
}

// RayCastAll returns every fixture the ray strikes within maxFraction,
// in no particular order; useful for queries like "everything along this
// line of sight" rather than just the first blocker.
func (w *World) RayCastAll(origin, dir geo.Vec2, maxFraction float64) []RayCastHit {
	if dir.LenSqr() < geo.Epsilon {
		return nil
	}
	ray := geo.Ray{Origin: origin, Dir: dir}
	candidates := w.broadphase.RayQuery(ray, maxFraction)

	var hits []RayCastHit
	for _, fid := range candidates {
		f := w.fixture(fid)
		if f == nil {
			continue
		}
		body := w.body(f.body)
		if body == nil {
			continue
		}
		hit, fraction, point, normal := f.shape.Raycast(ray, maxFraction, body.Transform())
		if hit {
			hits = append(hits, RayCastHit{Fixture: fid, Point: point, Normal: normal, Fraction: fraction})
		}
	}
	return hits
}
