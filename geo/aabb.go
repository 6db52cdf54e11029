package geo

import "math"

// AABB is an axis-aligned bounding box, stored as its min and max corners.
type AABB struct {
	Min, Max Vec2
}

// NewAABB returns the AABB spanning min and max, which need not already
// be ordered correctly: the returned box is always normalized.
func NewAABB(min, max Vec2) AABB {
	return AABB{
		Min: Vec2{math.Min(min.X, max.X), math.Min(min.Y, max.Y)},
		Max: Vec2{math.Max(min.X, max.X), math.Max(min.Y, max.Y)},
	}
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// Intersects returns true if a and b share any area, edges included.
func (a AABB) Intersects(b AABB) bool {
	if a.Max.X < b.Min.X || a.Min.X > b.Max.X {
		return false
	}
	if a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y {
		return false
	}
	return true
}

// Expand returns a grown on every side by margin (a negative margin shrinks it).
func (a AABB) Expand(margin float64) AABB {
	m := Vec2{margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// Contains returns true if b lies entirely within a.
func (a AABB) Contains(b AABB) bool {
	return a.Min.X <= b.Min.X && a.Min.Y <= b.Min.Y &&
		b.Max.X <= a.Max.X && b.Max.Y <= a.Max.Y
}

// ContainsPoint returns true if p lies within a, edges included.
func (a AABB) ContainsPoint(p Vec2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// Center returns the midpoint of a.
func (a AABB) Center() Vec2 { return a.Min.Add(a.Max).Scale(0.5) }

// Extents returns the half-widths of a.
func (a AABB) Extents() Vec2 { return a.Max.Sub(a.Min).Scale(0.5) }

// Perimeter returns the perimeter of a, used as the surface-area heuristic
// cost metric for a 2D tree (the "area" of a 2D AABB is its perimeter).
func (a AABB) Perimeter() float64 {
	wx := a.Max.X - a.Min.X
	wy := a.Max.Y - a.Min.Y
	return 2 * (wx + wy)
}

// RaycastResult carries the outcome of Ray.Cast against an AABB.
type RaycastResult struct {
	Hit    bool
	Fraction float64 // location of the hit along the ray, in [0,maxFraction]
	Point  Vec2
	Normal Vec2
}

// Ray is a 2D ray cast from Origin along Dir (expected to be a unit vector).
type Ray struct {
	Origin Vec2
	Dir    Vec2
}

// Cast performs a slab-method raycast of r against box, limited to
// maxFraction of r.Dir's length (maxFraction=1 tests the full ray segment
// Origin..Origin+Dir).
func (r Ray) Cast(box AABB, maxFraction float64) RaycastResult {
	tmin := -math.MaxFloat64
	tmax := math.MaxFloat64
	var normal Vec2

	axes := [2]struct {
		o, d, lo, hi float64
	}{
		{r.Origin.X, r.Dir.X, box.Min.X, box.Max.X},
		{r.Origin.Y, r.Dir.Y, box.Min.Y, box.Max.Y},
	}
	for i, ax := range axes {
		if AeqZ(ax.d) {
			if ax.o < ax.lo || ax.o > ax.hi {
				return RaycastResult{}
			}
			continue
		}
		inv := 1.0 / ax.d
		t1 := (ax.lo - ax.o) * inv
		t2 := (ax.hi - ax.o) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tmin {
			tmin = t1
			if i == 0 {
				normal = Vec2{sign, 0}
			} else {
				normal = Vec2{0, sign}
			}
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastResult{}
		}
	}
	if tmin < 0 || tmin > maxFraction {
		return RaycastResult{}
	}
	return RaycastResult{
		Hit:      true,
		Fraction: tmin,
		Point:    r.Origin.Add(r.Dir.Scale(tmin)),
		Normal:   normal,
	}
}
