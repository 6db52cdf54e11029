package geo

import "testing"

func TestAABBUnion(t *testing.T) {
	a := NewAABB(V2(0, 0), V2(1, 1))
	b := NewAABB(V2(2, -1), V2(3, 0.5))
	u := a.Union(b)
	if !u.Min.Eq(V2(0, -1)) || !u.Max.Eq(V2(3, 1)) {
		t.Errorf("Union: got %+v", u)
	}
}

func TestAABBIntersects(t *testing.T) {
	a := NewAABB(V2(0, 0), V2(1, 1))
	b := NewAABB(V2(0.5, 0.5), V2(2, 2))
	c := NewAABB(V2(5, 5), V2(6, 6))
	if !a.Intersects(b) {
		t.Errorf("expected a to intersect b")
	}
	if a.Intersects(c) {
		t.Errorf("expected a not to intersect c")
	}
}

func TestAABBContains(t *testing.T) {
	outer := NewAABB(V2(-1, -1), V2(1, 1))
	inner := NewAABB(V2(-0.5, -0.5), V2(0.5, 0.5))
	if !outer.Contains(inner) {
		t.Errorf("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Errorf("expected inner not to contain outer")
	}
}

func TestAABBExpand(t *testing.T) {
	a := NewAABB(V2(0, 0), V2(1, 1))
	e := a.Expand(0.2)
	want := NewAABB(V2(-0.2, -0.2), V2(1.2, 1.2))
	if !e.Min.Aeq(want.Min) || !e.Max.Aeq(want.Max) {
		t.Errorf("Expand: got %+v want %+v", e, want)
	}
}

func TestRayCastHitsBox(t *testing.T) {
	box := NewAABB(V2(2, -1), V2(4, 1))
	r := Ray{Origin: V2(0, 0), Dir: V2(1, 0)}
	res := r.Cast(box, 10)
	if !res.Hit {
		t.Fatalf("expected hit")
	}
	if !Aeq(res.Point.X, 2) {
		t.Errorf("Cast: got point %v want x=2", res.Point)
	}
}

func TestRayCastMissesBeyondMaxFraction(t *testing.T) {
	box := NewAABB(V2(2, -1), V2(4, 1))
	r := Ray{Origin: V2(0, 0), Dir: V2(1, 0)}
	res := r.Cast(box, 1)
	if res.Hit {
		t.Errorf("expected no hit within maxFraction=1")
	}
}
