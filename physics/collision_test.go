// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestCollideCirclesSeparated(t *testing.T) {
	a := NewCircle(1)
	b := NewCircle(1)
	tA := geo.NewTransform(geo.V2(0, 0), 0)
	tB := geo.NewTransform(geo.V2(5, 0), 0)

	_, ok := collide(a, tA, b, tB)
	if ok {
		t.Fatalf("circles 5 apart with radius 1 each should not collide")
	}
}

func TestCollideCirclesOverlapping(t *testing.T) {
	a := NewCircle(1)
	b := NewCircle(1)
	tA := geo.NewTransform(geo.V2(0, 0), 0)
	tB := geo.NewTransform(geo.V2(1.5, 0), 0)

	m, ok := collide(a, tA, b, tB)
	if !ok {
		t.Fatalf("expected overlap")
	}
	if len(m.Points) != 1 {
		t.Fatalf("circle-circle manifold should have exactly one point, got %d", len(m.Points))
	}
	if !geo.Aeq(m.Points[0].Separation, -0.5) {
		t.Errorf("separation = %v, want -0.5", m.Points[0].Separation)
	}
	if m.Normal.X < 0.9 {
		t.Errorf("normal = %v, want ~(1,0)", m.Normal)
	}
}

func TestCollideCirclePolygonOutside(t *testing.T) {
	box := NewBox(2, 2) // half-extent 1
	circle := NewCircle(0.5)
	tBox := geo.NewTransform(geo.V2(0, 0), 0)
	tCircle := geo.NewTransform(geo.V2(3, 0), 0)

	_, ok := collide(box, tBox, circle, tCircle)
	if ok {
		t.Fatalf("circle far from box should not collide")
	}
}

func TestCollideCirclePolygonTouchingFace(t *testing.T) {
	box := NewBox(2, 2) // half-extent 1, so right face at x=1
	circle := NewCircle(0.5)
	tBox := geo.NewTransform(geo.V2(0, 0), 0)
	tCircle := geo.NewTransform(geo.V2(1.3, 0), 0) // 0.3 into the circle's radius of 0.5

	m, ok := collide(box, tBox, circle, tCircle)
	if !ok {
		t.Fatalf("expected circle overlapping box face")
	}
	if !geo.Aeq(m.Points[0].Separation, -0.2) {
		t.Errorf("separation = %v, want -0.2", m.Points[0].Separation)
	}
	// normal from box (a) to circle (b): +X
	if m.Normal.X < 0.9 {
		t.Errorf("normal = %v, want ~(1,0)", m.Normal)
	}
}

func TestCollideCirclePolygonOrderSwapFlipsNormal(t *testing.T) {
	box := NewBox(2, 2)
	circle := NewCircle(0.5)
	tBox := geo.NewTransform(geo.V2(0, 0), 0)
	tCircle := geo.NewTransform(geo.V2(1.3, 0), 0)

	mBoxFirst, ok1 := collide(box, tBox, circle, tCircle)
	mCircleFirst, ok2 := collide(circle, tCircle, box, tBox)
	if !ok1 || !ok2 {
		t.Fatalf("expected both orderings to collide")
	}
	if !geo.Aeq(mBoxFirst.Normal.X, -mCircleFirst.Normal.X) {
		t.Errorf("normals should flip with argument order: %v vs %v", mBoxFirst.Normal, mCircleFirst.Normal)
	}
}

func TestCollideConvexBoxesOverlapping(t *testing.T) {
	a := NewBox(2, 2)
	b := NewBox(2, 2)
	tA := geo.NewTransform(geo.V2(0, 0), 0)
	tB := geo.NewTransform(geo.V2(1.5, 0), 0)

	m, ok := collide(a, tA, b, tB)
	if !ok {
		t.Fatalf("expected overlapping boxes to collide")
	}
	if len(m.Points) == 0 {
		t.Fatalf("expected at least one manifold point")
	}
}

func TestCollideConvexBoxesSeparated(t *testing.T) {
	a := NewBox(2, 2)
	b := NewBox(2, 2)
	tA := geo.NewTransform(geo.V2(0, 0), 0)
	tB := geo.NewTransform(geo.V2(10, 0), 0)

	_, ok := collide(a, tA, b, tB)
	if ok {
		t.Fatalf("far apart boxes should not collide")
	}
}

func TestClosestPointOnPolygonInside(t *testing.T) {
	verts := []geo.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	_, onEdge := closestPointOnPolygon(verts, geo.V2(0, 0))
	if onEdge {
		t.Errorf("center of box should be reported as inside (onEdge=false)")
	}
}

func TestClosestPointOnPolygonOutside(t *testing.T) {
	verts := []geo.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	closest, onEdge := closestPointOnPolygon(verts, geo.V2(3, 0))
	if !onEdge {
		t.Errorf("point outside box should be reported as outside (onEdge=true)")
	}
	if !geo.Aeq(closest.X, 1) || !geo.Aeq(closest.Y, 0) {
		t.Errorf("closest point = %v, want (1,0)", closest)
	}
}
