// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestClipSegmentBothInside(t *testing.T) {
	v1 := geo.V2(0, 0)
	v2 := geo.V2(2, 0)
	out := clipSegment(v1, v2, geo.V2(1, 0), -1)
	if len(out) != 2 {
		t.Fatalf("expected both points kept, got %d", len(out))
	}
}

func TestClipSegmentOneClipped(t *testing.T) {
	v1 := geo.V2(-2, 0)
	v2 := geo.V2(2, 0)
	out := clipSegment(v1, v2, geo.V2(1, 0), 0) // keep x >= 0
	if len(out) != 2 {
		t.Fatalf("expected the inside endpoint plus the interpolated crossing point, got %d", len(out))
	}
	// one of the two points should be the interpolated crossing at x=0
	foundCrossing := false
	for _, p := range out {
		if geo.Aeq(p.X, 0) {
			foundCrossing = true
		}
	}
	if !foundCrossing {
		t.Errorf("expected a crossing point at x=0, got %v", out)
	}
}

func TestClipSegmentBothOutside(t *testing.T) {
	v1 := geo.V2(-2, 0)
	v2 := geo.V2(-1, 0)
	out := clipSegment(v1, v2, geo.V2(1, 0), 0) // keep x >= 0
	if len(out) != 0 {
		t.Fatalf("expected no points kept, got %d: %v", len(out), out)
	}
}

func TestBuildPolygonManifoldOverlappingBoxes(t *testing.T) {
	a := NewBox(2, 2)
	b := NewBox(2, 2)
	tA := geo.NewTransform(geo.V2(0, 0), 0)
	tB := geo.NewTransform(geo.V2(1.5, 0), 0)

	result := gjkDistance(a, tA, b, tB)
	if !result.Overlapping {
		t.Fatalf("expected overlap")
	}
	e := epa(a, tA, b, tB, result.Simplex)
	if !e.Success {
		t.Fatalf("epa did not converge")
	}

	m := buildPolygonManifold(a, tA, b, tB, e.Normal, e.Depth)
	if len(m.Points) == 0 {
		t.Fatalf("expected at least one manifold point")
	}
	for _, p := range m.Points {
		if p.Separation > geo.Epsilon {
			t.Errorf("manifold point separation = %v, want <= 0", p.Separation)
		}
	}
}
