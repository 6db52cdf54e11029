// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestEPAOverlappingCirclesDepth(t *testing.T) {
	a := NewCircle(1)
	b := NewCircle(1)
	tA := geo.NewTransform(geo.V2(0, 0), 0)
	tB := geo.NewTransform(geo.V2(1, 0), 0) // centers 1 apart, radii sum 2: depth 1.

	gjkResult := gjkDistance(a, tA, b, tB)
	if !gjkResult.Overlapping {
		t.Fatalf("expected overlap")
	}

	result := epa(a, tA, b, tB, gjkResult.Simplex)
	if !result.Success {
		t.Fatalf("epa did not converge")
	}
	if !geo.Aeq(result.Depth, 1) {
		t.Errorf("depth = %v, want ~1", result.Depth)
	}
	// Normal should point from A to B: roughly +X here.
	if result.Normal.X < 0.9 {
		t.Errorf("normal = %v, want ~(1,0)", result.Normal)
	}
}

func TestEPAOverlappingBoxesDepth(t *testing.T) {
	a := NewBox(2, 2)
	b := NewBox(2, 2)
	tA := geo.NewTransform(geo.V2(0, 0), 0)
	tB := geo.NewTransform(geo.V2(1.5, 0), 0) // half-widths 1 each, overlap 0.5.

	gjkResult := gjkDistance(a, tA, b, tB)
	if !gjkResult.Overlapping {
		t.Fatalf("expected overlap")
	}
	result := epa(a, tA, b, tB, gjkResult.Simplex)
	if !result.Success {
		t.Fatalf("epa did not converge")
	}
	if !geo.Aeq(result.Depth, 0.5) {
		t.Errorf("depth = %v, want ~0.5", result.Depth)
	}
}
