package geo

import "testing"

func isCCW(pts []Vec2) bool {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area > 0
}

func containsAll(hull, pts []Vec2) bool {
	for _, p := range pts {
		inside := true
		for i := range hull {
			j := (i + 1) % len(hull)
			edge := hull[j].Sub(hull[i])
			toP := p.Sub(hull[i])
			if edge.Cross(toP) < -1e-7 {
				inside = false
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

func TestHullSquare(t *testing.T) {
	pts := []Vec2{V2(0, 0), V2(1, 0), V2(1, 1), V2(0, 1), V2(0.5, 0.5)}
	hull := Hull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected 4 hull points for a square with an interior point, got %d: %v", len(hull), hull)
	}
	if !isCCW(hull) {
		t.Errorf("expected hull to be counter-clockwise: %v", hull)
	}
	if !containsAll(hull, pts) {
		t.Errorf("hull %v does not contain all input points %v", hull, pts)
	}
}

func TestHullTriangle(t *testing.T) {
	pts := []Vec2{V2(0, 0), V2(2, 0), V2(1, 2)}
	hull := Hull(pts)
	if len(hull) != 3 {
		t.Fatalf("expected 3 hull points, got %d", len(hull))
	}
	if !isCCW(hull) {
		t.Errorf("expected hull to be counter-clockwise: %v", hull)
	}
}
