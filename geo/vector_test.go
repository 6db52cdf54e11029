package geo

import "testing"

func TestVec2Add(t *testing.T) {
	got := V2(1, 2).Add(V2(3, 4))
	if want := V2(4, 6); !got.Eq(want) {
		t.Errorf("Add: got %v want %v", got, want)
	}
}

func TestVec2Cross(t *testing.T) {
	if got := V2(1, 0).Cross(V2(0, 1)); got != 1 {
		t.Errorf("Cross: got %v want 1", got)
	}
}

func TestVec2Unit(t *testing.T) {
	u := V2(3, 4).Unit()
	if !Aeq(u.Len(), 1) {
		t.Errorf("Unit: length got %v want 1", u.Len())
	}
	if z := (Vec2{}).Unit(); !z.Eq(Vec2{}) {
		t.Errorf("Unit of zero vector should stay zero, got %v", z)
	}
}

func TestVec2Perp(t *testing.T) {
	// Perp rotates 90 CCW: (1,0) -> (0,1).
	if got := V2(1, 0).Perp(); !got.Eq(V2(0, 1)) {
		t.Errorf("Perp: got %v want (0,1)", got)
	}
}

func TestRotationRoundTrip(t *testing.T) {
	q := NewRotation(PI / 3)
	v := V2(1, 2)
	rotated := q.Rotate(v)
	back := q.RotateT(rotated)
	if !back.Aeq(v) {
		t.Errorf("Rotate/RotateT round trip: got %v want %v", back, v)
	}
}

func TestIntervalOverlaps(t *testing.T) {
	a := Interval{Lo: 0, Hi: 2}
	b := Interval{Lo: 1, Hi: 3}
	c := Interval{Lo: 3, Hi: 4}
	if !a.Overlaps(b) {
		t.Errorf("expected a to overlap b")
	}
	if a.Overlaps(c) {
		t.Errorf("expected a not to overlap c")
	}
}
