// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestRayCastClosestHitsNearestFixture(t *testing.T) {
	w := NewWorld(DefaultSettings())
	near := mustAddBody(t, w, geo.V2(5, 0), 0)
	far := mustAddBody(t, w, geo.V2(10, 0), 0)
	if _, err := w.AddFixture(near, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture near: %v", err)
	}
	if _, err := w.AddFixture(far, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture far: %v", err)
	}

	hit, ok := w.RayCastClosest(geo.V2(0, 0), geo.V2(1, 0), 20)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Fixture != near.fixtures[0] {
		t.Errorf("expected the closer fixture to win, got %v", hit.Fixture)
	}
	if !geo.Aeq(hit.Fraction, 4) {
		t.Errorf("fraction = %v, want 4 (5 - radius 1)", hit.Fraction)
	}
}

func TestRayCastClosestNoHit(t *testing.T) {
	w := NewWorld(DefaultSettings())
	b := mustAddBody(t, w, geo.V2(0, 10), 0)
	if _, err := w.AddFixture(b, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture: %v", err)
	}

	_, ok := w.RayCastClosest(geo.V2(0, 0), geo.V2(1, 0), 20)
	if ok {
		t.Errorf("ray along +X should not hit a circle sitting at y=10")
	}
}

func TestRayCastClosestZeroDirectionIsNoHit(t *testing.T) {
	w := NewWorld(DefaultSettings())
	_, ok := w.RayCastClosest(geo.V2(0, 0), geo.Vec2{}, 20)
	if ok {
		t.Errorf("a zero-length ray direction must never report a hit")
	}
}

func TestRayCastAllReturnsEveryFixtureAlongTheRay(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(5, 0), 0)
	b := mustAddBody(t, w, geo.V2(10, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	if _, err := w.AddFixture(b, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}

	hits := w.RayCastAll(geo.V2(0, 0), geo.V2(1, 0), 20)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits along the ray, got %d", len(hits))
	}
}

func TestRayCastAllZeroDirectionIsEmpty(t *testing.T) {
	w := NewWorld(DefaultSettings())
	hits := w.RayCastAll(geo.V2(0, 0), geo.Vec2{}, 20)
	if hits != nil {
		t.Errorf("a zero-length ray direction must return no hits, got %v", hits)
	}
}
