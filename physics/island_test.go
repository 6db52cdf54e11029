// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestBuildIslandsSeparateDynamicBodiesAreSeparateIslands(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	b := mustAddBody(t, w, geo.V2(100, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	if _, err := w.AddFixture(b, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}

	islands := buildIslands(w.Bodies(), nil, nil, w.fixture)
	if len(islands) != 2 {
		t.Fatalf("expected 2 independent islands, got %d", len(islands))
	}
}

func TestBuildIslandsJointLinksTwoBodiesIntoOneIsland(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	b := mustAddBody(t, w, geo.V2(2, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(0.5), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	if _, err := w.AddFixture(b, NewCircle(0.5), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}
	id := w.NextJointId()
	j := NewDistanceJoint(id, a, b, geo.V2(0, 0), geo.V2(0, 0))
	if _, err := w.AddJoint(j); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	islands := buildIslands(w.Bodies(), nil, w.Joints(), w.fixture)
	if len(islands) != 1 {
		t.Fatalf("expected 1 island linking the two jointed bodies, got %d", len(islands))
	}
	if len(islands[0].Bodies) != 2 {
		t.Fatalf("expected 2 bodies in the island, got %d", len(islands[0].Bodies))
	}
}

func TestBuildIslandsStaticBodyDoesNotPropagate(t *testing.T) {
	w := NewWorld(DefaultSettings())
	dynA := mustAddBody(t, w, geo.V2(0, 0), 0)
	static := mustAddBody(t, w, geo.V2(0, 0), 0) // no fixtures added: stays static (invMass == 0)
	dynB := mustAddBody(t, w, geo.V2(0, 0), 0)
	if _, err := w.AddFixture(dynA, NewCircle(0.5), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture dynA: %v", err)
	}
	if _, err := w.AddFixture(dynB, NewCircle(0.5), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture dynB: %v", err)
	}

	idA := w.NextJointId()
	jA := NewDistanceJoint(idA, dynA, static, geo.V2(0, 0), geo.V2(0, 0))
	if _, err := w.AddJoint(jA); err != nil {
		t.Fatalf("AddJoint jA: %v", err)
	}
	idB := w.NextJointId()
	jB := NewDistanceJoint(idB, static, dynB, geo.V2(0, 0), geo.V2(0, 0))
	if _, err := w.AddJoint(jB); err != nil {
		t.Fatalf("AddJoint jB: %v", err)
	}

	islands := buildIslands(w.Bodies(), nil, w.Joints(), w.fixture)
	if len(islands) != 2 {
		t.Fatalf("a static body must not transmit a traversal between dynamic islands, got %d islands", len(islands))
	}
}

func TestBuildIslandsSleepingNeighborIsWoken(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	b := mustAddBody(t, w, geo.V2(2, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(0.5), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	if _, err := w.AddFixture(b, NewCircle(0.5), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}
	id := w.NextJointId()
	j := NewDistanceJoint(id, a, b, geo.V2(0, 0), geo.V2(0, 0))
	if _, err := w.AddJoint(j); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}
	b.SetAwake(false)

	islands := buildIslands(w.Bodies(), nil, w.Joints(), w.fixture)
	if len(islands) != 1 || len(islands[0].Bodies) != 2 {
		t.Fatalf("expected the sleeping neighbor pulled into the awake island")
	}
	if !b.Awake() {
		t.Errorf("a sleeping body pulled into an island via an awake neighbor must be woken")
	}
}
