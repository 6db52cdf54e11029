// Copyright © 2024 drax contributors.

package physics

import (
	"math"
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestStepRejectsNegativeDt(t *testing.T) {
	w := NewWorld(DefaultSettings())
	if err := w.Step(-1); err == nil {
		t.Errorf("expected an error for negative dt")
	}
}

func TestStepZeroStillReconcilesContacts(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	b := mustAddBody(t, w, geo.V2(1.5, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	if _, err := w.AddFixture(b, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}

	if err := w.Step(0); err != nil {
		t.Fatalf("Step(0): %v", err)
	}
	if len(w.contacts.All()) != 1 {
		t.Errorf("expected broadphase/contact reconciliation to still run on dt=0, got %d contacts", len(w.contacts.All()))
	}
}

func TestStepZeroDoesNotMoveBodies(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 10), 0)
	if _, err := w.AddFixture(a, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture: %v", err)
	}

	if err := w.Step(0); err != nil {
		t.Fatalf("Step(0): %v", err)
	}
	if !geo.Aeq(a.WorldCenter().Y, 10) {
		t.Errorf("dt=0 must not move bodies, body at y=%v", a.WorldCenter().Y)
	}
}

func TestFreeFallUnderGravity(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetGravity(geo.V2(0, -10))
	a := mustAddBody(t, w, geo.V2(0, 10), 0)
	if _, err := w.AddFixture(a, NewCircle(0.1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture: %v", err)
	}

	for i := 0; i < 60; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if math.Abs(a.WorldCenter().Y-5.0) > 0.05 {
		t.Errorf("y = %v, want ~5.0 after 1s of free fall from y=10", a.WorldCenter().Y)
	}
	if math.Abs(a.LinearVelocity().Y-(-10)) > 0.1 {
		t.Errorf("vy = %v, want ~-10 after 1s of free fall", a.LinearVelocity().Y)
	}
}

func TestAddFixtureRejectsNonPositiveDensity(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(1), 0, 0.3, 0); err == nil {
		t.Errorf("expected an error for zero density")
	}
	if _, err := w.AddFixture(a, NewCircle(1), -1, 0.3, 0); err == nil {
		t.Errorf("expected an error for negative density")
	}
}

func TestAddJointRejectsSelfJoin(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	j := NewDistanceJoint(w.NextJointId(), a, a, geo.V2(0, 0), geo.V2(1, 0))
	if _, err := w.AddJoint(j); err == nil {
		t.Errorf("expected an error joining a body to itself")
	}
}

func TestRemoveBodyRejectsUnknownId(t *testing.T) {
	w := NewWorld(DefaultSettings())
	if err := w.RemoveBody(999); err == nil {
		t.Errorf("expected an error removing an id not in the world")
	}
}

func TestRemoveBodyDestroysAttachedJoints(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	b := mustAddBody(t, w, geo.V2(1, 0), 0)
	j := NewDistanceJoint(w.NextJointId(), a, b, geo.V2(0, 0), geo.V2(0, 0))
	id, err := w.AddJoint(j)
	if err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	if err := w.RemoveBody(a.Id()); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	for _, jj := range w.Joints() {
		if jj.Id() == id {
			t.Errorf("expected the joint to be destroyed along with body a")
		}
	}
}

func TestRemoveJointRejectsUnknownId(t *testing.T) {
	w := NewWorld(DefaultSettings())
	if err := w.RemoveJoint(999); err == nil {
		t.Errorf("expected an error removing an unknown joint id")
	}
}
