// Copyright © 2024 drax contributors.

package physics

import (
	"math"
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestSetTransformRejectsNaN(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)

	if err := a.SetTransform(geo.V2(math.NaN(), 0), 0); err == nil {
		t.Errorf("expected an error for a NaN position")
	}
	if err := a.SetTransform(geo.V2(0, 0), math.NaN()); err == nil {
		t.Errorf("expected an error for a NaN angle")
	}
}

func TestSetLinearVelocityRejectsNaN(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)

	if err := a.SetLinearVelocity(geo.V2(math.NaN(), 0)); err == nil {
		t.Errorf("expected an error for a NaN velocity component")
	}
}

func TestSetAngularVelocityRejectsNaN(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)

	if err := a.SetAngularVelocity(math.NaN()); err == nil {
		t.Errorf("expected an error for a NaN angular velocity")
	}
}

func TestApplyForceRejectsNaN(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture: %v", err)
	}

	if err := a.ApplyForce(geo.V2(math.NaN(), 0), geo.V2(0, 0)); err == nil {
		t.Errorf("expected an error for a NaN force")
	}
	if err := a.ApplyForceToCenter(geo.V2(math.NaN(), 0)); err == nil {
		t.Errorf("expected an error for a NaN force")
	}
	if err := a.ApplyTorque(math.NaN()); err == nil {
		t.Errorf("expected an error for a NaN torque")
	}
	if err := a.ApplyLinearImpulse(geo.V2(math.NaN(), 0), geo.V2(0, 0)); err == nil {
		t.Errorf("expected an error for a NaN impulse")
	}
	if err := a.ApplyAngularImpulse(math.NaN()); err == nil {
		t.Errorf("expected an error for a NaN angular impulse")
	}
}

func TestAddBodyRejectsNaN(t *testing.T) {
	w := NewWorld(DefaultSettings())
	if _, err := w.AddBody(geo.V2(math.NaN(), 0), 0); err == nil {
		t.Errorf("expected an error for a NaN position")
	}
	if _, err := w.AddBody(geo.V2(0, 0), math.NaN()); err == nil {
		t.Errorf("expected an error for a NaN angle")
	}
}

func TestAddFixtureRejectsNaN(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(1), math.NaN(), 0.3, 0); err == nil {
		t.Errorf("expected an error for a NaN density")
	}
	if _, err := w.AddFixture(a, NewCircle(1), 1, math.NaN(), 0); err == nil {
		t.Errorf("expected an error for a NaN friction")
	}
	if _, err := w.AddFixture(a, NewCircle(1), 1, 0.3, math.NaN()); err == nil {
		t.Errorf("expected an error for a NaN restitution")
	}
}
