// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

func newTestWorldWithTwoCircles(t *testing.T, dist float64) (*World, *Body, *Body) {
	t.Helper()
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	b := mustAddBody(t, w, geo.V2(dist, 0), 0)
	if _, err := w.AddFixture(a, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	if _, err := w.AddFixture(b, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}
	return w, a, b
}

type recordingContactListener struct {
	begins, persists, ends, presolves int
}

func (r *recordingContactListener) Begin(c *Contact)   { r.begins++ }
func (r *recordingContactListener) Persist(c *Contact) { r.persists++ }
func (r *recordingContactListener) End(c *Contact)     { r.ends++ }
func (r *recordingContactListener) PreSolve(c *Contact) { r.presolves++ }
func (r *recordingContactListener) PostSolve(c *Contact, normalImpulse, tangentImpulse float64) {}

func TestContactManagerBeginPersistEnd(t *testing.T) {
	w, a, b := newTestWorldWithTwoCircles(t, 1.5) // overlapping: radius sum 2 > 1.5
	listener := &recordingContactListener{}
	w.SetContactListener(listener)

	pairs := []Pair{{A: a.fixtures[0], B: b.fixtures[0]}}
	w.contacts.Update(pairs)
	if listener.begins != 1 {
		t.Fatalf("expected 1 Begin event, got %d", listener.begins)
	}

	w.contacts.Update(pairs)
	if listener.persists != 1 {
		t.Fatalf("expected 1 Persist event after second update, got %d", listener.persists)
	}

	w.contacts.Update(nil)
	if listener.ends != 1 {
		t.Fatalf("expected 1 End event once the pair is no longer reported, got %d", listener.ends)
	}
}

func TestContactManagerWarmStartsImpulse(t *testing.T) {
	w, a, b := newTestWorldWithTwoCircles(t, 1.5)
	pairs := []Pair{{A: a.fixtures[0], B: b.fixtures[0]}}
	w.contacts.Update(pairs)

	all := w.contacts.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(all))
	}
	all[0].Points[0].NormalImpulse = 5.0

	w.contacts.Update(pairs)
	all = w.contacts.All()
	if !geo.Aeq(all[0].Points[0].NormalImpulse, 5.0) {
		t.Errorf("expected warm-started impulse of 5.0 to survive, got %v", all[0].Points[0].NormalImpulse)
	}
}

func TestContactManagerOnlyWakesOnNewTouch(t *testing.T) {
	w, a, b := newTestWorldWithTwoCircles(t, 1.5)
	a.SetAwake(false)
	b.SetAwake(false)

	pairs := []Pair{{A: a.fixtures[0], B: b.fixtures[0]}}
	w.contacts.Update(pairs)
	if !a.Awake() || !b.Awake() {
		t.Fatalf("new touching contact should wake both bodies")
	}

	a.SetAwake(false)
	b.SetAwake(false)
	w.contacts.Update(pairs)
	if a.Awake() || b.Awake() {
		t.Fatalf("persisting contact must not force-wake already-asleep bodies")
	}
}

func TestContactManagerSensorDoesNotWake(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(0, 0), 0)
	b := mustAddBody(t, w, geo.V2(1, 0), 0)
	fa, err := w.AddFixture(a, NewCircle(1), 1, 0.3, 0)
	if err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	fa.Sensor = true
	if _, err := w.AddFixture(b, NewCircle(1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}
	a.SetAwake(false)
	b.SetAwake(false)

	pairs := []Pair{{A: a.fixtures[0], B: b.fixtures[0]}}
	w.contacts.Update(pairs)
	if a.Awake() || b.Awake() {
		t.Fatalf("a sensor contact must never wake either body")
	}
}
