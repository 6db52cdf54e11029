// Copyright © 2024 drax contributors.

package physics

import (
	"sort"

	"github.com/drax2d/drax/geo"
)

// ContactPoint is one persistent point of contact between two fixtures,
// carrying both the geometric manifold data and the solver's
// warm-starting state for that point's identity.
type ContactPoint struct {
	Id              ManifoldPointId
	Point           geo.Vec2
	Separation      float64
	NormalImpulse   float64
	TangentImpulse  float64
}

// Contact is the persistent relationship between a pair of fixtures that
// the broadphase has flagged as close. It survives across frames so the
// solver can warm-start from the previous step's impulses, and so
// begin/end events can be detected.
type Contact struct {
	FixtureA FixtureId
	FixtureB FixtureId

	Normal  geo.Vec2
	Points  []ContactPoint
	Friction    float64
	Restitution float64

	Sensor    bool // either fixture is a sensor: report touching, apply no impulse.
	Enabled   bool // either listener PreSolve or explicit SetEnabled(false).
	Touching  bool
	wasTouching bool
}

// pairKey is the stable map key for a fixture pair, independent of
// argument order.
type pairKey struct{ a, b FixtureId }

func makePairKey(a, b FixtureId) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// ContactManager reconciles the broadphase's candidate pairs against the
// set of persistent Contacts, running narrowphase on each and dispatching
// begin/persist/end/presolve/postsolve events to a ContactListener.
type ContactManager struct {
	world    *World
	contacts map[pairKey]*Contact
	listener ContactListener
}

func newContactManager(w *World) *ContactManager {
	return &ContactManager{world: w, contacts: make(map[pairKey]*Contact)}
}

// SetListener installs the listener that receives begin/persist/end/
// presolve/postsolve events during the next Update.
func (m *ContactManager) SetListener(l ContactListener) { m.listener = l }

// Update reconciles candidatePairs (this frame's broadphase output)
// against the manager's persistent contact set: new pairs get a fresh
// Contact, pairs no longer reported get destroyed (with an End event if
// they were touching), and surviving pairs are re-run through narrowphase
// with warm-starting from their previous impulses.
func (m *ContactManager) Update(candidatePairs []Pair) {
	seen := make(map[pairKey]bool, len(candidatePairs))

	for _, pair := range candidatePairs {
		fa := m.world.fixture(pair.A)
		fb := m.world.fixture(pair.B)
		if fa == nil || fb == nil {
			continue
		}
		if !fa.filter.ShouldCollide(fb.filter) {
			continue
		}
		bodyA := m.world.body(fa.body)
		bodyB := m.world.body(fb.body)
		if bodyA == nil || bodyB == nil {
			continue
		}
		if !bodyA.IsDynamic() && !bodyB.IsDynamic() {
			continue
		}

		key := makePairKey(pair.A, pair.B)
		seen[key] = true

		c, exists := m.contacts[key]
		if !exists {
			c = &Contact{FixtureA: pair.A, FixtureB: pair.B, Enabled: true}
			m.contacts[key] = c
		}
		m.updateContact(c, fa, fb, bodyA, bodyB)
	}

	for key, c := range m.contacts {
		if seen[key] {
			continue
		}
		if c.wasTouching && m.listener != nil {
			m.listener.End(c)
		}
		delete(m.contacts, key)
	}
}

func (m *ContactManager) updateContact(c *Contact, fa, fb *Fixture, bodyA, bodyB *Body) {
	c.wasTouching = c.Touching
	c.Sensor = fa.Sensor || fb.Sensor

	if m.listener != nil {
		c.Enabled = true
		m.listener.PreSolve(c)
	}

	manifold, ok := collide(fa.shape, bodyA.Transform(), fb.shape, bodyB.Transform())
	c.Touching = ok

	if !ok {
		c.Normal = geo.Vec2{}
		c.Points = nil
		if c.wasTouching && m.listener != nil {
			m.listener.End(c)
		}
		return
	}

	c.Friction = combineFriction(fa, fb)
	c.Restitution = combineRestitution(fa, fb)
	c.Normal = manifold.Normal

	next := make([]ContactPoint, len(manifold.Points))
	for i, mp := range manifold.Points {
		next[i] = ContactPoint{Id: mp.Id, Point: mp.Point, Separation: mp.Separation}
		for _, old := range c.Points {
			if old.Id == mp.Id {
				next[i].NormalImpulse = old.NormalImpulse
				next[i].TangentImpulse = old.TangentImpulse
				break
			}
		}
	}
	c.Points = next

	if !c.wasTouching {
		if !c.Sensor {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
		if m.listener != nil {
			m.listener.Begin(c)
		}
	} else if m.listener != nil {
		m.listener.Persist(c)
	}
}

// All returns every persistent contact, touching or not, ordered by
// fixture pair key, for callers that need the full set (e.g. the island
// builder). Map iteration order is randomized per call; a stable order
// here is what keeps island traversal and the solver's pass order
// deterministic across runs, per spec.md §5.
func (m *ContactManager) All() []*Contact {
	out := make([]*Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		ki := makePairKey(out[i].FixtureA, out[i].FixtureB)
		kj := makePairKey(out[j].FixtureA, out[j].FixtureB)
		if ki.a != kj.a {
			return ki.a < kj.a
		}
		return ki.b < kj.b
	})
	return out
}
