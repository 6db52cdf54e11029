// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// FixtureId is a stable identity for a Fixture while it is attached to a
// body; it is the fixture's index in the world's fixture arena.
type FixtureId uint32

// Filter controls which fixture pairs the broadphase and contact manager
// are allowed to generate candidates for.
//
//   - If two fixtures have the same non-zero Group, they always (Group>0)
//     or never (Group<0) collide, regardless of Category/Mask.
//   - Otherwise fixtures collide only if each one's Category bit is set
//     in the other's Mask.
type Filter struct {
	Category uint32
	Mask     uint32
	Group    int16
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter { return Filter{Category: 0x0001, Mask: 0xFFFF} }

// ShouldCollide applies the standard category/mask/group filter rule.
func (f Filter) ShouldCollide(o Filter) bool {
	if f.Group != 0 && f.Group == o.Group {
		return f.Group > 0
	}
	return f.Category&o.Mask != 0 && o.Category&f.Mask != 0
}

// Fixture attaches a Shape to a Body with material and filtering
// properties. Fixture identity (its FixtureId) is stable for as long as
// it remains attached to a body.
type Fixture struct {
	id     FixtureId
	body   BodyId
	shape  Shape
	filter Filter

	Friction    float64
	Restitution float64
	Density     float64
	Sensor      bool // sensors detect contact but generate no impulses.
}

// Id returns the fixture's stable identity.
func (f *Fixture) Id() FixtureId { return f.id }

// Body returns the id of the body this fixture is attached to.
func (f *Fixture) Body() BodyId { return f.body }

// Shape returns the fixture's collision shape.
func (f *Fixture) Shape() Shape { return f.shape }

// Filter returns the fixture's collision filter.
func (f *Fixture) Filter() Filter { return f.filter }

// SetFilter updates the fixture's collision filter.
func (f *Fixture) SetFilter(filter Filter) { f.filter = filter }

// combineFriction computes the contact friction coefficient from two
// fixtures' coefficients: geometric mean, the standard choice since it
// guarantees zero friction if either surface is frictionless.
func combineFriction(a, b *Fixture) float64 {
	product := a.Friction * b.Friction
	if product <= 0 {
		return 0
	}
	return math.Sqrt(product)
}

// combineRestitution takes the larger of the two fixtures' bounciness,
// so that a single very bouncy object bounces off anything.
func combineRestitution(a, b *Fixture) float64 {
	if a.Restitution > b.Restitution {
		return a.Restitution
	}
	return b.Restitution
}

// computeAABB returns this fixture's world AABB given the body's transform.
func (f *Fixture) computeAABB(t geo.Transform) geo.AABB {
	return f.shape.ComputeAABB(t)
}
