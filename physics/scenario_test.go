// Copyright © 2024 drax contributors.

package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drax2d/drax/geo"
)

// These exercise the end-to-end step pipeline against the worked scenarios:
// free fall, an elastic head-on collision, a resting stack, a pendulum,
// a bullet through a thin wall, and sleeping.

func TestScenarioFreeFall(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetGravity(geo.V2(0, -10))
	disk := mustAddBody(t, w, geo.V2(0, 10), 0)
	_, err := w.AddFixture(disk, NewCircle(0.5), 1, 0.3, 0)
	assert.NoError(t, err)

	for i := 0; i < 60; i++ {
		assert.NoError(t, w.Step(1.0/60.0))
	}

	assert.InDelta(t, 5.0, disk.WorldCenter().Y, 0.05)
	assert.InDelta(t, -10, disk.LinearVelocity().Y, 0.1)
}

func TestScenarioElasticHeadOnCollision(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(-1.1, 0), 0)
	b := mustAddBody(t, w, geo.V2(1.1, 0), 0)
	_, err := w.AddFixture(a, NewCircle(1), 1, 0, 1)
	assert.NoError(t, err)
	_, err = w.AddFixture(b, NewCircle(1), 1, 0, 1)
	assert.NoError(t, err)
	a.SetLinearVelocity(geo.V2(1, 0))
	b.SetLinearVelocity(geo.V2(-1, 0))

	for i := 0; i < 30; i++ {
		assert.NoError(t, w.Step(1.0/60.0))
	}

	// Equal masses, e=1: velocities should swap sign.
	assert.InDelta(t, -1, a.LinearVelocity().X, 0.1)
	assert.InDelta(t, 1, b.LinearVelocity().X, 0.1)
}

func TestScenarioStableStack(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetGravity(geo.V2(0, -10))

	floor := mustAddBody(t, w, geo.V2(0, -0.5), 0)
	_, err := w.AddFixture(floor, NewBox(100, 1), 1, 0.5, 0)
	assert.NoError(t, err)
	floor.SetMassType(INFINITE)

	const n = 10
	boxes := make([]*Body, n)
	for i := 0; i < n; i++ {
		boxes[i] = mustAddBody(t, w, geo.V2(0, float64(i)+0.5), 0)
		_, err := w.AddFixture(boxes[i], NewBox(1, 1), 1, 0.5, 0)
		assert.NoError(t, err)
	}

	initialX := make([]float64, n)
	for i, b := range boxes {
		initialX[i] = b.WorldCenter().X
	}

	for step := 0; step < 120; step++ {
		assert.NoError(t, w.Step(1.0/60.0))
		if step >= 30 {
			for _, b := range boxes {
				if b.Awake() {
					assert.Less(t, math.Abs(b.AngularVelocity()), 0.5,
						"box angular velocity should settle down after the stack stabilizes")
				}
			}
		}
	}

	for i, b := range boxes {
		assert.InDelta(t, initialX[i], b.WorldCenter().X, 0.25,
			"box %d drifted sideways more than expected", i)
	}
}

func TestScenarioPendulumConservesEnergyApproximately(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetGravity(geo.V2(0, -10))

	anchor := mustAddBody(t, w, geo.V2(0, 0), 0) // static: no fixtures, invMass stays 0
	bob := mustAddBody(t, w, geo.V2(1, 0), 0)    // released horizontally, 1 unit from the pivot
	_, err := w.AddFixture(bob, NewCircle(0.1), 1, 0.3, 0)
	assert.NoError(t, err)

	j := NewRevoluteJoint(w.NextJointId(), anchor, bob, geo.V2(0, 0))
	_, err = w.AddJoint(j)
	assert.NoError(t, err)

	initialHeight := bob.WorldCenter().Y
	initialEnergy := -10 * bob.Mass() * initialHeight // all potential, released from rest

	const dt = 1.0 / 120.0
	steps := int(2.0 / dt)
	for i := 0; i < steps; i++ {
		assert.NoError(t, w.Step(dt))
	}

	height := bob.WorldCenter().Y
	speed := bob.LinearVelocity().Len()
	potential := -10 * bob.Mass() * height
	kinetic := 0.5 * bob.Mass() * speed * speed
	energy := potential + kinetic

	if initialEnergy != 0 {
		loss := (initialEnergy - energy) / math.Abs(initialEnergy)
		assert.Less(t, math.Abs(loss), 0.15, "pendulum lost more energy than expected: %v -> %v", initialEnergy, energy)
	}
}

func TestScenarioBulletVsThinWallDoesNotTunnel(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetGravity(geo.Vec2{})

	wall := mustAddBody(t, w, geo.V2(0, 0), 0)
	_, err := w.AddFixture(wall, NewBox(0.05, 5), 1, 0.3, 1)
	assert.NoError(t, err)
	wall.SetMassType(INFINITE)

	bullet := mustAddBody(t, w, geo.V2(-1, 0), 0)
	bullet.SetBullet(true)
	_, err = w.AddFixture(bullet, NewCircle(0.1), 1, 0.3, 1)
	assert.NoError(t, err)
	bullet.SetLinearVelocity(geo.V2(200, 0))

	assert.NoError(t, w.Step(1.0/60.0))

	assert.Less(t, bullet.WorldCenter().X, 0.0, "bullet must not tunnel past the wall")
}

func TestScenarioSleepAfterRestAndWakeOnForce(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetGravity(geo.V2(0, -10))
	w.Settings().TimeToSleep = 0.5

	floor := mustAddBody(t, w, geo.V2(0, -0.5), 0)
	_, err := w.AddFixture(floor, NewBox(100, 1), 1, 0.3, 0)
	assert.NoError(t, err)
	floor.SetMassType(INFINITE)

	disk := mustAddBody(t, w, geo.V2(0, 0.5), 0)
	_, err = w.AddFixture(disk, NewCircle(0.5), 1, 0.3, 0)
	assert.NoError(t, err)

	for i := 0; i < 120; i++ {
		assert.NoError(t, w.Step(1.0/60.0))
	}

	assert.False(t, disk.Awake(), "disk at rest on the floor for 2s should be asleep")
	assert.Equal(t, geo.Vec2{}, disk.LinearVelocity())
	assert.Equal(t, 0.0, disk.AngularVelocity())

	disk.ApplyForceToCenter(geo.V2(0, 100))
	assert.True(t, disk.Awake(), "applying a force to a sleeping body should wake it")
}
