// Copyright © 2024 drax contributors.

package physics

import (
	"math"

	"github.com/drax2d/drax/geo"
)

// BodyId is a stable identity for a Body: its index in the world's body
// arena. Contacts, joints and islands reference bodies by BodyId rather
// than by pointer, so the body graph has no cyclic ownership to reason
// about — the world owns bodies, bodies own fixtures, and everything
// else is a derived index rebuilt each step.
type BodyId uint32

// MassType selects which of a body's velocity axes the solver is allowed
// to change.
type MassType int

const (
	// NORMAL bodies have finite mass and inertia computed from their fixtures.
	NORMAL MassType = iota
	// INFINITE bodies never move under force or impulse (static/kinematic-by-velocity-only).
	INFINITE
	// FIXED_LINEAR_VELOCITY bodies keep a caller-set linear velocity; only angular motion reacts to impulses.
	FIXED_LINEAR_VELOCITY
	// FIXED_ANGULAR_VELOCITY bodies keep a caller-set angular velocity; only linear motion reacts to impulses.
	FIXED_ANGULAR_VELOCITY
	// FIXED_LINEAR_AND_ANGULAR_VELOCITY bodies never change velocity but, unlike INFINITE, still advance their pose by it each step.
	FIXED_LINEAR_AND_ANGULAR_VELOCITY
)

// Body is a rigid body: a pose, velocities and a set of fixtures.
//
// Invariants: InvMass and InvInertia are zero iff the mass type makes
// that axis immovable; world-space center of mass equals
// Transform.ToWorld(localCenter); a sleeping body has zero velocities
// and zero accumulated force/torque.
type Body struct {
	id BodyId

	transform geo.Transform // pose: position is the body's *origin*, not its COM.
	localCom  geo.Vec2      // center of mass, in local (body-origin) space.

	linVel geo.Vec2
	angVel float64

	force  geo.Vec2
	torque float64

	linDamp      float64
	angDamp      float64
	gravityScale float64

	massType   MassType
	mass       float64
	invMass    float64
	inertia    float64
	invInertia float64

	fixtures []FixtureId

	awake        bool
	active       bool
	autoSleep    bool
	bullet       bool
	sleepTime    float64

	// sweepCenter0/sweepAngle0 are this body's center of mass and angle
	// at the start of the current step, the start point continuous
	// collision detection sweeps from towards the post-integration pose.
	sweepCenter0 geo.Vec2
	sweepAngle0  float64

	world *World
}

// newBody constructs a body at the given pose with default mass-like
// properties (NORMAL, zero mass until fixtures are attached, awake and
// active, auto-sleep enabled, gravity scale 1, no damping).
func newBody(pos geo.Vec2, angle float64) *Body {
	return &Body{
		transform:    geo.NewTransform(pos, angle),
		massType:     NORMAL,
		gravityScale: 1,
		awake:        true,
		active:       true,
		autoSleep:    true,
	}
}

// Id returns the body's stable identity.
func (b *Body) Id() BodyId { return b.id }

// Position returns the world-space position of the body's origin (not its center of mass).
func (b *Body) Position() geo.Vec2 { return b.transform.Pos }

// Angle returns the body's orientation in radians.
func (b *Body) Angle() float64 { return b.transform.Rot.Angle() }

// Transform returns the body's pose.
func (b *Body) Transform() geo.Transform { return b.transform }

// WorldCenter returns the world-space position of the body's center of mass.
func (b *Body) WorldCenter() geo.Vec2 { return b.transform.ToWorld(b.localCom) }

// LocalCenter returns the center of mass in the body's local space.
func (b *Body) LocalCenter() geo.Vec2 { return b.localCom }

// SetTransform directly repositions the body, waking it. pos and angle
// must be finite: NaN is a precondition failure, not a pose the solver
// can propagate.
func (b *Body) SetTransform(pos geo.Vec2, angle float64) error {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(angle) {
		return errf("Body.SetTransform", "pos=%v angle=%v must not be NaN", pos, angle)
	}
	b.transform = geo.NewTransform(pos, angle)
	b.SetAwake(true)
	return nil
}

// LinearVelocity returns the body's current linear velocity.
func (b *Body) LinearVelocity() geo.Vec2 { return b.linVel }

// SetLinearVelocity sets the body's linear velocity directly, waking it.
// On a body with zero InvMass it does nothing unless the mass type is
// FIXED_LINEAR_VELOCITY or FIXED_LINEAR_AND_ANGULAR_VELOCITY.
func (b *Body) SetLinearVelocity(v geo.Vec2) error {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) {
		return errf("Body.SetLinearVelocity", "v=%v must not be NaN", v)
	}
	if b.invMass == 0 && b.massType != FIXED_LINEAR_VELOCITY && b.massType != FIXED_LINEAR_AND_ANGULAR_VELOCITY {
		return nil
	}
	b.linVel = v
	b.SetAwake(true)
	return nil
}

// AngularVelocity returns the body's current angular velocity in radians/second.
func (b *Body) AngularVelocity() float64 { return b.angVel }

// SetAngularVelocity sets the body's angular velocity directly, waking it.
// On a body with zero InvInertia it does nothing unless the mass type is
// FIXED_ANGULAR_VELOCITY or FIXED_LINEAR_AND_ANGULAR_VELOCITY.
func (b *Body) SetAngularVelocity(w float64) error {
	if math.IsNaN(w) {
		return errf("Body.SetAngularVelocity", "w=%v must not be NaN", w)
	}
	if b.invInertia == 0 && b.massType != FIXED_ANGULAR_VELOCITY && b.massType != FIXED_LINEAR_AND_ANGULAR_VELOCITY {
		return nil
	}
	b.angVel = w
	b.SetAwake(true)
	return nil
}

// ApplyForce accumulates a world-space force at a world-space point,
// contributing torque if the point is off-center. Forces are cleared
// after each step's velocity integration.
func (b *Body) ApplyForce(force geo.Vec2, point geo.Vec2) error {
	if math.IsNaN(force.X) || math.IsNaN(force.Y) || math.IsNaN(point.X) || math.IsNaN(point.Y) {
		return errf("Body.ApplyForce", "force=%v point=%v must not be NaN", force, point)
	}
	if b.invMass == 0 {
		return nil
	}
	b.SetAwake(true)
	b.force = b.force.Add(force)
	r := point.Sub(b.WorldCenter())
	b.torque += r.Cross(force)
	return nil
}

// ApplyForceToCenter accumulates a world-space force applied at the
// center of mass, contributing no torque.
func (b *Body) ApplyForceToCenter(force geo.Vec2) error {
	if math.IsNaN(force.X) || math.IsNaN(force.Y) {
		return errf("Body.ApplyForceToCenter", "force=%v must not be NaN", force)
	}
	if b.invMass == 0 {
		return nil
	}
	b.SetAwake(true)
	b.force = b.force.Add(force)
	return nil
}

// ApplyTorque accumulates a torque about the center of mass.
func (b *Body) ApplyTorque(torque float64) error {
	if math.IsNaN(torque) {
		return errf("Body.ApplyTorque", "torque=%v must not be NaN", torque)
	}
	if b.invInertia == 0 {
		return nil
	}
	b.SetAwake(true)
	b.torque += torque
	return nil
}

// ApplyLinearImpulse applies an instantaneous impulse at a world-space
// point, immediately changing velocity (not force).
func (b *Body) ApplyLinearImpulse(impulse geo.Vec2, point geo.Vec2) error {
	if math.IsNaN(impulse.X) || math.IsNaN(impulse.Y) || math.IsNaN(point.X) || math.IsNaN(point.Y) {
		return errf("Body.ApplyLinearImpulse", "impulse=%v point=%v must not be NaN", impulse, point)
	}
	if b.invMass == 0 {
		return nil
	}
	b.SetAwake(true)
	b.linVel = b.linVel.Add(impulse.Scale(b.invMass))
	r := point.Sub(b.WorldCenter())
	b.angVel += b.invInertia * r.Cross(impulse)
	return nil
}

// ApplyAngularImpulse applies an instantaneous angular impulse.
func (b *Body) ApplyAngularImpulse(impulse float64) error {
	if math.IsNaN(impulse) {
		return errf("Body.ApplyAngularImpulse", "impulse=%v must not be NaN", impulse)
	}
	if b.invInertia == 0 {
		return nil
	}
	b.SetAwake(true)
	b.angVel += b.invInertia * impulse
	return nil
}

// applyImpulseAtOffset applies impulse at the point r (offset from the
// body's center of mass, in world orientation), the form the contact and
// joint solvers use since they already have r on hand and solve many
// bodies per step; unlike ApplyLinearImpulse it does not force the body
// awake, since the solver only ever runs on already-awake islands.
func (b *Body) applyImpulseAtOffset(impulse geo.Vec2, r geo.Vec2) {
	b.linVel = b.linVel.Add(impulse.Scale(b.invMass))
	b.angVel += b.invInertia * r.Cross(impulse)
}

// nudgeAngularVelocity adjusts angular velocity directly by delta, for
// joints whose motor/limit constraints act purely on relative rotation.
func (b *Body) nudgeAngularVelocity(delta float64) { b.angVel += delta }

// nudgeAngle rotates the body in place by delta about its own center of
// mass, the position-solver counterpart to nudgeAngularVelocity.
func (b *Body) nudgeAngle(delta float64) {
	center := b.WorldCenter()
	b.transform.Rot = geo.NewRotation(b.transform.Rot.Angle() + delta)
	b.transform.Pos = center.Sub(b.transform.Rot.Rotate(b.localCom))
}

// beginSweep records the body's current pose as the start point of this
// step's continuous-collision sweep, to be called before
// integratePosition advances it to the end point.
func (b *Body) beginSweep() {
	b.sweepCenter0 = b.WorldCenter()
	b.sweepAngle0 = b.Angle()
}

// maxFixtureExtent returns the furthest any attached fixture's shape
// reaches from the body's center of mass, used to bound how fast
// rotation alone can move a point during continuous collision detection.
func (b *Body) maxFixtureExtent() float64 {
	max := 0.0
	for _, fid := range b.fixtures {
		f := b.world.fixture(fid)
		if f == nil {
			continue
		}
		aabb := f.shape.ComputeAABB(geo.Transform{Rot: geo.Ident()})
		for _, corner := range []geo.Vec2{aabb.Min, aabb.Max, geo.V2(aabb.Min.X, aabb.Max.Y), geo.V2(aabb.Max.X, aabb.Min.Y)} {
			d := corner.Sub(b.localCom).Len()
			if d > max {
				max = d
			}
		}
	}
	return max
}

// applyPositionImpulse nudges the body's center and angle directly by a
// pseudo-impulse at offset r, the Nonlinear-Gauss-Seidel position
// correction the joint and contact position solvers run after velocity
// resolution to remove residual penetration/drift without touching
// velocity.
func (b *Body) applyPositionImpulse(impulse geo.Vec2, r geo.Vec2) {
	center := b.WorldCenter().Add(impulse.Scale(b.invMass))
	angle := b.transform.Rot.Angle() + b.invInertia*r.Cross(impulse)
	b.transform.Rot = geo.NewRotation(angle)
	b.transform.Pos = center.Sub(b.transform.Rot.Rotate(b.localCom))
}

// ClearAccumulators zeroes the body's accumulated force and torque; called
// at the end of velocity integration each step.
func (b *Body) ClearAccumulators() {
	b.force = geo.Vec2{}
	b.torque = 0
}

// Mass returns the body's mass (zero for immovable bodies).
func (b *Body) Mass() float64 { return b.mass }

// InvMass returns the body's inverse mass.
func (b *Body) InvMass() float64 { return b.invMass }

// Inertia returns the body's rotational inertia about its center of mass.
func (b *Body) Inertia() float64 { return b.inertia }

// InvInertia returns the body's inverse rotational inertia.
func (b *Body) InvInertia() float64 { return b.invInertia }

// MassType returns the body's mass type.
func (b *Body) MassType() MassType { return b.massType }

// SetMassType changes how the solver is allowed to move the body and
// recomputes InvMass/InvInertia accordingly: INFINITE and the FIXED_*
// variants zero out the corresponding inverse terms per the invariant
// that inverse mass/inertia are zero iff that axis is immovable.
func (b *Body) SetMassType(t MassType) {
	b.massType = t
	b.resetMass()
}

// ResetMassFromFixtures recomputes mass, center of mass and inertia by
// composing the MassData of every attached fixture (density-weighted),
// then applies the mass-type rule on top. Call after adding/removing
// fixtures so the body's mass reflects its current shape set.
func (b *Body) ResetMassFromFixtures() {
	if b.world == nil || len(b.fixtures) == 0 {
		b.mass, b.inertia = 0, 0
		b.localCom = geo.Vec2{}
		b.resetMass()
		return
	}
	parts := make([]MassData, 0, len(b.fixtures))
	for _, fid := range b.fixtures {
		f := b.world.fixture(fid)
		if f.Density == 0 {
			continue
		}
		parts = append(parts, f.shape.CreateMass(f.Density))
	}
	combined := ComposeMass(parts)
	b.mass = combined.Mass
	b.inertia = combined.Inertia
	b.localCom = combined.Center
	b.resetMass()
}

// resetMass derives InvMass/InvInertia from Mass/Inertia and MassType.
func (b *Body) resetMass() {
	switch b.massType {
	case INFINITE, FIXED_LINEAR_AND_ANGULAR_VELOCITY:
		b.invMass, b.invInertia = 0, 0
	case FIXED_LINEAR_VELOCITY:
		b.invMass = 0
		b.invInertia = invOf(b.inertia)
	case FIXED_ANGULAR_VELOCITY:
		b.invMass = invOf(b.mass)
		b.invInertia = 0
	default: // NORMAL
		b.invMass = invOf(b.mass)
		b.invInertia = invOf(b.inertia)
	}
}

func invOf(x float64) float64 {
	if x <= geo.Epsilon {
		return 0
	}
	return 1.0 / x
}

// IsDynamic returns true if the body has finite mass and can move.
func (b *Body) IsDynamic() bool { return b.invMass != 0 || b.invInertia != 0 }

// IsStatic returns true if the body is immovable in every axis and carries
// zero velocity, i.e. it never participates in island traversal as a root.
func (b *Body) IsStatic() bool {
	return b.massType == INFINITE && b.linVel.LenSqr() == 0 && b.angVel == 0
}

// Awake returns true if the body is currently simulated.
func (b *Body) Awake() bool { return b.awake }

// SetAwake wakes or puts the body to sleep. Putting a body to sleep
// zeroes its velocities and accumulators, per the sleeping-body invariant.
func (b *Body) SetAwake(awake bool) {
	if awake {
		b.sleepTime = 0
	} else {
		b.linVel = geo.Vec2{}
		b.angVel = 0
		b.ClearAccumulators()
	}
	b.awake = awake
}

// Active returns true if the body currently participates in simulation.
func (b *Body) Active() bool { return b.active }

// SetActive toggles whether the body participates in broadphase/narrowphase/solving at all.
func (b *Body) SetActive(active bool) { b.active = active }

// AutoSleepEnabled returns true if the body is allowed to fall asleep on its own.
func (b *Body) AutoSleepEnabled() bool { return b.autoSleep }

// SetAutoSleepEnabled toggles automatic sleeping for this body.
func (b *Body) SetAutoSleepEnabled(enabled bool) {
	b.autoSleep = enabled
	if enabled {
		return
	}
	b.SetAwake(true)
}

// Bullet returns true if the body is flagged for continuous collision
// detection. A bullet's motion is swept against non-dynamic bodies and
// other bullets; other dynamic bodies are not checked.
func (b *Body) Bullet() bool { return b.bullet }

// SetBullet sets the bullet (CCD-eligible) flag.
func (b *Body) SetBullet(bullet bool) { b.bullet = bullet }

// GravityScale returns the multiplier applied to world gravity for this body.
func (b *Body) GravityScale() float64 { return b.gravityScale }

// SetGravityScale sets the multiplier applied to world gravity for this body.
func (b *Body) SetGravityScale(scale float64) { b.gravityScale = scale }

// LinearDamping returns the body's linear velocity damping coefficient.
func (b *Body) LinearDamping() float64 { return b.linDamp }

// SetLinearDamping sets the body's linear velocity damping coefficient.
func (b *Body) SetLinearDamping(d float64) { b.linDamp = d }

// AngularDamping returns the body's angular velocity damping coefficient.
func (b *Body) AngularDamping() float64 { return b.angDamp }

// SetAngularDamping sets the body's angular velocity damping coefficient.
func (b *Body) SetAngularDamping(d float64) { b.angDamp = d }

// Fixtures returns the ids of fixtures attached to this body.
func (b *Body) Fixtures() []FixtureId { return b.fixtures }

// integrateVelocity applies one step's worth of gravity, accumulated
// force/torque and damping, per spec.md §4.7 step 1.
func (b *Body) integrateVelocity(dt float64, gravity geo.Vec2) {
	if b.invMass == 0 && b.invInertia == 0 {
		return
	}
	if b.invMass != 0 && b.massType != FIXED_LINEAR_VELOCITY {
		accel := gravity.Scale(b.gravityScale).Add(b.force.Scale(b.invMass))
		b.linVel = b.linVel.Add(accel.Scale(dt))
		b.linVel = b.linVel.Scale(1.0 / (1.0 + dt*b.linDamp))
	}
	if b.invInertia != 0 && b.massType != FIXED_ANGULAR_VELOCITY {
		b.angVel += dt * b.invInertia * b.torque
		b.angVel *= 1.0 / (1.0 + dt*b.angDamp)
	}
	b.ClearAccumulators()
}

// clampVelocity caps linear and angular speed to the settings' per-step maximums.
func (b *Body) clampVelocity(maxLinear, maxAngular, dt float64) {
	maxLinPerStep := maxLinear / dt
	if l := b.linVel.Len(); l > maxLinPerStep && l > geo.Epsilon {
		b.linVel = b.linVel.Scale(maxLinPerStep / l)
	}
	maxAngPerStep := maxAngular / dt
	if math.Abs(b.angVel) > maxAngPerStep {
		b.angVel = math.Copysign(maxAngPerStep, b.angVel)
	}
}

// integratePosition advances the body's pose by its current velocity,
// per spec.md §4.7 step 4.
func (b *Body) integratePosition(dt float64) {
	com := b.WorldCenter().Add(b.linVel.Scale(dt))
	angle := b.Angle() + b.angVel*dt
	rot := geo.NewRotation(angle)
	// transform.Pos is the body's *origin*; recover it from the advanced COM.
	origin := com.Sub(rot.Rotate(b.localCom))
	b.transform = geo.Transform{Pos: origin, Rot: rot}
}
