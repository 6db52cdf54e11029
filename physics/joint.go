// Copyright © 2024 drax contributors.

package physics

import "github.com/drax2d/drax/geo"

// JointId is a stable identity for a Joint while it is attached to the
// world, mirroring FixtureId/BodyId's arena-index scheme.
type JointId uint32

// Joint is the common interface every constraint type implements so the
// solver can treat them uniformly during a velocity/position iteration
// pass, independent of the specific constraint geometry.
type Joint interface {
	Id() JointId
	BodyA() *Body
	BodyB() *Body
	Enabled() bool
	SetEnabled(bool)
	CollideConnected() bool

	// initVelocityConstraints computes effective masses and biases that
	// only depend on the bodies' current pose, and applies the previous
	// step's warm-start impulse.
	initVelocityConstraints(dt float64)
	// solveVelocityConstraints runs one Sequential-Impulses velocity
	// iteration, clamping/accumulating the running impulse.
	solveVelocityConstraints(dt float64)
	// solvePositionConstraints runs one Baumgarte-free position
	// correction (Nonlinear Gauss-Seidel) iteration and reports whether
	// the constraint is satisfied within the position solver's
	// tolerance.
	solvePositionConstraints() bool
}

// jointBase holds the fields common to every joint type: identity,
// connected bodies, and the flags the solver and island builder need
// regardless of constraint kind.
type jointBase struct {
	id               JointId
	bodyA, bodyB     *Body
	enabled          bool
	collideConnected bool
}

func newJointBase(id JointId, a, b *Body) jointBase {
	return jointBase{id: id, bodyA: a, bodyB: b, enabled: true}
}

func (j *jointBase) Id() JointId            { return j.id }
func (j *jointBase) BodyA() *Body           { return j.bodyA }
func (j *jointBase) BodyB() *Body           { return j.bodyB }
func (j *jointBase) Enabled() bool          { return j.enabled }
func (j *jointBase) SetEnabled(v bool)      { j.enabled = v }
func (j *jointBase) CollideConnected() bool { return j.collideConnected }

// jointAnchors resolves a joint's local anchor points on each body into
// the current world-space offsets from each body's center of mass, the
// quantities the Sequential-Impulses Jacobian needs every iteration.
func jointAnchors(a, b *Body, localAnchorA, localAnchorB geo.Vec2) (rA, rB geo.Vec2) {
	rA = a.Transform().Rot.Rotate(localAnchorA.Sub(a.LocalCenter()))
	rB = b.Transform().Rot.Rotate(localAnchorB.Sub(b.LocalCenter()))
	return rA, rB
}

// relativeVelocity is the velocity of the point rB on body b relative to
// the point rA on body a, both expressed as offsets from each body's
// center of mass.
func relativeVelocity(a, b *Body, rA, rB geo.Vec2) geo.Vec2 {
	vA := a.LinearVelocity().Add(geo.CrossSV(a.AngularVelocity(), rA))
	vB := b.LinearVelocity().Add(geo.CrossSV(b.AngularVelocity(), rB))
	return vB.Sub(vA)
}

// applyImpulsePair applies +impulse at rB on b and -impulse at rA on a,
// the Newton's-third-law pattern every two-body joint impulse follows.
func applyImpulsePair(a, b *Body, rA, rB geo.Vec2, impulse geo.Vec2) {
	a.applyImpulseAtOffset(impulse.Neg(), rA)
	b.applyImpulseAtOffset(impulse, rB)
}
