// Copyright © 2024 drax contributors.

package physics

// ContactListener receives notifications as the contact manager
// reconciles fixture pairs each step. Begin/End fire once per touching
// transition; Persist fires on every subsequent step a contact remains
// touching. PreSolve runs before narrowphase and may disable a contact
// for this step (e.g. one-way platforms); PostSolve runs after the
// solver has computed impulses, for sound/particle effect hooks.
type ContactListener interface {
	Begin(c *Contact)
	Persist(c *Contact)
	End(c *Contact)
	PreSolve(c *Contact)
	PostSolve(c *Contact, normalImpulse, tangentImpulse float64)
}

// BaseContactListener is an embeddable no-op implementation so callers
// only need to override the events they care about.
type BaseContactListener struct{}

func (BaseContactListener) Begin(c *Contact)                                       {}
func (BaseContactListener) Persist(c *Contact)                                     {}
func (BaseContactListener) End(c *Contact)                                         {}
func (BaseContactListener) PreSolve(c *Contact)                                    {}
func (BaseContactListener) PostSolve(c *Contact, normalImpulse, tangentImpulse float64) {}

// StepListener receives a notification before and after each world step.
type StepListener interface {
	BeforeStep(w *World, dt float64)
	AfterStep(w *World, dt float64)
}

// DestructionListener is notified when a joint is implicitly destroyed
// because one of the bodies it connects was removed from the world.
type DestructionListener interface {
	JointDestroyed(j Joint)
}

// BoundListener is notified when a body leaves the world's configured
// simulation bounds, if any.
type BoundListener interface {
	OutOfBounds(b *Body)
}
