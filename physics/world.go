// Copyright © 2024 drax contributors.

package physics

import (
	"log/slog"
	"math"
	"sort"

	"github.com/drax2d/drax/geo"
)

// World owns every Body, Fixture and Joint in a simulation and drives
// the step pipeline: broadphase pair generation, narrowphase/contact
// reconciliation, island building, Sequential-Impulses solving and
// continuous collision detection.
type World struct {
	settings *Settings
	gravity  geo.Vec2

	bodies   map[BodyId]*Body
	fixtures map[FixtureId]*Fixture
	joints   map[JointId]Joint

	nextBodyId    BodyId
	nextFixtureId FixtureId
	nextJointId   JointId

	broadphase *Broadphase
	contacts   *ContactManager

	stepListeners []StepListener
	destruction   DestructionListener
	bounds        *geo.AABB
	boundListener BoundListener

	log *slog.Logger
}

// NewWorld constructs an empty world with the given settings (use
// DefaultSettings if the caller has no special tuning).
func NewWorld(settings *Settings) *World {
	if settings == nil {
		settings = DefaultSettings()
	}
	w := &World{
		settings: settings,
		gravity:  geo.V2(settings.Gravity.X, settings.Gravity.Y),
		bodies:   make(map[BodyId]*Body),
		fixtures: make(map[FixtureId]*Fixture),
		joints:   make(map[JointId]Joint),
		log:      slog.Default(),
	}
	w.broadphase = NewBroadphase()
	w.contacts = newContactManager(w)
	return w
}

// SetContactListener installs the listener notified of contact
// begin/persist/end/presolve/postsolve events during Step.
func (w *World) SetContactListener(l ContactListener) { w.contacts.SetListener(l) }

// AddStepListener registers a listener notified before and after every
// Step.
func (w *World) AddStepListener(l StepListener) { w.stepListeners = append(w.stepListeners, l) }

// SetDestructionListener installs the listener notified when a joint is
// implicitly destroyed by RemoveBody.
func (w *World) SetDestructionListener(l DestructionListener) { w.destruction = l }

// SetBounds configures an optional world boundary; bodies whose center
// leaves it are reported to the BoundListener each step.
func (w *World) SetBounds(bounds geo.AABB, l BoundListener) {
	w.bounds = &bounds
	w.boundListener = l
}

// SetGravity changes the acceleration applied to every dynamic body's
// velocity integration.
func (w *World) SetGravity(g geo.Vec2) { w.gravity = g }

// Gravity returns the world's current gravity vector.
func (w *World) Gravity() geo.Vec2 { return w.gravity }

// Settings returns the world's tuning, for callers that want to read or
// mutate iteration counts/tolerances in place.
func (w *World) Settings() *Settings { return w.settings }

// AddBody creates a new dynamic body at the given pose and adds it to
// the world. pos and angle must be finite: NaN is a precondition
// failure, not a value the solver can propagate.
func (w *World) AddBody(pos geo.Vec2, angle float64) (*Body, error) {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(angle) {
		return nil, errf("World.AddBody", "pos=%v angle=%v must not be NaN", pos, angle)
	}
	b := newBody(pos, angle)
	b.id = w.nextBodyId
	w.nextBodyId++
	b.world = w
	w.bodies[b.id] = b
	return b, nil
}

// RemoveBody detaches a body's fixtures from the broadphase, destroys
// any joint attached to it (notifying the DestructionListener), and
// removes it from the world. Removing an id not currently in the world
// is a precondition failure.
func (w *World) RemoveBody(id BodyId) error {
	b, ok := w.bodies[id]
	if !ok {
		return errf("World.RemoveBody", "body %d is not in the world", id)
	}
	for _, fid := range b.fixtures {
		w.broadphase.Remove(fid)
		delete(w.fixtures, fid)
	}
	for jid, j := range w.joints {
		if (j.BodyA() != nil && j.BodyA().Id() == id) || (j.BodyB() != nil && j.BodyB().Id() == id) {
			if w.destruction != nil {
				w.destruction.JointDestroyed(j)
			}
			delete(w.joints, jid)
		}
	}
	delete(w.bodies, id)
	return nil
}

// Body looks up a body by id, returning nil if it is not (or no longer)
// in the world.
func (w *World) Body(id BodyId) *Body { return w.bodies[id] }

func (w *World) body(id BodyId) *Body { return w.bodies[id] }

// Bodies returns every body currently in the world, ordered by BodyId.
// Map iteration order is randomized per call, and the step pipeline
// feeds this slice straight into island traversal and solving, so a
// stable order here is what makes Step deterministic across runs.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// AddFixture attaches shape to body with the given material/filter
// properties, recomputing the body's mass from all its fixtures. Density
// must be positive: zero- or negative-density shapes have no well-defined
// mass and are rejected as a precondition failure rather than silently
// producing an infinite-mass or NaN body.
func (w *World) AddFixture(body *Body, shape Shape, density, friction, restitution float64) (*Fixture, error) {
	if density <= 0 {
		return nil, errf("World.AddFixture", "density must be positive, got %f", density)
	}
	if math.IsNaN(density) || math.IsNaN(friction) || math.IsNaN(restitution) {
		return nil, errf("World.AddFixture", "density=%v friction=%v restitution=%v must not be NaN", density, friction, restitution)
	}
	f := &Fixture{
		id:          w.nextFixtureId,
		body:        body.id,
		shape:       shape,
		filter:      DefaultFilter(),
		Friction:    friction,
		Restitution: restitution,
		Density:     density,
	}
	w.nextFixtureId++
	w.fixtures[f.id] = f
	body.fixtures = append(body.fixtures, f.id)
	body.ResetMassFromFixtures()

	aabb := f.computeAABB(body.Transform())
	w.broadphase.Add(f.id, aabb)
	return f, nil
}

func (w *World) fixture(id FixtureId) *Fixture { return w.fixtures[id] }

// Fixture looks up a fixture by id.
func (w *World) Fixture(id FixtureId) *Fixture { return w.fixtures[id] }

// AddJoint adds a pre-constructed joint (see NewDistanceJoint,
// NewRevoluteJoint, etc.) to the world's constraint set. A joint whose
// two bodies are the same body is rejected: a body cannot be joined to
// itself.
func (w *World) AddJoint(j Joint) (JointId, error) {
	if j.BodyA() != nil && j.BodyA() == j.BodyB() {
		return 0, errf("World.AddJoint", "body cannot be joined to itself")
	}
	w.joints[j.Id()] = j
	return j.Id(), nil
}

// NextJointId allocates the next JointId for a joint constructor to use;
// joint constructors take a JointId because the joint struct needs it
// before it can be registered: id := w.NextJointId(); j :=
// NewDistanceJoint(id, a, b, ...); w.AddJoint(j).
func (w *World) NextJointId() JointId {
	id := w.nextJointId
	w.nextJointId++
	return id
}

// RemoveJoint removes a joint from the world's constraint set. Removing
// an id not currently in the world is a precondition failure.
func (w *World) RemoveJoint(id JointId) error {
	if _, ok := w.joints[id]; !ok {
		return errf("World.RemoveJoint", "joint %d is not in the world", id)
	}
	delete(w.joints, id)
	return nil
}

// Joints returns every joint in the world, ordered by JointId (see
// Bodies: map order is randomized per call and feeds straight into
// island solving, so a stable order is required for deterministic
// steps).
func (w *World) Joints() []Joint {
	out := make([]Joint, 0, len(w.joints))
	for _, j := range w.joints {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id() < out[j].Id() })
	return out
}

// Step advances the simulation by dt using the world's configured
// iteration counts.
func (w *World) Step(dt float64) error {
	return w.StepN(dt, w.settings.VelocityIterations, w.settings.PositionIterations)
}

// StepN advances the simulation by dt using explicit iteration counts,
// overriding the world's settings for this call only. dt must be
// non-negative; dt == 0 still rebuilds broadphase/contact state but is a
// no-op on every pose and velocity.
func (w *World) StepN(dt float64, velocityIterations, positionIterations int) error {
	if dt < 0 {
		return errf("World.StepN", "dt was %v for step: dt must be greater than or equal to 0", dt)
	}
	for _, l := range w.stepListeners {
		l.BeforeStep(w, dt)
	}

	pairs := w.broadphase.Detect(func(a, b FixtureId) bool {
		fa, fb := w.fixtures[a], w.fixtures[b]
		return fa != nil && fb != nil && fa.filter.ShouldCollide(fb.filter)
	})
	w.contacts.Update(pairs)

	iterSettings := &Settings{
		VelocityIterations:           velocityIterations,
		PositionIterations:           positionIterations,
		MaxLinearVelocity:            w.settings.MaxLinearVelocity,
		MaxAngularVelocity:           w.settings.MaxAngularVelocity,
		RestitutionVelocityThreshold: w.settings.RestitutionVelocityThreshold,
		LinearSleepTolerance:         w.settings.LinearSleepTolerance,
		AngularSleepTolerance:        w.settings.AngularSleepTolerance,
		TimeToSleep:                  w.settings.TimeToSleep,
		ContinuousEnabled:            w.settings.ContinuousEnabled,
		ToiEpsilon:                   w.settings.ToiEpsilon,
		ToiMaxIterations:             w.settings.ToiMaxIterations,
	}

	bodyList := w.Bodies()
	if dt > 0 {
		islands := buildIslands(bodyList, w.contacts.All(), w.Joints(), w.fixture)
		for _, b := range bodyList {
			if b.IsDynamic() && b.Awake() && b.Active() {
				b.beginSweep()
			}
		}
		for _, island := range islands {
			solveIsland(island, w.gravity, iterSettings, dt, w.fixture)
		}

		resolveContinuous(w)
	}

	for _, b := range bodyList {
		if !b.Active() {
			continue
		}
		var displacement geo.Vec2
		if b.IsDynamic() && b.Awake() {
			displacement = b.WorldCenter().Sub(b.sweepCenter0)
		}
		for _, fid := range b.fixtures {
			f := w.fixtures[fid]
			if f == nil {
				continue
			}
			w.broadphase.Update(fid, f.computeAABB(b.Transform()), displacement)
		}
	}

	if w.bounds != nil && w.boundListener != nil {
		for _, b := range bodyList {
			if !w.bounds.ContainsPoint(b.WorldCenter()) {
				w.boundListener.OutOfBounds(b)
			}
		}
	}

	for _, l := range w.stepListeners {
		l.AfterStep(w, dt)
	}
	return nil
}
