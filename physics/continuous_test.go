// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

func TestTimeOfImpactDetectsApproach(t *testing.T) {
	w := NewWorld(DefaultSettings())
	bullet := mustAddBody(t, w, geo.V2(-10, 0), 0)
	bullet.SetBullet(true)
	wall := mustAddBody(t, w, geo.V2(0, 0), 0)

	fBullet, err := w.AddFixture(bullet, NewCircle(0.1), 1, 0.3, 0)
	if err != nil {
		t.Fatalf("AddFixture bullet: %v", err)
	}
	fWall, err := w.AddFixture(wall, NewSegment(geo.V2(0, -5), geo.V2(0, 5)), 1, 0.3, 0)
	if err != nil {
		t.Fatalf("AddFixture wall: %v", err)
	}

	bullet.beginSweep()
	bullet.SetLinearVelocity(geo.V2(1, 0)) // the sweep bound comes from the pose change below, not this velocity
	bullet.SetTransform(geo.V2(10, 0), 0)  // sweeps straight through the wall at x=0

	toi, ok := timeOfImpact(fBullet, fWall, bullet, wall, w.Settings())
	if !ok {
		t.Fatalf("expected the sweep to register a time of impact")
	}
	if toi <= 0 || toi >= 1 {
		t.Errorf("toi = %v, want a fraction strictly between 0 and 1", toi)
	}
}

func TestTimeOfImpactNoApproachReturnsNoHit(t *testing.T) {
	w := NewWorld(DefaultSettings())
	a := mustAddBody(t, w, geo.V2(-10, 0), 0)
	b := mustAddBody(t, w, geo.V2(10, 0), 0)
	fa, err := w.AddFixture(a, NewCircle(0.1), 1, 0.3, 0)
	if err != nil {
		t.Fatalf("AddFixture a: %v", err)
	}
	fb, err := w.AddFixture(b, NewCircle(0.1), 1, 0.3, 0)
	if err != nil {
		t.Fatalf("AddFixture b: %v", err)
	}

	a.beginSweep() // no motion this step: both sweeps are stationary
	toi, ok := timeOfImpact(fa, fb, a, b, w.Settings())
	if ok {
		t.Errorf("two stationary, far-apart bodies should not report a time of impact, got toi=%v", toi)
	}
}

func TestResolveContinuousStopsBulletAtWall(t *testing.T) {
	w := NewWorld(DefaultSettings())
	bullet := mustAddBody(t, w, geo.V2(-1, 0), 0)
	bullet.SetBullet(true)
	wall := mustAddBody(t, w, geo.V2(0, 0), 0)

	if _, err := w.AddFixture(bullet, NewCircle(0.1), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture bullet: %v", err)
	}
	if _, err := w.AddFixture(wall, NewSegment(geo.V2(0, -5), geo.V2(0, 5)), 1, 0.3, 0); err != nil {
		t.Fatalf("AddFixture wall: %v", err)
	}
	wall.SetMassType(INFINITE)

	bullet.SetLinearVelocity(geo.V2(200, 0)) // 3.33m/step: would tunnel through the wall without CCD

	if err := w.Step(1.0 / 60.0); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if bullet.WorldCenter().X >= 0.5 {
		t.Errorf("expected continuous collision to prevent tunneling through the wall, body ended up at x=%v", bullet.WorldCenter().X)
	}
}
