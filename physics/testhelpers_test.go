// Copyright © 2024 drax contributors.

package physics

import (
	"testing"

	"github.com/drax2d/drax/geo"
)

// mustAddBody adds a body and fails the test immediately if pos/angle
// are rejected (e.g. NaN), so call sites that only care about the happy
// path don't have to repeat the same error check everywhere.
func mustAddBody(t *testing.T, w *World, pos geo.Vec2, angle float64) *Body {
	t.Helper()
	b, err := w.AddBody(pos, angle)
	if err != nil {
		t.Fatalf("AddBody(%v, %v): %v", pos, angle, err)
	}
	return b
}
