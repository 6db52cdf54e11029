// Copyright © 2024 drax contributors.

package physics

import "github.com/drax2d/drax/geo"

// Solver tuning constants shared by the contact and joint position
// solvers. These mirror the standard Sequential-Impulses defaults: a
// small allowed penetration slop so resting contacts don't jitter while
// the solver fights to remove the last fraction of overlap, and a cap on
// how much a single position iteration may correct to keep the
// linearized correction stable for deep, fast overlaps.
const (
	linearSlop          = 0.005
	maxLinearCorrection = 0.2
	baumgarteFactor     = 0.2
)

// applyPositionCorrection applies a pseudo-impulse p at offset r on body
// b during the position-correction pass.
func applyPositionCorrection(b *Body, r geo.Vec2, p geo.Vec2) {
	b.applyPositionImpulse(p, r)
}
