// Copyright © 2024 drax contributors.

// Package physics implements a 2D rigid-body simulation core: broadphase
// pair generation over a dynamic AABB tree, GJK/EPA narrowphase with
// clipped contact manifolds, a Sequential-Impulses velocity/position
// solver for contacts and joints, and conservative-advancement continuous
// collision detection for fast-moving bodies.
package physics
