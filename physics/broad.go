// Copyright © 2024 drax contributors.

package physics

import (
	"github.com/drax2d/drax/geo"
)

// aabbMargin fattens every AABB stored in the broadphase tree so that
// small motions don't require a tree update; see spec.md §4.2.
const aabbMargin = 0.2

// Pair is a candidate overlapping fixture pair produced by the broadphase.
type Pair struct {
	A, B FixtureId
}

const nullNode = -1

// treeNode is a node of the dynamic AABB tree. Leaves carry a fixture id;
// internal nodes carry the union of their two children's fat AABBs.
type treeNode struct {
	aabb           geo.AABB
	fixture        FixtureId
	isLeaf         bool
	parent, c1, c2 int32
	height         int32
}

// Broadphase maintains a dynamic AABB tree over fixture (fattened) AABBs,
// balanced by rotations using a surface-area heuristic, as specified in
// spec.md §4.2. It produces candidate overlapping pairs each step and
// supports add/remove/update, region queries and ray queries.
type Broadphase struct {
	nodes  []treeNode
	free   int32
	root   int32
	leafOf map[FixtureId]int32
	moved  []int32 // leaves whose fat AABB changed since the last Detect call.
}

// NewBroadphase returns an empty broadphase index.
func NewBroadphase() *Broadphase {
	return &Broadphase{root: nullNode, free: nullNode, leafOf: map[FixtureId]int32{}}
}

func (bp *Broadphase) allocNode() int32 {
	if bp.free == nullNode {
		bp.nodes = append(bp.nodes, treeNode{c1: nullNode, c2: nullNode, parent: nullNode})
		return int32(len(bp.nodes) - 1)
	}
	idx := bp.free
	bp.free = bp.nodes[idx].c1
	bp.nodes[idx] = treeNode{c1: nullNode, c2: nullNode, parent: nullNode}
	return idx
}

func (bp *Broadphase) freeNode(idx int32) {
	bp.nodes[idx].c1 = bp.free
	bp.free = idx
}

// Add inserts fixture with the given tight AABB, fattening it by the margin.
func (bp *Broadphase) Add(fixture FixtureId, tight geo.AABB) {
	leaf := bp.allocNode()
	bp.nodes[leaf].isLeaf = true
	bp.nodes[leaf].fixture = fixture
	bp.nodes[leaf].aabb = tight.Expand(aabbMargin)
	bp.nodes[leaf].height = 0
	bp.leafOf[fixture] = leaf
	bp.insertLeaf(leaf)
	bp.moved = append(bp.moved, leaf)
}

// Remove deletes fixture from the index.
func (bp *Broadphase) Remove(fixture FixtureId) {
	leaf, ok := bp.leafOf[fixture]
	if !ok {
		return
	}
	bp.removeLeaf(leaf)
	bp.freeNode(leaf)
	delete(bp.leafOf, fixture)
}

// Update refreshes fixture's AABB. It is a no-op (no tree change) if the
// tight AABB is still contained in the stored fat AABB; otherwise the
// leaf is removed and reinserted with a new fat AABB extended along the
// displacement vector, so that fast-moving fixtures get a predictive margin.
func (bp *Broadphase) Update(fixture FixtureId, tight geo.AABB, displacement geo.Vec2) bool {
	leaf, ok := bp.leafOf[fixture]
	if !ok {
		return false
	}
	if bp.nodes[leaf].aabb.Contains(tight) {
		return false
	}
	fat := tight.Expand(aabbMargin)
	const predictiveFactor = 4.0
	pred := displacement.Scale(predictiveFactor)
	lo, hi := fat.Min, fat.Max
	if pred.X < 0 {
		lo.X += pred.X
	} else {
		hi.X += pred.X
	}
	if pred.Y < 0 {
		lo.Y += pred.Y
	} else {
		hi.Y += pred.Y
	}
	fat = geo.NewAABB(lo, hi)

	bp.removeLeaf(leaf)
	bp.nodes[leaf].aabb = fat
	bp.insertLeaf(leaf)
	bp.moved = append(bp.moved, leaf)
	return true
}

// insertLeaf implements the standard dynamic-tree insertion: descend from
// the root choosing at each step the sibling whose union with the new
// leaf costs least (surface-area heuristic, perimeter in 2D), then
// rebalance ancestors with rotations.
func (bp *Broadphase) insertLeaf(leaf int32) {
	if bp.root == nullNode {
		bp.root = leaf
		bp.nodes[leaf].parent = nullNode
		return
	}

	leafAABB := bp.nodes[leaf].aabb
	index := bp.root
	for !bp.nodes[index].isLeaf {
		c1, c2 := bp.nodes[index].c1, bp.nodes[index].c2
		area := bp.nodes[index].aabb.Perimeter()
		combined := bp.nodes[index].aabb.Union(leafAABB)
		combinedArea := combined.Perimeter()

		cost := 2 * combinedArea
		inheritCost := 2 * (combinedArea - area)

		cost1 := bp.childCost(c1, leafAABB) + inheritCost
		cost2 := bp.childCost(c2, leafAABB) + inheritCost

		if cost < cost1 && cost < cost2 {
			break
		}
		if cost1 < cost2 {
			index = c1
		} else {
			index = c2
		}
	}

	sibling := index
	oldParent := bp.nodes[sibling].parent
	newParent := bp.allocNode()
	bp.nodes[newParent].parent = oldParent
	bp.nodes[newParent].aabb = leafAABB.Union(bp.nodes[sibling].aabb)
	bp.nodes[newParent].height = bp.nodes[sibling].height + 1

	if oldParent != nullNode {
		if bp.nodes[oldParent].c1 == sibling {
			bp.nodes[oldParent].c1 = newParent
		} else {
			bp.nodes[oldParent].c2 = newParent
		}
		bp.nodes[newParent].c1 = sibling
		bp.nodes[newParent].c2 = leaf
		bp.nodes[sibling].parent = newParent
		bp.nodes[leaf].parent = newParent
	} else {
		bp.nodes[newParent].c1 = sibling
		bp.nodes[newParent].c2 = leaf
		bp.nodes[sibling].parent = newParent
		bp.nodes[leaf].parent = newParent
		bp.root = newParent
	}

	bp.fixupAncestors(bp.nodes[leaf].parent)
}

func (bp *Broadphase) childCost(child int32, leafAABB geo.AABB) float64 {
	if bp.nodes[child].isLeaf {
		return leafAABB.Union(bp.nodes[child].aabb).Perimeter()
	}
	oldArea := bp.nodes[child].aabb.Perimeter()
	newArea := leafAABB.Union(bp.nodes[child].aabb).Perimeter()
	return newArea - oldArea
}

// fixupAncestors walks from index to the root, refitting AABBs and
// rebalancing with rotations so that the tree height stays logarithmic.
func (bp *Broadphase) fixupAncestors(index int32) {
	for index != nullNode {
		index = bp.balance(index)
		c1, c2 := bp.nodes[index].c1, bp.nodes[index].c2
		bp.nodes[index].height = 1 + maxI32(bp.nodes[c1].height, bp.nodes[c2].height)
		bp.nodes[index].aabb = bp.nodes[c1].aabb.Union(bp.nodes[c2].aabb)
		index = bp.nodes[index].parent
	}
}

// balance performs a single AVL-style rotation at index if its children's
// heights differ by more than one, returning the (possibly new) root of
// the rebalanced subtree.
func (bp *Broadphase) balance(index int32) int32 {
	a := index
	if bp.nodes[a].isLeaf || bp.nodes[a].height < 2 {
		return a
	}
	b, c := bp.nodes[a].c1, bp.nodes[a].c2
	balanceFactor := bp.nodes[c].height - bp.nodes[b].height

	if balanceFactor > 1 {
		return bp.rotate(a, c, b, true)
	}
	if balanceFactor < -1 {
		return bp.rotate(a, b, c, false)
	}
	return a
}

// rotate promotes heavy (the taller child) into a's place and makes a its
// child; light (the other child) stays under a, joined there by heavy's
// shorter child. Classic AVL-tree surgery.
func (bp *Broadphase) rotate(a, heavy, light int32, heavyIsC2 bool) int32 {
	f, g := bp.nodes[heavy].c1, bp.nodes[heavy].c2
	heavyParent := bp.nodes[a].parent
	bp.nodes[heavy].parent = heavyParent
	if heavyParent != nullNode {
		if bp.nodes[heavyParent].c1 == a {
			bp.nodes[heavyParent].c1 = heavy
		} else {
			bp.nodes[heavyParent].c2 = heavy
		}
	} else {
		bp.root = heavy
	}

	// Keep the taller of f/g with heavy; push the shorter one down to
	// swap places with a.
	var swap, keep int32
	if bp.nodes[f].height > bp.nodes[g].height {
		swap, keep = g, f
	} else {
		swap, keep = f, g
	}
	if heavyIsC2 {
		bp.nodes[heavy].c1 = a
		bp.nodes[heavy].c2 = keep
		bp.nodes[a].c2 = swap
	} else {
		bp.nodes[heavy].c2 = a
		bp.nodes[heavy].c1 = keep
		bp.nodes[a].c1 = swap
	}
	bp.nodes[swap].parent = a
	bp.nodes[a].parent = heavy

	bp.nodes[a].aabb = bp.nodes[light].aabb.Union(bp.nodes[swap].aabb)
	bp.nodes[a].height = 1 + maxI32(bp.nodes[light].height, bp.nodes[swap].height)
	bp.nodes[heavy].aabb = bp.nodes[a].aabb.Union(bp.nodes[keep].aabb)
	bp.nodes[heavy].height = 1 + maxI32(bp.nodes[a].height, bp.nodes[keep].height)
	return heavy
}

func (bp *Broadphase) removeLeaf(leaf int32) {
	if leaf == bp.root {
		bp.root = nullNode
		return
	}
	parent := bp.nodes[leaf].parent
	grandparent := bp.nodes[parent].parent
	var sibling int32
	if bp.nodes[parent].c1 == leaf {
		sibling = bp.nodes[parent].c2
	} else {
		sibling = bp.nodes[parent].c1
	}

	if grandparent != nullNode {
		if bp.nodes[grandparent].c1 == parent {
			bp.nodes[grandparent].c1 = sibling
		} else {
			bp.nodes[grandparent].c2 = sibling
		}
		bp.nodes[sibling].parent = grandparent
		bp.freeNode(parent)
		bp.fixupAncestors(grandparent)
	} else {
		bp.root = sibling
		bp.nodes[sibling].parent = nullNode
		bp.freeNode(parent)
	}
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// PairFilterFunc allows the caller (the contact manager) to veto a
// candidate pair for reasons outside the tree's knowledge: same body,
// category/mask/group filtering, or a listener veto.
type PairFilterFunc func(a, b FixtureId) bool

// Detect descends the tree gathering every leaf-leaf overlap, visiting
// leaves in node order, each pair reported once with the lower FixtureId
// first, and clears the moved list.
func (bp *Broadphase) Detect(filter PairFilterFunc) []Pair {
	seen := map[Pair]struct{}{}
	var pairs []Pair
	for i := range bp.nodes {
		leaf := int32(i)
		if !bp.nodes[leaf].isLeaf || bp.leafOf[bp.nodes[leaf].fixture] != leaf {
			continue
		}
		bp.queryNode(bp.root, leaf, func(other int32) {
			if other == leaf {
				return
			}
			a, b := bp.nodes[leaf].fixture, bp.nodes[other].fixture
			if a == b {
				return
			}
			if a > b {
				a, b = b, a
			}
			p := Pair{A: a, B: b}
			if _, dup := seen[p]; dup {
				return
			}
			if filter != nil && !filter(p.A, p.B) {
				return
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		})
	}
	bp.moved = bp.moved[:0]
	return pairs
}

func (bp *Broadphase) queryNode(node, leaf int32, visit func(int32)) {
	if node == nullNode {
		return
	}
	if !bp.nodes[node].aabb.Intersects(bp.nodes[leaf].aabb) {
		return
	}
	if bp.nodes[node].isLeaf {
		visit(node)
		return
	}
	bp.queryNode(bp.nodes[node].c1, leaf, visit)
	bp.queryNode(bp.nodes[node].c2, leaf, visit)
}

// Query returns the fixtures whose fat AABB overlaps region.
func (bp *Broadphase) Query(region geo.AABB) []FixtureId {
	var out []FixtureId
	bp.walk(bp.root, func(node int32) bool {
		return bp.nodes[node].aabb.Intersects(region)
	}, func(leaf int32) {
		out = append(out, bp.nodes[leaf].fixture)
	})
	return out
}

// RayQuery returns the fixtures whose fat AABB the ray may hit within maxFraction.
func (bp *Broadphase) RayQuery(ray geo.Ray, maxFraction float64) []FixtureId {
	var out []FixtureId
	bp.walk(bp.root, func(node int32) bool {
		return ray.Cast(bp.nodes[node].aabb, maxFraction).Hit
	}, func(leaf int32) {
		out = append(out, bp.nodes[leaf].fixture)
	})
	return out
}

func (bp *Broadphase) walk(node int32, prune func(int32) bool, visit func(int32)) {
	if node == nullNode || !prune(node) {
		return
	}
	if bp.nodes[node].isLeaf {
		visit(node)
		return
	}
	bp.walk(bp.nodes[node].c1, prune, visit)
	bp.walk(bp.nodes[node].c2, prune, visit)
}

// FatAABB returns the currently stored fat AABB for fixture, for debug/testing.
func (bp *Broadphase) FatAABB(fixture FixtureId) (geo.AABB, bool) {
	leaf, ok := bp.leafOf[fixture]
	if !ok {
		return geo.AABB{}, false
	}
	return bp.nodes[leaf].aabb, true
}
