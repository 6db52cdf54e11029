package geo

import "sort"

// Hull computes the counter-clockwise convex hull of points using a
// divide-and-conquer approach over points sorted by x then y: split on
// the median x, recursively hull each half, then merge along the upper
// and lower tangents. Used for user-supplied polygon construction, not
// on the simulation step's hot path.
//
// Points are compared with a stable three-way ordering on the raw
// doubles rather than a signum-of-cast-to-int shortcut, which loses
// ordering for points whose x coordinates are extremely close; ties on x
// break on y so the sort is total and reproducible.
func Hull(points []Vec2) []Vec2 {
	if len(points) < 3 {
		out := make([]Vec2, len(points))
		copy(out, points)
		return out
	}
	pts := make([]Vec2, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pointLess(pts[i], pts[j]) })
	pts = dedupe(pts)
	if len(pts) < 3 {
		return pts
	}
	return hullDivide(pts)
}

// pointLess implements the stable x-then-y ordering described above.
func pointLess(a, b Vec2) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func dedupe(sorted []Vec2) []Vec2 {
	out := sorted[:0:0]
	for i, p := range sorted {
		if i == 0 || !p.Eq(sorted[i-1]) {
			out = append(out, p)
		}
	}
	return out
}

// hullDivide implements the classic divide-and-conquer convex hull:
// split the (already x,y sorted) point set in half, hull each half, then
// merge by finding the upper and lower tangent lines between the two
// sub-hulls.
func hullDivide(pts []Vec2) []Vec2 {
	if len(pts) <= 3 {
		return grahamSmall(pts)
	}
	mid := len(pts) / 2
	left := hullDivide(pts[:mid])
	right := hullDivide(pts[mid:])
	return mergeHulls(left, right)
}

// grahamSmall returns the CCW hull of 3 or fewer points directly.
func grahamSmall(pts []Vec2) []Vec2 {
	if len(pts) < 3 {
		return pts
	}
	a, b, c := pts[0], pts[1], pts[2]
	if b.Sub(a).Cross(c.Sub(a)) < 0 {
		a, c = c, a
	}
	return []Vec2{a, b, c}
}

// mergeHulls joins two CCW hulls, assumed to be horizontally separated
// (left entirely to the west of right), via their upper and lower
// tangent lines, producing a single CCW hull.
func mergeHulls(left, right []Vec2) []Vec2 {
	// Rightmost point of left, leftmost point of right.
	li := rightmostIndex(left)
	ri := leftmostIndex(right)

	// Upper tangent: walk li up the left hull (CCW, i.e. increasing index)
	// and ri up the right hull (CW, decreasing index) until the segment
	// is tangent to both.
	upperL, upperR := li, ri
	for {
		moved := false
		for {
			prev := (upperR - 1 + len(right)) % len(right)
			if left[upperL].Sub(right[upperR]).Cross(right[prev].Sub(right[upperR])) < 0 {
				upperR = prev
				moved = true
			} else {
				break
			}
		}
		for {
			next := (upperL + 1) % len(left)
			if right[upperR].Sub(left[upperL]).Cross(left[next].Sub(left[upperL])) > 0 {
				upperL = next
				moved = true
			} else {
				break
			}
		}
		if !moved {
			break
		}
	}

	// Lower tangent: symmetric walk in the opposite directions.
	lowerL, lowerR := li, ri
	for {
		moved := false
		for {
			next := (lowerR + 1) % len(right)
			if left[lowerL].Sub(right[lowerR]).Cross(right[next].Sub(right[lowerR])) > 0 {
				lowerR = next
				moved = true
			} else {
				break
			}
		}
		for {
			prev := (lowerL - 1 + len(left)) % len(left)
			if right[lowerR].Sub(left[lowerL]).Cross(left[prev].Sub(left[lowerL])) < 0 {
				lowerL = prev
				moved = true
			} else {
				break
			}
		}
		if !moved {
			break
		}
	}

	out := []Vec2{}
	i := upperL
	for {
		out = append(out, left[i])
		if i == lowerL {
			break
		}
		i = (i + 1) % len(left)
	}
	i = lowerR
	for {
		out = append(out, right[i])
		if i == upperR {
			break
		}
		i = (i + 1) % len(right)
	}
	return out
}

func rightmostIndex(pts []Vec2) int {
	best := 0
	for i, p := range pts {
		if p.X > pts[best].X {
			best = i
		}
	}
	return best
}

func leftmostIndex(pts []Vec2) int {
	best := 0
	for i, p := range pts {
		if p.X < pts[best].X {
			best = i
		}
	}
	return best
}
