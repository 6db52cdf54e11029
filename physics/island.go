// Copyright © 2024 drax contributors.

package physics

// Island is a connected group of awake dynamic bodies together with the
// contacts and joints linking them — the unit the constraint solver
// processes independently each step, and the unit whose sleep timers are
// aggregated to decide whether the whole group can go to sleep at once.
type Island struct {
	Bodies   []*Body
	Contacts []*Contact
	Joints   []Joint
}

// buildIslands partitions the world's awake dynamic bodies into islands
// by traversing the graph of touching, non-sensor, enabled contacts and
// enabled joints. Non-dynamic bodies are never added to an island and
// never propagate a traversal, so a static body does not join two
// otherwise-unconnected dynamic islands; the solver reaches them through
// the island's contacts and joints. A sleeping dynamic body reached from
// an awake one is woken and joins that island. fixtureOf looks fixtures
// up by id; their owning bodies are found among bodies.
func buildIslands(bodies []*Body, contacts []*Contact, joints []Joint, fixtureOf func(FixtureId) *Fixture) []*Island {
	visited := make(map[BodyId]bool)

	byId := make(map[BodyId]*Body, len(bodies))
	for _, b := range bodies {
		if b != nil {
			byId[b.Id()] = b
		}
	}
	fixtureOwner := func(id FixtureId) *Body {
		if f := fixtureOf(id); f != nil {
			return byId[f.body]
		}
		return nil
	}

	adjContacts := make(map[BodyId][]*Contact)
	adjJoints := make(map[BodyId][]Joint)

	for _, c := range contacts {
		if c.Sensor || !c.Enabled || !c.Touching {
			continue
		}
		a := fixtureOwner(c.FixtureA)
		b := fixtureOwner(c.FixtureB)
		if a == nil || b == nil {
			continue
		}
		adjContacts[a.Id()] = append(adjContacts[a.Id()], c)
		adjContacts[b.Id()] = append(adjContacts[b.Id()], c)
	}
	for _, j := range joints {
		if !j.Enabled() {
			continue
		}
		if jb := j.BodyB(); jb != nil {
			adjJoints[jb.Id()] = append(adjJoints[jb.Id()], j)
		}
		if ja := j.BodyA(); ja != nil {
			adjJoints[ja.Id()] = append(adjJoints[ja.Id()], j)
		}
	}

	var islands []*Island
	for _, seed := range bodies {
		if seed == nil || visited[seed.Id()] || !seed.IsDynamic() || !seed.Awake() || !seed.Active() {
			continue
		}

		island := &Island{}
		stack := []*Body{seed}
		visited[seed.Id()] = true
		contactSet := make(map[*Contact]bool)
		jointSet := make(map[Joint]bool)

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			island.Bodies = append(island.Bodies, b)

			for _, c := range adjContacts[b.Id()] {
				if !contactSet[c] {
					contactSet[c] = true
					island.Contacts = append(island.Contacts, c)
				}
				other := otherBody(fixtureOwner, c, b)
				if other != nil && other.IsDynamic() && !visited[other.Id()] {
					visited[other.Id()] = true
					other.SetAwake(true)
					stack = append(stack, other)
				}
			}
			for _, j := range adjJoints[b.Id()] {
				if !jointSet[j] {
					jointSet[j] = true
					island.Joints = append(island.Joints, j)
				}
				other := otherJointBody(j, b)
				if other != nil && other.IsDynamic() && !visited[other.Id()] {
					visited[other.Id()] = true
					other.SetAwake(true)
					stack = append(stack, other)
				}
			}
		}
		islands = append(islands, island)
	}
	return islands
}

func otherBody(fixtureOwner func(FixtureId) *Body, c *Contact, b *Body) *Body {
	a := fixtureOwner(c.FixtureA)
	other := fixtureOwner(c.FixtureB)
	if a != nil && a.Id() == b.Id() {
		return other
	}
	return a
}

func otherJointBody(j Joint, b *Body) *Body {
	if a := j.BodyA(); a != nil && a.Id() == b.Id() {
		return j.BodyB()
	}
	return j.BodyA()
}
