// Package island partitions the bodies touched by this step's contacts
// and joints into independent simulation islands, so the solver can
// iterate each island's constraints without regard for the others.
// Adapted from the teacher's physics/broad.go union-find
// (uf_find/uf_union/uf_collect_all/broad_collect_simulation_islands),
// generalized to also union bodies sharing a joint, not just a contact.
package island

import "github.com/kitskub/physics3d/body"

// Island is one independent set of bodies plus the contact and joint
// pair keys connecting them, expressed as indices into the bodies
// slice passed to Build.
type Island struct {
	Bodies []int
	Pairs  [][2]int
	Joints [][2]int
}

// absorbing reports whether b is an absorbing node: a static/kinematic
// body (MotionEnabled() == false) or a sleeping one. Absorbing nodes
// never propagate a union through themselves and are not listed in any
// island's Bodies; a pair that touches one is attached to the island of
// its other endpoint (see islandIndex).
func absorbing(b *body.Body) bool { return !b.MotionEnabled() || b.IsSleeping() }

// Build partitions bodies into islands given the set of body-index
// pairs currently in contact and the set connected by a joint. A
// static or kinematic body, or one that is asleep, never merges two
// islands through it — mirroring the teacher's b.fixed check in
// uf_collect_all/broad_collect_simulation_islands, generalized to also
// absorb rather than propagate through a sleeping body.
func Build(bodies []*body.Body, contactPairs, jointPairs [][2]int) []Island {
	parent := make([]int, len(bodies))
	for i := range parent {
		parent[i] = i
	}

	union := func(x, y int) {
		if absorbing(bodies[x]) || absorbing(bodies[y]) {
			return
		}
		px, py := find(parent, x), find(parent, y)
		parent[px] = py
	}

	for _, p := range contactPairs {
		union(p[0], p[1])
	}
	for _, p := range jointPairs {
		union(p[0], p[1])
	}

	islandOf := map[int]int{}
	islands := []Island{}
	for i, b := range bodies {
		if absorbing(b) {
			continue
		}
		root := find(parent, i)
		idx, ok := islandOf[root]
		if !ok {
			idx = len(islands)
			islandOf[root] = idx
			islands = append(islands, Island{})
		}
		islands[idx].Bodies = append(islands[idx].Bodies, i)
	}

	for _, p := range contactPairs {
		idx, ok := islandIndex(bodies, parent, islandOf, p[0], p[1])
		if ok {
			islands[idx].Pairs = append(islands[idx].Pairs, p)
		}
	}
	for _, p := range jointPairs {
		idx, ok := islandIndex(bodies, parent, islandOf, p[0], p[1])
		if ok {
			islands[idx].Joints = append(islands[idx].Joints, p)
		}
	}
	return islands
}

// islandIndex returns the island a pair's constraint belongs to: the
// island of whichever endpoint is non-absorbing (dynamic and awake),
// preferring the first. A pair between two absorbing bodies has no
// island to join and is dropped (neither side moves, so there is
// nothing for a solver to do).
func islandIndex(bodies []*body.Body, parent []int, islandOf map[int]int, a, b int) (int, bool) {
	if !absorbing(bodies[a]) {
		idx, ok := islandOf[find(parent, a)]
		return idx, ok
	}
	if !absorbing(bodies[b]) {
		idx, ok := islandOf[find(parent, b)]
		return idx, ok
	}
	return 0, false
}

// find follows parent pointers to the representative of x's set,
// mirroring the teacher's uf_find (recursive; no path compression).
func find(parent []int, x int) int {
	if parent[x] == x {
		return x
	}
	return find(parent, parent[x])
}
