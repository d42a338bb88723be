// Package contact implements the persistent contact manifold store: up
// to four points per overlapping pair, refreshed and merged frame to
// frame so the solver can warm-start from the previous step's impulses.
// Adapted from the teacher's physics/contact.go (contactPair,
// pointOfContact), rebuilt against this module's body and collide types.
package contact

import (
	"math"

	"github.com/kitskub/physics3d/body"
	"github.com/kitskub/physics3d/collide"
	"github.com/kitskub/physics3d/math/lin"
)

const maxPoints = 4

// Point is one persistent point of contact between two bodies. LocalA
// and LocalB are anchor points in each body's local frame, used to test
// persistence across frames; WorldA/WorldB are the same points refreshed
// into world space each step. NormalImpulse and TangentImpulse carry the
// previous step's accumulated impulses forward for warm starting.
// TangentDir[0] likewise carries the friction tangent basis the solver
// settled on, so a contact with negligible lateral velocity keeps a
// stable friction axis instead of one reconstructed arbitrarily from the
// normal every step.
type Point struct {
	LocalA, LocalB lin.V3
	WorldA, WorldB lin.V3
	Normal         lin.V3 // world space, points from A to B.
	Depth          float64

	NormalImpulse  float64
	TangentImpulse [2]float64
	TangentDir     [2]lin.V3
}

// Manifold is the persistent contact state for one overlapping pair.
type Manifold struct {
	BodyA, BodyB *body.Body
	Points       []Point

	// BreakingLimit is the maximum orthogonal (to the contact normal)
	// and along-normal drift a point may accumulate before it is
	// dropped, mirroring the teacher's contactPair.breakingLimit.
	BreakingLimit float64
}

// New returns an empty manifold between a and b.
func New(a, b *body.Body) *Manifold {
	return &Manifold{BodyA: a, BodyB: b, Points: make([]Point, 0, maxPoints), BreakingLimit: 0.02}
}

// Refresh recomputes each point's world-space position from the bodies'
// current transforms and drops points that have drifted past
// BreakingLimit, either along the contact normal or orthogonal to it.
// Grounded on contactPair.refreshContacts (itself based on Bullet's
// btPersistentManifold::refreshContactPoints).
func (m *Manifold) Refresh() {
	wA, wB := m.BodyA.World(), m.BodyB.World()
	valid := m.Points[:0]
	for i := range m.Points {
		p := &m.Points[i]
		p.WorldA.AppT(wA, &p.LocalA)
		p.WorldB.AppT(wB, &p.LocalB)

		var diff lin.V3
		diff.Sub(&p.WorldB, &p.WorldA)
		alongNormal := diff.Dot(&p.Normal)
		if alongNormal > m.BreakingLimit {
			continue // separated along the normal: drop.
		}
		var onPlane lin.V3
		var scaled lin.V3
		scaled.Scale(&p.Normal, alongNormal)
		onPlane.Sub(&diff, &scaled)
		if onPlane.LenSqr() > m.BreakingLimit*m.BreakingLimit {
			continue // drifted too far orthogonal to the normal: drop.
		}
		valid = append(valid, *p)
	}
	m.Points = valid
}

// Merge folds a newly detected narrow-phase contact into the manifold:
// replace the closest existing point if one is near enough, otherwise
// append if there is room, otherwise replace whichever point's
// replacement by the new contact leaves the manifold covering the
// largest area.
func (m *Manifold) Merge(c collide.Contact) {
	var localA, localB lin.V3
	localA.Set(&c.PointA)
	m.BodyA.World().Inv(&localA)
	localB.Set(&c.PointB)
	m.BodyB.World().Inv(&localB)

	next := Point{
		LocalA: localA, LocalB: localB,
		WorldA: c.PointA, WorldB: c.PointB,
		Normal: c.Normal, Depth: c.Depth,
	}

	if idx := m.closest(&next); idx >= 0 {
		next.NormalImpulse = m.Points[idx].NormalImpulse
		next.TangentImpulse = m.Points[idx].TangentImpulse
		next.TangentDir = m.Points[idx].TangentDir
		m.Points[idx] = next
		return
	}
	if len(m.Points) < maxPoints {
		m.Points = append(m.Points, next)
		return
	}
	idx := m.largestArea(next.LocalA)
	next.NormalImpulse = 0
	next.TangentImpulse = [2]float64{}
	next.TangentDir = [2]lin.V3{}
	m.Points[idx] = next
}

// closest returns the index of the existing point whose local-A anchor
// is within BreakingLimit of next's, or -1 if none qualifies.
func (m *Manifold) closest(next *Point) int {
	limit := m.BreakingLimit * m.BreakingLimit
	best := -1
	for i := range m.Points {
		var diff lin.V3
		diff.Sub(&m.Points[i].LocalA, &next.LocalA)
		if d := diff.Dot(&diff); d < limit {
			limit = d
			best = i
		}
	}
	return best
}

// largestArea returns the index of the point whose removal, in favor of
// candidate, leaves the remaining four points spanning the largest
// quadrilateral area. Grounded on
// contactPair.largestArea/contactPair.area (Bullet's
// btPersistentManifold::sortCachedPoints / calcArea4Points).
func (m *Manifold) largestArea(candidate lin.V3) int {
	p := [4]lin.V3{m.Points[0].LocalA, m.Points[1].LocalA, m.Points[2].LocalA, m.Points[3].LocalA}
	var areas [4]float64
	areas[0] = quadArea(candidate, p[1], p[2], p[3])
	areas[1] = quadArea(candidate, p[0], p[2], p[3])
	areas[2] = quadArea(candidate, p[0], p[1], p[3])
	areas[3] = quadArea(candidate, p[0], p[1], p[2])

	best, bestArea := 0, areas[0]
	for i := 1; i < 4; i++ {
		if areas[i] > bestArea {
			best, bestArea = i, areas[i]
		}
	}
	return best
}

// quadArea returns the largest of the three cross-product areas formed
// by pairing p0..p3 into two diagonals, per Bullet's calcArea4Points.
func quadArea(p0, p1, p2, p3 lin.V3) float64 {
	var d0, d1, cross lin.V3
	l0 := cross.Cross(d0.Sub(&p0, &p1), d1.Sub(&p2, &p3)).LenSqr()
	l1 := cross.Cross(d0.Sub(&p0, &p2), d1.Sub(&p1, &p3)).LenSqr()
	l2 := cross.Cross(d0.Sub(&p0, &p3), d1.Sub(&p1, &p2)).LenSqr()
	return math.Max(math.Max(l0, l1), l2)
}
