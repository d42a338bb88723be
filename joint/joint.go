// Package joint implements the bilateral constraints connecting pairs
// of bodies: ball-socket, hinge, slider, and fixed. Each joint builds a
// set of solver.Constraint rows that solve alongside contact rows in
// the same sequential-impulse iteration, per SPEC_FULL.md §4.8 item 3.
// The teacher's own joints (physics/pbd_base_constraints.go) are solved
// by a separate XPBD position-based pipeline never fed through
// physics/solver.go; this package borrows only its constraint-
// preprocessing shape (world-space anchor rotation, combined inverse
// mass along a constraint axis) and re-expresses it as velocity-level
// rows built with solver.BuildRow for positional locks and
// solver.BuildAngularRow for pure rotation locks.
package joint

import (
	"github.com/kitskub/physics3d/body"
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/solver"
)

// Kind identifies which degrees of freedom a Joint removes.
type Kind int

const (
	BallSocket Kind = iota // locks relative position, rotation free.
	Hinge                  // locks relative position and all but one rotation axis.
	Slider                 // locks relative rotation and all but one translation axis.
	Fixed                  // locks relative position and rotation entirely.
	NumKinds
)

// Joint connects BodyA and BodyB at anchors/axes given in each body's
// own local frame.
type Joint struct {
	ID           uint32 // assigned by the owning world when added; identifies this joint in a body's JointLink list.
	Kind         Kind
	BodyA, BodyB *body.Body
	LocalAnchorA lin.V3
	LocalAnchorB lin.V3
	// LocalAxisA/LocalAxisB are the hinge's rotation axis or the
	// slider's translation axis, in each body's local frame. Unused by
	// BallSocket and Fixed.
	LocalAxisA lin.V3
	LocalAxisB lin.V3
	Erp        float64 // Baumgarte position-correction rate, default 0.2.
}

// NewBallSocket builds a joint holding anchorA (in a's local frame) and
// anchorB (in b's local frame) coincident, free to rotate.
func NewBallSocket(a, b *body.Body, anchorA, anchorB lin.V3) *Joint {
	return &Joint{Kind: BallSocket, BodyA: a, BodyB: b, LocalAnchorA: anchorA, LocalAnchorB: anchorB, Erp: 0.2}
}

// NewHinge builds a joint holding anchorA/anchorB coincident and
// restricting relative rotation to a single axis (given in each body's
// local frame; both should point along the same world direction at
// rest).
func NewHinge(a, b *body.Body, anchorA, anchorB, axisA, axisB lin.V3) *Joint {
	return &Joint{Kind: Hinge, BodyA: a, BodyB: b, LocalAnchorA: anchorA, LocalAnchorB: anchorB, LocalAxisA: axisA, LocalAxisB: axisB, Erp: 0.2}
}

// NewSlider builds a joint restricting relative rotation entirely and
// relative translation to a single axis.
func NewSlider(a, b *body.Body, anchorA, anchorB, axisA, axisB lin.V3) *Joint {
	return &Joint{Kind: Slider, BodyA: a, BodyB: b, LocalAnchorA: anchorA, LocalAnchorB: anchorB, LocalAxisA: axisA, LocalAxisB: axisB, Erp: 0.2}
}

// NewFixed builds a joint welding two bodies together: both relative
// position and relative rotation are locked.
func NewFixed(a, b *body.Body, anchorA, anchorB lin.V3) *Joint {
	return &Joint{Kind: Fixed, BodyA: a, BodyB: b, LocalAnchorA: anchorA, LocalAnchorB: anchorB, Erp: 0.2}
}

// Rows builds this joint's constraint rows against the solver proxies
// already built for BodyA/BodyB, for one step of length dt.
func (j *Joint) Rows(proxies solver.Proxies, dt float64) []*solver.Constraint {
	pa, pb := proxies.ProxyOf(j.BodyA), proxies.ProxyOf(j.BodyB)
	if pa.Ref == nil && pb.Ref == nil {
		return nil // both ends fixed: nothing for the solver to do.
	}

	anchorA, anchorB := j.LocalAnchorA, j.LocalAnchorB
	worldAnchorA := pa.World.App(&anchorA)
	worldAnchorB := pb.World.App(&anchorB)
	var relA, relB lin.V3
	relA.Sub(worldAnchorA, pa.World.Loc)
	relB.Sub(worldAnchorB, pb.World.Loc)

	var rows []*solver.Constraint
	switch j.Kind {
	case BallSocket:
		rows = append(rows, pointRows(pa, pb, relA, relB, worldAnchorA, worldAnchorB, j.Erp, dt)...)
	case Hinge:
		rows = append(rows, pointRows(pa, pb, relA, relB, worldAnchorA, worldAnchorB, j.Erp, dt)...)
		var axisA lin.V3
		axisA.MultQ(&j.LocalAxisA, pa.World.Rot)
		rows = append(rows, perpendicularAxisRows(pa, pb, &axisA, j.Erp, dt)...)
	case Slider:
		var axisA lin.V3
		axisA.MultQ(&j.LocalAxisA, pa.World.Rot)
		rows = append(rows, axisPerpendicularPositionRows(pa, pb, &axisA, relA, relB, worldAnchorA, worldAnchorB, j.Erp, dt)...)
		rows = append(rows, lockAllRotationRows(pa, pb, j.Erp, dt)...)
	case Fixed:
		rows = append(rows, pointRows(pa, pb, relA, relB, worldAnchorA, worldAnchorB, j.Erp, dt)...)
		rows = append(rows, lockAllRotationRows(pa, pb, j.Erp, dt)...)
	}
	return rows
}

// pointRows builds the 3 orthogonal linear rows holding two world
// anchor points coincident.
func pointRows(pa, pb *solver.Proxy, relA, relB lin.V3, worldAnchorA, worldAnchorB *lin.V3, erp, dt float64) []*solver.Constraint {
	var sep lin.V3
	sep.Sub(worldAnchorB, worldAnchorA)
	axes := [3]lin.V3{{X: 1}, {Y: 1}, {Z: 1}}
	rows := make([]*solver.Constraint, 3)
	for i, axis := range axes {
		posError := sep.Dot(&axis)
		rows[i] = solver.BuildRow(pa, pb, axis, relA, relB, posError, erp, dt)
	}
	return rows
}

// perpendicularAxisRows locks relative angular velocity around the two
// axes perpendicular to the hinge's rotation axis, leaving rotation
// about axis itself free.
func perpendicularAxisRows(pa, pb *solver.Proxy, axis *lin.V3, erp, dt float64) []*solver.Constraint {
	var p, q lin.V3
	axis.Plane(&p, &q)
	return []*solver.Constraint{
		angularRow(pa, pb, p, erp, dt),
		angularRow(pa, pb, q, erp, dt),
	}
}

// axisPerpendicularPositionRows locks relative position along the two
// axes perpendicular to the slider's translation axis, leaving sliding
// along axis itself free.
func axisPerpendicularPositionRows(pa, pb *solver.Proxy, axis *lin.V3, relA, relB lin.V3, worldAnchorA, worldAnchorB *lin.V3, erp, dt float64) []*solver.Constraint {
	var p, q, sep lin.V3
	axis.Plane(&p, &q)
	sep.Sub(worldAnchorB, worldAnchorA)
	return []*solver.Constraint{
		solver.BuildRow(pa, pb, p, relA, relB, sep.Dot(&p), erp, dt),
		solver.BuildRow(pa, pb, q, relA, relB, sep.Dot(&q), erp, dt),
	}
}

// lockAllRotationRows locks relative angular velocity about all three
// world axes, holding two bodies at a fixed relative orientation.
func lockAllRotationRows(pa, pb *solver.Proxy, erp, dt float64) []*solver.Constraint {
	axes := [3]lin.V3{{X: 1}, {Y: 1}, {Z: 1}}
	rows := make([]*solver.Constraint, 3)
	for i, axis := range axes {
		rows[i] = angularRow(pa, pb, axis, erp, dt)
	}
	return rows
}

// angularRow builds a bilateral row constraining relative angular
// velocity about axis to zero.
func angularRow(pa, pb *solver.Proxy, axis lin.V3, erp, dt float64) *solver.Constraint {
	return solver.BuildAngularRow(pa, pb, axis, 0, erp, dt)
}
