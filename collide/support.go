// Package collide implements the broad and narrow collision-detection
// phases: axis-aligned bound pair keys, a sweep-and-prune broad phase, a
// persistent pair manager, and a GJK/EPA narrow phase with an analytic
// sphere-sphere fast path.
package collide

import (
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// worldSupport writes into out the world-space support point of s (under
// transform xf) in world-space direction dir.
func worldSupport(xf *lin.T, s shape.Shape, dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3 {
	local := &lin.V3{}
	inv := &lin.Q{}
	inv.Inv(xf.Rot)
	local.MultvQ(dir, inv)
	s.Support(local, withMargin, out)
	out.MultvQ(out, xf.Rot)
	out.Add(out, xf.Loc)
	return out
}

// minkowskiSupport writes into out the support point of the Minkowski
// difference (shape A under xfA) - (shape B under xfB) in world-space
// direction dir, grounded on the teacher's
// support_point_of_minkowski_difference.
func minkowskiSupport(xfA *lin.T, a shape.Shape, xfB *lin.T, b shape.Shape, withMargin bool, dir *lin.V3, out *lin.V3) *lin.V3 {
	sa, sb := &lin.V3{}, &lin.V3{}
	worldSupport(xfA, a, dir, withMargin, sa)
	neg := &lin.V3{}
	neg.Neg(dir)
	worldSupport(xfB, b, neg, withMargin, sb)
	out.Sub(sa, sb)
	return out
}
