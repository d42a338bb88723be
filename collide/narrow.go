package collide

import (
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// Contact is a single narrow-phase collision result: Normal points from
// shape A toward shape B in world space, Depth is the penetration depth
// (positive when overlapping), PointA/PointB are the world-space witness
// points on each shape's surface.
type Contact struct {
	Normal         lin.V3
	Depth          float64
	PointA, PointB lin.V3
}

// Narrow runs the narrow phase between shape a (under xfA) and shape b
// (under xfB), reporting the deepest contact if the margin-inflated
// shapes overlap. Sphere-sphere uses the closed-form analytic test;
// everything else goes through GJK to detect overlap and EPA to recover
// the separating normal and depth.
func Narrow(xfA *lin.T, a shape.Shape, xfB *lin.T, b shape.Shape) (Contact, bool) {
	if a.Kind() == shape.Sphere && b.Kind() == shape.Sphere {
		return sphereSphere(xfA, a, xfB, b)
	}
	var s simplex
	if !gjkIntersect(xfA, a, xfB, b, &s) {
		return Contact{}, false
	}
	normal, depth, ok := epaPenetration(xfA, a, xfB, b, &s)
	if !ok {
		return Contact{}, false
	}
	var negN, pa, pb lin.V3
	negN.Neg(&normal)
	worldSupport(xfA, a, &normal, false, &pa)
	worldSupport(xfB, b, &negN, false, &pb)
	return Contact{Normal: normal, Depth: depth, PointA: pa, PointB: pb}, true
}

// sphereSphere is the closed-form special case, grounded on the teacher's
// collideSphereSphere: no GJK/EPA iteration needed for two spheres.
func sphereSphere(xfA *lin.T, a shape.Shape, xfB *lin.T, b shape.Shape) (Contact, bool) {
	ra := sphereRadius(a)
	rb := sphereRadius(b)
	var delta lin.V3
	delta.Sub(xfB.Loc, xfA.Loc)
	dist := delta.Len()
	sumR := ra + rb + a.Margin() + b.Margin()
	if dist >= sumR {
		return Contact{}, false
	}
	var normal lin.V3
	if dist > lin.Epsilon {
		normal.Scale(&delta, 1/dist)
	} else {
		normal = lin.V3{X: 0, Y: 1, Z: 0}
	}
	depth := sumR - dist
	var pa, pb lin.V3
	pa.Scale(&normal, ra).Add(&pa, xfA.Loc)
	var negN lin.V3
	negN.Neg(&normal)
	pb.Scale(&negN, rb).Add(&pb, xfB.Loc)
	return Contact{Normal: normal, Depth: depth, PointA: pa, PointB: pb}, true
}

// sphereRadius extracts the radius of a Sphere-kind shape via its support
// point along +X with no margin, avoiding a second shape concrete type.
func sphereRadius(s shape.Shape) float64 {
	var out lin.V3
	s.Support(&lin.V3{X: 1}, false, &out)
	return out.X
}
