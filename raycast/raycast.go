// Package raycast answers "what does this ray hit" against the shapes
// defined in package shape: plane, sphere, box, cone, cylinder. Adapted
// from the reference engine's own caster.go, which dispatches on shape
// kind through a map of per-pair test functions rather than a type
// switch; ray-box, ray-cone and ray-cylinder are authored fresh since the
// reference engine never implemented box support and has no cone or
// cylinder shape at all.
package raycast

import (
	"math"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// Hit is one ray/shape intersection: Point is the world-space contact
// point, Dist its distance from the ray origin along the ray direction.
type Hit struct {
	Point lin.V3
	Dist  float64
}

// cast is the per-shape-kind intersection test. origin and dir are in
// world space; xf is the shape's world transform. Mirrors the reference
// engine's cast function prototype, generalized from its (Solid, Solid)
// signature to (origin, dir, transform, shape) since this package has no
// Body type of its own to carry a ray.
type cast func(origin, dir *lin.V3, xf *lin.T, sh shape.Shape) (hit bool, point lin.V3)

// algorithms holds the intersection test for each supported shape kind,
// the reference engine's own rayCastAlgorithms dispatch table.
var algorithms = map[shape.Kind]cast{
	shape.Plane:    castPlane,
	shape.Sphere:   castSphere,
	shape.Box:      castBox,
	shape.Cone:     castCone,
	shape.Cylinder: castCylinder,
}

// Cast intersects a ray (origin, dir, both world space) against sh under
// world transform xf. dir need not be unit length.
func Cast(origin, dir *lin.V3, xf *lin.T, sh shape.Shape) (Hit, bool) {
	fn, ok := algorithms[sh.Kind()]
	if !ok {
		return Hit{}, false
	}
	hit, point := fn(origin, dir, xf, sh)
	if !hit {
		return Hit{}, false
	}
	var diff lin.V3
	diff.Sub(&point, origin)
	return Hit{Point: point, Dist: diff.Len()}, true
}

// ============================================================================
// ray-plane cast: http://en.wikipedia.org/wiki/Line–plane_intersection

func castPlane(origin, dir *lin.V3, xf *lin.T, sh shape.Shape) (bool, lin.V3) {
	localNormal, d := sh.(shape.Planar).Plane()
	var normal lin.V3
	normal.MultQ(&localNormal, xf.Rot)

	var rdir lin.V3
	rdir.Scale(dir, 1/dir.Len())
	denom := rdir.Dot(&normal)
	if lin.AeqZ(denom) || denom < 0 {
		return false, lin.V3{} // plane faces away from, or is parallel to, the ray.
	}

	var planePoint lin.V3
	planePoint.Scale(&normal, d)
	planePoint.Add(&planePoint, xf.Loc)

	var diff lin.V3
	diff.Sub(&planePoint, origin)
	dlen := diff.Dot(&normal) / denom
	if dlen < 0 {
		return false, lin.V3{}
	}

	var point lin.V3
	point.Scale(&rdir, dlen)
	point.Add(&point, origin)
	return true, point
}

// ============================================================================
// ray-sphere cast: http://en.wikipedia.org/wiki/Line–sphere_intersection

func castSphere(origin, dir *lin.V3, xf *lin.T, sh shape.Shape) (bool, lin.V3) {
	r := sh.(shape.Spherical).Radius()

	var rdir lin.V3
	rdir.Scale(dir, 1/dir.Len())
	var sc lin.V3
	sc.Sub(xf.Loc, origin)
	d0 := rdir.Dot(&sc)
	if d0 < 0 {
		return false, lin.V3{}
	}
	r2 := r * r
	d1 := sc.Dot(&sc) - d0*d0
	if d1 > r2 {
		return false, lin.V3{}
	}
	dlen := d0 - math.Sqrt(r2-d1)

	var point lin.V3
	point.Scale(&rdir, dlen)
	point.Add(&point, origin)
	return true, point
}

// toLocal expresses origin/dir in sh's local frame, undoing xf's
// rotation and translation, for the shapes below whose intersection
// test is easiest to state in local space.
func toLocal(origin, dir *lin.V3, xf *lin.T) (localOrigin, localDir lin.V3) {
	var inv lin.Q
	inv.Inv(xf.Rot)
	var rel lin.V3
	rel.Sub(origin, xf.Loc)
	localOrigin.MultQ(&rel, &inv)
	localDir.MultQ(dir, &inv)
	return localOrigin, localDir
}

// fromLocal maps a point found at parameter t along (localOrigin,
// localDir) back into world space.
func fromLocal(localOrigin, localDir *lin.V3, t float64, xf *lin.T) lin.V3 {
	var local lin.V3
	local.Scale(localDir, t)
	local.Add(&local, localOrigin)
	var world lin.V3
	world.MultQ(&local, xf.Rot)
	world.Add(&world, xf.Loc)
	return world
}
