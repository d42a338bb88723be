package raycast

import (
	"math"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// castCone intersects a ray against a finite right circular cone, apex on
// +Y, base radius R at local y=baseY, tapering linearly to a point at
// y=apexY (matching shape.cone's own Support mapping). Authored fresh:
// neither the reference engine nor the rest of the retrieved pack models
// a cone.
func castCone(origin, dir *lin.V3, xf *lin.T, sh shape.Shape) (bool, lin.V3) {
	r, h := sh.(shape.RadialExtents).Extents()
	apexY, baseY := 3*h/4, -h/4
	lo, ld := toLocal(origin, dir, xf)
	o := [3]float64{lo.X, lo.Y, lo.Z}
	d := [3]float64{ld.X, ld.Y, ld.Z}

	k := r / h
	ay := apexY - o[1]
	a := d[0]*d[0] + d[2]*d[2] - k*k*d[1]*d[1]
	b := 2 * (o[0]*d[0] + o[2]*d[2] + k*k*ay*d[1])
	c := o[0]*o[0] + o[2]*o[2] - k*k*ay*ay

	best, found := math.MaxFloat64, false
	for _, t := range quadraticRoots(a, b, c) {
		if t < 0 {
			continue
		}
		y := o[1] + d[1]*t
		if y < baseY || y > apexY {
			continue
		}
		if t < best {
			best, found = t, true
		}
	}
	if t, ok := capHit(o, d, baseY, r*r); ok && t < best {
		best, found = t, true
	}
	if !found {
		return false, lin.V3{}
	}
	return true, fromLocal(&lo, &ld, best, xf)
}
