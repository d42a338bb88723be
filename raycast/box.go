package raycast

import (
	"math"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// castBox is the slab method against an oriented box: transform the ray
// into the box's local frame (where it is axis-aligned), intersect the
// three pairs of slabs, and transform the surviving entry point back out.
// FUTURE in the reference engine's own caster.go, which never implemented
// box support at all.
func castBox(origin, dir *lin.V3, xf *lin.T, sh shape.Shape) (bool, lin.V3) {
	hx, hy, hz := sh.(shape.Boxy).Extents()
	lo, ld := toLocal(origin, dir, xf)

	o := [3]float64{lo.X, lo.Y, lo.Z}
	d := [3]float64{ld.X, ld.Y, ld.Z}
	mins := [3]float64{-hx, -hy, -hz}
	maxs := [3]float64{hx, hy, hz}

	tmin, tmax := 0.0, math.MaxFloat64
	for i := 0; i < 3; i++ {
		if lin.AeqZ(d[i]) {
			if o[i] < mins[i] || o[i] > maxs[i] {
				return false, lin.V3{} // ray parallel to this slab, origin outside it.
			}
			continue
		}
		t1 := (mins[i] - o[i]) / d[i]
		t2 := (maxs[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return false, lin.V3{}
		}
	}
	return true, fromLocal(&lo, &ld, tmin, xf)
}
