package raycast

import (
	"math"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// castCylinder intersects a ray against a finite right circular cylinder,
// axis along local Y, by solving the infinite-cylinder quadratic for the
// side wall and clamping to the cap planes. Authored fresh: neither the
// reference engine nor the rest of the retrieved pack models a cylinder.
func castCylinder(origin, dir *lin.V3, xf *lin.T, sh shape.Shape) (bool, lin.V3) {
	r, h := sh.(shape.RadialExtents).Extents()
	hh := h / 2
	lo, ld := toLocal(origin, dir, xf)
	o := [3]float64{lo.X, lo.Y, lo.Z}
	d := [3]float64{ld.X, ld.Y, ld.Z}

	best, found := math.MaxFloat64, false
	for _, t := range quadraticRoots(d[0]*d[0]+d[2]*d[2],
		2*(o[0]*d[0]+o[2]*d[2]),
		o[0]*o[0]+o[2]*o[2]-r*r) {
		if t < 0 {
			continue
		}
		y := o[1] + d[1]*t
		if y < -hh || y > hh {
			continue
		}
		if t < best {
			best, found = t, true
		}
	}
	if t, ok := capHit(o, d, hh, r*r); ok && t < best {
		best, found = t, true
	}
	if t, ok := capHit(o, d, -hh, r*r); ok && t < best {
		best, found = t, true
	}
	if !found {
		return false, lin.V3{}
	}
	return true, fromLocal(&lo, &ld, best, xf)
}

// capHit intersects the ray (o,d) against the disc of radius²=r2 lying
// in the plane y=capY, returning the hit parameter if the ray crosses
// the plane within the disc.
func capHit(o, d [3]float64, capY, r2 float64) (float64, bool) {
	if lin.AeqZ(d[1]) {
		return 0, false
	}
	t := (capY - o[1]) / d[1]
	if t < 0 {
		return 0, false
	}
	x, z := o[0]+d[0]*t, o[2]+d[2]*t
	if x*x+z*z > r2 {
		return 0, false
	}
	return t, true
}

// quadraticRoots returns the real roots of a*t²+b*t+c=0, or nil if a is
// ~0 or the discriminant is negative.
func quadraticRoots(a, b, c float64) []float64 {
	if lin.AeqZ(a) {
		return nil
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}
