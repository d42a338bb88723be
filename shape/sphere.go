package shape

import "github.com/kitskub/physics3d/math/lin"

// sphere is a ball of radius R centered on its center of mass. The margin
// is kept separate from R: R is the sphere's actual geometric radius, the
// margin is the narrow phase's collision envelope on top of it.
type sphere struct {
	R      float64
	margin float64
}

// NewSphere returns a sphere shape with the given radius and margin.
func NewSphere(r, margin float64) Shape {
	return &sphere{R: abs(r), margin: margin}
}

func (s *sphere) Kind() Kind      { return Sphere }
func (s *sphere) Margin() float64 { return s.margin }
func (s *sphere) Radius() float64 { return s.R }

func (s *sphere) Support(dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3 {
	dl := dir.Len()
	if dl == 0 {
		out.X, out.Y, out.Z = 0, 0, 0
	} else {
		out.X, out.Y, out.Z = dir.X/dl*s.R, dir.Y/dl*s.R, dir.Z/dl*s.R
	}
	return supportMargin(dir, withMargin, s.margin, out)
}

func (s *sphere) Aabb(xf *lin.T, ab *Abox) *Abox {
	r := s.R + s.margin
	ab.Sx, ab.Sy, ab.Sz = xf.Loc.X-r, xf.Loc.Y-r, xf.Loc.Z-r
	ab.Lx, ab.Ly, ab.Lz = xf.Loc.X+r, xf.Loc.Y+r, xf.Loc.Z+r
	return ab
}

// Inertia for a solid sphere of radius R and mass m: I = 2/5*m*R² on every
// axis.
func (s *sphere) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	i := 0.4 * mass * s.R * s.R
	inertia.X, inertia.Y, inertia.Z = i, i, i
	return inertia
}
