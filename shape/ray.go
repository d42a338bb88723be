package shape

import "github.com/kitskub/physics3d/math/lin"

// ray is query-only geometry: an origin and direction used by the raycast
// package, never attached to a dynamic or static body.
type ray struct {
	Dir lin.V3
}

// NewRay returns a ray shape with direction (dx,dy,dz). Its origin is
// carried by the body transform it is attached to, the way the teacher's
// ray shape works.
func NewRay(dx, dy, dz float64) Shape {
	return &ray{Dir: lin.V3{X: dx, Y: dy, Z: dz}}
}

func (r *ray) Kind() Kind      { return Ray }
func (r *ray) Margin() float64 { return 0 }

// Direction returns the ray's (not necessarily unit) direction vector.
func (r *ray) Direction() lin.V3 { return r.Dir }

func (r *ray) Support(dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3 {
	out.X, out.Y, out.Z = 0, 0, 0
	return out
}

func (r *ray) Aabb(xf *lin.T, ab *Abox) *Abox {
	ab.Sx, ab.Sy, ab.Sz = xf.Loc.X, xf.Loc.Y, xf.Loc.Z
	ab.Lx, ab.Ly, ab.Lz = xf.Loc.X, xf.Loc.Y, xf.Loc.Z
	return ab
}

func (r *ray) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	inertia.X, inertia.Y, inertia.Z = 0, 0, 0
	return inertia
}
