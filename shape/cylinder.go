package shape

import (
	"math"

	"github.com/kitskub/physics3d/math/lin"
)

// cylinder is a right circular cylinder of radius R and height H, its axis
// along local Y, centered on its center of mass. Neither the teacher nor
// the rest of the retrieved pack model a cylinder; the support mapping and
// inertia below follow the standard closed-form solid-cylinder formulas.
type cylinder struct {
	R, H   float64
	margin float64
}

// NewCylinder returns a cylinder shape with the given radius, height and
// margin.
func NewCylinder(r, h, margin float64) Shape {
	return &cylinder{R: abs(r), H: abs(h), margin: margin}
}

func (c *cylinder) Kind() Kind      { return Cylinder }
func (c *cylinder) Margin() float64 { return c.margin }

// Extents returns the cylinder's radius and height.
func (c *cylinder) Extents() (r, h float64) { return c.R, c.H }

func (c *cylinder) Support(dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3 {
	hh := c.H / 2
	rl := radialLen(dir.X, dir.Z)
	if rl == 0 {
		out.X, out.Z = 0, 0
	} else {
		out.X, out.Z = dir.X/rl*c.R, dir.Z/rl*c.R
	}
	out.Y = sign(dir.Y) * hh
	return supportMargin(dir, withMargin, c.margin, out)
}

func (c *cylinder) Aabb(xf *lin.T, ab *Abox) *Abox {
	ab = aabbFromExtents(xf, c.R, c.H/2, c.R, ab)
	ab.Sx, ab.Sy, ab.Sz = ab.Sx-c.margin, ab.Sy-c.margin, ab.Sz-c.margin
	ab.Lx, ab.Ly, ab.Lz = ab.Lx+c.margin, ab.Ly+c.margin, ab.Lz+c.margin
	return ab
}

// Inertia for a solid cylinder of radius R, height H and mass m, about its
// center of mass:
//
//	Ixx = Izz = m/12*(3R²+H²), Iyy = m*R²/2
func (c *cylinder) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	side := mass / 12 * (3*c.R*c.R + c.H*c.H)
	inertia.X, inertia.Z = side, side
	inertia.Y = mass * c.R * c.R / 2
	return inertia
}

func radialLen(x, z float64) float64 {
	return math.Sqrt(x*x + z*z)
}
