package shape

import "github.com/kitskub/physics3d/math/lin"

// cone is a right circular cone of base radius R and height H, apex on the
// +Y local axis, centered on its center of mass (which sits H/4 above the
// base, 3H/4 below the apex, for a uniform solid cone). Like cylinder,
// this shape has no teacher precedent; support mapping and inertia follow
// the standard solid-cone formulas.
type cone struct {
	R, H   float64
	margin float64
}

// NewCone returns a cone shape with the given base radius, height and
// margin.
func NewCone(r, h, margin float64) Shape {
	return &cone{R: abs(r), H: abs(h), margin: margin}
}

func (c *cone) Kind() Kind      { return Cone }
func (c *cone) Margin() float64 { return c.margin }

// Extents returns the cone's base radius and height.
func (c *cone) Extents() (r, h float64) { return c.R, c.H }

func (c *cone) Support(dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3 {
	apexY := 3 * c.H / 4
	baseY := -c.H / 4
	rl := radialLen(dir.X, dir.Z)
	var baseX, baseZ float64
	if rl != 0 {
		baseX, baseZ = dir.X/rl*c.R, dir.Z/rl*c.R
	}
	apexDot := dir.Y * apexY
	baseDot := dir.X*baseX + dir.Y*baseY + dir.Z*baseZ
	if apexDot >= baseDot {
		out.X, out.Y, out.Z = 0, apexY, 0
	} else {
		out.X, out.Y, out.Z = baseX, baseY, baseZ
	}
	return supportMargin(dir, withMargin, c.margin, out)
}

func (c *cone) Aabb(xf *lin.T, ab *Abox) *Abox {
	// Symmetric Y half-extent 3H/4 over-bounds the base side (true extent
	// H/4 down); a conservative broad-phase box, not an exact fit.
	ab = aabbFromExtents(xf, c.R, 3*c.H/4, c.R, ab)
	ab.Sx, ab.Sy, ab.Sz = ab.Sx-c.margin, ab.Sy-c.margin, ab.Sz-c.margin
	ab.Lx, ab.Ly, ab.Lz = ab.Lx+c.margin, ab.Ly+c.margin, ab.Lz+c.margin
	return ab
}

// Inertia for a solid cone of base radius R, height H and mass m, about
// its center of mass: the spin axis term uses the base-radius circle, the
// transverse terms use the parallel-axis-corrected centroid offset.
//
//	Iyy = 3/10*m*R², Ixx = Izz = m*(3/20*R² + 3/80*H²)
func (c *cone) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	inertia.Y = 3.0 / 10.0 * mass * c.R * c.R
	side := mass * (3.0/20.0*c.R*c.R + 3.0/80.0*c.H*c.H)
	inertia.X, inertia.Z = side, side
	return inertia
}
