package shape

import "github.com/kitskub/physics3d/math/lin"

// box is a rectangular solid of half-extents Hx, Hy, Hz centered on its
// center of mass.
type box struct {
	Hx, Hy, Hz float64
	margin     float64
}

// NewBox returns a box shape with the given half-extents and margin.
func NewBox(hx, hy, hz, margin float64) Shape {
	return &box{Hx: abs(hx), Hy: abs(hy), Hz: abs(hz), margin: margin}
}

func (b *box) Kind() Kind      { return Box }
func (b *box) Margin() float64 { return b.margin }

// Extents returns the box's half-extents along its own local axes.
func (b *box) Extents() (hx, hy, hz float64) { return b.Hx, b.Hy, b.Hz }

func (b *box) Support(dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3 {
	out.X = sign(dir.X) * b.Hx
	out.Y = sign(dir.Y) * b.Hy
	out.Z = sign(dir.Z) * b.Hz
	return supportMargin(dir, withMargin, b.margin, out)
}

func (b *box) Aabb(xf *lin.T, ab *Abox) *Abox {
	ab = aabbFromExtents(xf, b.Hx, b.Hy, b.Hz, ab)
	ab.Sx, ab.Sy, ab.Sz = ab.Sx-b.margin, ab.Sy-b.margin, ab.Sz-b.margin
	ab.Lx, ab.Ly, ab.Lz = ab.Lx+b.margin, ab.Ly+b.margin, ab.Lz+b.margin
	return ab
}

// Inertia for a box of half-extents (Hx,Hy,Hz) and mass m:
//
//	Ixx = m/3*(Hy²+Hz²), Iyy = m/3*(Hx²+Hz²), Izz = m/3*(Hx²+Hy²)
func (b *box) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	inertia.X = mass / 3 * (b.Hy*b.Hy + b.Hz*b.Hz)
	inertia.Y = mass / 3 * (b.Hx*b.Hx + b.Hz*b.Hz)
	inertia.Z = mass / 3 * (b.Hx*b.Hx + b.Hy*b.Hy)
	return inertia
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
