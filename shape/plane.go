package shape

import "github.com/kitskub/physics3d/math/lin"

// plane is an infinite half-space, normal N, offset D along N from the
// origin: N·x = D. It carries no mass and is used only as static
// ray-cast and collision geometry, never as a dynamic body's shape.
type plane struct {
	N lin.V3
	D float64
}

// NewPlane returns a plane shape with unit normal (nx,ny,nz) and offset d.
func NewPlane(nx, ny, nz, d float64) Shape {
	n := lin.V3{X: nx, Y: ny, Z: nz}
	n.Unit()
	return &plane{N: n, D: d}
}

func (p *plane) Kind() Kind      { return Plane }
func (p *plane) Margin() float64 { return 0 }

// Plane returns the plane's unit normal and offset: N·x = D.
func (p *plane) Plane() (normal lin.V3, d float64) { return p.N, p.D }

func (p *plane) Support(dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3 {
	// A plane has no finite support point; this returns the local origin.
	// The narrow phase has no plane-specific path.
	out.X, out.Y, out.Z = 0, 0, 0
	return out
}

func (p *plane) Aabb(xf *lin.T, ab *Abox) *Abox {
	const inf = 1e30
	ab.Sx, ab.Sy, ab.Sz = -inf, -inf, -inf
	ab.Lx, ab.Ly, ab.Lz = inf, inf, inf
	return ab
}

func (p *plane) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	inertia.X, inertia.Y, inertia.Z = 0, 0, 0
	return inertia
}
