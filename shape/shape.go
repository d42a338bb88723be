// Package shape defines the convex geometric primitives the physics engine
// collides and integrates: the local-space Shape contract (support mapping,
// local extents, per-mass inertia, margin) that the narrow phase and the
// rigid body depend on, plus the Abox axis-aligned bound used by the broad
// phase.
package shape

import (
	"math"

	"github.com/kitskub/physics3d/math/lin"
)

// Kind identifies the concrete shape behind a Shape value, the way a type
// switch would, but cheaper: dispatch tables in collide and raycast are
// indexed by Kind instead of doing a type assertion per pair.
type Kind int

const (
	Sphere Kind = iota
	Box
	Cone
	Cylinder
	Plane
	Ray
	NumKinds
)

// Shape is the contract every collidable primitive satisfies. Local space
// is the shape's own frame, centered on its center of mass; callers
// transform in and out of world space themselves.
type Shape interface {
	Kind() Kind

	// Margin is the small positive collision envelope the narrow phase
	// expands the shape by. Contacts are generated and resolved at the
	// margin surface rather than the exact geometric surface, which keeps
	// GJK/EPA away from the degenerate zero-penetration case.
	Margin() float64

	// Support writes, into out, the point of the shape farthest in the
	// given local-space direction. withMargin true inflates the result by
	// Margin() along dir; false returns the exact core-geometry support
	// point. dir need not be unit length on input; Support normalizes it.
	Support(dir *lin.V3, withMargin bool, out *lin.V3) *lin.V3

	// Aabb writes into ab the world-space axis-aligned bound of the shape
	// under xf, inflated by Margin(), and returns ab.
	Aabb(xf *lin.T, ab *Abox) *Abox

	// Inertia writes into inertia the diagonal of the shape's inertia
	// tensor about its local axes for the given mass, and returns it.
	// Off-diagonal terms are zero for every shape this package defines.
	Inertia(mass float64, inertia *lin.V3) *lin.V3
}

// Spherical is implemented by Sphere-kind shapes, letting raycast read the
// radius directly instead of type-switching on an unexported concrete type.
type Spherical interface{ Radius() float64 }

// Boxy is implemented by Box-kind shapes.
type Boxy interface{ Extents() (hx, hy, hz float64) }

// RadialExtents is implemented by Cone- and Cylinder-kind shapes: both are
// solids of revolution described by a base radius and a height along local Y.
type RadialExtents interface{ Extents() (r, h float64) }

// Planar is implemented by Plane-kind shapes.
type Planar interface{ Plane() (normal lin.V3, d float64) }

// Directional is implemented by Ray-kind shapes.
type Directional interface{ Direction() lin.V3 }

// Abox is an axis-aligned bounding box: S is the minimum corner, L the
// maximum corner.
type Abox struct {
	Sx, Sy, Sz float64
	Lx, Ly, Lz float64
}

// axis bits returned by OverlapAxes.
const (
	OverlapX uint8 = 1 << iota
	OverlapY
	OverlapZ
	OverlapAll = OverlapX | OverlapY | OverlapZ
)

// OverlapAxes returns the per-axis overlap bitmask of a and b: a bit is set
// when a and b's projections overlap on that axis. The sweep-and-prune
// broad phase uses this to report a pair only once all three bits are set,
// rather than recomputing three overlap tests per candidate pair.
func (a *Abox) OverlapAxes(b *Abox) uint8 {
	var mask uint8
	if a.Lx > b.Sx && a.Sx < b.Lx {
		mask |= OverlapX
	}
	if a.Ly > b.Sy && a.Sy < b.Ly {
		mask |= OverlapY
	}
	if a.Lz > b.Sz && a.Sz < b.Lz {
		mask |= OverlapZ
	}
	return mask
}

// Overlaps reports whether a and b overlap on all three axes.
func (a *Abox) Overlaps(b *Abox) bool {
	return a.OverlapAxes(b) == OverlapAll
}

// supportMargin adds m along dir (normalized) to the core support point
// already written into out, when withMargin is set and dir is non-zero.
func supportMargin(dir *lin.V3, withMargin bool, m float64, out *lin.V3) *lin.V3 {
	if !withMargin || m == 0 {
		return out
	}
	dl := dir.Len()
	if dl == 0 {
		return out
	}
	out.X += dir.X / dl * m
	out.Y += dir.Y / dl * m
	out.Z += dir.Z / dl * m
	return out
}

// aabbFromExtents fills ab from a shape centered on the origin with the
// given half-extents, transformed by xf.
func aabbFromExtents(xf *lin.T, hx, hy, hz float64, ab *Abox) *Abox {
	m := &lin.M3{}
	m.SetQ(xf.Rot)
	ex := math.Abs(m.Xx)*hx + math.Abs(m.Yx)*hy + math.Abs(m.Zx)*hz
	ey := math.Abs(m.Xy)*hx + math.Abs(m.Yy)*hy + math.Abs(m.Zy)*hz
	ez := math.Abs(m.Xz)*hx + math.Abs(m.Yz)*hy + math.Abs(m.Zz)*hz
	ab.Sx, ab.Sy, ab.Sz = xf.Loc.X-ex, xf.Loc.Y-ey, xf.Loc.Z-ez
	ab.Lx, ab.Ly, ab.Lz = xf.Loc.X+ex, xf.Loc.Y+ey, xf.Loc.Z+ez
	return ab
}
