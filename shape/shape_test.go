package shape

import (
	"testing"

	"github.com/kitskub/physics3d/math/lin"
)

func identity() *lin.T {
	return &lin.T{Loc: &lin.V3{}, Rot: &lin.Q{W: 1}}
}

func TestBoxKind(t *testing.T) {
	bx := Shape(NewBox(1, 1, 1, 0)) // compiler checks Shape interface.
	if bx.Kind() != Box {
		t.Error("invalid box kind")
	}
}

func TestBoxAabb(t *testing.T) {
	bx := NewBox(1, 1, 1, 0.01)
	ab := bx.Aabb(identity(), &Abox{})
	if ab.Sx != -1.01 || ab.Sy != -1.01 || ab.Sz != -1.01 ||
		ab.Lx != 1.01 || ab.Ly != 1.01 || ab.Lz != 1.01 {
		t.Error("invalid bounding box for box")
	}
}

func TestBoxInertia(t *testing.T) {
	bx, inertia := NewBox(1, 1, 1, 0), &lin.V3{}
	bx.Inertia(1, inertia)
	if !lin.Aeq(inertia.X, 2.0/3.0) || !lin.Aeq(inertia.Y, 2.0/3.0) || !lin.Aeq(inertia.Z, 2.0/3.0) {
		t.Errorf("expected box inertia (2/3,2/3,2/3), got %v", inertia)
	}
}

func TestBoxSupport(t *testing.T) {
	bx, out := NewBox(1, 2, 3, 0), &lin.V3{}
	bx.Support(&lin.V3{X: 1, Y: 1, Z: 1}, false, out)
	if out.X != 1 || out.Y != 2 || out.Z != 3 {
		t.Errorf("expected vertex (1,2,3), got %v", out)
	}
}

func TestSphereKind(t *testing.T) {
	sp := Shape(NewSphere(1, 0))
	if sp.Kind() != Sphere {
		t.Error("invalid sphere kind")
	}
}

func TestSphereAabb(t *testing.T) {
	sp := NewSphere(1, 0.01)
	ab := sp.Aabb(identity(), &Abox{})
	if ab.Sx != -1.01 || ab.Sy != -1.01 || ab.Sz != -1.01 ||
		ab.Lx != 1.01 || ab.Ly != 1.01 || ab.Lz != 1.01 {
		t.Error("invalid bounding box for sphere")
	}
}

func TestSphereInertia(t *testing.T) {
	sp, inertia := NewSphere(1.25, 0), &lin.V3{}
	sp.Inertia(1, inertia)
	want := 0.4 * 1.25 * 1.25
	if !lin.Aeq(inertia.X, want) || !lin.Aeq(inertia.Y, want) || !lin.Aeq(inertia.Z, want) {
		t.Errorf("expected sphere inertia %v on every axis, got %v", want, inertia)
	}
}

func TestSphereSupportMargin(t *testing.T) {
	sp, out := NewSphere(1, 0.1), &lin.V3{}
	sp.Support(&lin.V3{X: 1}, true, out)
	if !lin.Aeq(out.X, 1.1) || out.Y != 0 || out.Z != 0 {
		t.Errorf("expected (1.1,0,0), got %v", out)
	}
}

func TestCylinderInertia(t *testing.T) {
	cy, inertia := NewCylinder(2, 4, 0), &lin.V3{}
	cy.Inertia(10, inertia)
	wantSide := 10.0 / 12 * (3*2*2 + 4*4)
	wantSpin := 10.0 * 2 * 2 / 2
	if !lin.Aeq(inertia.X, wantSide) || !lin.Aeq(inertia.Z, wantSide) || !lin.Aeq(inertia.Y, wantSpin) {
		t.Errorf("expected (%v,%v,%v), got %v", wantSide, wantSpin, wantSide, inertia)
	}
}

func TestCylinderSupportCaps(t *testing.T) {
	cy, out := NewCylinder(1, 2, 0), &lin.V3{}
	cy.Support(&lin.V3{Y: 1}, false, out)
	if out.Y != 1 {
		t.Errorf("expected top cap at y=1, got %v", out)
	}
	cy.Support(&lin.V3{Y: -1}, false, out)
	if out.Y != -1 {
		t.Errorf("expected bottom cap at y=-1, got %v", out)
	}
}

func TestConeInertia(t *testing.T) {
	cn, inertia := NewCone(2, 6, 0), &lin.V3{}
	cn.Inertia(5, inertia)
	wantSpin := 3.0 / 10 * 5 * 2 * 2
	wantSide := 5 * (3.0/20*2*2 + 3.0/80*6*6)
	if !lin.Aeq(inertia.Y, wantSpin) || !lin.Aeq(inertia.X, wantSide) || !lin.Aeq(inertia.Z, wantSide) {
		t.Errorf("expected spin %v side %v, got %v", wantSpin, wantSide, inertia)
	}
}

func TestConeSupportApex(t *testing.T) {
	cn, out := NewCone(1, 4, 0), &lin.V3{}
	cn.Support(&lin.V3{Y: 1}, false, out)
	if !lin.Aeq(out.Y, 3) || out.X != 0 || out.Z != 0 {
		t.Errorf("expected apex (0,3,0), got %v", out)
	}
}

func TestConeSupportBaseRim(t *testing.T) {
	cn, out := NewCone(1, 4, 0), &lin.V3{}
	cn.Support(&lin.V3{X: 1, Y: -1}, false, out)
	if !lin.Aeq(out.Y, -1) || out.X <= 0 {
		t.Errorf("expected a base rim point with positive X, got %v", out)
	}
}

func TestAboxOverlap(t *testing.T) {
	var a, b, c, d *Abox
	a, b = &Abox{0, 0, 0, 1, 1, 1}, &Abox{-1, -1, -1, 0, 0, 0}
	if a.Overlaps(b) {
		t.Error("touching at a point, but not overlapping")
	}
	b = &Abox{-1, -1, -1, 0.1, 0.0, 0.0}
	c = &Abox{-1, -1, -1, 0.0, 0.1, 0.0}
	d = &Abox{-1, -1, -1, 0.0, 0.0, 0.1}
	if a.Overlaps(b) || a.Overlaps(c) || a.Overlaps(d) {
		t.Error("touching along edges, but not overlapping")
	}
	b = &Abox{-1, -1, -1, 0.1, 0.1, 0.1}
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("overlapping")
	}
}

func TestAboxOverlapAxes(t *testing.T) {
	a, b := &Abox{0, 0, 0, 1, 1, 1}, &Abox{0.5, -5, -5, 1.5, -4, -4}
	mask := a.OverlapAxes(b)
	if mask&OverlapX == 0 {
		t.Error("expected X axis to overlap")
	}
	if mask&OverlapY != 0 || mask&OverlapZ != 0 {
		t.Error("did not expect Y or Z axis to overlap")
	}
	if a.Overlaps(b) {
		t.Error("boxes should not fully overlap")
	}
}
