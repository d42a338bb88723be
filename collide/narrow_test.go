package collide

import (
	"testing"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

func xfAt(x, y, z float64) *lin.T {
	return &lin.T{Loc: &lin.V3{X: x, Y: y, Z: z}, Rot: &lin.Q{W: 1}}
}

func TestNarrowSphereSphereOverlap(t *testing.T) {
	a, b := shape.NewSphere(1, 0), shape.NewSphere(1, 0)
	c, ok := Narrow(xfAt(0, 0, 0), a, xfAt(1.5, 0, 0), b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if !lin.Aeq(c.Depth, 0.5) {
		t.Errorf("expected depth 0.5, got %v", c.Depth)
	}
	if !lin.Aeq(c.Normal.X, 1) {
		t.Errorf("expected normal pointing +X, got %v", c.Normal)
	}
}

func TestNarrowSphereSphereSeparated(t *testing.T) {
	a, b := shape.NewSphere(1, 0), shape.NewSphere(1, 0)
	if _, ok := Narrow(xfAt(0, 0, 0), a, xfAt(3, 0, 0), b); ok {
		t.Error("expected no overlap")
	}
}

func TestNarrowBoxBoxOverlap(t *testing.T) {
	a, b := shape.NewBox(1, 1, 1, 0.01), shape.NewBox(1, 1, 1, 0.01)
	c, ok := Narrow(xfAt(0, 0, 0), a, xfAt(1.5, 0, 0), b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if c.Depth <= 0 {
		t.Errorf("expected positive penetration, got %v", c.Depth)
	}
	if c.Normal.X <= 0 {
		t.Errorf("expected normal pointing roughly +X, got %v", c.Normal)
	}
}

func TestNarrowBoxBoxSeparated(t *testing.T) {
	a, b := shape.NewBox(1, 1, 1, 0), shape.NewBox(1, 1, 1, 0)
	if _, ok := Narrow(xfAt(0, 0, 0), a, xfAt(5, 0, 0), b); ok {
		t.Error("expected no overlap")
	}
}

func TestNarrowBoxSphereOverlap(t *testing.T) {
	a, b := shape.NewBox(1, 1, 1, 0), shape.NewSphere(1, 0)
	c, ok := Narrow(xfAt(0, 0, 0), a, xfAt(1.5, 0, 0), b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if c.Depth <= 0 {
		t.Errorf("expected positive penetration, got %v", c.Depth)
	}
}
