package solver

import (
	"math"
	"testing"

	"github.com/kitskub/physics3d/body"
	"github.com/kitskub/physics3d/collide"
	"github.com/kitskub/physics3d/contact"
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

func newDynamic(t *testing.T, mass float64) *body.Body {
	t.Helper()
	b, err := body.New(0, shape.NewSphere(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetMaterial(mass, 0); err != nil {
		t.Fatal(err)
	}
	return b
}

func newStatic(t *testing.T) *body.Body {
	t.Helper()
	b, err := body.New(1, shape.NewBox(50, 1, 50, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetMaterial(0, 0); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSolveManifoldsStopsPenetratingBody(t *testing.T) {
	ball := newDynamic(t, 1)
	ball.Push(0, -5, 0)
	ground := newStatic(t)

	m := contact.New(ball, ground)
	m.Merge(collide.Contact{
		Normal: lin.V3{Y: 1}, Depth: 0.1,
		PointA: lin.V3{X: 0, Y: 0, Z: 0}, PointB: lin.V3{X: 0, Y: 0, Z: 0},
	})

	info := DefaultInfo(1.0 / 60.0)
	SolveManifolds([]*body.Body{ball, ground}, []*contact.Manifold{m}, info)

	x, y, z := ball.Speed()
	if y <= -5 {
		t.Errorf("expected contact impulse to reduce downward speed, got (%v,%v,%v)", x, y, z)
	}
	if y > 0.5 {
		t.Errorf("expected the ball not to be launched upward, got vy=%v", y)
	}
}

func TestSolveManifoldsIgnoresTwoStaticBodies(t *testing.T) {
	a := newStatic(t)
	b := newStatic(t)
	m := contact.New(a, b)
	info := DefaultInfo(1.0 / 60.0)
	// must not panic even with no dynamic body on either side.
	SolveManifolds([]*body.Body{a, b}, []*contact.Manifold{m}, info)
}

func TestSolveManifoldsRestingContactNearlyZeroesClosingVelocity(t *testing.T) {
	ball := newDynamic(t, 1)
	ball.World().Loc.SetS(0, 1.005, 0)
	ground := newStatic(t)
	ground.World().Loc.SetS(0, -49, 0)

	m := contact.New(ball, ground)
	m.Merge(collide.Contact{
		Normal: lin.V3{Y: 1}, Depth: 0.005,
		PointA: lin.V3{X: 0, Y: 0.5, Z: 0}, PointB: lin.V3{X: 0, Y: 0.5, Z: 0},
	})

	ball.Push(0, -1, 0)
	info := DefaultInfo(1.0 / 60.0)
	SolveManifolds([]*body.Body{ball, ground}, []*contact.Manifold{m}, info)

	_, y, _ := ball.Speed()
	if math.IsNaN(y) {
		t.Fatal("solver produced NaN velocity")
	}
	if y < -1 {
		t.Errorf("expected resting contact to arrest downward motion, got vy=%v", y)
	}
}
