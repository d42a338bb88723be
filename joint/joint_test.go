package joint

import (
	"math"
	"testing"

	"github.com/kitskub/physics3d/body"
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
	"github.com/kitskub/physics3d/solver"
)

func dynamicBody(t *testing.T, id uint32, x, y, z float64) *body.Body {
	t.Helper()
	b, err := body.New(id, shape.NewSphere(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetMaterial(1, 0); err != nil {
		t.Fatal(err)
	}
	b.World().Loc.SetS(x, y, z)
	return b
}

func staticBody(t *testing.T, id uint32) *body.Body {
	t.Helper()
	b, err := body.New(id, shape.NewBox(50, 1, 50, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetMaterial(0, 0); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBallSocketPullsAnchorsTogether(t *testing.T) {
	a := dynamicBody(t, 0, 0, 0, 0)
	b := dynamicBody(t, 1, 2, 0, 0)
	b.Push(-5, 0, 0) // flying apart from a's anchor

	j := NewBallSocket(a, b, lin.V3{X: 1}, lin.V3{X: -1})

	for i := 0; i < 30; i++ {
		proxies := solver.BuildProxies([]*body.Body{a, b})
		rows := j.Rows(proxies, 1.0/60.0)
		info := solver.DefaultInfo(1.0 / 60.0)
		solver.Solve(proxies, nil, nil, rows, info)
		a.UpdateWorldTransform(1.0 / 60.0)
		b.UpdateWorldTransform(1.0 / 60.0)
	}

	var worldA, worldB lin.V3
	anchorA, anchorB := lin.V3{X: 1}, lin.V3{X: -1}
	worldA.Set(a.World().App(&anchorA))
	worldB.Set(b.World().App(&anchorB))
	var sep lin.V3
	sep.Sub(&worldB, &worldA)
	if d := sep.Len(); d > 0.25 {
		t.Errorf("expected anchors to converge, separation = %v", d)
	}
}

func TestFixedJointLocksBothAnchorsAndRotation(t *testing.T) {
	a := staticBody(t, 0)
	b := dynamicBody(t, 1, 1, 0, 0)
	b.Push(0, 5, 0)
	b.Turn(0, 3, 0)

	j := NewFixed(a, b, lin.V3{X: 1}, lin.V3{})

	proxies := solver.BuildProxies([]*body.Body{a, b})
	rows := j.Rows(proxies, 1.0/60.0)
	if len(rows) != 6 {
		t.Fatalf("expected 3 position + 3 rotation rows, got %d", len(rows))
	}
	info := solver.DefaultInfo(1.0 / 60.0)
	info.Iterations = 20
	solver.Solve(proxies, nil, nil, rows, info)

	_, vy, _ := b.Speed()
	if math.Abs(vy) > 0.5 {
		t.Errorf("expected fixed joint to arrest linear drift, got vy=%v", vy)
	}
	_, wy, _ := b.Whirl()
	if math.Abs(wy) > 0.5 {
		t.Errorf("expected fixed joint to arrest angular drift, got wy=%v", wy)
	}
}

func TestHingeLeavesRotationAboutAxisFree(t *testing.T) {
	a := staticBody(t, 0)
	b := dynamicBody(t, 1, 1, 0, 0)
	b.Turn(0, 4, 0) // spin about the hinge's own axis (Y)

	j := NewHinge(a, b, lin.V3{X: 1}, lin.V3{}, lin.V3{Y: 1}, lin.V3{Y: 1})

	proxies := solver.BuildProxies([]*body.Body{a, b})
	rows := j.Rows(proxies, 1.0/60.0)
	if len(rows) != 5 {
		t.Fatalf("expected 3 position + 2 perpendicular rotation rows, got %d", len(rows))
	}
	info := solver.DefaultInfo(1.0 / 60.0)
	info.Iterations = 20
	solver.Solve(proxies, nil, nil, rows, info)

	_, wy, _ := b.Whirl()
	if wy < 2 {
		t.Errorf("expected hinge to leave spin about its own axis largely free, got wy=%v", wy)
	}
}

func TestSliderLeavesTranslationAlongAxisFree(t *testing.T) {
	a := staticBody(t, 0)
	b := dynamicBody(t, 1, 0, 0, 0)
	b.Push(0, 3, 0) // along the slider's own axis (Y)
	b.Push(4, 0, 0) // perpendicular to it

	j := NewSlider(a, b, lin.V3{}, lin.V3{}, lin.V3{Y: 1}, lin.V3{Y: 1})

	proxies := solver.BuildProxies([]*body.Body{a, b})
	rows := j.Rows(proxies, 1.0/60.0)
	if len(rows) != 5 {
		t.Fatalf("expected 2 perpendicular position + 3 rotation rows, got %d", len(rows))
	}
	info := solver.DefaultInfo(1.0 / 60.0)
	info.Iterations = 20
	solver.Solve(proxies, nil, nil, rows, info)

	_, vy, _ := b.Speed()
	vx, _, _ := b.Speed()
	if vy < 2 {
		t.Errorf("expected slider to leave motion along its own axis largely free, got vy=%v", vy)
	}
	if math.Abs(vx) > 0.5 {
		t.Errorf("expected slider to arrest motion perpendicular to its axis, got vx=%v", vx)
	}
}

func TestRowsReturnsNilWhenBothBodiesFixed(t *testing.T) {
	a := staticBody(t, 0)
	b := staticBody(t, 1)
	j := NewBallSocket(a, b, lin.V3{}, lin.V3{})
	proxies := solver.BuildProxies([]*body.Body{a, b})
	if rows := j.Rows(proxies, 1.0/60.0); rows != nil {
		t.Errorf("expected nil rows between two fixed bodies, got %d rows", len(rows))
	}
}
