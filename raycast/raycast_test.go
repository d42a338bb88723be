package raycast

import (
	"testing"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

func xform(x, y, z float64) *lin.T {
	xf := lin.NewT()
	xf.Loc.SetS(x, y, z)
	return xf
}

func checkHit(t *testing.T, hit bool, point lin.V3, cx, cy, cz float64) {
	t.Helper()
	if !hit || !lin.Aeq(point.X, cx) || !lin.Aeq(point.Y, cy) || !lin.Aeq(point.Z, cz) {
		t.Errorf("expected hit at %v %v %v, got hit=%t point=%v", cx, cy, cz, hit, point)
	}
}

func TestCastPlane(t *testing.T) {
	origin := lin.V3{X: 0, Y: 0, Z: 0}
	dir := lin.V3{X: 0, Y: 0.70710678, Z: 0.70710678}
	hit, point := castPlane(&origin, &dir, xform(0, 0, 20), shape.NewPlane(0, 0, 1, 0))
	checkHit(t, hit, point, 0, 20, 20)
}

func TestCastRotatedPlane(t *testing.T) {
	origin := lin.V3{X: 0, Y: 0, Z: 20}
	dir := lin.V3{X: 0, Y: 0.70710678, Z: -0.70710678}
	hit, point := castPlane(&origin, &dir, xform(0, 0, 0), shape.NewPlane(0, 0, -1, 0))
	checkHit(t, hit, point, 0, 20, 0)
}

func TestCastSphere(t *testing.T) {
	origin := lin.V3{X: 0, Y: 0, Z: 0}
	dir := lin.V3{X: 0.70710678, Y: 0.70710678, Z: 0.70710678}
	hit, point := castSphere(&origin, &dir, xform(20, 20, 20), shape.NewSphere(1, 0))
	checkHit(t, hit, point, 19.4226497, 19.4226497, 19.4226497)
}

func TestCastRotatedSphere(t *testing.T) {
	origin := lin.V3{X: 0, Y: 0, Z: 20}
	dir := lin.V3{X: 0, Y: 0.70710678, Z: -0.70710678}
	hit, point := castSphere(&origin, &dir, xform(0, 20, 0), shape.NewSphere(1, 0))
	checkHit(t, hit, point, 0, 19.2928932, 0.7071068)
}

func TestCastBoxTopFace(t *testing.T) {
	origin := lin.V3{X: 0, Y: 10, Z: 0}
	dir := lin.V3{X: 0, Y: -1, Z: 0}
	hit, point := castBox(&origin, &dir, lin.NewT(), shape.NewBox(1, 1, 1, 0))
	checkHit(t, hit, point, 0, 1, 0)
}

func TestCastBoxMiss(t *testing.T) {
	origin := lin.V3{X: 5, Y: 10, Z: 0}
	dir := lin.V3{X: 0, Y: -1, Z: 0}
	if hit, _ := castBox(&origin, &dir, lin.NewT(), shape.NewBox(1, 1, 1, 0)); hit {
		t.Error("expected a ray clear of the box to miss")
	}
}

func TestCastCylinderSide(t *testing.T) {
	origin := lin.V3{X: 5, Y: 0, Z: 0}
	dir := lin.V3{X: -1, Y: 0, Z: 0}
	hit, point := castCylinder(&origin, &dir, lin.NewT(), shape.NewCylinder(1, 2, 0))
	checkHit(t, hit, point, 1, 0, 0)
}

func TestCastConeBaseCap(t *testing.T) {
	origin := lin.V3{X: 0, Y: -5, Z: 0}
	dir := lin.V3{X: 0, Y: 1, Z: 0}
	hit, point := castCone(&origin, &dir, lin.NewT(), shape.NewCone(1, 4, 0))
	checkHit(t, hit, point, 0, -1, 0)
}

func TestCastConeSide(t *testing.T) {
	origin := lin.V3{X: 5, Y: -1, Z: 0}
	dir := lin.V3{X: -1, Y: 0, Z: 0}
	hit, point := castCone(&origin, &dir, lin.NewT(), shape.NewCone(1, 4, 0))
	checkHit(t, hit, point, 1, -1, 0)
}

func TestCastDispatchUnknownKindMisses(t *testing.T) {
	origin := lin.V3{X: 0, Y: 0, Z: 0}
	dir := lin.V3{X: 0, Y: 1, Z: 0}
	if _, ok := Cast(&origin, &dir, lin.NewT(), shape.NewRay(0, 1, 0)); ok {
		t.Error("expected casting against a ray shape itself to report no hit")
	}
}
