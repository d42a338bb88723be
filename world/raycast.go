package world

import (
	"github.com/kitskub/physics3d/body"
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/raycast"
)

// RayHit is one body a ray intersects, alongside the world-space contact
// point and its distance from the ray origin.
type RayHit struct {
	Body  *body.Body
	Point lin.V3
	Dist  float64
}

// FindIntersectingBodies returns every body in the world that origin/dir
// intersects, in no particular order.
func (w *World) FindIntersectingBodies(origin, dir *lin.V3) []RayHit {
	var hits []RayHit
	for _, b := range w.bodies {
		if hit, ok := raycast.Cast(origin, dir, b.World(), b.Shape()); ok {
			hits = append(hits, RayHit{Body: b, Point: hit.Point, Dist: hit.Dist})
		}
	}
	return hits
}

// FindClosestIntersectingBody returns the body origin/dir hits nearest
// the ray origin, or ok=false if the ray hits nothing.
func (w *World) FindClosestIntersectingBody(origin, dir *lin.V3) (hit RayHit, ok bool) {
	return w.extremeHit(origin, dir, func(best, candidate float64) bool { return candidate < best })
}

// FindFurthestIntersectingBody returns the body origin/dir hits farthest
// from the ray origin, or ok=false if the ray hits nothing.
func (w *World) FindFurthestIntersectingBody(origin, dir *lin.V3) (hit RayHit, ok bool) {
	return w.extremeHit(origin, dir, func(best, candidate float64) bool { return candidate > best })
}

func (w *World) extremeHit(origin, dir *lin.V3, better func(best, candidate float64) bool) (hit RayHit, ok bool) {
	for _, b := range w.bodies {
		h, hitOk := raycast.Cast(origin, dir, b.World(), b.Shape())
		if !hitOk {
			continue
		}
		if !ok || better(hit.Dist, h.Dist) {
			hit, ok = RayHit{Body: b, Point: h.Point, Dist: h.Dist}, true
		}
	}
	return hit, ok
}
