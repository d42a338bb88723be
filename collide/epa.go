package collide

import (
	"log/slog"
	"math"
	"slices"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// face indexes three polytope vertices.
type face struct{ x, y, z uint32 }

// edge indexes two polytope vertices.
type edge struct{ x, y uint32 }

// polytopeFromSimplex seeds the EPA polytope from a converged 4-point GJK
// simplex.
func polytopeFromSimplex(s *simplex) ([]lin.V3, []face) {
	pts := []lin.V3{s.a, s.b, s.c, s.d}
	faces := []face{
		{0, 1, 2}, // ABC
		{0, 2, 3}, // ACD
		{0, 3, 1}, // ADB
		{1, 2, 3}, // BCD
	}
	return pts, faces
}

// faceNormalDistance returns the outward unit normal of f and its signed
// distance from the origin, flipping the winding if needed so the normal
// always points away from the polytope interior.
func faceNormalDistance(f face, poly []lin.V3) (normal lin.V3, dist float64) {
	a, b, c := &poly[f.x], &poly[f.y], &poly[f.z]
	var ab, ac, n lin.V3
	ab.Sub(b, a)
	ac.Sub(c, a)
	n.Cross(&ab, &ac).Unit()
	if n.X == 0 && n.Y == 0 && n.Z == 0 {
		slog.Error("epa face normal degenerate")
		return normal, dist
	}
	dist = n.Dot(a)
	if dist < 0 {
		n.Neg(&n)
		dist = -dist
		return n, dist
	}
	if dist == 0 {
		for i := range poly {
			d := n.Dot(&poly[i])
			if d != 0 {
				if d >= 0 {
					n.Neg(&n)
				}
				return n, dist
			}
		}
	}
	return n, dist
}

// addEdge toggles e in the silhouette edge list: shared edges between two
// deleted faces cancel, leaving only the silhouette boundary.
func addEdge(edges []edge, e edge, poly []lin.V3) []edge {
	for i, cur := range edges {
		if (cur.x == e.x && cur.y == e.y) || (cur.x == e.y && cur.y == e.x) {
			return slices.Delete(edges, i, i+1)
		}
	}
	return append(edges, e)
}

func triangleCentroid(a, b, c lin.V3) lin.V3 {
	var cen lin.V3
	cen.Add(&b, &c).Add(&cen, &a)
	cen.Scale(&cen, 1.0/3.0)
	return cen
}

const epaMaxIterations = 100
const epaEpsilon = 0.0001

// epaPenetration expands the GJK simplex into the Minkowski-difference
// polytope and walks it toward the surface nearest the origin, returning
// the contact normal (pointing from A to B) and penetration depth.
func epaPenetration(xfA *lin.T, a shape.Shape, xfB *lin.T, b shape.Shape, s *simplex) (normal lin.V3, depth float64, ok bool) {
	poly, faces := polytopeFromSimplex(s)

	normals := make([]lin.V3, len(faces))
	dists := make([]float64, len(faces))
	minNormal := lin.V3{}
	minDist := math.MaxFloat64
	for i, f := range faces {
		n, d := faceNormalDistance(f, poly)
		normals[i], dists[i] = n, d
		if d < minDist {
			minDist, minNormal = d, n
		}
	}

	var edges []edge
	for it := 0; it < epaMaxIterations; it++ {
		var support lin.V3
		minkowskiSupport(xfA, a, xfB, b, true, &minNormal, &support)

		d := minNormal.Dot(&support)
		if math.Abs(d-minDist) < epaEpsilon {
			return minNormal, minDist, true
		}

		newIdx := uint32(len(poly))
		poly = append(poly, support)

		for i := 0; i < len(normals); i++ {
			f := faces[i]
			centroid := triangleCentroid(poly[f.x], poly[f.y], poly[f.z])
			var toSupport lin.V3
			toSupport.Sub(&support, &centroid)
			if normals[i].Dot(&toSupport) > 0 {
				edges = addEdge(edges, edge{f.x, f.y}, poly)
				edges = addEdge(edges, edge{f.y, f.z}, poly)
				edges = addEdge(edges, edge{f.z, f.x}, poly)

				faces = slices.Delete(faces, i, i+1)
				dists = slices.Delete(dists, i, i+1)
				normals = slices.Delete(normals, i, i+1)
				i--
			}
		}

		for _, e := range edges {
			nf := face{e.x, e.y, newIdx}
			faces = append(faces, nf)
			n, d := faceNormalDistance(nf, poly)
			normals = append(normals, n)
			dists = append(dists, d)
		}

		minDist = math.MaxFloat64
		for i, d := range dists {
			if d < minDist {
				minDist, minNormal = d, normals[i]
			}
		}
		edges = edges[:0]
	}
	slog.Warn("epa did not converge")
	return normal, depth, false
}
