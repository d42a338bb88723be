package collide

import (
	"log/slog"

	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// simplex is the up-to-4-point working set GJK refines toward the origin,
// adapted from the teacher's gjk_Simplex.
type simplex struct {
	a, b, c, d lin.V3
	num        uint32
}

func (s *simplex) push(p lin.V3) {
	switch s.num {
	case 0:
		s.a = p
	case 1:
		s.b, s.a = s.a, p
	case 2:
		s.c, s.b, s.a = s.b, s.a, p
	case 3:
		s.d, s.c, s.b, s.a = s.c, s.b, s.a, p
	default:
		slog.Error("gjk simplex overflow")
	}
	s.num++
}

func tripleCross(a, b, c lin.V3) lin.V3 {
	var tc lin.V3
	tc.Cross(&a, &b)
	tc.Cross(&tc, &c)
	return tc
}

func doSimplex2(s *simplex, dir *lin.V3) bool {
	a, b := s.a, s.b
	var ao, ab lin.V3
	ao.Neg(&a)
	ab.Sub(&b, &a)
	if ab.Dot(&ao) >= 0 {
		s.a, s.b, s.num = a, b, 2
		*dir = tripleCross(ab, ao, ab)
	} else {
		s.a, s.num = a, 1
		*dir = ao
	}
	return false
}

func doSimplex3(s *simplex, dir *lin.V3) bool {
	a, b, c := s.a, s.b, s.c
	var ao, ab, ac, abc lin.V3
	ao.Neg(&a)
	ab.Sub(&b, &a)
	ac.Sub(&c, &a)
	abc.Cross(&ab, &ac)

	var t lin.V3
	if t.Cross(&abc, &ac); t.Dot(&ao) >= 0 {
		if ac.Dot(&ao) >= 0 {
			s.a, s.b, s.num = a, c, 2
			*dir = tripleCross(ac, ao, ac)
		} else if ab.Dot(&ao) >= 0 {
			s.a, s.b, s.num = a, b, 2
			*dir = tripleCross(ab, ao, ab)
		} else {
			s.a, s.num = a, 1
			*dir = ao
		}
		return false
	}
	if t.Cross(&ab, &abc); t.Dot(&ao) >= 0 {
		if ab.Dot(&ao) >= 0 {
			s.a, s.b, s.num = a, b, 2
			*dir = tripleCross(ab, ao, ab)
		} else {
			s.a, s.num = a, 1
			*dir = ao
		}
		return false
	}
	if abc.Dot(&ao) >= 0 {
		s.a, s.b, s.c, s.num = a, b, c, 3
		*dir = abc
	} else {
		s.a, s.b, s.c, s.num = a, c, b, 3
		dir.Neg(&abc)
	}
	return false
}

func doSimplex4(s *simplex, dir *lin.V3) bool {
	a, b, c, d := s.a, s.b, s.c, s.d
	var ao, ab, ac, ad, abc, acd, adb lin.V3
	ao.Neg(&a)
	ab.Sub(&b, &a)
	ac.Sub(&c, &a)
	ad.Sub(&d, &a)
	abc.Cross(&ab, &ac)
	acd.Cross(&ac, &ad)
	adb.Cross(&ad, &ab)

	var planes uint8
	if abc.Dot(&ao) >= 0 {
		planes |= 0x1
	}
	if acd.Dot(&ao) >= 0 {
		planes |= 0x2
	}
	if adb.Dot(&ao) >= 0 {
		planes |= 0x4
	}

	// resolveTriangle walks one of the three non-enclosing triangle cases:
	// the region adjacent to edge (a,pFar), the region adjacent to edge
	// (a,pNear), the vertex region at a, or the face itself (a,pNear,pFar).
	resolveTriangle := func(n, eFar, eNear, pFar, pNear lin.V3) {
		var t lin.V3
		if t.Cross(&n, &eFar); t.Dot(&ao) >= 0 {
			if eFar.Dot(&ao) >= 0 {
				s.a, s.b, s.num = a, pFar, 2
				*dir = tripleCross(eFar, ao, eFar)
			} else if eNear.Dot(&ao) >= 0 {
				s.a, s.b, s.num = a, pNear, 2
				*dir = tripleCross(eNear, ao, eNear)
			} else {
				s.a, s.num = a, 1
				*dir = ao
			}
			return
		}
		if t.Cross(&eNear, &n); t.Dot(&ao) >= 0 {
			if eNear.Dot(&ao) >= 0 {
				s.a, s.b, s.num = a, pNear, 2
				*dir = tripleCross(eNear, ao, eNear)
			} else {
				s.a, s.num = a, 1
				*dir = ao
			}
			return
		}
		s.a, s.b, s.c, s.num = a, pNear, pFar, 3
		*dir = n
	}

	switch planes {
	case 0x0:
		return true // origin enclosed: intersection.
	case 0x1:
		resolveTriangle(abc, ac, ab, c, b)
	case 0x2:
		resolveTriangle(acd, ad, ac, d, c)
	case 0x3:
		if ac.Dot(&ao) >= 0 {
			s.a, s.b, s.num = a, c, 2
			*dir = tripleCross(ac, ao, ac)
		} else {
			s.a, s.num = a, 1
			*dir = ao
		}
	case 0x4:
		resolveTriangle(adb, ab, ad, b, d)
	case 0x5:
		if ab.Dot(&ao) >= 0 {
			s.a, s.b, s.num = a, b, 2
			*dir = tripleCross(ab, ao, ab)
		} else {
			s.a, s.num = a, 1
			*dir = ao
		}
	case 0x6:
		if ad.Dot(&ao) >= 0 {
			s.a, s.b, s.num = a, d, 2
			*dir = tripleCross(ad, ao, ad)
		} else {
			s.a, s.num = a, 1
			*dir = ao
		}
	case 0x7:
		s.a, s.num = a, 1
		*dir = ao
	}
	return false
}

func doSimplex(s *simplex, dir *lin.V3) bool {
	switch s.num {
	case 2:
		return doSimplex2(s, dir)
	case 3:
		return doSimplex3(s, dir)
	case 4:
		return doSimplex4(s, dir)
	}
	return false
}

const gjkMaxIterations = 100

// gjkIntersect runs GJK on the Minkowski difference of a (under xfA) and
// b (under xfB), including each shape's margin. On intersection it writes
// the terminating 4-point simplex into out and returns true.
func gjkIntersect(xfA *lin.T, a shape.Shape, xfB *lin.T, b shape.Shape, out *simplex) bool {
	var s simplex
	dir := &lin.V3{X: 0, Y: 0, Z: 1}
	minkowskiSupport(xfA, a, xfB, b, true, dir, &s.a)
	s.num = 1
	dir = &lin.V3{}
	dir.Scale(&s.a, -1)

	for i := 0; i < gjkMaxIterations; i++ {
		var next lin.V3
		minkowskiSupport(xfA, a, xfB, b, true, dir, &next)
		if next.Dot(dir) < 0 {
			return false
		}
		s.push(next)
		if doSimplex(&s, dir) {
			if out != nil {
				*out = s
			}
			return true
		}
	}
	return false
}
