package collide

// PairKey identifies an unordered pair of body ids. Lo is always the
// smaller id so that (a,b) and (b,a) hash and compare identically.
type PairKey struct {
	Lo, Hi uint32
}

// NewPairKey orders a and b into a canonical PairKey.
func NewPairKey(a, b uint32) PairKey {
	if a < b {
		return PairKey{Lo: a, Hi: b}
	}
	return PairKey{Lo: b, Hi: a}
}
