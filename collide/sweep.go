package collide

import "github.com/kitskub/physics3d/shape"

// axis overlap bits, one per world axis, mirroring shape.OverlapX/Y/Z.
const (
	axisX = 1 << iota
	axisY
	axisZ
	axisAll = axisX | axisY | axisZ
)

// endpoint is one entry of a per-axis sorted array: either the minimum or
// the maximum extent of a proxy's bound along that axis.
type endpoint struct {
	body  uint32
	min   bool
	value float64
}

// SAP is an incremental sweep-and-prune broad phase: it keeps three
// persistent sorted endpoint arrays (one per world axis) instead of
// re-sorting every proxy from scratch each step. Insert and Remove splice
// a body's endpoints in and out; Update moves a body's endpoints to its
// new bound and bubble-swaps them into sorted position, toggling the
// overlap bit for that axis every time a min endpoint crosses a max
// endpoint of another body. A pair is reported added the instant its
// mask reaches all three axis bits, and removed the instant it drops
// below that — no candidate is ever re-tested against every other proxy
// the way a from-scratch sort-and-sweep would.
type SAP struct {
	arr    [3][]endpoint
	minAt  [3]map[uint32]int
	maxAt  [3]map[uint32]int
	boxes  map[uint32]shape.Abox
	mask   map[PairKey]uint8
	active map[PairKey]struct{}
}

// NewSAP returns an empty incremental broad phase.
func NewSAP() *SAP {
	s := &SAP{
		boxes:  map[uint32]shape.Abox{},
		mask:   map[PairKey]uint8{},
		active: map[PairKey]struct{}{},
	}
	for a := 0; a < 3; a++ {
		s.minAt[a] = map[uint32]int{}
		s.maxAt[a] = map[uint32]int{}
	}
	return s
}

func axisMin(axis int, b *shape.Abox) float64 {
	switch axis {
	case 0:
		return b.Sx
	case 1:
		return b.Sy
	default:
		return b.Sz
	}
}

func axisMax(axis int, b *shape.Abox) float64 {
	switch axis {
	case 0:
		return b.Lx
	case 1:
		return b.Ly
	default:
		return b.Lz
	}
}

// Has reports whether body currently has endpoints tracked.
func (s *SAP) Has(body uint32) bool {
	_, ok := s.boxes[body]
	return ok
}

// Tracked returns the ids of every body with endpoints currently in the
// structure, in no particular order.
func (s *SAP) Tracked() []uint32 {
	out := make([]uint32, 0, len(s.boxes))
	for id := range s.boxes {
		out = append(out, id)
	}
	return out
}

// Insert adds body's bound to all three axes and reports any pairs that
// become fully overlapping as its endpoints bubble into place against
// the existing arrays.
func (s *SAP) Insert(body uint32, box shape.Abox) (added []PairKey) {
	s.boxes[body] = box
	for axis := 0; axis < 3; axis++ {
		s.arr[axis] = append(s.arr[axis], endpoint{body: body, min: true, value: axisMin(axis, &box)})
		iMin := len(s.arr[axis]) - 1
		s.minAt[axis][body] = iMin

		s.arr[axis] = append(s.arr[axis], endpoint{body: body, min: false, value: axisMax(axis, &box)})
		iMax := len(s.arr[axis]) - 1
		s.maxAt[axis][body] = iMax

		a, _ := s.sift(axis, iMin)
		added = append(added, a...)
		a, _ = s.sift(axis, s.maxAt[axis][body])
		added = append(added, a...)
	}
	return dedupe(added)
}

// Remove drops body's endpoints from all three axes and reports any
// pairs that were active for it as removed.
func (s *SAP) Remove(body uint32) (removed []PairKey) {
	if !s.Has(body) {
		return nil
	}
	delete(s.boxes, body)
	for key := range s.active {
		if key.Lo == body || key.Hi == body {
			removed = append(removed, key)
			delete(s.active, key)
		}
	}
	for key := range s.mask {
		if key.Lo == body || key.Hi == body {
			delete(s.mask, key)
		}
	}
	for axis := 0; axis < 3; axis++ {
		s.removeAxis(axis, body)
	}
	return removed
}

func (s *SAP) removeAxis(axis int, body uint32) {
	kept := s.arr[axis][:0]
	for _, e := range s.arr[axis] {
		if e.body == body {
			continue
		}
		kept = append(kept, e)
	}
	s.arr[axis] = kept
	delete(s.minAt[axis], body)
	delete(s.maxAt[axis], body)
	for i, e := range s.arr[axis] {
		if e.min {
			s.minAt[axis][e.body] = i
		} else {
			s.maxAt[axis][e.body] = i
		}
	}
}

// Update moves body's endpoints to box's extents and bubble-swaps them
// into sorted position, returning the pairs that started (added) and
// stopped (removed) fully overlapping as a result. If body was not
// already tracked, Update inserts it instead.
func (s *SAP) Update(body uint32, box shape.Abox) (added, removed []PairKey) {
	if !s.Has(body) {
		return s.Insert(body, box), nil
	}
	s.boxes[body] = box
	for axis := 0; axis < 3; axis++ {
		mi := s.minAt[axis][body]
		s.arr[axis][mi].value = axisMin(axis, &box)
		a, r := s.sift(axis, mi)
		added = append(added, a...)
		removed = append(removed, r...)

		xi := s.maxAt[axis][body]
		s.arr[axis][xi].value = axisMax(axis, &box)
		a, r = s.sift(axis, xi)
		added = append(added, a...)
		removed = append(removed, r...)
	}
	return dedupe(added), dedupe(removed)
}

// sift bubbles the endpoint at i into sorted position along axis,
// toggling pair overlap state on every min/max crossing, and reports the
// pairs that transitioned to (added) or from (removed) full overlap.
func (s *SAP) sift(axis, i int) (added, removed []PairKey) {
	arr := s.arr[axis]
	for i > 0 && arr[i-1].value > arr[i].value {
		a, r := s.toggle(axis, i-1, i)
		added, removed = appendKey(added, a), appendKey(removed, r)
		i--
	}
	for i < len(arr)-1 && arr[i+1].value < arr[i].value {
		a, r := s.toggle(axis, i, i+1)
		added, removed = appendKey(added, a), appendKey(removed, r)
		i++
	}
	return added, removed
}

// toggle swaps the adjacent endpoints at i, i+1 on axis and, if they
// belong to different bodies and are one min and one max, flips that
// axis's overlap bit for the pair. It returns the pair key as added or
// removed if the flip pushed the pair's mask to or from all three axes.
func (s *SAP) toggle(axis, i, j int) (added, removed PairKey) {
	arr := s.arr[axis]
	e1, e2 := arr[i], arr[j]
	arr[i], arr[j] = e2, e1
	if e1.min {
		s.minAt[axis][e1.body] = j
	} else {
		s.maxAt[axis][e1.body] = j
	}
	if e2.min {
		s.minAt[axis][e2.body] = i
	} else {
		s.maxAt[axis][e2.body] = i
	}

	if e1.body == e2.body || e1.min == e2.min {
		return PairKey{}, PairKey{}
	}
	key := NewPairKey(e1.body, e2.body)
	bit := uint8(1) << uint(axis)
	wasAll := s.mask[key] == axisAll
	next := s.mask[key] ^ bit
	if next == 0 {
		delete(s.mask, key)
	} else {
		s.mask[key] = next
	}
	nowAll := next == axisAll
	switch {
	case !wasAll && nowAll:
		s.active[key] = struct{}{}
		return key, PairKey{}
	case wasAll && !nowAll:
		delete(s.active, key)
		return PairKey{}, key
	}
	return PairKey{}, PairKey{}
}

func appendKey(keys []PairKey, k PairKey) []PairKey {
	if k == (PairKey{}) {
		return keys
	}
	return append(keys, k)
}

func dedupe(keys []PairKey) []PairKey {
	if len(keys) < 2 {
		return keys
	}
	seen := make(map[PairKey]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Active reports whether key is currently overlapping on all three axes.
func (s *SAP) Active(key PairKey) bool {
	_, ok := s.active[key]
	return ok
}

// Len returns the number of currently active pairs.
func (s *SAP) Len() int { return len(s.active) }

// Pairs returns the currently active pairs in no particular order.
func (s *SAP) Pairs() []PairKey {
	out := make([]PairKey, 0, len(s.active))
	for k := range s.active {
		out = append(out, k)
	}
	return out
}
