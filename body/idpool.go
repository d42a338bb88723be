package body

import "github.com/kitskub/physics3d/errs"

// IDPool hands out dense body ids suitable for use as array indices: a
// monotonic counter for ids never seen before, backed by a free list so
// that destroyed bodies' ids are reused rather than burned. The teacher's
// equivalent (bodyUUID/bodyUUIDMutex in body.go) never reuses ids and
// only logs a warning on uint32 wraparound; this pool proactively checks
// the counter before handing out an id and rejects instead, since ids
// here are array indices and a silently wrapped, duplicate id would
// alias two live bodies.
type IDPool struct {
	next uint32
	free []uint32
}

// NewIDPool returns an empty pool.
func NewIDPool() *IDPool { return &IDPool{} }

// Alloc returns an id not currently in use.
func (p *IDPool) Alloc() (uint32, error) {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		return id, nil
	}
	if p.next == ^uint32(0) {
		return 0, errs.InvalidState("body id pool exhausted")
	}
	id := p.next
	p.next++
	return id, nil
}

// Free returns id to the pool for reuse.
func (p *IDPool) Free(id uint32) {
	p.free = append(p.free, id)
}
