// Package world is the dynamics world: it owns bodies and joints, and
// drives the step pipeline of SPEC_FULL.md §4.9 (gravity, broad phase,
// narrow phase, island build, solve, integrate, sleep). Adapted from the
// reference engine's physics.Simulate entrypoint, rewired onto the
// sequential-impulse pipeline (solver/contact/island/collide) instead of
// the reference engine's own XPBD call, since the reference engine never
// routes Simulate through its own solver.go.
package world

import (
	"log/slog"
	"math"

	"github.com/kitskub/physics3d/body"
	"github.com/kitskub/physics3d/collide"
	"github.com/kitskub/physics3d/contact"
	"github.com/kitskub/physics3d/errs"
	"github.com/kitskub/physics3d/island"
	"github.com/kitskub/physics3d/joint"
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
	"github.com/kitskub/physics3d/solver"
)

// maxBodies bounds body id allocation. Unlike the reference engine, which
// only logs a warning on counter wraparound and still hands out a
// duplicate id, this world rejects allocation outright once the counter
// would overflow, per SPEC_FULL.md §4.10/§9(b).
const maxBodies = math.MaxUint32

// World owns the bodies and joints of one simulation and advances them
// one fixed timestep per Update call.
type World struct {
	cfg Config

	bodies []*body.Body
	byID   map[uint32]*body.Body
	nextID uint32

	joints      []*joint.Joint
	nextJointID uint32

	pairs     *collide.SAP
	manifolds map[collide.PairKey]*contact.Manifold

	old   map[uint32]*lin.T
	alpha float64
}

// New returns an empty world configured by cfg.
func New(cfg Config) *World {
	return &World{
		cfg:       cfg,
		byID:      map[uint32]*body.Body{},
		pairs:     collide.NewSAP(),
		manifolds: map[collide.PairKey]*contact.Manifold{},
		old:       map[uint32]*lin.T{},
	}
}

// CreateBody allocates a new body with the given shape and mass
// (mass == 0 makes it static). Returns errs.ErrInvalidArgument if shape
// is nil, errs.ErrInvalidState if the id counter is exhausted.
func (w *World) CreateBody(sh shape.Shape, mass, restitution float64) (*body.Body, error) {
	if w.nextID >= maxBodies {
		return nil, errs.InvalidState("body id counter exhausted")
	}
	b, err := body.New(w.nextID, sh)
	if err != nil {
		return nil, err
	}
	if err := b.SetMaterial(mass, restitution); err != nil {
		return nil, err
	}
	b.SetFriction(w.cfg.DefaultFriction)
	w.nextID++
	w.bodies = append(w.bodies, b)
	w.byID[b.ID()] = b
	return b, nil
}

// CreateStaticBody is a convenience for CreateBody(sh, 0, 0).
func (w *World) CreateStaticBody(sh shape.Shape) (*body.Body, error) {
	return w.CreateBody(sh, 0, 0)
}

// DestroyBody removes b from the world, along with any manifold or pair
// bookkeeping referencing it.
func (w *World) DestroyBody(b *body.Body) {
	delete(w.byID, b.ID())
	delete(w.old, b.ID())
	for i, candidate := range w.bodies {
		if candidate == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	w.retireManifolds(w.pairs.Remove(b.ID()))
}

// AddJoint assigns j an id and registers it so its constraint rows are
// solved every step.
func (w *World) AddJoint(j *joint.Joint) {
	j.ID = w.nextJointID
	w.nextJointID++
	w.joints = append(w.joints, j)
	j.BodyA.AddJointLink(j.ID)
	j.BodyB.AddJointLink(j.ID)
}

// RemoveJoint unregisters j. Returns errs.ErrInvalidState if j is not
// currently registered.
func (w *World) RemoveJoint(j *joint.Joint) error {
	for i, candidate := range w.joints {
		if candidate == j {
			w.joints = append(w.joints[:i], w.joints[i+1:]...)
			j.BodyA.RemoveJointLink(j.ID)
			j.BodyB.RemoveJointLink(j.ID)
			return nil
		}
	}
	return errs.InvalidState("joint not present in this world")
}

// Bodies returns the world's bodies in creation order.
func (w *World) Bodies() []*body.Body { return w.bodies }

// SetGravityEnabled toggles the global gravity switch.
func (w *World) SetGravityEnabled(on bool) { w.cfg.IsGravityOn = on }

// SetInterpolationFactor sets the fraction used by InterpolatedTransform
// to blend between a body's pre-step and post-step transform.
func (w *World) SetInterpolationFactor(alpha float64) { w.alpha = alpha }

// InterpolatedTransform returns lerp(oldTransform, currentTransform, α)
// for b, for renderers sampling between fixed steps. Falls back to b's
// current transform if no prior step has been recorded for it yet.
func (w *World) InterpolatedTransform(b *body.Body) *lin.T {
	old, ok := w.old[b.ID()]
	if !ok {
		return b.World()
	}
	out := lin.NewT()
	out.Loc.Lerp(old.Loc, b.World().Loc, w.alpha)
	out.Rot.Nlerp(old.Rot, b.World().Rot, w.alpha)
	return out
}

// Update advances the simulation by exactly one Config.Timestep, per
// SPEC_FULL.md §4.9's ten-step pipeline.
func (w *World) Update() {
	dt := w.cfg.Timestep
	gravity := w.cfg.gravityV3()

	w.saveOldTransforms()
	w.applyForces(&gravity, dt)
	w.refreshAabbs()

	added, removed := w.broadPhase()
	w.retireManifolds(removed)
	w.addManifolds(added)
	w.narrowPhase()

	islands := w.buildIslands()
	w.solve(dt)

	w.integratePositions(dt)
	w.clearForces()
	w.updateSleepState(islands, dt)
}

func (w *World) saveOldTransforms() {
	for _, b := range w.bodies {
		old, ok := w.old[b.ID()]
		if !ok {
			old = lin.NewT()
			w.old[b.ID()] = old
		}
		old.Set(b.World())
	}
}

func (w *World) applyForces(gravity *lin.V3, dt float64) {
	for _, b := range w.bodies {
		if b.IsSleeping() {
			continue
		}
		if w.cfg.IsGravityOn {
			b.ApplyGravity(gravity)
		}
		b.UpdateInertiaTensor()
		b.IntegrateVelocities(dt)
		b.ApplyDamping(dt)
	}
}

func (w *World) refreshAabbs() {
	var scratch shape.Abox
	for _, b := range w.bodies {
		b.SetMoved(true)
		b.WorldAabb(&scratch)
	}
}

// broadPhase keeps w.pairs's three persistent per-axis endpoint arrays in
// sync with the world's current bodies: bodies that gained or lost
// collision-enabled status are inserted into or removed from the
// structure, and every other collidable body's endpoints are bubbled to
// its refreshed bound. Added/removed pairs fall directly out of the
// min/max crossings those operations perform — nothing is resorted from
// scratch each step.
func (w *World) broadPhase() (added, removed []collide.PairKey) {
	var scratch shape.Abox
	live := make(map[uint32]bool, len(w.bodies))
	for _, b := range w.bodies {
		if !b.CollisionEnabled() {
			continue
		}
		live[b.ID()] = true
		box := *b.WorldAabb(&scratch)
		if w.pairs.Has(b.ID()) {
			a, r := w.pairs.Update(b.ID(), box)
			added = append(added, a...)
			removed = append(removed, r...)
		} else {
			added = append(added, w.pairs.Insert(b.ID(), box)...)
		}
	}
	for _, id := range w.pairs.Tracked() {
		if !live[id] {
			removed = append(removed, w.pairs.Remove(id)...)
		}
	}
	return added, removed
}

func (w *World) retireManifolds(removed []collide.PairKey) {
	for _, key := range removed {
		if m, ok := w.manifolds[key]; ok {
			m.BodyA.RemoveContactLink(key)
			m.BodyB.RemoveContactLink(key)
		}
		delete(w.manifolds, key)
	}
}

func (w *World) addManifolds(added []collide.PairKey) {
	for _, key := range added {
		a, aok := w.byID[key.Lo]
		b, bok := w.byID[key.Hi]
		if !aok || !bok {
			continue
		}
		w.manifolds[key] = contact.New(a, b)
		a.AddContactLink(key)
		b.AddContactLink(key)
	}
}

func (w *World) narrowPhase() {
	for key, m := range w.manifolds {
		a, aok := w.byID[key.Lo]
		b, bok := w.byID[key.Hi]
		if !aok || !bok {
			continue
		}
		m.Refresh()
		c, ok := collide.Narrow(a.World(), a.Shape(), b.World(), b.Shape())
		if !ok {
			continue
		}
		m.Merge(c)
	}
}

// bodyIndex maps a body id to its position in w.bodies, built once per
// step for the island builder's index-pair contract.
func (w *World) bodyIndex() map[uint32]int {
	idx := make(map[uint32]int, len(w.bodies))
	for i, b := range w.bodies {
		idx[b.ID()] = i
	}
	return idx
}

func (w *World) buildIslands() []island.Island {
	idx := w.bodyIndex()
	var contactPairs [][2]int
	for _, m := range w.manifolds {
		if len(m.Points) == 0 {
			continue
		}
		ia, aok := idx[m.BodyA.ID()]
		ib, bok := idx[m.BodyB.ID()]
		if aok && bok {
			contactPairs = append(contactPairs, [2]int{ia, ib})
		}
	}
	var jointPairs [][2]int
	for _, j := range w.joints {
		ia, aok := idx[j.BodyA.ID()]
		ib, bok := idx[j.BodyB.ID()]
		if aok && bok {
			jointPairs = append(jointPairs, [2]int{ia, ib})
		}
	}
	return island.Build(w.bodies, contactPairs, jointPairs)
}

// solve runs every awake body's contact, friction, and joint rows
// through a single sequential-impulse pass, grounded on the reference
// engine's own solveIterations, which likewise iterates the full
// manifold list in one pass rather than per island. Islands (see
// buildIslands) are used only to decide sleep state, in updateSleepState.
func (w *World) solve(dt float64) {
	awake := make([]*body.Body, 0, len(w.bodies))
	for _, b := range w.bodies {
		if b.MotionEnabled() && !b.IsSleeping() {
			awake = append(awake, b)
		}
	}

	proxies := solver.BuildProxies(awake)
	manifolds := make([]*contact.Manifold, 0, len(w.manifolds))
	for _, m := range w.manifolds {
		if m.BodyA.IsSleeping() || m.BodyB.IsSleeping() {
			continue
		}
		manifolds = append(manifolds, m)
	}
	contactRows, frictionRows := solver.ContactRows(proxies, manifolds, w.solverInfo(dt))

	var bilateralRows []*solver.Constraint
	for _, j := range w.joints {
		if j.BodyA.IsSleeping() || j.BodyB.IsSleeping() {
			continue
		}
		bilateralRows = append(bilateralRows, j.Rows(proxies, dt)...)
	}
	solver.Solve(proxies, contactRows, frictionRows, bilateralRows, w.solverInfo(dt))
}

func (w *World) solverInfo(dt float64) solver.Info {
	info := solver.DefaultInfo(dt)
	info.Iterations = w.cfg.VelocityIterations
	info.PositionIterations = w.cfg.PositionIterations
	return info
}

func (w *World) integratePositions(dt float64) {
	for _, b := range w.bodies {
		if b.MotionEnabled() && !b.IsSleeping() {
			b.UpdateWorldTransform(dt)
		}
	}
}

func (w *World) clearForces() {
	for _, b := range w.bodies {
		b.ClearForces()
	}
}

// updateSleepState puts every body of an island to sleep once all of its
// members have held velocities below threshold for Config.SleepTime.
// Nothing is woken here: island.Build leaves sleeping bodies out of every
// island, and a contact or joint with an awake body does not wake them;
// a sleeping body stays asleep until its Wake method is called (as
// ApplyForceAtPoint does).
func (w *World) updateSleepState(islands []island.Island, dt float64) {
	if !w.cfg.IsSleepingAllowed {
		return
	}
	for _, isl := range islands {
		minTimer := math.MaxFloat64
		for _, idx := range isl.Bodies {
			b := w.bodies[idx]
			if b.IsSleeping() {
				minTimer = 0
				continue
			}
			t := b.AccumulateSleepTimer(dt, w.cfg.SleepLinearThresh, w.cfg.SleepAngularThresh)
			if t < minTimer {
				minTimer = t
			}
		}
		if minTimer >= w.cfg.SleepTime {
			for _, idx := range isl.Bodies {
				b := w.bodies[idx]
				if !b.IsSleeping() {
					slog.Debug("island asleep", "body_id", b.ID())
				}
				b.Sleep()
			}
		}
	}
}

// ApplyForceAtPoint applies a world-space force at a world-space point
// to b, waking it if it was asleep. Only b is woken; bodies that went to
// sleep in the same island as b stay asleep.
func ApplyForceAtPoint(b *body.Body, force, point *lin.V3) {
	if b.IsSleeping() {
		b.Wake()
	}
	b.ApplyForceAtPoint(force, point)
}
