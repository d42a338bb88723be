// Package body defines the rigid body data model: transform, motion
// state, material, and the intrusive-list hooks contacts and joints
// thread through it. Adapted from the teacher's physics/body.go, with
// the cgo box-box scratch fields dropped (narrow phase is pure Go, see
// the collide package) and solver/gravity/damping bookkeeping kept.
package body

import (
	"github.com/kitskub/physics3d/collide"
	"github.com/kitskub/physics3d/errs"
	"github.com/kitskub/physics3d/math/lin"
	"github.com/kitskub/physics3d/shape"
)

// ContactLink is one node of the singly-linked list of overlapping pairs
// a body currently participates in. Manifolds themselves live in the
// contact package, keyed by PairKey; a body only remembers which pairs
// touch it.
type ContactLink struct {
	Pair collide.PairKey
	Next *ContactLink
}

// JointLink is one node of the singly-linked list of joints a body
// participates in, identified by the owning joint package's id.
type JointLink struct {
	JointID uint32
	Next    *JointLink
}

// Body is a single rigid body. Zero mass (MotionEnabled false, or
// invMass 0) gives infinite effective mass: InvMass and InvInertia read
// as zero in solver math.
type Body struct {
	id    uint32
	shape shape.Shape

	world *lin.T // current world transform.
	guess *lin.T // predicted world transform, from the last UpdatePredictedTransform call.
	aabb  shape.Abox

	motionEnabled    bool
	collisionEnabled bool
	sleeping         bool
	moved            bool
	gravityEnabled   bool
	sleepTimer       float64

	mass, invMass float64
	iit           lin.V3  // inverse local inertia tensor (diagonal).
	iitw          *lin.M3 // inverse inertia tensor, world-oriented.

	lvel, lfor   *lin.V3
	avel, afor   *lin.V3
	ldamp, adamp float64

	friction, restitution float64

	ContactHead *ContactLink
	JointHead   *JointLink

	v0, v1 *lin.V3 // scratch vectors.
	m0, m1 *lin.M3 // scratch matrices.
	t0     *lin.T  // scratch transform.
}

// New returns a new dynamic-capable Body with the given shape, id, and
// infinite mass (static) until SetMaterial is called. Returns
// errs.ErrInvalidArgument if shape is nil.
func New(id uint32, sh shape.Shape) (*Body, error) {
	if sh == nil {
		return nil, errs.InvalidArgument("body shape must not be nil")
	}
	b := &Body{
		id:               id,
		shape:            sh,
		world:            lin.NewT().SetI(),
		guess:            lin.NewT().SetI(),
		collisionEnabled: true,
		gravityEnabled:   true,
		friction:         0.5,
		lvel:             lin.NewV3(),
		lfor:             lin.NewV3(),
		avel:             lin.NewV3(),
		afor:             lin.NewV3(),
		iitw:             lin.NewM3().Set(lin.M3I),
		v0:               &lin.V3{},
		v1:               &lin.V3{},
		m0:               &lin.M3{},
		m1:               &lin.M3{},
		t0:               lin.NewT(),
	}
	return b, nil
}

// ID returns the body's id, unique within the world that owns it.
func (b *Body) ID() uint32 { return b.id }

// Shape returns the body's collision shape.
func (b *Body) Shape() shape.Shape { return b.shape }

// World returns the body's current world transform.
func (b *Body) World() *lin.T { return b.world }

// SetWorld sets the body's current world transform.
func (b *Body) SetWorld(w *lin.T) { b.world = w }

// MotionEnabled reports whether the body participates in dynamics.
func (b *Body) MotionEnabled() bool { return b.motionEnabled }

// CollisionEnabled reports whether the body participates in collision
// detection.
func (b *Body) CollisionEnabled() bool { return b.collisionEnabled }

// SetCollisionEnabled toggles collision participation.
func (b *Body) SetCollisionEnabled(on bool) { b.collisionEnabled = on }

// SetGravityEnabled toggles whether ApplyGravity affects this body.
func (b *Body) SetGravityEnabled(on bool) { b.gravityEnabled = on }

// GravityEnabled reports the gravity toggle.
func (b *Body) GravityEnabled() bool { return b.gravityEnabled }

// IsSleeping reports whether the body is currently asleep.
func (b *Body) IsSleeping() bool { return b.sleeping }

// Sleep puts the body to sleep: zeroes velocity and forces, per the
// invariant that a sleeping body carries no motion or accumulated load.
func (b *Body) Sleep() {
	b.sleeping = true
	b.lvel.SetS(0, 0, 0)
	b.avel.SetS(0, 0, 0)
	b.ClearForces()
}

// Wake clears the sleeping flag and resets the sleep timer.
func (b *Body) Wake() {
	b.sleeping = false
	b.sleepTimer = 0
}

// SleepTimer returns the accumulated time the body has spent below the
// sleep velocity thresholds.
func (b *Body) SleepTimer() float64 { return b.sleepTimer }

// AccumulateSleepTimer adds dt to the sleep timer if the body's linear
// and angular speeds are both below their thresholds, otherwise resets
// it to zero. Returns the updated timer value.
func (b *Body) AccumulateSleepTimer(dt, linThresh, angThresh float64) float64 {
	if b.lvel.Len() < linThresh && b.avel.Len() < angThresh {
		b.sleepTimer += dt
	} else {
		b.sleepTimer = 0
	}
	return b.sleepTimer
}

// AddContactLink pushes pair onto the body's list of overlapping pairs.
func (b *Body) AddContactLink(pair collide.PairKey) {
	b.ContactHead = &ContactLink{Pair: pair, Next: b.ContactHead}
}

// RemoveContactLink drops pair from the body's list of overlapping
// pairs, if present.
func (b *Body) RemoveContactLink(pair collide.PairKey) {
	for link, prev := b.ContactHead, (*ContactLink)(nil); link != nil; link = link.Next {
		if link.Pair == pair {
			if prev == nil {
				b.ContactHead = link.Next
			} else {
				prev.Next = link.Next
			}
			return
		}
		prev = link
	}
}

// AddJointLink pushes jointID onto the body's list of joints.
func (b *Body) AddJointLink(jointID uint32) {
	b.JointHead = &JointLink{JointID: jointID, Next: b.JointHead}
}

// RemoveJointLink drops jointID from the body's list of joints, if
// present.
func (b *Body) RemoveJointLink(jointID uint32) {
	for link, prev := b.JointHead, (*JointLink)(nil); link != nil; link = link.Next {
		if link.JointID == jointID {
			if prev == nil {
				b.JointHead = link.Next
			} else {
				prev.Next = link.Next
			}
			return
		}
		prev = link
	}
}

// HasMoved reports the moved flag as last set by SetMoved.
func (b *Body) HasMoved() bool { return b.moved }

// SetMoved marks the body as having moved (or not).
func (b *Body) SetMoved(m bool) { b.moved = m }

// Speed returns the current linear velocity.
func (b *Body) Speed() (x, y, z float64) { return b.lvel.X, b.lvel.Y, b.lvel.Z }

// Whirl returns the current angular velocity.
func (b *Body) Whirl() (x, y, z float64) { return b.avel.X, b.avel.Y, b.avel.Z }

// Push adds to the body's linear velocity.
func (b *Body) Push(x, y, z float64) { b.lvel.X, b.lvel.Y, b.lvel.Z = b.lvel.X+x, b.lvel.Y+y, b.lvel.Z+z }

// Turn adds to the body's angular velocity.
func (b *Body) Turn(x, y, z float64) { b.avel.X, b.avel.Y, b.avel.Z = b.avel.X+x, b.avel.Y+y, b.avel.Z+z }

// Stop zeroes linear velocity.
func (b *Body) Stop() { b.lvel.SetS(0, 0, 0) }

// Rest zeroes angular velocity.
func (b *Body) Rest() { b.avel.SetS(0, 0, 0) }

// InvMass returns the inverse mass: zero for a static or motion-disabled
// body.
func (b *Body) InvMass() float64 {
	if !b.motionEnabled {
		return 0
	}
	return b.invMass
}

// InvInertiaWorld returns the world-oriented inverse inertia tensor.
func (b *Body) InvInertiaWorld() *lin.M3 {
	if !b.motionEnabled {
		return &lin.M3{}
	}
	return b.iitw
}

// SetMaterial assigns mass and restitution. Zero mass marks the body
// static (infinite effective mass, immovable). Returns
// errs.ErrInvalidArgument if mass is negative.
func (b *Body) SetMaterial(mass, restitution float64) error {
	if mass < 0 {
		return errs.InvalidArgument("body mass must be non-negative, got %v", mass)
	}
	b.invMass = 0
	if !lin.AeqZ(mass) {
		b.invMass = 1.0 / mass
		var localIit lin.V3
		b.shape.Inertia(mass, &localIit)
		b.iit.X = invOrZero(localIit.X)
		b.iit.Y = invOrZero(localIit.Y)
		b.iit.Z = invOrZero(localIit.Z)
	} else {
		b.iit.X, b.iit.Y, b.iit.Z = 0, 0, 0
	}
	b.mass = mass
	b.restitution = restitution
	b.motionEnabled = b.invMass != 0
	return nil
}

func invOrZero(v float64) float64 {
	if lin.AeqZ(v) {
		return 0
	}
	return 1.0 / v
}

// SetFriction sets the body's surface friction coefficient.
func (b *Body) SetFriction(f float64) { b.friction = f }

// Friction returns the body's surface friction coefficient.
func (b *Body) Friction() float64 { return b.friction }

// SetDamping sets linear and angular damping. Returns
// errs.ErrInvalidArgument if either is negative.
func (b *Body) SetDamping(linear, angular float64) error {
	if linear < 0 || angular < 0 {
		return errs.InvalidArgument("damping must be non-negative, got (%v,%v)", linear, angular)
	}
	b.ldamp, b.adamp = linear, angular
	return nil
}

// ApplyGravity adds gravity's contribution to the body's accumulated
// linear force. Static and gravity-disabled bodies are unaffected.
func (b *Body) ApplyGravity(gravity *lin.V3) {
	if b.motionEnabled && b.gravityEnabled {
		b.lfor.X += gravity.X * b.mass
		b.lfor.Y += gravity.Y * b.mass
		b.lfor.Z += gravity.Z * b.mass
	}
}

// ApplyForce accumulates a world-space force at the body's center of
// mass, to be integrated on the next IntegrateVelocities call. Has no
// effect on a static or motion-disabled body.
func (b *Body) ApplyForce(force *lin.V3) {
	if !b.motionEnabled {
		return
	}
	b.lfor.Add(b.lfor, force)
}

// ApplyForceAtPoint accumulates a world-space force applied at a
// world-space point, splitting it into its linear contribution and the
// torque it induces about the body's center of mass.
func (b *Body) ApplyForceAtPoint(force, point *lin.V3) {
	if !b.motionEnabled {
		return
	}
	b.lfor.Add(b.lfor, force)
	rel := b.v0
	rel.Sub(point, b.world.Loc)
	torque := b.v1
	torque.Cross(rel, force)
	b.afor.Add(b.afor, torque)
}

// ApplyTorque accumulates a world-space torque, to be integrated on the
// next IntegrateVelocities call.
func (b *Body) ApplyTorque(torque *lin.V3) {
	if !b.motionEnabled {
		return
	}
	b.afor.Add(b.afor, torque)
}

// UpdateInertiaTensor recomputes the world-oriented inverse inertia
// tensor from the body's current orientation: Iw⁻¹ = R·I⁻¹·Rᵀ.
func (b *Body) UpdateInertiaTensor() {
	worldBasis, basisT := b.m0, b.m1
	worldBasis.SetQ(b.world.Rot)
	basisT.Transpose(worldBasis)
	b.iitw.Mult(worldBasis.ScaleV(&b.iit), basisT)
}

// IntegrateVelocities applies accumulated forces and torques over ts to
// update linear and angular velocity, then clamps angular velocity so a
// single step cannot rotate a body more than a quarter turn (the solver
// and narrow phase assume small angular steps).
func (b *Body) IntegrateVelocities(ts float64) {
	if !b.motionEnabled {
		return
	}
	m := b.invMass * ts
	b.lvel.X, b.lvel.Y, b.lvel.Z = b.lvel.X+b.lfor.X*m, b.lvel.Y+b.lfor.Y*m, b.lvel.Z+b.lfor.Z*m

	torque := b.v0
	torque.MultMv(b.iitw, b.afor)
	b.avel.X, b.avel.Y, b.avel.Z = b.avel.X+torque.X*ts, b.avel.Y+torque.Y*ts, b.avel.Z+torque.Z*ts

	avel := b.avel.Len()
	if avel*ts > lin.HalfPi {
		b.avel.Scale(b.avel, lin.HalfPi/ts/avel)
	}
}

// ApplyDamping scales linear and angular velocity by 1/(1+ts*k), where k
// is the respective damping factor, for the given timestep.
func (b *Body) ApplyDamping(ts float64) {
	b.lvel.Scale(b.lvel, 1.0/(1.0+ts*b.ldamp))
	b.avel.Scale(b.avel, 1.0/(1.0+ts*b.adamp))
}

// VelocityAtLocalPoint writes into out the linear velocity of the body
// at localPoint (in the body's local frame): v + ω×p.
func (b *Body) VelocityAtLocalPoint(localPoint, out *lin.V3) *lin.V3 {
	return out.Cross(b.avel, localPoint).Add(out, b.lvel)
}

// CombinedFriction is the Coulomb friction coefficient for a contact
// between b and a: the product of each body's surface friction.
func (b *Body) CombinedFriction(a *Body) float64 {
	return lin.Clamp(a.friction*b.friction, 0, maxFriction)
}

// CombinedRestitution is the bounce coefficient for a contact between b
// and a: the product of each body's restitution.
func (b *Body) CombinedRestitution(a *Body) float64 {
	return a.restitution * b.restitution
}

// maxFriction bounds CombinedFriction. The teacher's body.go references
// an identically named constant that is never defined anywhere in that
// package (a pre-existing defect in the retrieved source, not something
// this module reproduces); 10 is a generous, commonly used clamp for
// combined Coulomb friction coefficients.
const maxFriction = 10.0

// WorldAabb writes into ab the body's axis-aligned bound at its current
// world transform.
func (b *Body) WorldAabb(ab *shape.Abox) *shape.Abox {
	b.aabb = *b.shape.Aabb(b.world, ab)
	return ab
}

// PredictedAabb writes into ab the body's axis-aligned bound at its
// predicted world transform (see UpdatePredictedTransform).
func (b *Body) PredictedAabb(ab *shape.Abox) *shape.Abox {
	return b.shape.Aabb(b.guess, ab)
}

// UpdatePredictedTransform estimates where the body will be after ts
// seconds at its current velocities, without committing the motion.
func (b *Body) UpdatePredictedTransform(ts float64) {
	b.guess.Integrate(b.world, b.lvel, b.avel, ts)
}

// UpdateWorldTransform commits ts seconds of motion at the body's
// current velocities to its world transform. Expected to be called after
// the solver has finished correcting velocities for this step.
func (b *Body) UpdateWorldTransform(ts float64) {
	b.t0.Integrate(b.world, b.lvel, b.avel, ts)
	b.world.Set(b.t0)
}

// ClearForces zeroes the accumulated linear force and torque.
func (b *Body) ClearForces() {
	b.lfor.SetS(0, 0, 0)
	b.afor.SetS(0, 0, 0)
}
