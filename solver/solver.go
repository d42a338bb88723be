// Package solver implements a sequential-impulse (Projected Gauss-Seidel)
// constraint solver: contact and friction rows are built from a contact
// manifold's points, then iterated until the accumulated impulses satisfy
// the non-penetration and Coulomb-friction limits. Adapted from the
// teacher's physics/solver.go, itself a scaled-down port of Bullet's
// btSequentialImpulseConstraintSolver.
package solver

import (
	"math"

	"github.com/kitskub/physics3d/body"
	"github.com/kitskub/physics3d/contact"
	"github.com/kitskub/physics3d/math/lin"
)

// Proxy is the solver's per-body working state for one step: the
// velocities the constraints adjust, plus the split-impulse push/turn
// velocities used for position correction. Ref is nil for a fixed
// anchor (a static or motion-disabled body, or a world reference),
// mirroring the teacher's solverBody.oBody == nil convention.
type Proxy struct {
	Ref        *body.Body
	World      *lin.T
	LinVel     lin.V3
	AngVel     lin.V3
	DeltaLin   lin.V3
	DeltaAng   lin.V3
	PushVel    lin.V3
	TurnVel    lin.V3
	InvMass    float64
	InvInertia *lin.M3
}

// NewProxy builds a solver proxy from a live body.
func NewProxy(b *body.Body) *Proxy {
	p := &Proxy{Ref: b, World: lin.NewT().Set(b.World()), InvInertia: b.InvInertiaWorld()}
	x, y, z := b.Speed()
	p.LinVel.SetS(x, y, z)
	x, y, z = b.Whirl()
	p.AngVel.SetS(x, y, z)
	p.InvMass = b.InvMass()
	return p
}

// fixedProxy returns a new, immovable proxy for a body that does not
// participate in this constraint (static body, or the opposite end of a
// world-anchored joint). Mirrors the teacher's fixedSolverBody.
func fixedProxy() *Proxy {
	return &Proxy{World: lin.NewT().SetI(), InvInertia: &lin.M3{}}
}

func (p *Proxy) applyImpulse(linear *lin.V3, angular *lin.V3, mag float64) {
	if p.Ref == nil {
		return
	}
	var dl, da lin.V3
	p.DeltaLin.Add(&p.DeltaLin, dl.Scale(linear, mag))
	p.DeltaAng.Add(&p.DeltaAng, da.Scale(angular, mag))
}

func (p *Proxy) applyPushImpulse(linear *lin.V3, angular *lin.V3, mag float64) {
	if p.Ref == nil {
		return
	}
	var dl, da lin.V3
	p.PushVel.Add(&p.PushVel, dl.Scale(linear, mag))
	p.TurnVel.Add(&p.TurnVel, da.Scale(angular, mag))
}

// writeback folds the solved delta velocities (and, under split impulse,
// the position correction) back into the live body.
func (p *Proxy) writeback(info Info) {
	if p.Ref == nil {
		return
	}
	p.LinVel.Add(&p.LinVel, &p.DeltaLin)
	p.AngVel.Add(&p.AngVel, &p.DeltaAng)
	if info.SplitImpulse {
		if p.PushVel.X != 0 || p.PushVel.Y != 0 || p.PushVel.Z != 0 ||
			p.TurnVel.X != 0 || p.TurnVel.Y != 0 || p.TurnVel.Z != 0 {
			var turn lin.V3
			turn.Scale(&p.TurnVel, info.SplitImpulseTurnErp)
			next := lin.NewT().Set(p.World)
			next.Integrate(p.World, &p.PushVel, &turn, info.Timestep)
			p.World.Set(next)
		}
	}
	p.Ref.SetWorld(p.World)
	p.Ref.Stop()
	p.Ref.Push(p.LinVel.X, p.LinVel.Y, p.LinVel.Z)
	p.Ref.Rest()
	p.Ref.Turn(p.AngVel.X, p.AngVel.Y, p.AngVel.Z)
}

// Constraint is one scalar row in the linear complementarity problem:
// an axis (Normal) along which an impulse is applied to A and the
// opposite impulse to B, subject to [LowerLimit, UpperLimit]. Adapted
// from the teacher's solverConstraint.
type Constraint struct {
	A, B                               *Proxy
	Normal                             lin.V3
	RelPosACrossNormal                 lin.V3
	RelPosBCrossNormal                 lin.V3
	AngularA, AngularB                 lin.V3
	JacDiagABInv                       float64
	AppliedImpulse, AppliedPushImpulse float64
	RHS, RHSPenetration                float64
	CFM, LowerLimit, UpperLimit        float64
	Friction                           float64
	FrictionRow                        *Constraint // contact row's paired friction row, nil otherwise.
	Warm                               *float64    // points at the manifold point's persisted impulse, nil if none.
}

// Proxies maps a dynamic body's id to its solver proxy for one step. A
// body absent from the map (static, or motion disabled) resolves to a
// fresh fixed anchor via ProxyOf.
type Proxies map[uint32]*Proxy

// BuildProxies creates one Proxy per dynamic body, ready to accumulate
// delta velocities from contact and joint rows built against it.
func BuildProxies(bodies []*body.Body) Proxies {
	proxies := Proxies{}
	for _, b := range bodies {
		if b.MotionEnabled() {
			proxies[b.ID()] = NewProxy(b)
		}
	}
	return proxies
}

// ProxyOf returns b's proxy, or a fixed anchor if b is static or
// motion-disabled.
func (proxies Proxies) ProxyOf(b *body.Body) *Proxy {
	if p, ok := proxies[b.ID()]; ok {
		return p
	}
	return fixedProxy()
}

// Writeback folds every proxy's solved velocity (and, under split
// impulse, position correction) back into its live body. Call once
// after all of a step's rows have been solved.
func (proxies Proxies) Writeback(info Info) {
	for _, p := range proxies {
		p.writeback(info)
	}
}

// ContactRows converts a manifold's points into paired contact/friction
// constraint rows against proxies, grounded on
// solver.setupConstraints/convertContacts. Manifolds between two fixed
// bodies contribute nothing.
func ContactRows(proxies Proxies, manifolds []*contact.Manifold, info Info) (contactRows, frictionRows []*Constraint) {
	for _, m := range manifolds {
		pa, pb := proxies.ProxyOf(m.BodyA), proxies.ProxyOf(m.BodyB)
		if pa.Ref == nil && pb.Ref == nil {
			continue // ignore collisions between two fixed bodies.
		}
		for i := range m.Points {
			cc, fc := convertPoint(&m.Points[i], pa, pb, info)
			contactRows = append(contactRows, cc)
			frictionRows = append(frictionRows, fc)
		}
	}
	return contactRows, frictionRows
}

// Solve runs the sequential-impulse iteration over every row supplied —
// contact rows, their paired friction rows, and any bilateral rows a
// caller built with BuildRow (joints) — then writes the result back
// into the bodies behind proxies. bilateral rows participate in every
// velocity iteration the same way a contact row does; they have no
// friction pairing so frictionRows should not include them.
func Solve(proxies Proxies, contactRows, frictionRows, bilateralRows []*Constraint, info Info) {
	solve(contactRows, frictionRows, bilateralRows, info)
	proxies.Writeback(info)
}

// SolveManifolds runs one full solver step for all bodies and contact
// manifolds passed in, with no joint rows. Convenience wrapper over
// BuildProxies/ContactRows/Solve for callers with no joints to solve.
func SolveManifolds(bodies []*body.Body, manifolds []*contact.Manifold, info Info) {
	proxies := BuildProxies(bodies)
	contactRows, frictionRows := ContactRows(proxies, manifolds, info)
	Solve(proxies, contactRows, frictionRows, nil, info)
}

// BuildRow constructs a bilateral (equality) constraint row along axis,
// between point offsets relA/relB (each relative to its body's world
// origin), biased toward closing posError (measured along axis) using
// Baumgarte stabilization at rate erp over timestep dt. Used by the
// joint package to build ball-socket/hinge/slider/fixed rows that share
// this package's Jacobian setup and sequential-impulse iteration, but
// unlike a contact row a bilateral row pulls in both directions
// (LowerLimit/UpperLimit are unbounded) and is never paired with
// friction.
func BuildRow(pa, pb *Proxy, axis, relA, relB lin.V3, posError, erp, dt float64) *Constraint {
	c := &Constraint{A: pa, B: pb, Normal: axis}
	var torqueA, torqueB lin.V3
	torqueA.Cross(&relA, &axis)
	torqueB.Cross(&relB, &axis)
	if pa.Ref != nil {
		c.AngularA.MultMv(pa.InvInertia, &torqueA)
	}
	if pb.Ref != nil {
		var negB lin.V3
		negB.Neg(&torqueB)
		c.AngularB.MultMv(pb.InvInertia, &negB)
	}

	var dvA, dvB lin.V3
	denom0, denom1 := 0.0, 0.0
	if pa.Ref != nil {
		dvA.Cross(&c.AngularA, &relA)
		denom0 = pa.InvMass + axis.Dot(&dvA)
	}
	if pb.Ref != nil {
		var negAngB lin.V3
		negAngB.Neg(&c.AngularB)
		dvB.Cross(&negAngB, &relB)
		denom1 = pb.InvMass + axis.Dot(&dvB)
	}
	c.JacDiagABInv = 1.0 / (denom0 + denom1)
	c.RelPosACrossNormal = torqueA
	var negTorqueB lin.V3
	negTorqueB.Neg(&torqueB)
	c.RelPosBCrossNormal = negTorqueB

	vel1, vel2 := 0.0, 0.0
	if pa.Ref != nil {
		vel1 = axis.Dot(&pa.LinVel) + c.RelPosACrossNormal.Dot(&pa.AngVel)
	}
	if pb.Ref != nil {
		var negAxis lin.V3
		negAxis.Neg(&axis)
		vel2 = negAxis.Dot(&pb.LinVel) + c.RelPosBCrossNormal.Dot(&pb.AngVel)
	}
	bias := erp * posError / dt
	c.RHS = (bias - (vel1 + vel2)) * c.JacDiagABInv
	c.LowerLimit, c.UpperLimit = -1e10, 1e10
	return c
}

// BuildAngularRow builds a bilateral row constraining relative angular
// velocity about axis to zero, with no linear lever arm. BuildRow's
// Jacobian assumes a point constraint (torque = relA x axis), which
// degenerates to zero with a zero lever arm; this is the pure-rotation
// counterpart joint rows need for hinge/slider/fixed angular locks.
func BuildAngularRow(pa, pb *Proxy, axis lin.V3, angError, erp, dt float64) *Constraint {
	c := &Constraint{A: pa, B: pb}
	c.RelPosACrossNormal = axis
	var negAxis lin.V3
	negAxis.Neg(&axis)
	c.RelPosBCrossNormal = negAxis

	denom := 0.0
	if pa.Ref != nil {
		c.AngularA.MultMv(pa.InvInertia, &axis)
		denom += axis.Dot(&c.AngularA)
	}
	if pb.Ref != nil {
		c.AngularB.MultMv(pb.InvInertia, &negAxis)
		denom -= axis.Dot(&c.AngularB)
	}
	c.JacDiagABInv = 1.0 / denom

	vel1, vel2 := 0.0, 0.0
	if pa.Ref != nil {
		vel1 = c.RelPosACrossNormal.Dot(&pa.AngVel)
	}
	if pb.Ref != nil {
		vel2 = c.RelPosBCrossNormal.Dot(&pb.AngVel)
	}
	bias := erp * angError / dt
	c.RHS = (bias - (vel1 + vel2)) * c.JacDiagABInv
	c.LowerLimit, c.UpperLimit = -1e10, 1e10
	return c
}

// convertPoint builds the contact and friction constraint rows for one
// manifold point, grounded on solver.convertContacts/setupContactConstraint
// /setupFrictionConstraint.
func convertPoint(p *contact.Point, pa, pb *Proxy, info Info) (*Constraint, *Constraint) {
	distance := -p.Depth
	var relA, relB lin.V3
	relA.Sub(&p.WorldA, pa.World.Loc)
	relB.Sub(&p.WorldB, pb.World.Loc)

	cc := &Constraint{A: pa, B: pb}
	var torqueA, torqueB lin.V3
	torqueA.Cross(&relA, &p.Normal)
	torqueB.Cross(&relB, &p.Normal)
	if pa.Ref != nil {
		cc.AngularA.MultMv(pa.InvInertia, &torqueA)
	}
	if pb.Ref != nil {
		var negB lin.V3
		negB.Neg(&torqueB)
		cc.AngularB.MultMv(pb.InvInertia, &negB)
	}

	var denomVecA, denomVecB lin.V3
	denom0, denom1 := 0.0, 0.0
	if pa.Ref != nil {
		denomVecA.Cross(&cc.AngularA, &relA)
		denom0 = pa.InvMass + p.Normal.Dot(&denomVecA)
	}
	if pb.Ref != nil {
		var negAngB lin.V3
		negAngB.Neg(&cc.AngularB)
		denomVecB.Cross(&negAngB, &relB)
		denom1 = pb.InvMass + p.Normal.Dot(&denomVecB)
	}
	cc.JacDiagABInv = 1.0 / (denom0 + denom1)
	cc.Normal = p.Normal
	cc.RelPosACrossNormal = torqueA
	var negTorqueB lin.V3
	negTorqueB.Neg(&torqueB)
	cc.RelPosBCrossNormal = negTorqueB

	var velA, velB, relVel lin.V3
	if pa.Ref != nil {
		pa.Ref.VelocityAtLocalPoint(&relA, &velA)
	}
	if pb.Ref != nil {
		pb.Ref.VelocityAtLocalPoint(&relB, &velB)
	}
	relVel.Sub(&velA, &velB)

	friction := 0.5
	restitutionCoef := 0.0
	if pa.Ref != nil && pb.Ref != nil {
		friction = pa.Ref.CombinedFriction(pb.Ref)
		restitutionCoef = pa.Ref.CombinedRestitution(pb.Ref)
	} else if pa.Ref != nil {
		friction = pa.Ref.Friction()
	} else if pb.Ref != nil {
		friction = pb.Ref.Friction()
	}
	cc.Friction = friction

	relativeVelocity := p.Normal.Dot(&relVel)
	restitution := restitutionCoef * -relativeVelocity
	if restitution <= 0 {
		restitution = 0
	}

	cc.AppliedImpulse = 0
	if p.NormalImpulse != 0 {
		cc.AppliedImpulse = p.NormalImpulse * info.WarmstartingFactor
		var linA, linB lin.V3
		if pa.Ref != nil {
			linA.Scale(&cc.Normal, pa.InvMass)
			pa.applyImpulse(&linA, &cc.AngularA, cc.AppliedImpulse)
		}
		if pb.Ref != nil {
			linB.Scale(&cc.Normal, pb.InvMass)
			var negAngB lin.V3
			negAngB.Neg(&cc.AngularB)
			pb.applyImpulse(&linB, &negAngB, -cc.AppliedImpulse)
		}
	}

	vel1Dotn, vel2Dotn := 0.0, 0.0
	if pa.Ref != nil {
		vel1Dotn = cc.Normal.Dot(&pa.LinVel) + cc.RelPosACrossNormal.Dot(&pa.AngVel)
	}
	if pb.Ref != nil {
		var negNormal lin.V3
		negNormal.Neg(&cc.Normal)
		vel2Dotn = negNormal.Dot(&pb.LinVel) + cc.RelPosBCrossNormal.Dot(&pb.AngVel)
	}
	velocityError := restitution - (vel1Dotn + vel2Dotn)

	penetration := distance + info.LinearSlop
	erp := info.Erp2
	if !info.SplitImpulse || penetration > info.SplitImpulsePenetrationLimit {
		erp = info.Erp
	}
	positionalError := 0.0
	if penetration > 0 {
		velocityError -= penetration / info.Timestep
	} else {
		positionalError = -penetration * erp / info.Timestep
	}
	penetrationImpulse := positionalError * cc.JacDiagABInv
	velocityImpulse := velocityError * cc.JacDiagABInv
	if !info.SplitImpulse || penetration > info.SplitImpulsePenetrationLimit {
		cc.RHS = penetrationImpulse + velocityImpulse
		cc.RHSPenetration = 0
	} else {
		cc.RHS = velocityImpulse
		cc.RHSPenetration = penetrationImpulse
	}
	cc.LowerLimit = 0
	cc.UpperLimit = 1e10
	cc.Warm = &p.NormalImpulse

	fc := setupFriction(p, pa, pb, &cc, relA, relB, relVel, relativeVelocity)
	return cc, fc
}

// stableTangent reprojects prev orthogonal to normal and, if what's left
// is non-degenerate, normalizes it into out and reports true. Used to
// keep a resting contact's friction axis from jittering frame to frame
// when there is no lateral velocity to derive one from.
func stableTangent(prev, normal, out *lin.V3) bool {
	if prev.AeqZ() {
		return false
	}
	var proj lin.V3
	proj.Scale(normal, prev.Dot(normal))
	out.Sub(prev, &proj)
	lenSqr := out.LenSqr()
	if lenSqr <= lin.Epsilon {
		return false
	}
	out.Scale(out, 1.0/math.Sqrt(lenSqr))
	return true
}

// setupFriction builds the lateral-friction row paired with a contact
// row, deriving a tangent direction from the relative surface velocity.
// When lateral velocity is negligible, it reuses and reorthogonalizes
// the previous step's tangent (p.TangentDir[0]) rather than picking an
// arbitrary axis in the contact plane every step, then writes the
// resulting direction back so the next step can do the same. This
// mirrors Bullet's btManifoldPoint lateral friction direction, the one
// piece of friction state this solver otherwise never warm-starts.
func setupFriction(p *contact.Point, pa, pb *Proxy, cc **Constraint, relA, relB, relVel lin.V3, relativeVelocity float64) *Constraint {
	var tangent, scaled lin.V3
	scaled.Scale(&p.Normal, relativeVelocity)
	tangent.Sub(&relVel, &scaled)
	lateral := tangent.LenSqr()
	if lateral > lin.Epsilon {
		tangent.Scale(&tangent, 1.0/math.Sqrt(lateral))
	} else if !stableTangent(&p.TangentDir[0], &p.Normal, &tangent) {
		var discard lin.V3
		p.Normal.Plane(&tangent, &discard)
	}
	p.TangentDir[0] = tangent

	fc := &Constraint{A: pa, B: pb, Normal: tangent, Friction: (*cc).Friction, FrictionRow: *cc}
	(*cc).FrictionRow = fc

	var torqueA, torqueB lin.V3
	torqueA.Cross(&relA, &fc.Normal)
	if pa.Ref != nil {
		fc.AngularA.MultMv(pa.InvInertia, &torqueA)
	}
	var negNormal lin.V3
	negNormal.Neg(&fc.Normal)
	torqueB.Cross(&relB, &negNormal)
	if pb.Ref != nil {
		fc.AngularB.MultMv(pb.InvInertia, &torqueB)
	}
	fc.RelPosACrossNormal = torqueA
	fc.RelPosBCrossNormal = torqueB

	denom0, denom1 := 0.0, 0.0
	if pa.Ref != nil {
		var v lin.V3
		v.Cross(&fc.AngularA, &relA)
		denom0 = pa.InvMass + fc.Normal.Dot(&v)
	}
	if pb.Ref != nil {
		var negAngB, v lin.V3
		negAngB.Neg(&fc.AngularB)
		v.Cross(&negAngB, &relB)
		denom1 = pb.InvMass + fc.Normal.Dot(&v)
	}
	fc.JacDiagABInv = 1.0 / (denom0 + denom1)

	vel1Dotn, vel2Dotn := 0.0, 0.0
	if pa.Ref != nil {
		vel1Dotn = fc.Normal.Dot(&pa.LinVel) + fc.RelPosACrossNormal.Dot(&pa.AngVel)
	}
	if pb.Ref != nil {
		var negN lin.V3
		negN.Neg(&fc.Normal)
		vel2Dotn = negN.Dot(&pb.LinVel) + fc.RelPosBCrossNormal.Dot(&pb.AngVel)
	}
	fc.RHS = -(vel1Dotn + vel2Dotn) * fc.JacDiagABInv
	fc.LowerLimit, fc.UpperLimit = 0, 1e10
	return fc
}

// solve runs the split-impulse position pass (if enabled) followed by
// the velocity iterations, reading/writing the proxies referenced by
// each row. Adapted from solver.solveIterations/solveSingleIteration.
func solve(contactRows, frictionRows, bilateralRows []*Constraint, info Info) {
	if info.SplitImpulse {
		posIters := info.PositionIterations
		if posIters == 0 {
			posIters = info.Iterations
		}
		for iter := 0; iter < posIters; iter++ {
			for _, c := range contactRows {
				resolveSplitPenetration(c)
			}
		}
	}
	for iter := 0; iter < info.Iterations; iter++ {
		for _, c := range contactRows {
			resolve(c, true)
		}
		for _, c := range frictionRows {
			total := c.FrictionRow.AppliedImpulse // contact row's applied impulse.
			if total > 0 {
				c.LowerLimit = -(c.Friction * total)
				c.UpperLimit = c.Friction * total
				resolve(c, false)
			}
		}
		for _, c := range bilateralRows {
			resolve(c, true)
		}
	}
	for _, c := range contactRows {
		if c.Warm != nil {
			*c.Warm = c.AppliedImpulse
		}
	}
}

// resolve performs one sequential-impulse update for a single row,
// adapted from solver.resolveSingleConstraint.
func resolve(c *Constraint, doUpper bool) {
	deltaImpulse := c.RHS - c.AppliedImpulse*c.CFM
	var negNormal lin.V3
	negNormal.Neg(&c.Normal)
	deltaVel1 := c.Normal.Dot(&c.A.DeltaLin) + c.RelPosACrossNormal.Dot(&c.A.DeltaAng)
	deltaVel2 := negNormal.Dot(&c.B.DeltaLin) + c.RelPosBCrossNormal.Dot(&c.B.DeltaAng)
	deltaImpulse -= deltaVel1 * c.JacDiagABInv
	deltaImpulse -= deltaVel2 * c.JacDiagABInv

	sum := c.AppliedImpulse + deltaImpulse
	switch {
	case sum < c.LowerLimit:
		deltaImpulse = c.LowerLimit - c.AppliedImpulse
		c.AppliedImpulse = c.LowerLimit
	case doUpper && sum > c.UpperLimit:
		deltaImpulse = c.UpperLimit - c.AppliedImpulse
		c.AppliedImpulse = c.UpperLimit
	default:
		c.AppliedImpulse = sum
	}

	var linA, linB lin.V3
	linA.Scale(&c.Normal, c.A.InvMass)
	linB.Neg(&c.Normal)
	linB.Scale(&linB, c.B.InvMass)
	c.A.applyImpulse(&linA, &c.AngularA, deltaImpulse)
	c.B.applyImpulse(&linB, &c.AngularB, deltaImpulse)
}

// resolveSplitPenetration applies the push/turn velocities used to
// separate inter-penetrating bodies without affecting real velocity,
// adapted from solver.resolveSplitPenetrationImpulse.
func resolveSplitPenetration(c *Constraint) {
	if c.RHSPenetration == 0 {
		return
	}
	deltaImpulse := c.RHSPenetration - c.AppliedPushImpulse*c.CFM
	var negNormal lin.V3
	negNormal.Neg(&c.Normal)
	deltaVel1 := c.Normal.Dot(&c.A.PushVel) + c.RelPosACrossNormal.Dot(&c.A.TurnVel)
	deltaVel2 := negNormal.Dot(&c.B.PushVel) + c.RelPosBCrossNormal.Dot(&c.B.TurnVel)
	deltaImpulse -= deltaVel1 * c.JacDiagABInv
	deltaImpulse -= deltaVel2 * c.JacDiagABInv

	sum := c.AppliedPushImpulse + deltaImpulse
	if sum < c.LowerLimit {
		deltaImpulse = c.LowerLimit - c.AppliedPushImpulse
		c.AppliedPushImpulse = c.LowerLimit
	} else {
		c.AppliedPushImpulse = sum
	}

	var linA, linB lin.V3
	linA.Scale(&c.Normal, c.A.InvMass)
	linB.Neg(&c.Normal)
	linB.Scale(&linB, c.B.InvMass)
	c.A.applyPushImpulse(&linA, &c.AngularA, deltaImpulse)
	c.B.applyPushImpulse(&linB, &c.AngularB, deltaImpulse)
}
