package solver

// Info holds the tunable constants that control how the sequential-impulse
// solver converges: iteration counts, Baumgarte error-reduction factors,
// and split-impulse behavior. Adapted from the teacher's
// physics/solver.go solverInfo/newSolverInfo.
type Info struct {
	Iterations                   int
	PositionIterations           int // split-impulse penetration passes; 0 falls back to Iterations.
	Erp                          float64 // Baumgarte factor used outside split impulse.
	Erp2                         float64 // Baumgarte factor used for the split-impulse penetration pass.
	LinearSlop                   float64
	WarmstartingFactor           float64 // damps the previous step's impulse before reuse.
	SplitImpulse                 bool
	SplitImpulsePenetrationLimit float64
	SplitImpulseTurnErp          float64
	Timestep                     float64
}

// DefaultInfo returns the teacher's own tuning, which SPEC_FULL.md §4.9
// carries forward as the default velocity/position iteration counts
// (velocity_iterations=10 maps to Iterations here).
func DefaultInfo(timestep float64) Info {
	return Info{
		Iterations:                   10,
		PositionIterations:           5,
		Erp:                          0.2,
		Erp2:                         0.8,
		LinearSlop:                   0.0,
		WarmstartingFactor:           0.85,
		SplitImpulse:                 true,
		SplitImpulsePenetrationLimit: -0.04,
		SplitImpulseTurnErp:          0.1,
		Timestep:                     timestep,
	}
}
