package section

import (
	"context"
	"fmt"
	"math"

	"chaoslab/internal/dynamo"
	"chaoslab/internal/sim"
)

// Engine extracts Poincaré sections from trajectories it requests from
// a solver. It holds no state across calls; every operation is a pure
// function of its inputs.
type Engine struct {
	solver *sim.Solver
	opts   dynamo.Options
}

func NewEngine(solver *sim.Solver, opts dynamo.Options) *Engine {
	return &Engine{solver: solver, opts: opts}
}

// Sample integrates sys for transient time units to let it settle onto
// its attractor, then continues from the settled state for sample time
// units and extracts plane crossings from that portion only. The
// sampling leg starts from the exact state reached at the end of the
// transient, never from x0 again.
//
// Zero crossings is a legitimate result for quiescent regimes, not an
// error.
func (e *Engine) Sample(ctx context.Context, sys dynamo.System, x0 dynamo.State, plane Plane, transient, sample float64) ([]Crossing, error) {
	if err := plane.Validate(sys.Dim()); err != nil {
		return nil, err
	}
	if transient < 0 || math.IsNaN(transient) {
		return nil, fmt.Errorf("transient time %.4f: %w", transient, dynamo.ErrInvalidConfig)
	}
	if sample <= 0 || math.IsNaN(sample) {
		return nil, fmt.Errorf("sample time %.4f: %w", sample, dynamo.ErrInvalidConfig)
	}

	x := x0
	t0 := 0.0
	if transient > 0 {
		settle, err := e.solver.Integrate(ctx, sys, x0, dynamo.Span{T0: 0, T1: transient}, e.opts)
		if err != nil {
			return nil, err
		}
		t0, x = settle.Final()
	}

	traj, err := e.solver.Integrate(ctx, sys, x, dynamo.Span{T0: t0, T1: t0 + sample}, e.opts)
	if err != nil {
		return nil, err
	}

	return ExtractCrossings(traj, plane)
}

// MultiSample computes sections for several initial states against the
// same plane, to show independent trajectories converging onto one
// attractor structure.
func (e *Engine) MultiSample(ctx context.Context, sys dynamo.System, starts []dynamo.State, plane Plane, transient, sample float64) ([][]Crossing, error) {
	out := make([][]Crossing, len(starts))
	for i, x0 := range starts {
		crossings, err := e.Sample(ctx, sys, x0, plane, transient, sample)
		if err != nil {
			return nil, err
		}
		out[i] = crossings
	}
	return out, nil
}
