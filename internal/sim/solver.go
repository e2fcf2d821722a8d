package sim

import (
	"context"
	"fmt"
	"math"

	"chaoslab/internal/dynamo"
)

// Solver produces trajectories by driving a stepper over a time span.
// When the stepper is adaptive, local error is controlled to the
// requested tolerances and the step is capped at Options.StepHint so
// downstream crossing detection never sees samples farther apart than
// the hint. A plain fixed-step stepper is driven at StepHint directly.
type Solver struct {
	stepper dynamo.Stepper
}

func NewSolver(stepper dynamo.Stepper) *Solver {
	return &Solver{stepper: stepper}
}

func validateRequest(sys dynamo.System, x0 dynamo.State, span dynamo.Span, opts dynamo.Options) error {
	if !x0.IsValid() {
		return fmt.Errorf("non-finite initial state: %w", dynamo.ErrInvalidConfig)
	}
	if len(x0) != sys.Dim() {
		return fmt.Errorf("initial state has dim %d, system wants %d: %w", len(x0), sys.Dim(), dynamo.ErrInvalidConfig)
	}
	if span.T1 <= span.T0 {
		return fmt.Errorf("span end %.4f not after start %.4f: %w", span.T1, span.T0, dynamo.ErrInvalidConfig)
	}
	if opts.StepHint <= 0 {
		return fmt.Errorf("step hint must be positive, got %g: %w", opts.StepHint, dynamo.ErrInvalidConfig)
	}
	if opts.RelTol <= 0 || opts.AbsTol <= 0 {
		return fmt.Errorf("tolerances must be positive: %w", dynamo.ErrInvalidConfig)
	}
	return nil
}

// Integrate runs sys from x0 over span. The returned trajectory starts
// exactly at (span.T0, x0) and ends exactly at span.T1 with strictly
// increasing times. A request the solver cannot complete yields a
// DivergenceError, never a silently truncated trajectory.
func (s *Solver) Integrate(ctx context.Context, sys dynamo.System, x0 dynamo.State, span dynamo.Span, opts dynamo.Options) (dynamo.Trajectory, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = dynamo.DefaultOptions().MaxSteps
	}
	if err := validateRequest(sys, x0, span, opts); err != nil {
		return dynamo.Trajectory{}, err
	}

	adaptive, _ := s.stepper.(dynamo.AdaptiveStepper)

	est := int(span.Length()/opts.StepHint) + 2
	traj := dynamo.Trajectory{
		Times:  make([]float64, 0, est),
		States: make([]dynamo.State, 0, est),
	}

	x := x0.Clone()
	t := span.T0
	dt := math.Min(opts.StepHint, span.Length())
	dtFloor := 1e-12 * math.Max(1.0, span.Length())

	traj.Times = append(traj.Times, t)
	traj.States = append(traj.States, x.Clone())

	for steps := 0; span.T1-t > dtFloor; steps++ {
		select {
		case <-ctx.Done():
			return dynamo.Trajectory{}, ctx.Err()
		default:
		}

		if steps >= opts.MaxSteps {
			return dynamo.Trajectory{}, &dynamo.DivergenceError{Time: t, State: x}
		}

		if dt > span.T1-t {
			dt = span.T1 - t
		}

		var next dynamo.State
		if adaptive != nil {
			cand, dtNext, accepted := adaptive.StepAdaptive(sys, x, t, dt, opts.RelTol, opts.AbsTol)
			if !accepted {
				if dtNext < dtFloor || !cand.IsValid() {
					return dynamo.Trajectory{}, &dynamo.DivergenceError{Time: t, State: x}
				}
				dt = dtNext
				continue
			}
			next = cand
			t += dt
			dt = math.Min(dtNext, opts.StepHint)
		} else {
			next = s.stepper.Step(sys, x, t, dt)
			t += dt
			dt = opts.StepHint
		}

		if !next.IsValid() {
			return dynamo.Trajectory{}, &dynamo.DivergenceError{Time: t, State: x}
		}

		x = next
		traj.Times = append(traj.Times, t)
		traj.States = append(traj.States, x.Clone())
	}

	// Absorb rounding residue so the trajectory ends exactly at T1.
	traj.Times[len(traj.Times)-1] = span.T1

	return traj, nil
}
