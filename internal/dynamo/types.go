package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a continuous-time ODE: dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

// Configurable systems expose named tunable parameters.
type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Seeded systems carry a conventional initial state that lands on
// their attractor after a modest transient.
type Seeded interface {
	DefaultState() State
}

// Stepper advances a system by one step. Implementations keep no
// mutable state on the receiver: parameter sweeps share one stepper
// across workers.
type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveStepper extends Stepper with an embedded error estimate.
// StepAdaptive proposes a step of size dt and reports whether the local
// error passed the (relTol, absTol) test, along with the recommended
// size for the next attempt.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, x State, t, dt, relTol, absTol float64) (next State, dtNext float64, accepted bool)
}

// Span is a half-open integration window [T0, T1].
type Span struct {
	T0, T1 float64
}

func (s Span) Length() float64 { return s.T1 - s.T0 }

// Options controls a single integration.
type Options struct {
	// StepHint bounds the internal step and therefore the output
	// sample spacing. Crossing detection downstream assumes samples
	// no farther apart than this.
	StepHint float64
	RelTol   float64
	AbsTol   float64
	// MaxSteps bounds pathological non-convergence; exceeded caps are
	// reported as divergence.
	MaxSteps int
}

func DefaultOptions() Options {
	return Options{
		StepHint: 0.01,
		RelTol:   1e-8,
		AbsTol:   1e-10,
		MaxSteps: 10_000_000,
	}
}

// Trajectory is an ordered sequence of (time, state) samples with
// strictly increasing times. Immutable once returned by a solver.
type Trajectory struct {
	Times  []float64
	States []State
}

func (tr Trajectory) Len() int { return len(tr.Times) }

func (tr Trajectory) Final() (float64, State) {
	n := tr.Len()
	if n == 0 {
		return 0, nil
	}
	return tr.Times[n-1], tr.States[n-1]
}

// Coord extracts one coordinate as a flat series, for spectra and plots.
func (tr Trajectory) Coord(idx int) []float64 {
	out := make([]float64, 0, tr.Len())
	for _, s := range tr.States {
		if idx < len(s) {
			out = append(out, s[idx])
		}
	}
	return out
}
