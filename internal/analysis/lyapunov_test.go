package analysis

import (
	"math"
	"testing"

	"chaoslab/internal/dynamo"
	"chaoslab/internal/integrators"
	"chaoslab/internal/systems"
)

// harmonic is a 2D oscillator with zero Lyapunov exponents; nearby
// orbits neither converge nor diverge.
type harmonic struct{}

func (h harmonic) Dim() int { return 2 }
func (h harmonic) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

// contraction shrinks every coordinate at rate 0.5, so all exponents
// are exactly -0.5.
type contraction struct{}

func (c contraction) Dim() int { return 2 }
func (c contraction) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-0.5 * x[0], -0.5 * x[1]}
}

func TestLyapunovExponent_LorenzIsChaotic(t *testing.T) {
	sys := systems.NewLorenz()
	stepper := integrators.NewRK4()

	// Start on the attractor, not at the origin equilibrium.
	lam := LyapunovExponent(sys, stepper, dynamo.State{1, 1, 20}, 0.005, 60, 1e-8)

	// The accepted value for classic parameters is about 0.9.
	if lam < 0.5 || lam > 1.5 {
		t.Errorf("Lorenz largest exponent = %.4f, want about 0.9", lam)
	}
}

func TestLyapunovExponent_HarmonicIsNeutral(t *testing.T) {
	lam := LyapunovExponent(harmonic{}, integrators.NewRK4(), dynamo.State{1, 0}, 0.01, 100, 1e-8)

	if math.Abs(lam) > 0.05 {
		t.Errorf("harmonic oscillator exponent = %.4f, want ~0", lam)
	}
}

func TestLyapunovExponent_ContractionIsNegative(t *testing.T) {
	lam := LyapunovExponent(contraction{}, integrators.NewRK4(), dynamo.State{1, 1}, 0.01, 20, 1e-6)

	if math.Abs(lam+0.5) > 0.05 {
		t.Errorf("contraction exponent = %.4f, want -0.5", lam)
	}
}

func TestLyapunovExponent_DegenerateInputs(t *testing.T) {
	stepper := integrators.NewRK4()

	if lam := LyapunovExponent(harmonic{}, stepper, dynamo.State{}, 0.01, 10, 1e-8); lam != 0 {
		t.Errorf("empty state: got %v, want 0", lam)
	}
	if lam := LyapunovExponent(harmonic{}, stepper, dynamo.State{1, 0}, 0, 10, 1e-8); lam != 0 {
		t.Errorf("zero dt: got %v, want 0", lam)
	}
	if lam := LyapunovExponent(harmonic{}, stepper, dynamo.State{1, 0}, 0.01, 10, 0); lam != 0 {
		t.Errorf("zero perturbation: got %v, want 0", lam)
	}
}

func TestLyapunovSpectrum_Lorenz(t *testing.T) {
	sys := systems.NewLorenz()
	spectrum := LyapunovSpectrum(sys, integrators.NewRK4(), dynamo.State{1, 1, 20}, 0.005, 60, 1e-8)

	if len(spectrum) != 3 {
		t.Fatalf("spectrum length = %d, want 3", len(spectrum))
	}
	// Perturbations along every axis rotate into the unstable
	// direction, so each estimate picks up the largest exponent.
	for i, lam := range spectrum {
		if lam < 0.3 {
			t.Errorf("spectrum[%d] = %.4f, want positive", i, lam)
		}
	}
}
