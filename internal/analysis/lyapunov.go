package analysis

import (
	"math"

	"chaoslab/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories
// 2. Measure their divergence over time
// 3. λ ≈ (1/t) * ln(|δx(t)/δx(0)|)
//
// The perturbed trajectory is renormalized back to the original
// separation after every measurement, so each log ratio samples the
// local growth rate and the estimate does not saturate on the
// attractor diameter.
func LyapunovExponent(
	sys dynamo.System,
	stepper dynamo.Stepper,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || dt <= 0 || duration <= 0 || perturbation <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation

	d0 := perturbation
	t := 0.0

	sumLog := 0.0
	count := 0

	for t < duration {
		x = stepper.Step(sys, x, t, dt)
		xp = stepper.Step(sys, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()

		if sep > 0 && d0 > 0 {
			sumLog += math.Log(sep / d0)
			count++

			scale := d0 / sep
			for i := range xp {
				xp[i] = x[i] + (xp[i]-x[i])*scale
			}
		}
	}

	if count == 0 {
		return 0
	}

	return sumLog / (float64(count) * dt)
}

// LyapunovSpectrum estimates one exponent per state dimension by
// perturbing each coordinate independently.
func LyapunovSpectrum(
	sys dynamo.System,
	stepper dynamo.Stepper,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) []float64 {
	n := len(x0)
	spectrum := make([]float64, n)

	for i := 0; i < n; i++ {
		xp := x0.Clone()
		xp[i] += perturbation

		spectrum[i] = separationRate(sys, stepper, x0, xp, dt, duration, perturbation)
	}

	return spectrum
}

func separationRate(
	sys dynamo.System,
	stepper dynamo.Stepper,
	x0, x0p dynamo.State,
	dt, duration, d0 float64,
) float64 {
	x := x0.Clone()
	xp := x0p.Clone()
	t := 0.0

	sumLog := 0.0
	count := 0

	for t < duration {
		x = stepper.Step(sys, x, t, dt)
		xp = stepper.Step(sys, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()

		if sep > 0 && d0 > 0 {
			sumLog += math.Log(sep / d0)
			count++

			scale := d0 / sep
			for i := range xp {
				xp[i] = x[i] + (xp[i]-x[i])*scale
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
