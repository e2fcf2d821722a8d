// Package analysis provides chaos characterization tools.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [LyapunovSpectrum]: per-dimension separation rates
//   - [PowerSpectrum]: FFT magnitude spectrum of a trajectory coordinate
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sys, stepper, x0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
