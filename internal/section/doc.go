// Package section reduces continuous trajectories to Poincaré sections
// and bifurcation diagrams.
//
// A Poincaré section is the set of points where a trajectory
// transversally crosses a fixed plane in phase space. The package
// detects crossings by sign change of the plane coordinate between
// consecutive samples and recovers the exact crossing point by linear
// interpolation:
//
//   - [ExtractCrossings]: discrete crossing sequence of one trajectory
//   - [Engine.Sample]: transient elimination, then section extraction
//   - [Engine.Bifurcation]: crossing values aggregated across a
//     parameter sweep
//
// Transient elimination is essential for bifurcation work: initial
// conditions are arbitrary, and without discarding the settling phase
// the early samples reflect approach dynamics rather than attractor
// structure.
package section
