// Package dynamo provides core primitives for integrating dynamical systems.
//
// The package defines the fundamental interfaces and types shared across
// the module:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Stepper] / [AdaptiveStepper]: numerical integrator interfaces
//   - [Trajectory]: ordered (time, state) samples produced by a solver
//
// # Example
//
//	sys := systems.NewLorenz()
//	solver := sim.NewSolver(integrators.NewRK45())
//	traj, _ := solver.Integrate(ctx, sys, x0, dynamo.Span{T0: 0, T1: 100}, dynamo.DefaultOptions())
//
// # Thread Safety
//
// System implementations are not synchronized; parameter sweeps create a
// fresh instance per worker rather than sharing one.
package dynamo
