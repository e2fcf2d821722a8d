// Package sim turns steppers into trajectories.
//
// [Solver.Integrate] drives an integrator across a time span with local
// error control and returns the sampled [dynamo.Trajectory]. Requests the
// solver cannot satisfy fail loudly: a collapsed adaptive step or a
// non-finite state yields a [dynamo.DivergenceError] rather than a
// truncated result.
package sim
