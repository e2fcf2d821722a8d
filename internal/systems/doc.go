// Package systems provides the attractor models available for analysis.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [Lorenz]: butterfly attractor
//   - [Rossler]: period-doubling route to chaos
//   - [Thomas]: cyclically symmetric trigonometric flow
//   - [Aizawa]: torus-like strange attractor
//
// All models also implement [dynamo.Configurable] for parameter sweeps
// and [dynamo.Seeded] for conventional initial states. [Registry] maps
// names to factories so callers and sweeps can construct fresh,
// independently tunable instances.
package systems
