package integrators

import "chaoslab/internal/dynamo"

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step holds no state on the receiver; sweep workers share one RK4
// instance, so all scratch lives in the call frame.
func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)

	k1 := sys.Derive(x, t)

	stage := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derive(stage, t+dt*0.5)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derive(stage, t+dt*0.5)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derive(stage, t+dt)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
