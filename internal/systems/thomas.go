package systems

import (
	"fmt"
	"math"

	"chaoslab/internal/dynamo"
)

// Thomas is the cyclically symmetric Thomas attractor. The classic
// chaotic damping value is b = 0.208186.
type Thomas struct{ b float64 }

func NewThomas() *Thomas   { return &Thomas{0.208186} }
func (t *Thomas) Dim() int { return 3 }

func (t *Thomas) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{
		math.Sin(s[1]) - t.b*s[0],
		math.Sin(s[2]) - t.b*s[1],
		math.Sin(s[0]) - t.b*s[2],
	}
}
func (t *Thomas) DefaultState() dynamo.State { return dynamo.State{0.1, 0.0, 0.0} }
func (t *Thomas) Params() map[string]float64 {
	return map[string]float64{"b": t.b}
}
func (t *Thomas) SetParam(n string, v float64) error {
	if n != "b" {
		return fmt.Errorf("thomas has no parameter %q: %w", n, dynamo.ErrUnknownParam)
	}
	t.b = v
	return nil
}
