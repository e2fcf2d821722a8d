package systems

import (
	"fmt"

	"chaoslab/internal/dynamo"
)

// Aizawa produces a torus-like strange attractor. Defaults are the
// parameters that give the classic shape.
type Aizawa struct{ a, b, c, d, e, f float64 }

func NewAizawa() *Aizawa   { return &Aizawa{0.95, 0.7, 0.6, 3.5, 0.25, 0.1} }
func (z *Aizawa) Dim() int { return 3 }

func (z *Aizawa) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y, w := s[0], s[1], s[2]
	return dynamo.State{
		(w-z.b)*x - z.d*y,
		z.d*x + (w-z.b)*y,
		z.c + z.a*w - (w*w*w)/3.0 - (x*x+y*y)*(1+z.e*w) + z.f*w*x*x*x,
	}
}
func (z *Aizawa) DefaultState() dynamo.State { return dynamo.State{0.1, 0.0, 0.0} }
func (z *Aizawa) Params() map[string]float64 {
	return map[string]float64{"a": z.a, "b": z.b, "c": z.c, "d": z.d, "e": z.e, "f": z.f}
}
func (z *Aizawa) SetParam(n string, v float64) error {
	switch n {
	case "a":
		z.a = v
	case "b":
		z.b = v
	case "c":
		z.c = v
	case "d":
		z.d = v
	case "e":
		z.e = v
	case "f":
		z.f = v
	default:
		return fmt.Errorf("aizawa has no parameter %q: %w", n, dynamo.ErrUnknownParam)
	}
	return nil
}
