package section

import (
	"fmt"
	"math"

	"chaoslab/internal/dynamo"
)

// Direction filters which transversal crossings of a plane are admitted.
type Direction int

const (
	// Positive admits crossings where the coordinate increases through
	// the threshold.
	Positive Direction = iota
	// Negative admits the opposite transitions.
	Negative
	// Either admits both.
	Either
)

func (d Direction) String() string {
	switch d {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Either:
		return "either"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "positive":
		return Positive, nil
	case "negative":
		return Negative, nil
	case "either", "both":
		return Either, nil
	default:
		return 0, fmt.Errorf("direction %q: %w", s, dynamo.ErrInvalidConfig)
	}
}

// Plane is a cutting plane in phase space: the surface where one state
// coordinate equals a threshold. Immutable per experiment.
type Plane struct {
	Coord     int
	Threshold float64
	Direction Direction
}

func (p Plane) Validate(dim int) error {
	if p.Coord < 0 || p.Coord >= dim {
		return fmt.Errorf("plane coordinate %d out of range for dim %d: %w", p.Coord, dim, dynamo.ErrInvalidConfig)
	}
	if math.IsNaN(p.Threshold) || math.IsInf(p.Threshold, 0) {
		return fmt.Errorf("plane threshold not finite: %w", dynamo.ErrInvalidConfig)
	}
	switch p.Direction {
	case Positive, Negative, Either:
	default:
		return fmt.Errorf("unrecognized %s: %w", p.Direction, dynamo.ErrInvalidConfig)
	}
	return nil
}
