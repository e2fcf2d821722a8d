package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration and sweep operations.
var (
	// ErrInvalidConfig indicates a malformed request: bad plane, non-finite
	// initial state, inverted time span. Always a call-site bug; never
	// recovered internally.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrDiverged indicates the solver could not complete the requested
	// span: the state escaped to non-finite values or the adaptive step
	// collapsed below a usable floor.
	ErrDiverged = errors.New("dynamo: integration diverged")

	// ErrUnknownParam indicates a parameter name a system does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownSystem indicates a system name absent from the registry.
	ErrUnknownSystem = errors.New("dynamo: unknown system")
)

// DivergenceError reports where an integration gave up. Matches
// ErrDiverged under errors.Is.
type DivergenceError struct {
	Time  float64
	State State
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("dynamo: integration diverged at t=%.4f", e.Time)
}

func (e *DivergenceError) Unwrap() error { return ErrDiverged }
