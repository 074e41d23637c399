package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrZeroMaxVelocity indicates a size computation with maxVelocity.y == 0.
	ErrZeroMaxVelocity = errors.New("dynamo: max velocity is zero")

	// ErrInvalidBounds indicates top <= bottom. Fatal at startup.
	ErrInvalidBounds = errors.New("dynamo: invalid bounds (top must be above bottom)")

	// ErrNegativeDt indicates a negative or non-finite time delta.
	ErrNegativeDt = errors.New("dynamo: time delta must be finite and non-negative")

	// ErrInvalidState indicates a body with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick    int
	Time    float64
	Body    Body
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
