package engine

import (
	"errors"
	"fmt"
)

// ErrNumericDegeneracy reports a non-finite intermediate value. The capacity
// floor and clamping make it unreachable for validated parameters; it exists
// so a NaN can never propagate silently through later months.
var ErrNumericDegeneracy = errors.New("engine: non-finite value in monthly step")

// StepError wraps a failure with the month and quantity that produced it.
type StepError struct {
	Month    int
	Quantity string
	Value    float64
	Wrapped  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("month %d: %s = %v: %v", e.Month, e.Quantity, e.Value, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
