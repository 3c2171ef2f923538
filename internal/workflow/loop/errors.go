package loop

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is the abort reason when the model returns neither
	// text nor tool calls.
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrMaxIterations is the abort reason when the round budget runs out.
	ErrMaxIterations = errors.New("maximum iterations reached")
)

// ModelInvocationError is returned when the model request itself fails.
type ModelInvocationError struct {
	Round int
	Cause error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed in round %d: %v", e.Round, e.Cause)
}
func (e *ModelInvocationError) Unwrap() error { return e.Cause }
