package toolmanager

import (
	"errors"
	"fmt"
)

// ErrUnknownTool is returned for a call naming a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// InvalidArgumentsError is returned when call arguments do not match the
// tool's declared schema or request struct.
type InvalidArgumentsError struct {
	Tool  string
	Cause error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Cause)
}
func (e *InvalidArgumentsError) Unwrap() error { return e.Cause }

// ToolPanicError is returned when a tool panics during execution.
type ToolPanicError struct {
	Tool  string
	Value any
}

func (e *ToolPanicError) Error() string {
	return fmt.Sprintf("tool %s failed unexpectedly: %v", e.Tool, e.Value)
}
