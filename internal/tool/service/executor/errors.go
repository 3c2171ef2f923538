package executor

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("command timeout")

// CommandError is returned when a command cannot be started.
type CommandError struct {
	Cmd   string
	Stage string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }

// InterpreterNotFoundError is returned when the program to run cannot be found.
type InterpreterNotFoundError struct {
	Name  string
	Cause error
}

func (e *InterpreterNotFoundError) Error() string {
	return fmt.Sprintf("interpreter %q not found", e.Name)
}
func (e *InterpreterNotFoundError) Unwrap() error { return e.Cause }
