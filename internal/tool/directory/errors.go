package directory

import (
	"errors"
	"fmt"
)

// ErrNotADirectory is returned when the listing target is missing or not a directory.
var ErrNotADirectory = errors.New("not a directory")

// ListError is returned when a directory cannot be read.
type ListError struct {
	Path  string
	Cause error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Path, e.Cause)
}
func (e *ListError) Unwrap() error { return e.Cause }
