package file

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrNotRegularFile = errors.New("not a regular file")
	ErrIsDirectory    = errors.New("path is a directory")
)

// -- Error Types --

// ReadError is returned when an existing file cannot be read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

// WriteError is returned when a file or its parents cannot be written.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }
