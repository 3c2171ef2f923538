package script

import "errors"

var (
	ErrFileNotFound = errors.New("file not found")
	ErrNotPython    = errors.New("not a python file")
)
