package shape

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkNotFound indicates an operation naming a mark no face carries.
	ErrMarkNotFound = errors.New("shape: mark not found")

	// ErrMarkFaceCount indicates a mark on the wrong number of faces.
	ErrMarkFaceCount = errors.New("shape: wrong number of marked faces")

	// ErrNoSuchShaper indicates removal of a shaper that is not active.
	ErrNoSuchShaper = errors.New("shape: no such shaper")
)

// Error wraps a shaping failure with the operation and mark involved.
type Error struct {
	Op      string
	Mark    string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Mark == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	}
	return fmt.Sprintf("%s :%s: %v", e.Op, e.Mark, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
