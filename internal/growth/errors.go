package growth

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFace indicates a node naming a face the current brick lacks.
	ErrMissingFace = errors.New("growth: face not found")

	// ErrMarkNeedsFace indicates a mark with no face to label.
	ErrMarkNeedsFace = errors.New("growth: mark needs a face")

	// ErrBranchChild indicates a branch child that does not name a face.
	ErrBranchChild = errors.New("growth: branch children must name a face")
)

// PlanError wraps a growth failure with the operation and term involved.
type PlanError struct {
	Op      string
	Term    string
	Wrapped error
}

func (e *PlanError) Error() string {
	if e.Term == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Term, e.Wrapped)
}

func (e *PlanError) Unwrap() error {
	return e.Wrapped
}
