package crucible

import "errors"

var (
	// ErrNoPlan indicates a build request without a plan.
	ErrNoPlan = errors.New("crucible: no plan")

	// ErrBusy indicates an action the current stage cannot take.
	ErrBusy = errors.New("crucible: busy")

	// ErrNothingToRevert indicates a revert before any fabric was pretensed.
	ErrNothingToRevert = errors.New("crucible: no frozen fabric to revert to")

	// ErrNoMuscles indicates a muscle action on a plan without a muscle setting.
	ErrNoMuscles = errors.New("crucible: plan has no muscles")
)
