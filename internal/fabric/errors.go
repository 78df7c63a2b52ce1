package fabric

import "errors"

var (
	// ErrJointNotFound indicates a stale or foreign joint handle.
	ErrJointNotFound = errors.New("fabric: joint not found")

	// ErrIntervalNotFound indicates a stale or foreign interval handle.
	ErrIntervalNotFound = errors.New("fabric: interval not found")

	// ErrFaceNotFound indicates a stale or foreign face handle.
	ErrFaceNotFound = errors.New("fabric: face not found")

	// ErrNoBaseFace indicates a brick template without an A- face to attach by.
	ErrNoBaseFace = errors.New("fabric: brick has no A- face")
)
