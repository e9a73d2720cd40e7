package errors

import "errors"

var (
	ErrNotFound = errors.New("holiday schedule not found")

	ErrInvalidID = errors.New("invalid holiday schedule ID format")

	// ErrTargetNotInSnapshot is returned when activation names a record the
	// registry snapshot does not contain.
	ErrTargetNotInSnapshot = errors.New("activation target not in registry snapshot")

	ErrFlipSetIncomplete = errors.New("flip-set did not match every record")

	ErrLegacyNotFound = errors.New("legacy schedule not found")

	// ErrUnableToResolve means no snapshot could be read, so the caller must
	// fall back to regular hours.
	ErrUnableToResolve = errors.New("unable to resolve holiday hours")
)
