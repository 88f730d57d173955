package ecs

import "errors"

var (
	// ErrInvalidEntity is returned for operations on ids that were never created or are already destroyed.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrComponentNotFound is returned when reading a component the entity does not have.
	ErrComponentNotFound = errors.New("component not found")
	// ErrDuplicateComponent is returned by PolicyReject adds when the kind is already present.
	ErrDuplicateComponent = errors.New("duplicate component")
	// ErrUnknownKind is returned when no store is registered for a kind.
	ErrUnknownKind = errors.New("unknown component kind")
)
