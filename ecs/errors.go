package ecs

import "github.com/rotisserie/eris"

var (
	// ErrDuplicateComponent is returned when adding a component an entity already has.
	ErrDuplicateComponent = eris.New("duplicate component")
	// ErrMissingComponent is returned when reading or removing a component an entity does not have.
	ErrMissingComponent = eris.New("missing component")
	// ErrNullEntity is returned for operations on the null or an invalid handle.
	ErrNullEntity = eris.New("null entity")
	// ErrCapacityExceeded means every component slot of a registry is taken.
	ErrCapacityExceeded = eris.New("component pool capacity exceeded")
	// ErrNameCollision means two distinct types share a stable component name.
	ErrNameCollision = eris.New("component name collision")
	// ErrNotRegistered is returned for component types the registry does not know.
	ErrNotRegistered = eris.New("component type not registered")
	// ErrSweepMutation is returned when a storage is structurally changed while a
	// lifecycle pass is sweeping it.
	ErrSweepMutation = eris.New("storage mutated during lifecycle sweep")
	// ErrDeserializationTypeMissing is reported when a reloaded type name no
	// longer resolves against the component catalog.
	ErrDeserializationTypeMissing = eris.New("serialized component type missing")
)
