package ecs

import "reflect"

// ComponentPool is the read side of a type-erased storage, used by the
// reload bridge and debug tooling.
type ComponentPool interface {
	Name() string
	Slot() Slot
	Type() reflect.Type
	Capabilities() Capability
	Len() int
	Contains(e Entity) bool
	Entities() []Entity
	Encode(e Entity) ([]byte, error)
}

// iComponentStorage is the type-erased storage the World and the lifecycle
// passes work with.
type iComponentStorage interface {
	ComponentPool

	Info() *ComponentInfo
	remove(e Entity) error
	getBoxed(e Entity) (any, bool)
	setBoxed(e Entity, value any) error
	decodeInsert(e Entity, payload []byte) error
	sweeping() bool
	beginSweep()
	endSweep()

	start(e Entity) error
	think(frame *UpdateFrame, e Entity) error
	collide(e Entity, contact ContactInfo) error
}
