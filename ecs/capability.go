package ecs

import (
	"reflect"
	"strings"
)

// Activatable components run Start once when they are added to an entity,
// when a template containing them is instantiated, and on scene start.
type Activatable interface {
	Start(w *World, e Entity) error
}

// Thinker components run Think once per frame.
type Thinker interface {
	Think(frame *UpdateFrame, e Entity) error
}

// CollisionReactive components are told about physics contacts of their entity.
type CollisionReactive interface {
	OnCollision(w *World, e Entity, contact ContactInfo) error
}

// ContactInfo is the contact data delivered by the physics collaborator.
type ContactInfo struct {
	RelativeSpeed float32
	Other         Entity
	Point         Vec3
	Normal        Vec3
}

// Capability is the set of lifecycle callbacks a component type implements.
type Capability uint8

const (
	CapActivation Capability = 1 << iota
	CapThink
	CapCollision
)

// Has reports whether every capability in o is in c.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c.Has(CapActivation) {
		parts = append(parts, "activation")
	}
	if c.Has(CapThink) {
		parts = append(parts, "think")
	}
	if c.Has(CapCollision) {
		parts = append(parts, "collision")
	}
	return strings.Join(parts, "+")
}

var (
	activatableType = reflect.TypeFor[Activatable]()
	thinkerType     = reflect.TypeFor[Thinker]()
	collisionType   = reflect.TypeFor[CollisionReactive]()
)

// capabilitiesOf inspects the pointer method set of t, since storages hand
// out *T to callbacks.
func capabilitiesOf(t reflect.Type) Capability {
	ptr := reflect.PointerTo(t)
	var c Capability
	if ptr.Implements(activatableType) {
		c |= CapActivation
	}
	if ptr.Implements(thinkerType) {
		c |= CapThink
	}
	if ptr.Implements(collisionType) {
		c |= CapCollision
	}
	return c
}

// capabilityIndex keeps non-owning references to the storages implementing
// each capability, in storage creation order.
type capabilityIndex struct {
	activation []iComponentStorage
	think      []iComponentStorage
	collision  []iComponentStorage
}

func (ci *capabilityIndex) add(s iComponentStorage) {
	caps := s.Info().Capabilities
	if caps.Has(CapActivation) {
		ci.activation = append(ci.activation, s)
	}
	if caps.Has(CapThink) {
		ci.think = append(ci.think, s)
	}
	if caps.Has(CapCollision) {
		ci.collision = append(ci.collision, s)
	}
}

func (ci *capabilityIndex) clear() {
	ci.activation = nil
	ci.think = nil
	ci.collision = nil
}
