// Package host provides an in-memory stand-in for the native engine layer:
// it owns entity identity, names and transforms, and keeps them across
// reloads of the scripting environment.
package host

import (
	"slices"

	"github.com/plus3/hotreg/ecs"
)

// Memory is an ecs.Host backed by plain maps. Entity handles are never
// reused, so a destroyed handle stays invalid.
type Memory struct {
	next       ecs.Entity
	alive      map[ecs.Entity]struct{}
	names      map[ecs.Entity]string
	transforms map[ecs.Entity]ecs.Transform

	// OnDestroy is called after an entity is destroyed.
	OnDestroy func(ecs.Entity)
}

var _ ecs.Host = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		alive:      make(map[ecs.Entity]struct{}),
		names:      make(map[ecs.Entity]string),
		transforms: make(map[ecs.Entity]ecs.Transform),
	}
}

func (m *Memory) Valid(e ecs.Entity) bool {
	_, ok := m.alive[e]
	return ok
}

func (m *Memory) Create() ecs.Entity {
	e := m.next
	m.next++
	m.alive[e] = struct{}{}
	m.transforms[e] = ecs.Transform{
		Rotation: ecs.Quat{W: 1},
		Scale:    ecs.Vec3{X: 1, Y: 1, Z: 1},
	}
	return e
}

func (m *Memory) Destroy(e ecs.Entity) {
	if !m.Valid(e) {
		return
	}
	delete(m.alive, e)
	delete(m.names, e)
	delete(m.transforms, e)
	if m.OnDestroy != nil {
		m.OnDestroy(e)
	}
}

func (m *Memory) Name(e ecs.Entity) (string, bool) {
	n, ok := m.names[e]
	return n, ok
}

func (m *Memory) SetName(e ecs.Entity, name string) {
	if m.Valid(e) {
		m.names[e] = name
	}
}

func (m *Memory) Transform(e ecs.Entity) ecs.Transform {
	return m.transforms[e]
}

func (m *Memory) SetTransform(e ecs.Entity, t ecs.Transform) {
	if m.Valid(e) {
		m.transforms[e] = t
	}
}

// Each visits live entities in creation order.
func (m *Memory) Each(fn func(ecs.Entity)) {
	ids := make([]ecs.Entity, 0, len(m.alive))
	for e := range m.alive {
		ids = append(ids, e)
	}
	slices.Sort(ids)
	for _, e := range ids {
		fn(e)
	}
}

// Len returns the number of live entities.
func (m *Memory) Len() int {
	return len(m.alive)
}
