package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// DefaultCapacity is the number of component pools a registry holds unless
// configured otherwise.
const DefaultCapacity = 32

// Slot identifies a component type inside one registry. Slots are assigned in
// registration order and never released.
type Slot int

// Named lets a component choose the stable name its data is stored under
// across reloads. Types that do not implement it use "pkgpath.TypeName".
type Named interface {
	ComponentName() string
}

// ComponentInfo describes a registered component type.
type ComponentInfo struct {
	Slot         Slot
	Name         string
	Type         reflect.Type
	Capabilities Capability

	factory func(w *World) iComponentStorage
}

// ComponentType is the typed handle returned by RegisterComponent.
type ComponentType[T any] struct {
	info *ComponentInfo
}

// Slot returns the slot assigned to T.
func (c ComponentType[T]) Slot() Slot { return c.info.Slot }

// Name returns the stable name of T.
func (c ComponentType[T]) Name() string { return c.info.Name }

// ComponentRegistry is the catalog of component types known to a World. A
// fresh registry is built each time the scripting environment is loaded; the
// reload bridge resolves serialized type names against it.
type ComponentRegistry struct {
	capacity int
	infos    []*ComponentInfo
	byType   map[reflect.Type]*ComponentInfo
	byName   map[string]*ComponentInfo
}

// RegistryOption configures a ComponentRegistry.
type RegistryOption func(*ComponentRegistry)

// WithCapacity overrides DefaultCapacity.
func WithCapacity(n int) RegistryOption {
	return func(r *ComponentRegistry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// NewComponentRegistry creates an empty component catalog.
func NewComponentRegistry(opts ...RegistryOption) *ComponentRegistry {
	r := &ComponentRegistry{
		capacity: DefaultCapacity,
		byType:   make(map[reflect.Type]*ComponentInfo),
		byName:   make(map[string]*ComponentInfo),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterComponent registers T and returns its typed handle. Running out of
// slots or reusing a stable name is a configuration error and panics.
func RegisterComponent[T any](r *ComponentRegistry) ComponentType[T] {
	ct, err := TryRegisterComponent[T](r)
	if err != nil {
		panic(err)
	}
	return ct
}

// TryRegisterComponent is RegisterComponent returning the error instead of panicking.
func TryRegisterComponent[T any](r *ComponentRegistry) (ComponentType[T], error) {
	info, err := r.assign(reflect.TypeFor[T]())
	if err != nil {
		return ComponentType[T]{}, err
	}
	if info.factory == nil {
		info.factory = func(w *World) iComponentStorage {
			return newComponentStorage[T](w, info)
		}
	}
	return ComponentType[T]{info: info}, nil
}

// SlotFor returns the slot of t, assigning the next free one on first use.
func (r *ComponentRegistry) SlotFor(t reflect.Type) (Slot, error) {
	info, err := r.assign(t)
	if err != nil {
		return 0, err
	}
	return info.Slot, nil
}

func (r *ComponentRegistry) assign(t reflect.Type) (*ComponentInfo, error) {
	if info, ok := r.byType[t]; ok {
		return info, nil
	}
	if len(r.infos) >= r.capacity {
		return nil, eris.Wrapf(ErrCapacityExceeded, "cannot register %s: all %d pools in use", t, r.capacity)
	}

	name := stableName(t)
	if other, ok := r.byName[name]; ok {
		return nil, eris.Wrapf(ErrNameCollision, "%s and %s both use name %q", other.Type, t, name)
	}

	info := &ComponentInfo{
		Slot:         Slot(len(r.infos)),
		Name:         name,
		Type:         t,
		Capabilities: capabilitiesOf(t),
	}
	r.infos = append(r.infos, info)
	r.byType[t] = info
	r.byName[name] = info
	return info, nil
}

// Lookup resolves a stable component name.
func (r *ComponentRegistry) Lookup(name string) (ComponentInfo, bool) {
	info, ok := r.byName[name]
	if !ok {
		return ComponentInfo{}, false
	}
	return *info, true
}

// Capacity returns the maximum number of component types.
func (r *ComponentRegistry) Capacity() int {
	return r.capacity
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}

// Components returns the registered types in slot order.
func (r *ComponentRegistry) Components() []ComponentInfo {
	out := make([]ComponentInfo, len(r.infos))
	for i, info := range r.infos {
		out[i] = *info
	}
	return out
}

func (r *ComponentRegistry) infoOf(t reflect.Type) (*ComponentInfo, error) {
	info, ok := r.byType[t]
	if !ok || info.factory == nil {
		return nil, eris.Wrapf(ErrNotRegistered, "%s", t)
	}
	return info, nil
}

func (r *ComponentRegistry) infoByName(name string) (*ComponentInfo, error) {
	info, ok := r.byName[name]
	if !ok || info.factory == nil {
		return nil, eris.Wrapf(ErrDeserializationTypeMissing, "%q", name)
	}
	return info, nil
}

func stableName(t reflect.Type) string {
	if named, ok := reflect.New(t).Interface().(Named); ok {
		return named.ComponentName()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
