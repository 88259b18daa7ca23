package ecs

import "reflect"

// Singleton provides access to a single value that is not associated with
// any entity, such as the scripting environment or frame configuration.
// Singletons are not component storages: they survive Unload and are not
// captured by the reload bridge.
type Singleton[T any] struct {
	world *World
	ptr   *T
}

// NewSingleton creates a new Singleton accessor for the given world.
// If initializer is provided and the singleton doesn't exist yet,
// it will be created with the initializer value. Otherwise, a zero value is used.
// This guarantees the singleton exists in the world after the call.
func NewSingleton[T any](w *World, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()

	if _, ok := w.singletons[t]; !ok {
		value := new(T)
		if len(initializer) > 0 {
			*value = initializer[0]
		}
		w.singletons[t] = value
	}

	s := &Singleton[T]{}
	s.Init(w)
	return s
}

// Init binds the Singleton to w.
func (s *Singleton[T]) Init(w *World) {
	s.world = w
	s.updateCache()
}

// Get returns a pointer to the singleton value.
// Returns nil if the singleton has not been added to the world.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.updateCache()
	}
	return s.ptr
}

// Exists returns true if the singleton value has been added to the world.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// updateCache refreshes the cached pointer from the world
func (s *Singleton[T]) updateCache() {
	if s.world == nil {
		return
	}
	if v, ok := s.world.singletons[reflect.TypeFor[T]()]; ok {
		s.ptr = v.(*T)
	} else {
		s.ptr = nil
	}
}

// GetSingleton returns the world's T, or nil if none was created.
func GetSingleton[T any](w *World) *T {
	s := Singleton[T]{}
	s.Init(w)
	return s.ptr
}
