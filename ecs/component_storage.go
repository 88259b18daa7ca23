package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"

	"github.com/plus3/hotreg/codec"
)

const blockSize = 64

// ComponentStorage holds every instance of one component type: a dense
// sequence of values plus an entity to index map. Removal moves the last
// value into the freed slot, so iteration never sees gaps.
//
// Values live in fixed-size blocks, so appending never moves existing values.
// Removing a component may move the last value of the storage.
type ComponentStorage[T any] struct {
	world    *World
	info     *ComponentInfo
	blocks   []*[blockSize]T
	entities []Entity
	index    *intmap.Map[Entity, int]
	sweeps   int
}

func newComponentStorage[T any](w *World, info *ComponentInfo) *ComponentStorage[T] {
	return &ComponentStorage[T]{
		world: w,
		info:  info,
		index: intmap.New[Entity, int](64),
	}
}

func (s *ComponentStorage[T]) at(i int) *T {
	return &s.blocks[i/blockSize][i%blockSize]
}

// Set stores value for e. It fails if e already has a T.
func (s *ComponentStorage[T]) Set(e Entity, value T) (*T, error) {
	if s.sweeps > 0 {
		return nil, eris.Wrapf(ErrSweepMutation, "add %s to entity %s", s.info.Name, e)
	}
	if _, ok := s.index.Get(e); ok {
		return nil, eris.Wrapf(ErrDuplicateComponent, "entity %s already has %s", e, s.info.Name)
	}

	i := len(s.entities)
	if i/blockSize >= len(s.blocks) {
		s.blocks = append(s.blocks, new([blockSize]T))
	}
	p := s.at(i)
	*p = value
	s.entities = append(s.entities, e)
	s.index.Put(e, i)
	return p, nil
}

// Get returns the component of e.
func (s *ComponentStorage[T]) Get(e Entity) (*T, error) {
	i, ok := s.index.Get(e)
	if !ok {
		return nil, eris.Wrapf(ErrMissingComponent, "entity %s has no %s", e, s.info.Name)
	}
	return s.at(i), nil
}

// Remove deletes the component of e.
func (s *ComponentStorage[T]) Remove(e Entity) error {
	if s.sweeps > 0 {
		return eris.Wrapf(ErrSweepMutation, "remove %s from entity %s", s.info.Name, e)
	}
	i, ok := s.index.Get(e)
	if !ok {
		return eris.Wrapf(ErrMissingComponent, "entity %s has no %s", e, s.info.Name)
	}

	last := len(s.entities) - 1
	if i != last {
		moved := s.entities[last]
		*s.at(i) = *s.at(last)
		s.entities[i] = moved
		s.index.Put(moved, i)
	}

	var zero T
	*s.at(last) = zero
	s.entities = s.entities[:last]
	s.index.Del(e)

	// Drop the trailing block once it is empty.
	if n := (len(s.entities) + blockSize - 1) / blockSize; n < len(s.blocks)-1 {
		s.blocks[len(s.blocks)-1] = nil
		s.blocks = s.blocks[:len(s.blocks)-1]
	}
	return nil
}

// Contains reports whether e has a T.
func (s *ComponentStorage[T]) Contains(e Entity) bool {
	_, ok := s.index.Get(e)
	return ok
}

// Len returns the number of stored components.
func (s *ComponentStorage[T]) Len() int {
	return len(s.entities)
}

// Entities returns a copy of the dense entity list.
func (s *ComponentStorage[T]) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// All iterates the storage in dense order. The storage must not be changed
// structurally while iterating; copy Entities first when that is needed.
func (s *ComponentStorage[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i, e := range s.entities {
			if !yield(e, s.at(i)) {
				return
			}
		}
	}
}

func (s *ComponentStorage[T]) Info() *ComponentInfo     { return s.info }
func (s *ComponentStorage[T]) Name() string             { return s.info.Name }
func (s *ComponentStorage[T]) Slot() Slot               { return s.info.Slot }
func (s *ComponentStorage[T]) Type() reflect.Type       { return s.info.Type }
func (s *ComponentStorage[T]) Capabilities() Capability { return s.info.Capabilities }

// Encode returns the field-keyed encoding of e's component.
func (s *ComponentStorage[T]) Encode(e Entity) ([]byte, error) {
	p, err := s.Get(e)
	if err != nil {
		return nil, err
	}
	bz, err := codec.Encode(p)
	if err != nil {
		return nil, eris.Wrapf(err, "encode %s of entity %s", s.info.Name, e)
	}
	return bz, nil
}

func (s *ComponentStorage[T]) decodeInsert(e Entity, payload []byte) error {
	value, err := codec.Decode[T](payload)
	if err != nil {
		return eris.Wrapf(err, "decode %s of entity %s", s.info.Name, e)
	}
	_, err = s.Set(e, value)
	return err
}

func (s *ComponentStorage[T]) remove(e Entity) error {
	return s.Remove(e)
}

func (s *ComponentStorage[T]) getBoxed(e Entity) (any, bool) {
	i, ok := s.index.Get(e)
	if !ok {
		return nil, false
	}
	return s.at(i), true
}

func (s *ComponentStorage[T]) setBoxed(e Entity, value any) error {
	switch v := value.(type) {
	case T:
		_, err := s.Set(e, v)
		return err
	case *T:
		_, err := s.Set(e, *v)
		return err
	default:
		return eris.Errorf("value of type %T cannot be stored as %s", value, s.info.Name)
	}
}

func (s *ComponentStorage[T]) sweeping() bool { return s.sweeps > 0 }
func (s *ComponentStorage[T]) beginSweep()    { s.sweeps++ }
func (s *ComponentStorage[T]) endSweep()      { s.sweeps-- }

func (s *ComponentStorage[T]) start(e Entity) error {
	p, err := s.Get(e)
	if err != nil {
		return err
	}
	return any(p).(Activatable).Start(s.world, e)
}

func (s *ComponentStorage[T]) think(frame *UpdateFrame, e Entity) error {
	p, err := s.Get(e)
	if err != nil {
		return err
	}
	return any(p).(Thinker).Think(frame, e)
}

func (s *ComponentStorage[T]) collide(e Entity, contact ContactInfo) error {
	p, err := s.Get(e)
	if err != nil {
		return err
	}
	return any(p).(CollisionReactive).OnCollision(s.world, e, contact)
}
