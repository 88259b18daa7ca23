package ecs_test

import (
	"errors"
	"reflect"

	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/host"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

// journal records lifecycle callbacks in the order they ran.
type journal struct {
	calls []string
}

func (j *journal) add(s string) { j.calls = append(j.calls, s) }

// Mover thinks every frame.
type Mover struct {
	Speed float32
}

func (m *Mover) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	pos, err := ecs.Get[Position](frame.World, e)
	if err != nil {
		return err
	}
	pos.X += m.Speed * float32(frame.DeltaTime)
	ecs.GetSingleton[journal](frame.World).add("think:mover:" + e.String())
	return nil
}

// Bumper reacts to collisions.
type Bumper struct {
	Hits int
	Last ecs.Entity
}

func (b *Bumper) OnCollision(w *ecs.World, e ecs.Entity, contact ecs.ContactInfo) error {
	b.Hits++
	b.Last = contact.Other
	ecs.GetSingleton[journal](w).add("collision:bumper:" + e.String())
	return nil
}

// Spawner runs once on activation.
type Spawner struct {
	Started int
}

func (s *Spawner) Start(w *ecs.World, e ecs.Entity) error {
	s.Started++
	ecs.GetSingleton[journal](w).add("start:spawner:" + e.String())
	return nil
}

// Lamp implements every capability.
type Lamp struct {
	On      bool
	Thought int
	Hit     int
}

func (l *Lamp) Start(w *ecs.World, e ecs.Entity) error {
	l.On = true
	ecs.GetSingleton[journal](w).add("start:lamp:" + e.String())
	return nil
}

func (l *Lamp) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	l.Thought++
	ecs.GetSingleton[journal](frame.World).add("think:lamp:" + e.String())
	return nil
}

func (l *Lamp) OnCollision(w *ecs.World, e ecs.Entity, _ ecs.ContactInfo) error {
	l.Hit++
	ecs.GetSingleton[journal](w).add("collision:lamp:" + e.String())
	return nil
}

var errBroken = errors.New("broken component")

// Faulty fails every callback, by error or by panic.
type Faulty struct {
	Panic bool
}

func (f *Faulty) Think(*ecs.UpdateFrame, ecs.Entity) error {
	if f.Panic {
		panic("faulty think")
	}
	return errBroken
}

func (f *Faulty) Start(*ecs.World, ecs.Entity) error {
	if f.Panic {
		panic("faulty start")
	}
	return errBroken
}

// SelfRemover tries to remove its own component mid-sweep.
type SelfRemover struct {
	Err error
}

func (s *SelfRemover) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	s.Err = ecs.Remove[SelfRemover](frame.World, e)
	return s.Err
}

// Expiring removes itself through the command buffer.
type Expiring struct {
	Frames int
}

func (x *Expiring) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	x.Frames--
	if x.Frames <= 0 {
		frame.Commands.RemoveComponent(e, reflect.TypeFor[Expiring]())
	}
	return nil
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[Mover](registry)
	ecs.RegisterComponent[Bumper](registry)
	ecs.RegisterComponent[Spawner](registry)
	ecs.RegisterComponent[Lamp](registry)
	ecs.RegisterComponent[Faulty](registry)
	ecs.RegisterComponent[SelfRemover](registry)
	ecs.RegisterComponent[Expiring](registry)
	return registry
}

func newTestWorld(opts ...ecs.WorldOption) (*ecs.World, *host.Memory, *journal) {
	h := host.NewMemory()
	w := ecs.NewWorld(newTestRegistry(), h, opts...)
	j := ecs.NewSingleton[journal](w).Get()
	return w, h, j
}

func newHost() *host.Memory {
	return host.NewMemory()
}
