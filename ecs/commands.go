package ecs

import "reflect"

// Commands buffers structural changes requested during the think pass. They
// are applied after the pass, before the destroy queue is drained, so a
// component may use them to change its own storage.
type Commands struct {
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity   Entity
	compType reflect.Type
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies all commands to w, resetting the buffer state. Failures are
// logged.
func (c *Commands) Flush(w *World) {
	for _, cmd := range c.removes {
		if err := w.RemoveComponent(cmd.entity, cmd.compType); err != nil {
			w.logger.Error().Err(err).Uint32("entity", uint32(cmd.entity)).Msg("queued remove failed")
		}
	}

	for _, cmd := range c.adds {
		if err := w.AddComponent(cmd.entity, cmd.component); err != nil {
			w.logger.Error().Err(err).Uint32("entity", uint32(cmd.entity)).Msg("queued add failed")
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
