package main

import (
	"math/rand"

	"github.com/plus3/hotreg/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Tint struct {
	R, G, B uint8
}

// Particle drifts every frame.
type Particle struct {
	Drag float64
}

func (p *Particle) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	pos, err := ecs.Get[Position](frame.World, e)
	if err != nil {
		return err
	}
	vel, err := ecs.Get[Velocity](frame.World, e)
	if err != nil {
		return err
	}
	vel.DX *= 1 - p.Drag
	vel.DY *= 1 - p.Drag
	pos.X += vel.DX * frame.DeltaTime
	pos.Y += vel.DY * frame.DeltaTime
	return nil
}

// Lifetime destroys its entity once it runs out.
type Lifetime struct {
	Frames int
}

func (l *Lifetime) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	l.Frames--
	if l.Frames <= 0 {
		frame.World.DestroyNext(e)
	}
	return nil
}

// Emitter tints its entity on activation and occasionally spawns a particle.
type Emitter struct {
	Rate     float64
	Emitted  int
	Activate int
}

func (em *Emitter) Start(w *ecs.World, e ecs.Entity) error {
	em.Activate++
	return nil
}

func (em *Emitter) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	if rand.Float64() >= em.Rate {
		return nil
	}
	em.Emitted++
	child := frame.World.Create()
	frame.Commands.AddComponent(child, Position{})
	frame.Commands.AddComponent(child, Velocity{DX: rand.Float64()*2 - 1, DY: rand.Float64()*2 - 1})
	frame.Commands.AddComponent(child, Particle{Drag: 0.01})
	frame.Commands.AddComponent(child, Lifetime{Frames: 30 + rand.Intn(60)})
	return nil
}

// Hitbox counts contacts and flips a tint on hard hits.
type Hitbox struct {
	Hits int
}

func (h *Hitbox) OnCollision(w *ecs.World, e ecs.Entity, contact ecs.ContactInfo) error {
	h.Hits++
	if contact.RelativeSpeed > 0.5 && !ecs.Has[Tint](w, e) {
		_, err := ecs.AddValue(w, e, Tint{R: 255})
		return err
	}
	return nil
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Tint](registry)
	ecs.RegisterComponent[Particle](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Emitter](registry)
	ecs.RegisterComponent[Hitbox](registry)
}

// spawnRandomEntity instantiates an entity with one to five components.
// Entities with both a position and a velocity also get a particle.
func spawnRandomEntity(w *ecs.World, numComponents int) ecs.Entity {
	var components []any
	hasPos, hasVel := false, false
	for _, i := range rand.Perm(5)[:numComponents] {
		switch i {
		case 0:
			components = append(components, Position{X: rand.Float64() * 100, Y: rand.Float64() * 100})
			hasPos = true
		case 1:
			components = append(components, Velocity{DX: rand.Float64(), DY: rand.Float64()})
			hasVel = true
		case 2:
			components = append(components, Hitbox{})
		case 3:
			components = append(components, Emitter{Rate: 0.01})
		case 4:
			components = append(components, Lifetime{Frames: 60 + rand.Intn(600)})
		}
	}
	if hasPos && hasVel {
		components = append(components, Particle{Drag: 0.001})
	}

	e, err := w.Instantiate(ecs.Template{Components: components})
	if err != nil {
		w.Logger().Error().Err(err).Msg("spawn failed")
	}
	return e
}
