package main

import (
	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/script"
)

// Beacon is a native component that lights up when something bumps into it.
type Beacon struct {
	Lit   bool
	Bumps int
}

func (b *Beacon) Start(w *ecs.World, e ecs.Entity) error {
	b.Lit = false
	return nil
}

func (b *Beacon) OnCollision(w *ecs.World, e ecs.Entity, contact ecs.ContactInfo) error {
	b.Bumps++
	b.Lit = contact.RelativeSpeed > 1
	return nil
}

// buildCatalog registers every component type. It runs again after each
// reload, the way a freshly loaded scripting environment registers its types.
func buildCatalog(capacity int) *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry(ecs.WithCapacity(capacity))
	ecs.RegisterComponent[Beacon](registry)
	ecs.RegisterComponent[script.Behaviour](registry)
	return registry
}

func spawnScene(w *ecs.World) error {
	templates := []ecs.Template{
		{Name: "walker", Components: []any{script.Behaviour{Script: "wander", Vars: map[string]float64{"speed": 2, "range": 4}}}},
		{Name: "beacon", Components: []any{Beacon{}}},
		{Name: "bomb", Components: []any{script.Behaviour{Script: "fuse", Vars: map[string]float64{"left": 2}}, Beacon{}}},
	}
	for _, t := range templates {
		if _, err := w.Instantiate(t); err != nil {
			return err
		}
	}
	return nil
}
