// Package world keeps every simulated body in a donburi world and steps
// them together.
package world

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic2d/collision"
	"github.com/milk9111/kinematic2d/kinematic"
	"github.com/milk9111/kinematic2d/movement"
	"github.com/milk9111/kinematic2d/prefabs"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// LoadFunc resolves an archetype name to its spec.
type LoadFunc func(name string) (*prefabs.ArchetypeSpec, error)

type World struct {
	ecs    *ecs.ECS
	caster collision.RayCaster
	load   LoadFunc
	dt     float64
}

// New returns an empty world whose bodies collide against caster.
// Archetypes are resolved with prefabs.LoadArchetype.
func New(caster collision.RayCaster) *World {
	return NewWithLoader(caster, prefabs.LoadArchetype)
}

func NewWithLoader(caster collision.RayCaster, load LoadFunc) *World {
	w := &World{
		ecs:    ecs.NewECS(donburi.NewWorld()),
		caster: caster,
		load:   load,
	}
	w.ecs.AddSystem(w.applyInput)
	w.ecs.AddSystem(w.simulate)
	return w
}

// Spawn creates a body of the named archetype centered at position.
func (w *World) Spawn(archetype string, position cp.Vector) (donburi.Entity, error) {
	spec, err := w.load(archetype)
	if err != nil {
		return 0, fmt.Errorf("world: spawn %s: %w", archetype, err)
	}
	profile, err := movement.New(spec)
	if err != nil {
		return 0, fmt.Errorf("world: spawn %s: %w", archetype, err)
	}

	size := cp.Vector{X: spec.Collider.Width, Y: spec.Collider.Height}
	entity := w.ecs.World.Create(Body, Input)
	entry := w.ecs.World.Entry(entity)
	Body.Set(entry, &BodyData{
		Archetype:  archetype,
		Spec:       spec,
		Controller: kinematic.New(position, size, profile, w.caster),
	})
	log.Printf("world: spawned %s at (%.2f, %.2f)", archetype, position.X, position.Y)
	return entity, nil
}

func (w *World) Despawn(e donburi.Entity) {
	if !w.ecs.World.Valid(e) {
		return
	}
	w.ecs.World.Remove(e)
}

// Body returns the body of e, or false if e is gone.
func (w *World) Body(e donburi.Entity) (*BodyData, bool) {
	if !w.ecs.World.Valid(e) {
		return nil, false
	}
	return Body.Get(w.ecs.World.Entry(e)), true
}

// SetInput stores walk and jump forces for the next Update.
func (w *World) SetInput(e donburi.Entity, walk, jump float64) {
	if !w.ecs.World.Valid(e) {
		return
	}
	Input.SetValue(w.ecs.World.Entry(e), InputData{Walk: walk, Jump: jump})
}

// Update advances every body by dt seconds.
func (w *World) Update(dt float64) {
	w.dt = dt
	w.ecs.Update()
}

// Each visits every body.
func (w *World) Each(fn func(e donburi.Entity, body *BodyData)) {
	Body.Each(w.ecs.World, func(entry *donburi.Entry) {
		fn(entry.Entity(), Body.Get(entry))
	})
}

func (w *World) Len() int {
	n := 0
	Body.Each(w.ecs.World, func(*donburi.Entry) { n++ })
	return n
}

// Reload rebuilds the profile of every body of the named archetype from a
// fresh spec. Position and velocity are kept; cooldowns start over.
func (w *World) Reload(archetype string) (int, error) {
	spec, err := w.load(archetype)
	if err != nil {
		return 0, fmt.Errorf("world: reload %s: %w", archetype, err)
	}

	var bodies []*BodyData
	Body.Each(w.ecs.World, func(entry *donburi.Entry) {
		if b := Body.Get(entry); b.Archetype == archetype {
			bodies = append(bodies, b)
		}
	})

	for _, b := range bodies {
		profile, err := movement.New(spec)
		if err != nil {
			return 0, fmt.Errorf("world: reload %s: %w", archetype, err)
		}
		b.Spec = spec
		b.Controller.SetProfile(profile)
	}
	if len(bodies) > 0 {
		log.Printf("world: reloaded %s for %d bodies", archetype, len(bodies))
	}
	return len(bodies), nil
}

// Swap replaces the archetype of one body in place.
func (w *World) Swap(e donburi.Entity, archetype string) error {
	b, ok := w.Body(e)
	if !ok {
		return fmt.Errorf("world: swap %s: entity gone", archetype)
	}
	spec, err := w.load(archetype)
	if err != nil {
		return fmt.Errorf("world: swap %s: %w", archetype, err)
	}
	profile, err := movement.New(spec)
	if err != nil {
		return fmt.Errorf("world: swap %s: %w", archetype, err)
	}

	c := b.Controller
	size := cp.Vector{X: spec.Collider.Width, Y: spec.Collider.Height}
	next := kinematic.New(c.Position, size, profile, w.caster)
	next.Velocity = c.Velocity

	b.Archetype = archetype
	b.Spec = spec
	b.Controller = next
	return nil
}

func (w *World) applyInput(e *ecs.ECS) {
	Input.Each(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(Body) {
			return
		}
		in := Input.Get(entry)
		c := Body.Get(entry).Controller
		c.WalkForce = in.Walk
		c.JumpForce = in.Jump
	})
}

func (w *World) simulate(e *ecs.ECS) {
	Body.Each(e.World, func(entry *donburi.Entry) {
		Body.Get(entry).Controller.Simulate(w.dt)
	})
}
