package world

import (
	"fmt"

	"bettercharcoal.ai/internal/sim/mathx"
)

// Entity is anything held in the world registry.
type Entity interface {
	EntityID() string
	IsValid() bool
	Position() mathx.Vec3
}

// Marker is a static prop. It exists so the registry is not only furnaces.
type Marker struct {
	id   string
	Name string
	Pos  mathx.Vec3
	dead bool
}

func (m *Marker) EntityID() string     { return m.id }
func (m *Marker) IsValid() bool        { return m != nil && !m.dead }
func (m *Marker) Position() mathx.Vec3 { return m.Pos }

func (w *World) newEntityID(prefix string) string {
	w.nextEntityNum++
	return fmt.Sprintf("%s%06d", prefix, w.nextEntityNum)
}

func (w *World) register(e Entity) {
	id := e.EntityID()
	w.entities[id] = e
	w.order = append(w.order, id)
	w.auditEvent(w.tick, "WORLD", "ENTITY_SPAWN", e.Position(), "", map[string]any{"entity_id": id})
	w.hooks.OnEntitySpawned(e)
}

func (w *World) SpawnMarker(name string, pos mathx.Vec3) *Marker {
	m := &Marker{id: w.newEntityID("M"), Name: name, Pos: pos}
	w.register(m)
	return m
}

// Entities lists live entities in spawn order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, len(w.order))
	for _, id := range w.order {
		if e := w.entities[id]; e != nil && e.IsValid() {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) Entity(id string) (Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

func (w *World) Furnace(id string) (*Furnace, bool) {
	f, ok := w.entities[id].(*Furnace)
	return f, ok
}

// Kill destroys an entity. The killed hook sees the entity already invalid.
func (w *World) Kill(id string) error {
	e, ok := w.entities[id]
	if !ok {
		return fmt.Errorf("kill %s: no such entity", id)
	}
	switch v := e.(type) {
	case *Furnace:
		v.dead = true
		v.on = false
	case *Marker:
		v.dead = true
	}
	w.unlink(id)
	w.auditEvent(w.tick, "WORLD", "ENTITY_KILL", e.Position(), "", map[string]any{"entity_id": id})
	w.hooks.OnEntityKilled(e)
	return nil
}

// Forget removes a dead entity from the registry without firing the killed hook, the
// way an entity can vanish when its chunk is discarded.
func (w *World) Forget(id string) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	if f, ok := e.(*Furnace); ok {
		f.dead = true
		f.on = false
	}
	w.unlink(id)
}

func (w *World) unlink(id string) {
	delete(w.entities, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			return
		}
	}
}
