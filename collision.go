package main

import "log"

// CollisionHandler reacts to an overlapping pair. Arguments arrive in the
// kind order the handler was registered with; ts is simulation time in
// seconds since the system was created.
type CollisionHandler func(a, b Collidable, ts float64)

type kindHandler struct {
	a, b EntityKind
	fn   CollisionHandler
}

// CollisionSystem detects overlaps between registered active entities and
// dispatches the handler registered for the pair of kinds. It holds only
// non-owning references: whoever owns an entity must Unregister it when
// the entity goes away.
type CollisionSystem struct {
	entities map[string]Collidable
	order    []string // registration order, drives scan determinism
	handlers []kindHandler
	grid     *SpatialGrid // optional broad phase
	elapsed  float64
}

// NewCollisionSystem creates a system with no broad phase; every pair of
// active entities is tested each tick.
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{entities: make(map[string]Collidable)}
}

// AttachGrid narrows pair scans through a spatial grid. The caller keeps
// the grid in sync with entity movement.
func (c *CollisionSystem) AttachGrid(g *SpatialGrid) {
	c.grid = g
}

// Register tracks an entity for collision checks. Registering an id twice
// overwrites the earlier reference and keeps its scan position.
func (c *CollisionSystem) Register(e Collidable) {
	id := e.EntityID()
	if id == "" {
		log.Printf("collision: register without id ignored")
		return
	}
	if _, ok := c.entities[id]; !ok {
		c.order = append(c.order, id)
	}
	c.entities[id] = e
}

// Unregister stops tracking an entity. Unknown ids are a no-op.
func (c *CollisionSystem) Unregister(id string) {
	if _, ok := c.entities[id]; !ok {
		return
	}
	delete(c.entities, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Handle registers fn for the unordered kind pair (a, b). Lookup is
// symmetric; when both directions are registered the first registration
// wins.
func (c *CollisionSystem) Handle(a, b EntityKind, fn CollisionHandler) {
	c.handlers = append(c.handlers, kindHandler{a: a, b: b, fn: fn})
}

// Update performs one collision pass. Inactive entities are skipped; each
// overlapping active pair is dispatched exactly once. A panicking handler
// is logged and the scan continues with the next pair.
func (c *CollisionSystem) Update(dt float64) {
	c.elapsed += dt

	active := make([]Collidable, 0, len(c.order))
	index := make(map[string]int, len(c.order))
	for _, id := range c.order {
		e := c.entities[id]
		if e == nil || !e.IsActive() {
			continue
		}
		index[id] = len(active)
		active = append(active, e)
	}

	if c.grid != nil {
		c.scanWithGrid(active, index)
		return
	}

	for i := 0; i < len(active); i++ {
		a := active[i]
		for j := i + 1; j < len(active); j++ {
			b := active[j]
			if !a.IsActive() {
				break // a handler earlier this tick killed it
			}
			if !b.IsActive() {
				continue
			}
			c.checkPair(a, b)
		}
	}
}

// scanWithGrid asks the grid for candidates per entity and dispatches
// each pair once, lowest scan index first.
func (c *CollisionSystem) scanWithGrid(active []Collidable, index map[string]int) {
	for i, a := range active {
		for _, b := range c.grid.QueryCandidates(a) {
			j, ok := index[b.EntityID()]
			if !ok || j <= i {
				continue // unregistered, inactive, or already scanned from b's side
			}
			if !a.IsActive() {
				break
			}
			if !b.IsActive() {
				continue
			}
			c.checkPair(a, b)
		}
	}
}

func (c *CollisionSystem) checkPair(a, b Collidable) {
	if !a.Bounds().Overlaps(b.Bounds()) {
		return
	}
	for _, h := range c.handlers {
		if h.a == a.EntityKind() && h.b == b.EntityKind() {
			c.dispatch(h.fn, a, b)
			return
		}
		if h.a == b.EntityKind() && h.b == a.EntityKind() {
			c.dispatch(h.fn, b, a)
			return
		}
	}
}

func (c *CollisionSystem) dispatch(fn CollisionHandler, a, b Collidable) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("collision: handler panic for %s/%s: %v",
				a.EntityKind(), b.EntityKind(), r)
		}
	}()
	fn(a, b, c.elapsed)
}

// EntityCount returns the number of registered entities.
func (c *CollisionSystem) EntityCount() int {
	return len(c.entities)
}

// Clear drops all entity registrations and handlers.
func (c *CollisionSystem) Clear() {
	c.entities = make(map[string]Collidable)
	c.order = nil
	c.handlers = nil
}
