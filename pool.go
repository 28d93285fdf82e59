package main

import "log"

// PoolConfig is the shared per-slot configuration of a projectile pool.
type PoolConfig struct {
	Kind   EntityKind
	Width  float64
	Height float64
	Speed  float64 // pixels/s
	Damage int
}

// ProjectilePool hands out pre-allocated projectile slots so sustained
// fire never allocates. The slot count is fixed at construction: when
// every slot is active, Acquire returns nil and the shot is dropped.
// That is backpressure, not an error.
type ProjectilePool struct {
	slots  []*Projectile
	active map[string]*Projectile
	bounds Box // world rect; shots leaving it are auto-released
}

// NewProjectilePool pre-allocates maxSize inactive slots.
func NewProjectilePool(maxSize int, cfg PoolConfig, bounds Box) *ProjectilePool {
	pool := &ProjectilePool{
		slots:  make([]*Projectile, maxSize),
		active: make(map[string]*Projectile, maxSize),
		bounds: bounds,
	}
	for i := range pool.slots {
		pool.slots[i] = &Projectile{
			ID:     shotID(cfg.Kind, i),
			Kind:   cfg.Kind,
			W:      cfg.Width,
			H:      cfg.Height,
			Speed:  cfg.Speed,
			Damage: cfg.Damage,
		}
	}
	return pool
}

// Acquire resets an inactive slot at (x, y) heading dir and returns it.
// Returns nil when the pool is exhausted; callers must treat the shot as
// dropped.
func (pp *ProjectilePool) Acquire(x, y, dir float64) *Projectile {
	for _, p := range pp.slots {
		if p.Alive {
			continue
		}
		p.X = x
		p.Y = y
		p.Dir = dir
		p.OwnerID = ""
		p.Alive = true
		pp.active[p.ID] = p
		return p
	}
	return nil
}

// Release returns a projectile to the pool. Releasing a slot that is not
// active is a no-op: the off-screen expiry path and an explicit hit
// release can race to reclaim the same shot within one tick.
func (pp *ProjectilePool) Release(p *Projectile) {
	if _, ok := pp.active[p.ID]; !ok {
		log.Printf("pool: double release of %s ignored", p.ID)
		return
	}
	p.Alive = false
	p.OwnerID = ""
	delete(pp.active, p.ID)
}

// Update advances all active projectiles and reclaims any that have gone
// inactive or left the world bounds. Iterates slots in index order so
// expiry is deterministic.
func (pp *ProjectilePool) Update(dt float64) {
	for _, p := range pp.slots {
		if _, ok := pp.active[p.ID]; !ok {
			continue
		}
		if !p.Alive {
			// Deactivated externally without a Release call.
			p.OwnerID = ""
			delete(pp.active, p.ID)
			continue
		}
		p.Update(dt)
		if p.Y+p.H < pp.bounds.Y || p.Y > pp.bounds.Y+pp.bounds.H ||
			p.X+p.W < pp.bounds.X || p.X > pp.bounds.X+pp.bounds.W {
			pp.Release(p)
		}
	}
}

// ActiveProjectiles returns the live shots in slot order.
func (pp *ProjectilePool) ActiveProjectiles() []*Projectile {
	result := make([]*Projectile, 0, len(pp.active))
	for _, p := range pp.slots {
		if p.Alive {
			result = append(result, p)
		}
	}
	return result
}

// ActiveCount returns the number of live shots.
func (pp *ProjectilePool) ActiveCount() int {
	return len(pp.active)
}

// Capacity returns the fixed slot count.
func (pp *ProjectilePool) Capacity() int {
	return len(pp.slots)
}

// Clear force-releases every active slot.
func (pp *ProjectilePool) Clear() {
	for _, p := range pp.slots {
		if p.Alive {
			pp.Release(p)
		}
	}
}
