package main

import "fmt"

// Shot directions, in screen coordinates (y grows downward).
const (
	DirUp   = -1.0
	DirDown = 1.0
)

const (
	PlayerShotWidth    = 4.0
	PlayerShotHeight   = 12.0
	PlayerShotSpeed    = 480.0 // pixels/s
	PlayerShotDamage   = 1
	PlayerShotPoolSize = 6 // per-session cap across all cannons

	InvaderShotWidth    = 6.0
	InvaderShotHeight   = 12.0
	InvaderShotDamage   = 1
	InvaderShotPoolSize = 10
)

// Projectile is a pooled shot. Slots are allocated once by the pool and
// reused; a released slot keeps its identity but goes inactive.
type Projectile struct {
	ID      string
	OwnerID string // entity that fired the shot, "" while pooled
	Kind    EntityKind
	X, Y    float64
	W, H    float64
	Speed   float64 // pixels/s
	Dir     float64 // DirUp or DirDown
	Damage  int
	Alive   bool
}

// Update moves the projectile one tick (dt in seconds).
func (p *Projectile) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.Y += p.Dir * p.Speed * dt
}

// EntityID implements Collidable.
func (p *Projectile) EntityID() string { return p.ID }

// EntityKind implements Collidable.
func (p *Projectile) EntityKind() EntityKind { return p.Kind }

// IsActive implements Collidable.
func (p *Projectile) IsActive() bool { return p.Alive }

// Bounds implements Collidable.
func (p *Projectile) Bounds() Box { return Box{X: p.X, Y: p.Y, W: p.W, H: p.H} }

// ToState converts to protocol state.
func (p *Projectile) ToState() ShotState {
	return ShotState{
		ID: p.ID,
		X:  round1(p.X),
		Y:  round1(p.Y),
		E:  p.Kind == KindInvaderShot,
	}
}

func shotID(kind EntityKind, slot int) string {
	return fmt.Sprintf("%s-%d", kind, slot)
}
