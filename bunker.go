package main

import "fmt"

const (
	BunkerCount  = 4
	BunkerWidth  = 64.0
	BunkerHeight = 40.0
	BunkerY      = CannonY - 90.0
	BunkerHP     = 12 // shots absorbed before the bunker crumbles
)

// Bunker is a static shield between the cannons and the fleet. It
// absorbs shots from both sides, degrading until it crumbles; a
// descending invader flattens it instantly.
type Bunker struct {
	ID    string
	X     float64
	HP    int
	Alive bool
}

// NewBunkers lays out the standard four shields, evenly spaced.
func NewBunkers() []*Bunker {
	bunkers := make([]*Bunker, BunkerCount)
	gap := WorldWidth / (BunkerCount + 1)
	for i := range bunkers {
		bunkers[i] = &Bunker{
			ID:    fmt.Sprintf("bunker-%d", i),
			X:     gap*float64(i+1) - BunkerWidth/2,
			HP:    BunkerHP,
			Alive: true,
		}
	}
	return bunkers
}

// Hit absorbs one shot. Returns true when the bunker crumbles.
func (b *Bunker) Hit() bool {
	if !b.Alive {
		return false
	}
	b.HP--
	if b.HP <= 0 {
		b.HP = 0
		b.Alive = false
		return true
	}
	return false
}

// Crush destroys the bunker outright (invader contact).
func (b *Bunker) Crush() {
	b.HP = 0
	b.Alive = false
}

// Restore rebuilds the bunker for a new game.
func (b *Bunker) Restore() {
	b.HP = BunkerHP
	b.Alive = true
}

// EntityID implements Collidable.
func (b *Bunker) EntityID() string { return b.ID }

// EntityKind implements Collidable.
func (b *Bunker) EntityKind() EntityKind { return KindBunker }

// IsActive implements Collidable.
func (b *Bunker) IsActive() bool { return b.Alive }

// Bounds implements Collidable.
func (b *Bunker) Bounds() Box {
	return Box{X: b.X, Y: BunkerY, W: BunkerWidth, H: BunkerHeight}
}

// ToState converts to protocol state.
func (b *Bunker) ToState() BunkerState {
	return BunkerState{ID: b.ID, X: round1(b.X), HP: b.HP}
}
