package main

import "fmt"

const (
	FleetRows = 5
	FleetCols = 11

	InvaderWidth  = 32.0
	InvaderHeight = 24.0
	FleetSpacingX = 48.0
	FleetSpacingY = 40.0
	FleetTopY     = 90.0
	FleetMargin   = 10.0 // side wall keep-out before the fleet reverses
	FleetDrop     = 24.0 // vertical drop on each wall hit
	FleetFloorY   = CannonY - InvaderHeight

	// The fleet speeds up as it thins out, topping out at
	// 1 + FleetRage when a single invader is left.
	FleetRage = 3.0

	InvaderShotOffset = 4.0 // shot spawn gap below the invader
)

// invaderPoints is the kill value per formation row, top row first.
var invaderPoints = [FleetRows]int{30, 20, 20, 10, 10}

// Invader is one alien in the marching formation.
type Invader struct {
	ID     string
	Row    int
	Col    int
	X, Y   float64
	Points int
	Alive  bool
}

// EntityID implements Collidable.
func (inv *Invader) EntityID() string { return inv.ID }

// EntityKind implements Collidable.
func (inv *Invader) EntityKind() EntityKind { return KindInvader }

// IsActive implements Collidable.
func (inv *Invader) IsActive() bool { return inv.Alive }

// Bounds implements Collidable.
func (inv *Invader) Bounds() Box {
	return Box{X: inv.X, Y: inv.Y, W: InvaderWidth, H: InvaderHeight}
}

// ToState converts to protocol state.
func (inv *Invader) ToState() InvaderState {
	return InvaderState{
		ID: inv.ID,
		X:  round1(inv.X),
		Y:  round1(inv.Y),
		R:  inv.Row,
	}
}

// Fleet is the invader formation: it marches sideways as one body, drops
// and reverses at the walls, accelerates as invaders die, and lets the
// bottom-most invader of a random column fire.
type Fleet struct {
	invaders []*Invader
	dir      float64 // +1 marching right, -1 left
	cfg      WaveConfig
	shots    *ProjectilePool
	fireT    float64 // countdown to the next shot
	alive    int
}

// NewFleet builds a full formation for the given wave, firing through
// the supplied pool.
func NewFleet(cfg WaveConfig, shots *ProjectilePool) *Fleet {
	f := &Fleet{shots: shots}
	f.invaders = make([]*Invader, 0, FleetRows*FleetCols)
	for row := 0; row < FleetRows; row++ {
		for col := 0; col < FleetCols; col++ {
			f.invaders = append(f.invaders, &Invader{
				ID:     invaderID(row, col),
				Row:    row,
				Col:    col,
				Points: invaderPoints[row],
			})
		}
	}
	f.Reset(cfg)
	return f
}

// Reset re-forms the full formation for a new wave. Invader identities
// are stable across waves, like pool slots.
func (f *Fleet) Reset(cfg WaveConfig) {
	f.cfg = cfg
	f.dir = 1
	f.fireT = cfg.FireInterval
	f.alive = len(f.invaders)
	startX := (WorldWidth - float64(FleetCols-1)*FleetSpacingX - InvaderWidth) / 2
	for _, inv := range f.invaders {
		inv.X = startX + float64(inv.Col)*FleetSpacingX
		inv.Y = FleetTopY + float64(inv.Row)*FleetSpacingY + cfg.StartDescent
		inv.Alive = true
	}
}

// Speed returns the current march speed: the configured base scaled up
// as the formation thins.
func (f *Fleet) Speed() float64 {
	total := float64(len(f.invaders))
	killed := total - float64(f.alive)
	return f.cfg.FleetSpeed * (1 + FleetRage*killed/total)
}

// Update marches the formation one tick and handles firing.
func (f *Fleet) Update(dt float64) {
	if f.alive == 0 {
		return
	}

	dx := f.dir * f.Speed() * dt
	minX, maxX := WorldWidth, 0.0
	for _, inv := range f.invaders {
		if !inv.Alive {
			continue
		}
		inv.X += dx
		if inv.X < minX {
			minX = inv.X
		}
		if inv.X+InvaderWidth > maxX {
			maxX = inv.X + InvaderWidth
		}
	}

	// Wall hit: drop the whole formation and reverse.
	if (f.dir > 0 && maxX >= WorldWidth-FleetMargin) ||
		(f.dir < 0 && minX <= FleetMargin) {
		f.dir = -f.dir
		for _, inv := range f.invaders {
			if inv.Alive {
				inv.Y += FleetDrop
			}
		}
	}

	f.updateFire(dt)
}

// updateFire fires from the bottom-most invader of a random occupied
// column when the cadence timer elapses.
func (f *Fleet) updateFire(dt float64) {
	f.fireT -= dt
	if f.fireT > 0 {
		return
	}
	f.fireT = f.cfg.FireInterval * (0.5 + randFloat())

	shooter := f.pickShooter()
	if shooter == nil {
		return
	}
	shot := f.shots.Acquire(
		shooter.X+InvaderWidth/2-InvaderShotWidth/2,
		shooter.Y+InvaderHeight+InvaderShotOffset,
		DirDown,
	)
	if shot != nil {
		shot.OwnerID = shooter.ID
		shot.Speed = f.cfg.ShotSpeed
	}
}

// pickShooter returns the lowest alive invader of a random occupied
// column, or nil when the fleet is empty.
func (f *Fleet) pickShooter() *Invader {
	start := int(randFloat() * FleetCols)
	for i := 0; i < FleetCols; i++ {
		col := (start + i) % FleetCols
		var lowest *Invader
		for _, inv := range f.invaders {
			if inv.Alive && inv.Col == col && (lowest == nil || inv.Y > lowest.Y) {
				lowest = inv
			}
		}
		if lowest != nil {
			return lowest
		}
	}
	return nil
}

// Kill deactivates an invader and returns its point value. Killing an
// already-dead invader returns 0.
func (f *Fleet) Kill(inv *Invader) int {
	if !inv.Alive {
		return 0
	}
	inv.Alive = false
	f.alive--
	return inv.Points
}

// AliveCount returns the number of live invaders.
func (f *Fleet) AliveCount() int { return f.alive }

// Cleared reports whether every invader is dead.
func (f *Fleet) Cleared() bool { return f.alive == 0 }

// BottomY returns the lowest edge of the live formation, or 0 when
// empty.
func (f *Fleet) BottomY() float64 {
	var bottom float64
	for _, inv := range f.invaders {
		if inv.Alive && inv.Y+InvaderHeight > bottom {
			bottom = inv.Y + InvaderHeight
		}
	}
	return bottom
}

// Invaders exposes the formation slots, dead ones included.
func (f *Fleet) Invaders() []*Invader { return f.invaders }

func invaderID(row, col int) string {
	return fmt.Sprintf("inv-%d-%d", row, col)
}
