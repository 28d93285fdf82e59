package main

const (
	UFOWidth    = 48.0
	UFOHeight   = 20.0
	UFOY        = 45.0
	UFOSpeed    = 90.0 // pixels/s
	UFOMinDelay = 18.0 // seconds between crossings
	UFOMaxDelay = 32.0
)

// ufoBonuses mirrors the arcade mystery-ship payout table.
var ufoBonuses = []int{50, 100, 150, 300}

// UFO is the mystery ship crossing the top of the playfield. A single
// instance is reused across crossings.
type UFO struct {
	ID     string
	X      float64
	Dir    float64 // +1 left-to-right, -1 right-to-left
	Bonus  int
	Alive  bool
	spawnT float64 // countdown to the next crossing
}

// NewUFO creates an inactive mystery ship with its first spawn timer
// running.
func NewUFO() *UFO {
	u := &UFO{ID: "ufo"}
	u.rearm()
	return u
}

func (u *UFO) rearm() {
	u.Alive = false
	u.spawnT = UFOMinDelay + randFloat()*(UFOMaxDelay-UFOMinDelay)
}

// Update ticks the spawn timer or moves the ship across the screen.
func (u *UFO) Update(dt float64) {
	if !u.Alive {
		u.spawnT -= dt
		if u.spawnT <= 0 {
			u.spawn()
		}
		return
	}

	u.X += u.Dir * UFOSpeed * dt
	if u.X+UFOWidth < 0 || u.X > WorldWidth {
		u.rearm() // escaped, no bonus
	}
}

func (u *UFO) spawn() {
	u.Bonus = ufoBonuses[int(randFloat()*float64(len(ufoBonuses)))%len(ufoBonuses)]
	if randFloat() < 0.5 {
		u.Dir = 1
		u.X = -UFOWidth
	} else {
		u.Dir = -1
		u.X = WorldWidth
	}
	u.Alive = true
}

// Shot kills the ship and returns its bonus value.
func (u *UFO) Shot() int {
	if !u.Alive {
		return 0
	}
	bonus := u.Bonus
	u.rearm()
	return bonus
}

// EntityID implements Collidable.
func (u *UFO) EntityID() string { return u.ID }

// EntityKind implements Collidable.
func (u *UFO) EntityKind() EntityKind { return KindUFO }

// IsActive implements Collidable.
func (u *UFO) IsActive() bool { return u.Alive }

// Bounds implements Collidable.
func (u *UFO) Bounds() Box {
	return Box{X: u.X, Y: UFOY, W: UFOWidth, H: UFOHeight}
}

// ToState converts to protocol state.
func (u *UFO) ToState() UFOState {
	return UFOState{X: round1(u.X), Y: UFOY}
}
