package main

// Playfield and cannon tuning. The playfield matches the client canvas.
const (
	WorldWidth  = 800.0
	WorldHeight = 600.0

	CannonWidth   = 52.0
	CannonHeight  = 32.0
	CannonY       = WorldHeight - 60.0
	CannonSpeed   = 250.0 // pixels/s
	CannonMargin  = 10.0  // keep-out from the side walls
	FireCooldown  = 0.45  // seconds between shots
	StartingLives = 3
	RespawnTime   = 2.0 // seconds the cannon stays down after a hit
	InvulnTime    = 1.5 // post-respawn grace, ignores enemy fire
	ExtraLifeAt   = 1500
)

// Player is a cannon at the bottom of the playfield, driven by one
// connected client. Movement is horizontal only.
type Player struct {
	ID     string
	Name   string
	AuthID int64 // account id, 0 for guests
	X      float64
	Lives  int
	Score  int
	Kills  int
	Alive  bool

	FireCD   float64 // fire cooldown remaining
	RespawnT float64 // respawn timer remaining
	InvulnT  float64 // invulnerability remaining after respawn

	// Held input, set by HandleInput, consumed each tick.
	MoveDir float64 // -1 left, 0 idle, +1 right
	Firing  bool

	awardedLife bool // extra-life threshold already crossed
}

// NewPlayer creates a cannon at the given horizontal position.
func NewPlayer(id, name string, x float64) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		X:     x,
		Lives: StartingLives,
		Alive: true,
	}
}

// Update moves the cannon one tick (dt in seconds).
func (p *Player) Update(dt float64) {
	if !p.Alive {
		if p.Lives <= 0 {
			return
		}
		p.RespawnT -= dt
		if p.RespawnT <= 0 {
			p.Alive = true
			p.InvulnT = InvulnTime
			p.FireCD = 0
		}
		return
	}

	p.X += p.MoveDir * CannonSpeed * dt
	p.X = Clamp(p.X, CannonMargin, WorldWidth-CannonWidth-CannonMargin)

	if p.FireCD > 0 {
		p.FireCD -= dt
	}
	if p.InvulnT > 0 {
		p.InvulnT -= dt
	}
}

// CanFire reports whether the cannon may fire this tick.
func (p *Player) CanFire() bool {
	return p.Alive && p.Firing && p.FireCD <= 0
}

// Hit takes one life. Returns true when the player is out of lives.
func (p *Player) Hit() bool {
	if !p.Alive || p.InvulnT > 0 {
		return false
	}
	p.Lives--
	p.Alive = false
	if p.Lives <= 0 {
		p.Lives = 0
		return true
	}
	p.RespawnT = RespawnTime
	return false
}

// AddScore credits points and grants the one-time extra life once the
// threshold is crossed.
func (p *Player) AddScore(points int) {
	p.Score += points
	if !p.awardedLife && p.Score >= ExtraLifeAt {
		p.awardedLife = true
		p.Lives++
	}
}

// EntityID implements Collidable.
func (p *Player) EntityID() string { return p.ID }

// EntityKind implements Collidable.
func (p *Player) EntityKind() EntityKind { return KindCannon }

// IsActive implements Collidable.
func (p *Player) IsActive() bool { return p.Alive }

// Bounds implements Collidable.
func (p *Player) Bounds() Box {
	return Box{X: p.X, Y: CannonY, W: CannonWidth, H: CannonHeight}
}

// ToState converts to protocol state.
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		X:     round1(p.X),
		Lives: p.Lives,
		Score: p.Score,
		Alive: p.Alive,
		Inv:   p.InvulnT > 0,
	}
}
