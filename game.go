package main

import (
	"log"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // fixed simulation ticks per second
	FrameRate      = 60 // scheduler frames per second
	BroadcastEvery = 2  // state snapshots every Nth rendered frame

	maxPlayersPerSession = 2
)

// Broadcaster sends messages to one connected client.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// systemFunc adapts a function to the System interface.
type systemFunc func(dt float64)

func (f systemFunc) Update(dt float64) { f(dt) }

// gatedSystem serializes a subsystem behind the game mutex and freezes
// it outside the playing phase.
type gatedSystem struct {
	g   *Game
	sys System
}

func (gs gatedSystem) Update(dt float64) {
	gs.g.mu.Lock()
	defer gs.g.mu.Unlock()
	if gs.g.phase != PhasePlaying {
		return
	}
	gs.sys.Update(dt)
}

// gridSync keeps the spatial grid consistent with entity movement and
// activation. It runs after every mover and before the collision pass,
// so broad-phase queries always see current positions.
type gridSync struct {
	grid    *SpatialGrid
	tracked []Collidable
	inGrid  map[string]bool
	lastX   map[string]float64
	lastY   map[string]float64
}

func newGridSync(grid *SpatialGrid) *gridSync {
	return &gridSync{
		grid:   grid,
		inGrid: make(map[string]bool),
		lastX:  make(map[string]float64),
		lastY:  make(map[string]float64),
	}
}

// Track starts mirroring an entity into the grid whenever it is active.
func (s *gridSync) Track(e Collidable) {
	s.tracked = append(s.tracked, e)
}

// Untrack drops an entity from the grid and from tracking.
func (s *gridSync) Untrack(id string) {
	for i, e := range s.tracked {
		if e.EntityID() != id {
			continue
		}
		if s.inGrid[id] {
			s.grid.Update(e, s.lastX[id], s.lastY[id])
			s.grid.Remove(e)
		}
		s.tracked = append(s.tracked[:i], s.tracked[i+1:]...)
		delete(s.inGrid, id)
		delete(s.lastX, id)
		delete(s.lastY, id)
		return
	}
}

func (s *gridSync) Update(dt float64) {
	for _, e := range s.tracked {
		id := e.EntityID()
		b := e.Bounds()
		switch {
		case e.IsActive() && !s.inGrid[id]:
			s.grid.Insert(e)
			s.inGrid[id] = true
		case !e.IsActive() && s.inGrid[id]:
			// The entity may have moved and deactivated within the same
			// tick; reconcile to its current cells before removal so no
			// stale membership survives.
			s.grid.Update(e, s.lastX[id], s.lastY[id])
			s.grid.Remove(e)
			delete(s.inGrid, id)
		case e.IsActive():
			if b.X != s.lastX[id] || b.Y != s.lastY[id] {
				s.grid.Update(e, s.lastX[id], s.lastY[id])
			}
		}
		s.lastX[id] = b.X
		s.lastY[id] = b.Y
	}
}

// Game holds the simulation for one session: the fixed-step loop, the
// entities, the projectile pools, the grid and the collision dispatch.
type Game struct {
	mu          sync.Mutex
	players     map[string]*Player
	playerOrder []string
	clients     map[string]Broadcaster

	fleet   *Fleet
	ufo     *UFO
	bunkers []*Bunker

	playerShots  *ProjectilePool
	invaderShots *ProjectilePool

	grid       *SpatialGrid
	collisions *CollisionSystem
	sync       *gridSync
	loop       *GameLoop

	phase     Phase
	wave      WaveConfig
	tick      uint64
	frame     uint64
	nextSpawn int

	db          *DB
	scoresSaved bool
}

// NewGame wires a full session. db may be nil (scores are then not
// persisted); sched drives the loop and is injected so tests can run
// the game on synthetic time.
func NewGame(db *DB, sched FrameScheduler) *Game {
	world := Box{X: 0, Y: 0, W: WorldWidth, H: WorldHeight}

	g := &Game{
		players: make(map[string]*Player),
		clients: make(map[string]Broadcaster),
		playerShots: NewProjectilePool(PlayerShotPoolSize, PoolConfig{
			Kind:   KindPlayerShot,
			Width:  PlayerShotWidth,
			Height: PlayerShotHeight,
			Speed:  PlayerShotSpeed,
			Damage: PlayerShotDamage,
		}, world),
		invaderShots: NewProjectilePool(InvaderShotPoolSize, PoolConfig{
			Kind:   KindInvaderShot,
			Width:  InvaderShotWidth,
			Height: InvaderShotHeight,
			Speed:  baseShotSpeed,
			Damage: InvaderShotDamage,
		}, world),
		grid:       NewSpatialGrid(DefaultCellSize),
		collisions: NewCollisionSystem(),
		ufo:        NewUFO(),
		bunkers:    NewBunkers(),
		wave:       WaveFor(1),
		phase:      PhaseLobby,
		db:         db,
	}
	g.fleet = NewFleet(g.wave, g.invaderShots)
	g.sync = newGridSync(g.grid)
	g.collisions.AttachGrid(g.grid)

	g.registerEntities()
	g.registerHandlers()

	g.loop = NewGameLoop(LoopConfig{TickRate: TickRate}, sched)
	g.loop.AddSystem(gatedSystem{g, systemFunc(g.updatePlayers)})
	g.loop.AddSystem(gatedSystem{g, g.fleet})
	g.loop.AddSystem(gatedSystem{g, g.ufo})
	g.loop.AddSystem(gatedSystem{g, g.playerShots})
	g.loop.AddSystem(gatedSystem{g, g.invaderShots})
	g.loop.AddSystem(gatedSystem{g, g.sync})
	g.loop.AddSystem(gatedSystem{g, g.collisions})
	g.loop.AddSystem(g) // phase bookkeeping + state broadcast, self-locking
	return g
}

// registerEntities registers every stable entity slot once. Pool slots
// and formation invaders keep their identity for the session lifetime;
// inactive ones are skipped by the collision scan.
func (g *Game) registerEntities() {
	for _, inv := range g.fleet.Invaders() {
		g.collisions.Register(inv)
		g.sync.Track(inv)
	}
	for _, b := range g.bunkers {
		g.collisions.Register(b)
		g.sync.Track(b)
	}
	g.collisions.Register(g.ufo)
	g.sync.Track(g.ufo)
	for _, p := range g.playerShots.slots {
		g.collisions.Register(p)
		g.sync.Track(p)
	}
	for _, p := range g.invaderShots.slots {
		g.collisions.Register(p)
		g.sync.Track(p)
	}
}

// registerHandlers wires the collision reactions. Handlers run inside
// the collision pass with the game mutex held: they mutate state
// directly and must not call locking methods.
func (g *Game) registerHandlers() {
	g.collisions.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
		shot := a.(*Projectile)
		points := g.fleet.Kill(b.(*Invader))
		g.creditShot(shot, points)
		g.playerShots.Release(shot)
	})
	g.collisions.Handle(KindPlayerShot, KindUFO, func(a, b Collidable, ts float64) {
		shot := a.(*Projectile)
		g.creditShot(shot, b.(*UFO).Shot())
		g.playerShots.Release(shot)
	})
	g.collisions.Handle(KindPlayerShot, KindBunker, func(a, b Collidable, ts float64) {
		g.playerShots.Release(a.(*Projectile))
		b.(*Bunker).Hit()
	})
	g.collisions.Handle(KindInvaderShot, KindBunker, func(a, b Collidable, ts float64) {
		g.invaderShots.Release(a.(*Projectile))
		b.(*Bunker).Hit()
	})
	g.collisions.Handle(KindInvaderShot, KindCannon, func(a, b Collidable, ts float64) {
		g.invaderShots.Release(a.(*Projectile))
		p := b.(*Player)
		if p.Hit() {
			g.broadcastMsg(Envelope{T: MsgPlayerOut, Data: PlayerOutMsg{ID: p.ID, Name: p.Name}})
		}
	})
	g.collisions.Handle(KindInvader, KindCannon, func(a, b Collidable, ts float64) {
		// The fleet reached the cannons: instant loss.
		g.triggerGameOver()
	})
	g.collisions.Handle(KindInvader, KindBunker, func(a, b Collidable, ts float64) {
		b.(*Bunker).Crush()
	})
}

// Run starts the session loop. Non-blocking: frames are scheduled by
// the injected scheduler.
func (g *Game) Run() {
	g.loop.Start()
}

// Stop terminates the session loop cooperatively.
func (g *Game) Stop() {
	g.loop.Stop()
}

// AddPlayer adds a cannon to the session. Returns nil when full.
// authID is the account id for signed-in players, 0 for guests.
func (g *Game) AddPlayer(name string, authID int64) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= maxPlayersPerSession {
		return nil
	}

	id := GenerateID(4)
	spawnX := WorldWidth/3 - CannonWidth/2
	if g.nextSpawn%2 == 1 {
		spawnX = 2*WorldWidth/3 - CannonWidth/2
	}
	g.nextSpawn++

	player := NewPlayer(id, name, spawnX)
	player.AuthID = authID
	g.players[id] = player
	g.playerOrder = append(g.playerOrder, id)
	g.collisions.Register(player)
	g.sync.Track(player)

	if g.phase == PhaseLobby {
		g.phase = PhasePlaying
	}
	return player
}

// RemovePlayer detaches a cannon and its client from the session.
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players[id]; !ok {
		return
	}
	g.collisions.Unregister(id)
	g.sync.Untrack(id)
	delete(g.players, id)
	delete(g.clients, id)
	for i, pid := range g.playerOrder {
		if pid == id {
			g.playerOrder = append(g.playerOrder[:i], g.playerOrder[i+1:]...)
			break
		}
	}
}

// SetClient associates a broadcaster with a player.
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// HandleInput stores a player's held input for the next tick.
func (g *Game) HandleInput(playerID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return
	}
	p.MoveDir = 0
	if input.Left {
		p.MoveDir = -1
	}
	if input.Right {
		p.MoveDir += 1
	}
	p.Firing = input.Fire
}

// Restart rearms a finished session: full fleet, fresh bunkers, reset
// cannons, wave 1.
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseGameOver {
		return
	}
	g.wave = WaveFor(1)
	g.fleet.Reset(g.wave)
	g.playerShots.Clear()
	g.invaderShots.Clear()
	for _, b := range g.bunkers {
		b.Restore()
	}
	for _, p := range g.players {
		p.Lives = StartingLives
		p.Score = 0
		p.Alive = true
		p.FireCD = 0
		p.InvulnT = 0
		p.awardedLife = false
	}
	g.scoresSaved = false
	g.phase = PhasePlaying
}

// PlayerCount returns the number of attached cannons.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// Phase returns the current session phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Wave returns the current wave number.
func (g *Game) Wave() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.wave.Number
}

// updatePlayers moves the cannons and fires held triggers through the
// shared player shot pool. Runs gated, mutex held.
func (g *Game) updatePlayers(dt float64) {
	for _, id := range g.playerOrder {
		p := g.players[id]
		p.Update(dt)
		if !p.CanFire() {
			continue
		}
		shot := g.playerShots.Acquire(
			p.X+CannonWidth/2-PlayerShotWidth/2,
			CannonY-PlayerShotHeight,
			DirUp,
		)
		if shot == nil {
			continue // pool exhausted, shot dropped
		}
		shot.OwnerID = p.ID
		p.FireCD = FireCooldown
	}
}

// Update is the Game's own registered system pass: phase transitions,
// wave advancement and loss conditions.
func (g *Game) Update(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return
	}
	g.tick++

	if g.fleet.Cleared() {
		g.wave = WaveFor(g.wave.Number + 1)
		g.fleet.Reset(g.wave)
		g.playerShots.Clear()
		g.invaderShots.Clear()
		g.broadcastMsg(Envelope{T: MsgWave, Data: WaveMsg{Number: g.wave.Number}})
		return
	}

	if g.fleet.BottomY() >= FleetFloorY {
		g.triggerGameOver()
		return
	}

	if len(g.players) > 0 {
		out := true
		for _, p := range g.players {
			if p.Lives > 0 {
				out = false
				break
			}
		}
		if out {
			g.triggerGameOver()
		}
	}
}

// triggerGameOver ends the run once. Caller holds the mutex.
func (g *Game) triggerGameOver() {
	if g.phase != PhasePlaying {
		return
	}
	g.phase = PhaseGameOver
	g.saveScores()
	g.broadcastMsg(Envelope{T: MsgGameOver, Data: GameOverMsg{Wave: g.wave.Number}})
}

// saveScores persists final scores. The write happens off the tick
// goroutine; sqlite serializes internally.
func (g *Game) saveScores() {
	if g.db == nil || g.scoresSaved {
		return
	}
	g.scoresSaved = true
	type row struct {
		name   string
		authID int64
		score  int
		wave   int
		kills  int
	}
	rows := make([]row, 0, len(g.players))
	for _, p := range g.players {
		rows = append(rows, row{p.Name, p.AuthID, p.Score, g.wave.Number, p.Kills})
	}
	go func() {
		for _, r := range rows {
			if err := g.db.SaveScore(r.name, r.score, r.wave); err != nil {
				log.Printf("score save failed for %s: %v", r.name, err)
			}
			if r.authID != 0 {
				if err := g.db.RecordGame(r.authID, r.score, r.wave, r.kills); err != nil {
					log.Printf("stats save failed for %s: %v", r.name, err)
				}
			}
		}
	}()
}

// creditShot awards points to the shot's owner. Caller holds the mutex.
func (g *Game) creditShot(shot *Projectile, points int) {
	if points == 0 {
		return
	}
	if p, ok := g.players[shot.OwnerID]; ok {
		p.AddScore(points)
		p.Kills++
	}
}

// Render is the loop's per-frame pass: broadcast a state snapshot every
// BroadcastEvery frames.
func (g *Game) Render() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.frame++
	if g.frame%BroadcastEvery != 0 || len(g.clients) == 0 {
		return
	}

	state := g.snapshot()
	data, err := msgpack.Marshal(state)
	if err != nil {
		log.Printf("state marshal: %v", err)
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// snapshot builds the wire state. Caller holds the mutex.
func (g *Game) snapshot() GameState {
	state := GameState{
		Tick:  g.tick,
		Phase: int(g.phase),
		Wave:  g.wave.Number,
	}
	for _, id := range g.playerOrder {
		state.Players = append(state.Players, g.players[id].ToState())
	}
	for _, inv := range g.fleet.Invaders() {
		if inv.Alive {
			state.Invaders = append(state.Invaders, inv.ToState())
		}
	}
	for _, p := range g.playerShots.ActiveProjectiles() {
		state.Shots = append(state.Shots, p.ToState())
	}
	for _, p := range g.invaderShots.ActiveProjectiles() {
		state.Shots = append(state.Shots, p.ToState())
	}
	for _, b := range g.bunkers {
		if b.Alive {
			state.Bunkers = append(state.Bunkers, b.ToState())
		}
	}
	if g.ufo.Alive {
		s := g.ufo.ToState()
		state.UFO = &s
	}
	return state
}

// broadcastMsg sends a JSON control message to every client in the
// session. Caller holds the mutex.
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}
