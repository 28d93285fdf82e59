package main

import (
	"log"
	"sync"
	"time"
)

// System receives fixed-step simulation updates, dt in seconds.
type System interface {
	Update(dt float64)
}

// Renderer is the optional per-frame pass of a System. Systems that
// implement it are rendered once per host frame, after the update drain.
type Renderer interface {
	Render()
}

// FrameScheduler abstracts the host's animation-frame mechanism: Schedule
// arranges for cb to be invoked once, later, with the current timestamp
// in milliseconds. Injecting a fake scheduler drives the loop with
// synthetic time in tests.
type FrameScheduler interface {
	Now() float64
	Schedule(cb func(now float64))
}

// LoopConfig sets the loop's timing. Zero values select the defaults.
type LoopConfig struct {
	TickRate     float64 // simulation updates per second, default 60
	MinFrameRate float64 // frame delta cap expressed as a floor rate, default 30
}

// GameLoop drives the simulation at a fixed logical tick rate while
// rendering as often as the scheduler fires. The classic accumulator
// scheme: frame deltas (capped to maxFrameTime) pile up in the
// accumulator and are drained in constant updateInterval steps, so
// simulation behavior does not depend on frame arrival jitter.
type GameLoop struct {
	sched   FrameScheduler
	systems []System

	updateInterval float64 // ms
	maxFrameTime   float64 // ms

	mu      sync.Mutex
	running bool
	gen     uint64 // bumped on every Start so stale frame chains die off

	accumulator   float64
	lastFrameTime float64

	frames     int
	fpsTimer   float64
	currentFPS int
}

// NewGameLoop creates a stopped loop using the given scheduler.
func NewGameLoop(cfg LoopConfig, sched FrameScheduler) *GameLoop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.MinFrameRate <= 0 {
		cfg.MinFrameRate = 30
	}
	return &GameLoop{
		sched:          sched,
		updateInterval: 1000.0 / cfg.TickRate,
		maxFrameTime:   1000.0 / cfg.MinFrameRate,
	}
}

// AddSystem registers a system. Systems update in registration order;
// those that also implement Renderer render in the same order.
func (l *GameLoop) AddSystem(s System) {
	l.systems = append(l.systems, s)
}

// Start begins scheduling frames. Calling Start on a running loop is a
// no-op.
func (l *GameLoop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	now := l.sched.Now()
	l.accumulator = 0
	l.lastFrameTime = now
	l.fpsTimer = now
	l.frames = 0
	l.sched.Schedule(func(now float64) { l.frame(gen, now) })
}

// Stop requests cooperative shutdown: the next scheduled frame observes
// the flag and exits without doing work.
func (l *GameLoop) Stop() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
}

// IsRunning reports whether frames are still being scheduled.
func (l *GameLoop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// FPS returns the frame rate measured over the last full second.
func (l *GameLoop) FPS() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentFPS
}

// alive reports whether a frame chain of the given generation should
// keep running. A Stop followed by a Start bumps the generation, so a
// callback still pending from before the Stop exits here instead of
// rescheduling alongside the new chain.
func (l *GameLoop) alive(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running && gen == l.gen
}

// frame is the scheduled callback. One invocation: cap the delta, drain
// fixed steps, render, reschedule.
func (l *GameLoop) frame(gen uint64, now float64) {
	if !l.alive(gen) {
		return
	}

	delta := now - l.lastFrameTime
	if delta > l.maxFrameTime {
		delta = l.maxFrameTime
	}
	l.accumulator += delta
	l.lastFrameTime = now

	l.frames++
	if now-l.fpsTimer >= 1000 {
		l.mu.Lock()
		l.currentFPS = l.frames
		l.mu.Unlock()
		l.frames = 0
		l.fpsTimer = now
	}

	dt := l.updateInterval / 1000.0
	for l.accumulator >= l.updateInterval {
		for _, s := range l.systems {
			if !l.safeUpdate(s, dt) {
				return // fatal: stop scheduling, freeze the simulation
			}
		}
		l.accumulator -= l.updateInterval
	}

	for _, s := range l.systems {
		r, ok := s.(Renderer)
		if !ok {
			continue
		}
		if !l.safeRender(r) {
			return
		}
	}

	l.sched.Schedule(func(now float64) { l.frame(gen, now) })
}

// safeUpdate runs one system update; a panic is fatal to the loop.
func (l *GameLoop) safeUpdate(s System, dt float64) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("loop: update panic, stopping: %v", r)
			l.Stop()
			ok = false
		}
	}()
	s.Update(dt)
	return true
}

// safeRender runs one render pass; a panic is fatal to the loop.
func (l *GameLoop) safeRender(r Renderer) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("loop: render panic, stopping: %v", rec)
			l.Stop()
			ok = false
		}
	}()
	r.Render()
	return true
}

// TickerScheduler is the production FrameScheduler: a wall-clock frame
// source firing at a fixed cadence, the server-side stand-in for the
// browser's requestAnimationFrame.
type TickerScheduler struct {
	interval time.Duration
	epoch    time.Time
}

// NewTickerScheduler creates a scheduler firing frameRate times per
// second.
func NewTickerScheduler(frameRate float64) *TickerScheduler {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &TickerScheduler{
		interval: time.Duration(float64(time.Second) / frameRate),
		epoch:    time.Now(),
	}
}

// Now returns milliseconds since the scheduler was created.
func (s *TickerScheduler) Now() float64 {
	return float64(time.Since(s.epoch)) / float64(time.Millisecond)
}

// Schedule fires cb once after the frame interval.
func (s *TickerScheduler) Schedule(cb func(now float64)) {
	time.AfterFunc(s.interval, func() { cb(s.Now()) })
}
