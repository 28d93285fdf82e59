package main

import "testing"

func TestBoxOverlapStrict(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 32, H: 32}
	touching := Box{X: 32, Y: 0, W: 32, H: 32}
	overlapping := Box{X: 31, Y: 0, W: 32, H: 32}

	if a.Overlaps(touching) {
		t.Error("edge-adjacent boxes must not count as overlapping")
	}
	if !a.Overlaps(overlapping) {
		t.Error("boxes sharing interior area must overlap")
	}
	if !overlapping.Overlaps(a) {
		t.Error("overlap must be symmetric")
	}
}

func TestCollisionDispatchOnce(t *testing.T) {
	cs := NewCollisionSystem()
	shot := newTestEnt("shot", KindPlayerShot, 100, 100, 4, 12)
	inv := newTestEnt("inv", KindInvader, 98, 105, 32, 24)
	cs.Register(shot)
	cs.Register(inv)

	calls := 0
	cs.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
		calls++
	})

	cs.Update(0.016)
	if calls != 1 {
		t.Errorf("expected exactly 1 dispatch, got %d", calls)
	}
}

func TestCollisionHandlerArgOrder(t *testing.T) {
	cs := NewCollisionSystem()
	// Registered in the opposite order of the handler's kind pair: the
	// scan visits the invader first, but arguments must still arrive
	// shot-first.
	inv := newTestEnt("inv", KindInvader, 98, 105, 32, 24)
	shot := newTestEnt("shot", KindPlayerShot, 100, 100, 4, 12)
	cs.Register(inv)
	cs.Register(shot)

	var gotA, gotB EntityKind
	cs.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
		gotA, gotB = a.EntityKind(), b.EntityKind()
	})

	cs.Update(0.016)
	if gotA != KindPlayerShot || gotB != KindInvader {
		t.Errorf("expected args (shot, invader), got (%s, %s)", gotA, gotB)
	}
}

func TestCollisionFirstRegisteredHandlerWins(t *testing.T) {
	cs := NewCollisionSystem()
	cs.Register(newTestEnt("shot", KindPlayerShot, 100, 100, 4, 12))
	cs.Register(newTestEnt("inv", KindInvader, 98, 105, 32, 24))

	var winner string
	cs.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
		winner = "first"
	})
	cs.Handle(KindInvader, KindPlayerShot, func(a, b Collidable, ts float64) {
		winner = "second"
	})

	cs.Update(0.016)
	if winner != "first" {
		t.Errorf("expected first registration to win, got %q", winner)
	}
}

func TestCollisionInactiveSkipped(t *testing.T) {
	cs := NewCollisionSystem()
	shot := newTestEnt("shot", KindPlayerShot, 100, 100, 4, 12)
	inv := newTestEnt("inv", KindInvader, 98, 105, 32, 24)
	inv.alive = false
	cs.Register(shot)
	cs.Register(inv)

	calls := 0
	cs.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
		calls++
	})

	cs.Update(0.016)
	if calls != 0 {
		t.Errorf("inactive entity should not collide, got %d calls", calls)
	}
}

func TestCollisionNoHandlerNoEffect(t *testing.T) {
	cs := NewCollisionSystem()
	cs.Register(newTestEnt("a", KindPlayerShot, 100, 100, 4, 12))
	cs.Register(newTestEnt("b", KindInvaderShot, 100, 100, 6, 12))

	// No handler for this pair; Update must simply pass over it.
	cs.Update(0.016)
}

func TestCollisionHandlerPanicIsolated(t *testing.T) {
	cs := NewCollisionSystem()
	cs.Register(newTestEnt("shot", KindPlayerShot, 100, 100, 4, 12))
	cs.Register(newTestEnt("inv", KindInvader, 98, 105, 32, 24))
	cs.Register(newTestEnt("shot2", KindPlayerShot, 400, 100, 4, 12))
	cs.Register(newTestEnt("bunker", KindBunker, 398, 105, 64, 40))

	bunkerHits := 0
	cs.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
		panic("handler bug")
	})
	cs.Handle(KindPlayerShot, KindBunker, func(a, b Collidable, ts float64) {
		bunkerHits++
	})

	cs.Update(0.016) // must not propagate the panic
	if bunkerHits != 1 {
		t.Errorf("expected scan to continue past panicking handler, got %d", bunkerHits)
	}
}

func TestCollisionRegisterRules(t *testing.T) {
	cs := NewCollisionSystem()

	cs.Register(&testEnt{id: "", kind: KindInvader, alive: true})
	if got := cs.EntityCount(); got != 0 {
		t.Errorf("empty id must be ignored, got %d entities", got)
	}

	e := newTestEnt("e", KindInvader, 0, 0, 32, 24)
	cs.Register(e)
	cs.Register(e) // re-register keeps one entry
	if got := cs.EntityCount(); got != 1 {
		t.Errorf("expected 1 entity after duplicate register, got %d", got)
	}

	cs.Unregister("missing") // no-op
	cs.Unregister("e")
	if got := cs.EntityCount(); got != 0 {
		t.Errorf("expected 0 entities after unregister, got %d", got)
	}
}

func TestCollisionElapsedTimestamp(t *testing.T) {
	cs := NewCollisionSystem()
	cs.Register(newTestEnt("shot", KindPlayerShot, 100, 100, 4, 12))
	cs.Register(newTestEnt("inv", KindInvader, 98, 105, 32, 24))

	var got float64
	cs.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
		got = ts
	})

	cs.Update(0.5)
	cs.Update(0.5)
	if got != 1.0 {
		t.Errorf("expected ts 1.0 after two half-second ticks, got %v", got)
	}
}

// TestCollisionGridParity runs the same scene with and without the
// broad phase and expects identical dispatch counts.
func TestCollisionGridParity(t *testing.T) {
	buildScene := func(cs *CollisionSystem, grid *SpatialGrid) int {
		ents := []*testEnt{
			newTestEnt("s1", KindPlayerShot, 100, 100, 4, 12),
			newTestEnt("i1", KindInvader, 98, 105, 32, 24),
			newTestEnt("s2", KindPlayerShot, 500, 300, 4, 12),
			newTestEnt("i2", KindInvader, 498, 305, 32, 24),
			newTestEnt("i3", KindInvader, 700, 50, 32, 24), // no partner
		}
		for _, e := range ents {
			cs.Register(e)
			if grid != nil {
				grid.Insert(e)
			}
		}
		calls := 0
		cs.Handle(KindPlayerShot, KindInvader, func(a, b Collidable, ts float64) {
			calls++
		})
		cs.Update(0.016)
		return calls
	}

	plain := NewCollisionSystem()
	brute := buildScene(plain, nil)

	gridded := NewCollisionSystem()
	grid := NewSpatialGrid(DefaultCellSize)
	gridded.AttachGrid(grid)
	narrowed := buildScene(gridded, grid)

	if brute != narrowed {
		t.Errorf("grid scan found %d collisions, brute force found %d", narrowed, brute)
	}
	if brute != 2 {
		t.Errorf("expected 2 collisions in scene, got %d", brute)
	}
}
