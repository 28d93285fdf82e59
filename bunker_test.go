package main

import "testing"

func TestBunkerLayout(t *testing.T) {
	bunkers := NewBunkers()
	if len(bunkers) != BunkerCount {
		t.Fatalf("expected %d bunkers, got %d", BunkerCount, len(bunkers))
	}

	// Evenly spaced, all inside the playfield.
	for i, b := range bunkers {
		if b.X < 0 || b.X+BunkerWidth > WorldWidth {
			t.Errorf("bunker %d outside the playfield at %v", i, b.X)
		}
		if i > 0 && b.X <= bunkers[i-1].X {
			t.Errorf("bunker %d not to the right of its neighbor", i)
		}
	}
}

func TestBunkerDegradesAndCrumbles(t *testing.T) {
	b := NewBunkers()[0]

	for i := 0; i < BunkerHP-1; i++ {
		if crumbled := b.Hit(); crumbled {
			t.Fatalf("bunker crumbled early at hit %d", i+1)
		}
	}
	if !b.Alive {
		t.Fatal("bunker should survive to the last hit point")
	}
	if crumbled := b.Hit(); !crumbled {
		t.Error("final hit should crumble the bunker")
	}
	if b.Alive || b.HP != 0 {
		t.Errorf("crumbled bunker state: alive=%v hp=%d", b.Alive, b.HP)
	}

	// Further hits are no-ops.
	if b.Hit() {
		t.Error("hitting a crumbled bunker should do nothing")
	}
}

func TestBunkerCrushAndRestore(t *testing.T) {
	b := NewBunkers()[0]

	b.Crush()
	if b.Alive || b.HP != 0 {
		t.Error("crushed bunker should be gone regardless of remaining HP")
	}

	b.Restore()
	if !b.Alive || b.HP != BunkerHP {
		t.Errorf("restored bunker state: alive=%v hp=%d", b.Alive, b.HP)
	}
}
