package main

import "testing"

func testFleet() *Fleet {
	cfg := PoolConfig{
		Kind:   KindInvaderShot,
		Width:  InvaderShotWidth,
		Height: InvaderShotHeight,
		Damage: InvaderShotDamage,
	}
	shots := NewProjectilePool(InvaderShotPoolSize, cfg, Box{W: WorldWidth, H: WorldHeight})
	return NewFleet(WaveFor(1), shots)
}

func TestFleetFormation(t *testing.T) {
	f := testFleet()

	if got := f.AliveCount(); got != FleetRows*FleetCols {
		t.Errorf("expected %d invaders, got %d", FleetRows*FleetCols, got)
	}

	// Identities are positional and stable.
	first := f.Invaders()[0]
	if first.ID != "inv-0-0" || first.Row != 0 || first.Col != 0 {
		t.Errorf("unexpected first invader: %+v", first)
	}
	if first.Y != FleetTopY {
		t.Errorf("top row should start at %v, got %v", FleetTopY, first.Y)
	}
}

func TestFleetKillPoints(t *testing.T) {
	f := testFleet()
	invs := f.Invaders()

	top := invs[0]                   // row 0
	bottom := invs[(FleetRows-1)*FleetCols] // row 4

	if got := f.Kill(top); got != 30 {
		t.Errorf("top-row kill worth 30, got %d", got)
	}
	if got := f.Kill(bottom); got != 10 {
		t.Errorf("bottom-row kill worth 10, got %d", got)
	}
	if got := f.Kill(top); got != 0 {
		t.Errorf("killing a dead invader worth 0, got %d", got)
	}
	if got := f.AliveCount(); got != FleetRows*FleetCols-2 {
		t.Errorf("expected 2 dead, alive = %d", got)
	}
}

func TestFleetSpeedsUpWhenThinned(t *testing.T) {
	f := testFleet()
	base := f.Speed()

	for _, inv := range f.Invaders()[:30] {
		f.Kill(inv)
	}
	if f.Speed() <= base {
		t.Errorf("thinned fleet should march faster: %v <= %v", f.Speed(), base)
	}
}

func TestFleetReverseAndDrop(t *testing.T) {
	f := testFleet()
	startY := f.Invaders()[0].Y

	// March until the right wall forces a reversal.
	reversed := false
	for i := 0; i < 5000; i++ {
		f.Update(0.016)
		if f.Invaders()[0].Y > startY {
			reversed = true
			break
		}
	}
	if !reversed {
		t.Fatal("fleet never dropped at the wall")
	}
	if got := f.Invaders()[0].Y; got != startY+FleetDrop {
		t.Errorf("expected drop of %v, got %v", FleetDrop, got-startY)
	}
}

func TestFleetFiresThroughPool(t *testing.T) {
	cfg := PoolConfig{
		Kind:   KindInvaderShot,
		Width:  InvaderShotWidth,
		Height: InvaderShotHeight,
		Damage: InvaderShotDamage,
	}
	shots := NewProjectilePool(InvaderShotPoolSize, cfg, Box{W: WorldWidth, H: WorldHeight})
	wave := WaveFor(1)
	f := NewFleet(wave, shots)

	// Tick past the fire interval; some shot must be in flight.
	steps := int(wave.FireInterval/0.016) + 2
	for i := 0; i < steps; i++ {
		f.Update(0.016)
	}
	if shots.ActiveCount() == 0 {
		t.Error("fleet should have fired at least one shot")
	}
	for _, shot := range shots.ActiveProjectiles() {
		if shot.Dir != DirDown {
			t.Errorf("invader shots travel downward, got dir %v", shot.Dir)
		}
		if shot.OwnerID == "" {
			t.Error("shot should be attributed to its shooter")
		}
	}
}

func TestFleetShooterIsLowestInColumn(t *testing.T) {
	f := testFleet()

	shooter := f.pickShooter()
	if shooter == nil {
		t.Fatal("full fleet must produce a shooter")
	}
	if shooter.Row != FleetRows-1 {
		t.Errorf("shooter should come from the bottom row of its column, got row %d", shooter.Row)
	}

	// Clear the bottom row; shooters now come from the row above.
	for _, inv := range f.Invaders() {
		if inv.Row == FleetRows-1 {
			f.Kill(inv)
		}
	}
	shooter = f.pickShooter()
	if shooter == nil || shooter.Row != FleetRows-2 {
		t.Errorf("expected shooter from row %d, got %+v", FleetRows-2, shooter)
	}
}

func TestFleetClearedAndReset(t *testing.T) {
	f := testFleet()
	for _, inv := range f.Invaders() {
		f.Kill(inv)
	}
	if !f.Cleared() {
		t.Error("fleet should be cleared after all kills")
	}

	f.Reset(WaveFor(2))
	if f.Cleared() || f.AliveCount() != FleetRows*FleetCols {
		t.Error("reset should rebuild the full formation")
	}
	// Later waves start lower.
	if f.Invaders()[0].Y <= FleetTopY {
		t.Errorf("wave 2 should start below %v, got %v", FleetTopY, f.Invaders()[0].Y)
	}
}

func TestFleetBottomY(t *testing.T) {
	f := testFleet()
	want := FleetTopY + float64(FleetRows-1)*FleetSpacingY + InvaderHeight
	if got := f.BottomY(); got != want {
		t.Errorf("expected bottom %v, got %v", want, got)
	}

	// Kill the bottom row; the edge moves up a row.
	for _, inv := range f.Invaders() {
		if inv.Row == FleetRows-1 {
			f.Kill(inv)
		}
	}
	want -= FleetSpacingY
	if got := f.BottomY(); got != want {
		t.Errorf("expected bottom %v after clearing a row, got %v", want, got)
	}
}
