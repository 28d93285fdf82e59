package main

import "testing"

func TestWaveForBaseline(t *testing.T) {
	w := WaveFor(1)
	if w.Number != 1 {
		t.Errorf("expected wave 1, got %d", w.Number)
	}
	if w.FleetSpeed != baseFleetSpeed || w.FireInterval != baseFireInterval ||
		w.ShotSpeed != baseShotSpeed || w.StartDescent != 0 {
		t.Errorf("wave 1 should use base tuning, got %+v", w)
	}

	// Out-of-range input clamps to wave 1.
	if got := WaveFor(0); got != w {
		t.Errorf("WaveFor(0) = %+v, want wave 1 config", got)
	}
}

func TestWaveForScalesMonotonically(t *testing.T) {
	prev := WaveFor(1)
	for n := 2; n <= 25; n++ {
		w := WaveFor(n)
		if w.FleetSpeed < prev.FleetSpeed {
			t.Errorf("wave %d fleet speed regressed: %v < %v", n, w.FleetSpeed, prev.FleetSpeed)
		}
		if w.FireInterval > prev.FireInterval {
			t.Errorf("wave %d fire interval regressed: %v > %v", n, w.FireInterval, prev.FireInterval)
		}
		prev = w
	}
}

func TestWaveForCaps(t *testing.T) {
	w := WaveFor(100)
	if w.FleetSpeed != maxFleetSpeed {
		t.Errorf("fleet speed should cap at %v, got %v", maxFleetSpeed, w.FleetSpeed)
	}
	if w.FireInterval != minFireInterval {
		t.Errorf("fire interval should floor at %v, got %v", minFireInterval, w.FireInterval)
	}
	if w.ShotSpeed != maxShotSpeed {
		t.Errorf("shot speed should cap at %v, got %v", maxShotSpeed, w.ShotSpeed)
	}
	if w.StartDescent != maxStartDescent {
		t.Errorf("descent should cap at %v, got %v", maxStartDescent, w.StartDescent)
	}
}

func TestRankForThresholds(t *testing.T) {
	if got := RankFor(nil); got != "Cadet" {
		t.Errorf("no stats should rank Cadet, got %s", got)
	}
	if got := RankFor(&StatsRow{BestScore: 600, TotalKills: 30}); got != "Gunner" {
		t.Errorf("expected Gunner, got %s", got)
	}
	// Score alone is not enough; both thresholds must be met.
	if got := RankFor(&StatsRow{BestScore: 90000, TotalKills: 10}); got != "Cadet" {
		t.Errorf("expected Cadet with too few kills, got %s", got)
	}
	if got := RankFor(&StatsRow{BestScore: 90000, TotalKills: 20000}); got != "Defender of Earth" {
		t.Errorf("expected top rank, got %s", got)
	}
}
