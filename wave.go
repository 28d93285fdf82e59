package main

// Phase represents the lifecycle of a session.
type Phase int

const (
	PhaseLobby    Phase = 0 // waiting for the first player
	PhasePlaying  Phase = 1
	PhaseGameOver Phase = 2
)

// WaveConfig holds the difficulty knobs for one wave.
type WaveConfig struct {
	Number       int
	FleetSpeed   float64 // base march speed, pixels/s
	FireInterval float64 // mean seconds between invader shots
	ShotSpeed    float64 // invader shot speed, pixels/s
	StartDescent float64 // extra starting depth of the formation
}

// Wave tuning bounds. Later waves start lower, march faster, and shoot
// more often, each capped so wave 20 is brutal but not degenerate.
const (
	baseFleetSpeed   = 30.0
	fleetSpeedStep   = 8.0
	maxFleetSpeed    = 110.0
	baseFireInterval = 1.6
	fireIntervalStep = 0.12
	minFireInterval  = 0.5
	baseShotSpeed    = 180.0
	shotSpeedStep    = 12.0
	maxShotSpeed     = 340.0
	descentStep      = 16.0
	maxStartDescent  = 120.0
)

// WaveFor returns the config for wave n (1-based).
func WaveFor(n int) WaveConfig {
	if n < 1 {
		n = 1
	}
	k := float64(n - 1)
	return WaveConfig{
		Number:       n,
		FleetSpeed:   minF(baseFleetSpeed+k*fleetSpeedStep, maxFleetSpeed),
		FireInterval: maxF(baseFireInterval-k*fireIntervalStep, minFireInterval),
		ShotSpeed:    minF(baseShotSpeed+k*shotSpeedStep, maxShotSpeed),
		StartDescent: minF(k*descentStep, maxStartDescent),
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
