package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create"  // create session
	MsgList     = "list"    // list sessions
	MsgRestart  = "restart" // restart a finished game
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // resume with a stored token
	MsgScores   = "scores"
	MsgStats    = "stats" // lifetime stats, signed-in players only
)

// Server -> Client message types
const (
	MsgState     = "state"
	MsgWelcome   = "welcome"
	MsgCreated   = "created"
	MsgJoined    = "joined"
	MsgSessions  = "sessions"
	MsgWave      = "wave"
	MsgPlayerOut = "player_out"
	MsgGameOver  = "game_over"
	MsgAuthOK    = "auth_ok"
	MsgHiScores  = "hiscores"
	MsgError     = "error"
)

// Envelope wraps all outgoing JSON messages with a type field. State
// snapshots bypass it: they travel as msgpack binary frames.
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages. json.RawMessage defers the
// payload unmarshal until the type is known.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the held key state, sent whenever it changes.
type ClientInput struct {
	Left  bool `json:"l"`
	Right bool `json:"r"`
	Fire  bool `json:"f"`
}

// JoinMsg is sent when a player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates an account
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg resumes a session with a stored JWT
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms register/login/auth
type AuthOKMsg struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"usr"`
	Token    string `json:"tok,omitempty"`
}

// WelcomeMsg tells the joining client its entity id
type WelcomeMsg struct {
	ID string `json:"id"`
}

// SessionInfo describes one joinable session
type SessionInfo struct {
	ID      string `json:"sid"`
	Name    string `json:"name"`
	Players int    `json:"players"`
	Phase   int    `json:"phase"`
	Wave    int    `json:"wave"`
}

// WaveMsg announces a new wave
type WaveMsg struct {
	Number int `json:"n"`
}

// PlayerOutMsg announces a cannon out of lives
type PlayerOutMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameOverMsg announces the end of the run
type GameOverMsg struct {
	Wave int `json:"wave"`
}

// ErrorMsg carries a user-facing error string
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// StatsMsg carries a signed-in player's lifetime stats
type StatsMsg struct {
	Games      int    `json:"games"`
	BestScore  int    `json:"best_score"`
	BestWave   int    `json:"best_wave"`
	TotalKills int    `json:"kills"`
	Rank       string `json:"rank"`
}

// ScoreEntry is one leaderboard row
type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Wave  int    `json:"wave"`
}

// GameState is the full per-snapshot simulation state, msgpack-encoded
// and broadcast as a binary frame. Field names are kept short; the
// client decodes by key.
type GameState struct {
	Tick     uint64         `msgpack:"t"`
	Phase    int            `msgpack:"ph"`
	Wave     int            `msgpack:"w"`
	Players  []PlayerState  `msgpack:"p"`
	Invaders []InvaderState `msgpack:"i"`
	Shots    []ShotState    `msgpack:"s"`
	Bunkers  []BunkerState  `msgpack:"b"`
	UFO      *UFOState      `msgpack:"u,omitempty"`
}

// PlayerState is the wire form of a cannon
type PlayerState struct {
	ID    string  `msgpack:"id"`
	Name  string  `msgpack:"n"`
	X     float64 `msgpack:"x"`
	Lives int     `msgpack:"l"`
	Score int     `msgpack:"sc"`
	Alive bool    `msgpack:"a"`
	Inv   bool    `msgpack:"inv"` // respawn grace active
}

// InvaderState is the wire form of one live invader
type InvaderState struct {
	ID string  `msgpack:"id"`
	X  float64 `msgpack:"x"`
	Y  float64 `msgpack:"y"`
	R  int     `msgpack:"r"` // formation row, selects the sprite
}

// ShotState is the wire form of an active projectile
type ShotState struct {
	ID string  `msgpack:"id"`
	X  float64 `msgpack:"x"`
	Y  float64 `msgpack:"y"`
	E  bool    `msgpack:"e"` // true for invader shots
}

// BunkerState is the wire form of a surviving bunker
type BunkerState struct {
	ID string  `msgpack:"id"`
	X  float64 `msgpack:"x"`
	HP int     `msgpack:"hp"`
}

// UFOState is the wire form of the mystery ship while crossing
type UFOState struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}
