package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 7 * 24 * time.Hour
	bcryptCost       = 12
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

var (
	errBadCredentials = errors.New("wrong callsign or password")
	errInvalidToken   = errors.New("invalid token")
	errServer         = errors.New("server error, try again")
)

// Auth issues and validates player session tokens. Accounts are
// optional; unregistered players get a rookie handle instead.
type Auth struct {
	db        *DB
	jwtSecret []byte

	rateMu  sync.Mutex
	rateMap map[string]*loginWindow // keyed by remote IP
}

type loginWindow struct {
	tries int
	until time.Time
}

// sessionClaims is the token payload: the player id travels in the
// standard subject field, the callsign in a short custom one.
type sessionClaims struct {
	Callsign string `json:"cs"`
	jwt.RegisteredClaims
}

// NewAuth creates the auth layer, loading the signing secret from the
// settings table so tokens survive a server restart.
func NewAuth(db *DB) *Auth {
	return &Auth{
		db:        db,
		jwtSecret: loadOrCreateSecret(db),
		rateMap:   make(map[string]*loginWindow),
	}
}

func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate signing secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("auth: could not persist signing secret: %v", err)
		}
	}
	return secret
}

// Register enlists a new callsign and returns its id and a fresh token.
func (a *Auth) Register(username, password string) (int64, string, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return 0, "", fmt.Errorf("callsign must be %d to %d characters", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password needs at least %d characters", minPasswordLen)
	}

	exists, err := a.db.UsernameExists(username)
	if err != nil {
		return 0, "", errServer
	}
	if exists {
		return 0, "", fmt.Errorf("callsign already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", errServer
	}
	id, err := a.db.CreatePlayer(username, string(hash))
	if err != nil {
		return 0, "", errServer
	}

	token, err := a.generateToken(id, username)
	if err != nil {
		return 0, "", errServer
	}
	return id, token, nil
}

// Login authenticates a callsign and returns its id and a fresh token.
// Failed attempts count against a per-IP window.
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if !a.allowAttempt(ip) {
		return 0, "", fmt.Errorf("too many login attempts, wait a minute")
	}

	player, err := a.db.GetPlayerByUsername(username)
	if err != nil {
		return 0, "", errServer
	}
	if player == nil || player.PassHash == "" {
		return 0, "", errBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(player.PassHash), []byte(password)) != nil {
		return 0, "", errBadCredentials
	}

	token, err := a.generateToken(player.ID, player.Username)
	if err != nil {
		return 0, "", errServer
	}
	return player.ID, token, nil
}

// ValidateToken checks a session token and returns the player id and
// callsign it was issued for.
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", errInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 || claims.Callsign == "" {
		return 0, "", errInvalidToken
	}
	return id, claims.Callsign, nil
}

func (a *Auth) generateToken(playerID int64, username string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Callsign: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(playerID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(a.jwtSecret)
}

// allowAttempt counts a login attempt against ip's current window and
// reports whether it may proceed.
func (a *Auth) allowAttempt(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	w, ok := a.rateMap[ip]
	if !ok || now.After(w.until) {
		a.rateMap[ip] = &loginWindow{tries: 1, until: now.Add(loginRateWindow)}
		return true
	}
	w.tries++
	return w.tries <= maxLoginAttempts
}

// GenerateGuestName hands an unregistered player a rookie handle like
// "Rookie_a3f2c1".
func GenerateGuestName() string {
	b := make([]byte, 3)
	rand.Read(b)
	return "Rookie_" + hex.EncodeToString(b)
}
