package main

import (
	"strings"
	"testing"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("defender", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatalf("incomplete register result: id=%d token=%q", id, token)
	}

	gotID, gotUser, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if gotID != id || gotUser != "defender" {
		t.Errorf("token claims wrong: %d %q", gotID, gotUser)
	}

	loginID, loginToken, err := auth.Login("defender", "hunter2", "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginID != id || loginToken == "" {
		t.Errorf("login result: id=%d token=%q", loginID, loginToken)
	}

	if _, _, err := auth.Login("defender", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password should fail")
	}
	if _, _, err := auth.Login("nobody", "hunter2", "1.2.3.4"); err == nil {
		t.Error("unknown user should fail")
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.Register("x", "hunter2"); err == nil {
		t.Error("too-short username should fail")
	}
	if _, _, err := auth.Register("defender", "abc"); err == nil {
		t.Error("too-short password should fail")
	}

	auth.Register("defender", "hunter2")
	if _, _, err := auth.Register("defender", "hunter2"); err == nil {
		t.Error("duplicate username should fail")
	}
}

func TestAuthInvalidToken(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token should fail")
	}

	// A token signed with a different secret must be rejected.
	other := NewAuth(nil)
	foreign, err := other.generateToken(1, "intruder")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := auth.ValidateToken(foreign); err == nil {
		t.Error("token from a different secret should fail")
	}
}

func TestAuthSecretPersisted(t *testing.T) {
	db := openTestDB(t)

	a1 := NewAuth(db)
	_, token, err := a1.Register("defender", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// A second Auth over the same database loads the same secret, so
	// tokens survive a restart.
	a2 := NewAuth(db)
	if _, _, err := a2.ValidateToken(token); err != nil {
		t.Errorf("token should survive restart: %v", err)
	}
}

func TestAuthLoginRateLimit(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	auth.Register("defender", "hunter2")

	var lastErr error
	for i := 0; i < maxLoginAttempts+2; i++ {
		_, _, lastErr = auth.Login("defender", "wrong", "9.9.9.9")
	}
	if lastErr == nil || !strings.Contains(lastErr.Error(), "too many") {
		t.Errorf("expected rate limit error, got %v", lastErr)
	}

	// Other IPs are unaffected.
	if _, _, err := auth.Login("defender", "hunter2", "8.8.8.8"); err != nil {
		t.Errorf("different ip should still log in: %v", err)
	}
}

func TestGenerateGuestName(t *testing.T) {
	a := GenerateGuestName()
	b := GenerateGuestName()
	if !strings.HasPrefix(a, "Rookie_") {
		t.Errorf("unexpected guest name %q", a)
	}
	if a == b {
		t.Error("guest names should be unique")
	}
}
