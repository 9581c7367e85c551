package utils

import (
	"testing"
	"time"
)

func TestManager_JWTRoundTrip(t *testing.T) {
	m, err := NewManager("test-secret")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := m.NewJWT("42", time.Minute)
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}

	sub, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "42" {
		t.Fatalf("expected subject 42 got %q", sub)
	}
}

func TestNewManager_EmptyKey(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Fatal("expected error for empty signing key")
	}
}

func TestManager_RefreshTokensDiffer(t *testing.T) {
	m, err := NewManager("test-secret")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	a, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	b, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens are identical")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars got %d", len(a))
	}
}
