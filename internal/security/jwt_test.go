package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newVerifierForTest() *TokenVerifier {
	return NewTokenVerifier(strings.Repeat("k", 32), "flag-graph", "flag-graph-api")
}

func TestTokenRoundTrip(t *testing.T) {
	v := newVerifierForTest()
	raw, err := v.Sign(42, "admin-7", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := v.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.TeamID != 42 || claims.Subject != "admin-7" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenRejectedOnWrongSecret(t *testing.T) {
	raw, err := newVerifierForTest().Sign(1, "s", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	other := NewTokenVerifier(strings.Repeat("x", 32), "flag-graph", "flag-graph-api")
	if _, err := other.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenRejectedOnWrongAudience(t *testing.T) {
	issuer := NewTokenVerifier(strings.Repeat("k", 32), "flag-graph", "other-api")
	raw, err := issuer.Sign(1, "s", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := newVerifierForTest().Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenRejectedWhenExpired(t *testing.T) {
	v := newVerifierForTest()
	raw, err := v.Sign(1, "s", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenRejectedWithoutTeam(t *testing.T) {
	v := newVerifierForTest()
	raw, err := v.Sign(0, "s", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for zero team, got %v", err)
	}
}
