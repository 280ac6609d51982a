package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/techzone/storefront-api/internal/core/domain"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenCodec_IssueVerify(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour).WithClock(fixedClock(t0))

	token, exp, err := codec.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(t0.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", exp)
	}

	id, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("expected user-1, got %s", id)
	}
}

func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	issuer := NewTokenCodec("secret", time.Hour).WithClock(fixedClock(t0))
	token, exp, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	before := NewTokenCodec("secret", time.Hour).WithClock(fixedClock(exp.Add(-time.Second)))
	if _, err := before.Verify(token); err != nil {
		t.Fatalf("token should verify just before expiry: %v", err)
	}

	after := NewTokenCodec("secret", time.Hour).WithClock(fixedClock(exp.Add(time.Second)))
	if _, err := after.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken just after expiry, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	token, _, _ := NewTokenCodec("secret", time.Hour).Issue("user-1")

	if _, err := NewTokenCodec("other", time.Hour).Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenCodec_Tampered(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	token, _, _ := codec.Issue("user-1")

	parts := strings.Split(token, ".")
	forged, _, _ := NewTokenCodec("secret", time.Hour).Issue("user-2")
	parts[1] = strings.Split(forged, ".")[1]

	if _, err := codec.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for swapped payload, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewTokenCodec("secret", time.Hour).Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestTokenCodec_RequiresExpiryAndSubject(t *testing.T) {
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte("secret"))
	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	codec := NewTokenCodec("secret", time.Hour)
	if _, err := codec.Verify(noExp); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}
	if _, err := codec.Verify(noSub); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without sub, got %v", err)
	}
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	if got := NewTokenCodec("secret", 0).TTL(); got != defaultTokenTTL {
		t.Fatalf("expected default ttl %v, got %v", defaultTokenTTL, got)
	}
}
