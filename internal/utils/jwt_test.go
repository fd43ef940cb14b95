package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifyToken(t *testing.T) {
	secret := "test-secret"
	verify := func(header string) (*Claims, error) {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		return VerifyToken(req, secret)
	}

	for name, header := range map[string]string{
		"missing header":   "",
		"wrong scheme":     "Token abc",
		"empty token":      "Bearer ",
		"lowercase bearer": "bearer abc",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := verify(header); !errors.Is(err, ErrMissingAuthHeader) {
				t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
			}
		})
	}

	t.Run("invalid signing method", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate key: %v", err)
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub": "1",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(key)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, err := verify("Bearer " + signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("no expiry", func(t *testing.T) {
		signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte(secret))
		if _, err := verify("Bearer " + signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := GenerateToken("other-secret", 1, "alice", "user", time.Now())
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, err := verify("Bearer " + signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		signed, err := GenerateToken(secret, 1, "alice", "user", time.Now().Add(-48*time.Hour))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, err := verify("Bearer " + signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		now := time.Now()
		signed, err := GenerateToken(secret, 42, "alice", "admin", now)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		claims, err := verify("Bearer " + signed)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		id, err := claims.UserID()
		if err != nil || id != "42" {
			t.Fatalf("expected sub 42, got %q (err=%v)", id, err)
		}
		if claims.Role != "admin" || claims.Username != "alice" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != TokenTTL {
			t.Fatalf("expected %s lifetime, got %s", TokenTTL, got)
		}
	})
}

func TestClaimsUserID(t *testing.T) {
	if _, err := (&Claims{}).UserID(); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims for empty subject, got %v", err)
	}
	var nilClaims *Claims
	if _, err := nilClaims.UserID(); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims for nil claims, got %v", err)
	}
}
