package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestValidateAcceptsSignedToken(t *testing.T) {
	t.Parallel()

	validator := NewJWTValidator("webhook-secret")
	token := signToken(t, "webhook-secret", &Claims{
		Source: "scheduler",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "booking-webhook",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := validator.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "booking-webhook" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Source != "scheduler" {
		t.Fatalf("unexpected source claim: %s", claims.Source)
	}
}

func TestValidateRejectsMissingToken(t *testing.T) {
	t.Parallel()

	validator := NewJWTValidator("webhook-secret")
	if _, err := validator.Validate("  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	validator := NewJWTValidator("webhook-secret")
	token := signToken(t, "other-secret", &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "booking-webhook",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := validator.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	validator := NewJWTValidator("webhook-secret")
	token := signToken(t, "webhook-secret", &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "booking-webhook",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	if _, err := validator.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
