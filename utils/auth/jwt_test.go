package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret-key",
		Issuer: "iqroai-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := newTestManager()

	token, err := manager.GenerateAccessToken(42, "student@example.com", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Subject != "student@example.com" {
		t.Errorf("expected subject to be the email, got %q", claims.Subject)
	}
	if claims.Role != "student" {
		t.Errorf("expected role student, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a JTI to be set")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	manager := newTestManager()

	token, err := manager.GenerateAccessTokenWithTTL(1, "a@b.com", "student", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessTokenWithTTL failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := newTestManager()
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Issuer: "iqroai-test"})

	token, err := other.GenerateAccessToken(1, "a@b.com", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	manager := newTestManager()
	if _, err := manager.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDefaultExpiryApplied(t *testing.T) {
	manager := newTestManager()

	token, err := manager.GenerateAccessToken(1, "a@b.com", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 || ttl > DefaultAccessTokenTTL {
		t.Errorf("expected expiry within the default TTL, got %v", ttl)
	}
}
