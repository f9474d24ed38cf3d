package auth

import (
	"errors"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	password := "correct-horse-battery"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == password {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := VerifyPassword(hash, password); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}

	if err := VerifyPassword(hash, "wrong-password-123"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("1234567"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort for 7 characters, got %v", err)
	}
	if _, err := HashPassword("12345678"); err != nil {
		t.Errorf("expected 8 characters to be accepted, got %v", err)
	}
}
