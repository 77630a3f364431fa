package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordSaltsEachHash(t *testing.T) {
	first, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatalf("expected distinct salted hashes")
	}
	if bytes.Contains(first, []byte("secret1")) {
		t.Fatalf("hash leaks plaintext")
	}
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "secret1"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := ComparePassword(hash, "secret2"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
	if err := ComparePassword([]byte("not-a-hash"), "secret1"); err == nil || errors.Is(err, ErrMismatch) {
		t.Fatalf("expected malformed hash error, got %v", err)
	}
}

func TestPasswordLengthLimit(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("p", MaxPasswordBytes+1), bcrypt.MinCost); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	hash, err := HashPassword(strings.Repeat("p", MaxPasswordBytes), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash at limit: %v", err)
	}
	if err := ComparePassword(hash, strings.Repeat("p", 80)); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch for overlong input, got %v", err)
	}
}
