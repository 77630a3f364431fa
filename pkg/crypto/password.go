package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

var (
	// ErrMismatch reports a password that does not match its stored hash.
	ErrMismatch = errors.New("crypto: password mismatch")
	// ErrPasswordTooLong reports a password longer than MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("crypto: password exceeds 72 bytes")
)

// HashPassword hashes plaintext with bcrypt at the given cost. bcrypt salts
// every hash independently, so equal passwords never share a hash.
// A cost of zero selects bcrypt.DefaultCost.
func HashPassword(plain string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if len(plain) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(plain), cost)
}

// ComparePassword compares plaintext to hashed secret in constant time.
func ComparePassword(hash []byte, plain string) error {
	if len(plain) > MaxPasswordBytes {
		return ErrMismatch
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
