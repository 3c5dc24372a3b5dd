// Package cryptox hashes and verifies account passwords with bcrypt.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for new hashes. Tests lower it.
var Cost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is
// an error; a plain mismatch is not.
func CheckPassword(hash string, password []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("check password: %w", err)
	}
}

// dummyHash is compared against when the account does not exist so both
// paths cost one bcrypt comparison.
var dummyHash = func() string {
	h, _ := bcrypt.GenerateFromPassword([]byte("chyrp-dummy-password"), bcrypt.MinCost)
	return string(h)
}()

// BurnCompare spends one comparison against a throwaway hash.
func BurnCompare(password []byte) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), password)
}
