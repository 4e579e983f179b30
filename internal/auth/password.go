// ABOUTME: Password hashing and comparison built on bcrypt
// ABOUTME: Keeps comparison timing flat for unknown usernames via a dummy hash

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost matches the cost existing account hashes were created with.
const hashCost = 10

// dummyHash is compared against when no user record exists, so a login
// attempt with an unknown username costs the same as one with a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// burnPasswordCheck performs a bcrypt comparison against a dummy hash to
// maintain constant timing when the user lookup came up empty.
func burnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
