// Package credentials provides one-way hashing and verification for the
// low-entropy shared secrets used by the GM and players.
package credentials

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production
const DefaultCost = 10

// Hasher hashes and verifies secrets with bcrypt. The work factor is
// deliberately expensive; callers should treat Hash and Verify as slow.
type Hasher struct {
	cost int
}

// New creates a Hasher with the default cost
func New() *Hasher {
	return &Hasher{cost: DefaultCost}
}

// NewWithCost creates a Hasher with an explicit cost. Tests use
// bcrypt.MinCost to keep suites fast.
func NewWithCost(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of secret
func (h *Hasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether secret matches hash
func (h *Hasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
