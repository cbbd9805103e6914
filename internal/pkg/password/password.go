// Package password wraps bcrypt behind the small surface the services need:
// one-way hashing with a tunable cost and constant-time verification.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// ErrCorruptRecord marks a stored hash that bcrypt cannot decode. Records
// written by this package never trigger it.
var ErrCorruptRecord = errors.New("corrupt credential record")

// Hasher hashes and verifies passwords with a fixed work factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to bcrypt.DefaultCost, so old hashes
// produced under a different cost remain verifiable (the cost is embedded
// in each record).
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted hash record from plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches record. A wrong password is not an
// error: it returns (false, nil). Only an undecodable record yields
// ErrCorruptRecord.
func (h *Hasher) Verify(plain, record string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(record), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
}
