package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerification is the outcome of comparing a password with a stored hash.
type PasswordVerification int

const (
	PasswordFailed PasswordVerification = iota
	PasswordOK
	PasswordRehashNeeded
)

var ErrHashingPasswordFailed = errors.New("hashing password failed")

// PasswordHasher hashes account passwords with bcrypt. The salt and cost are
// embedded in the hash string, so nothing but this type needs to parse it.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingPasswordFailed, err)
	}
	return string(hashed), nil
}

// Verify compares in constant time. A hash produced with a lower cost than the
// current one verifies as PasswordRehashNeeded.
func (h *PasswordHasher) Verify(hash, password string) PasswordVerification {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return PasswordFailed
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return PasswordFailed
	}
	if cost < h.cost {
		return PasswordRehashNeeded
	}
	return PasswordOK
}
