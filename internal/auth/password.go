package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
)

// Hasher turns a password into its stored form and verifies a claimed
// password against it. The storage layer only ever sees the encoded form,
// so the comparison algorithm stays swappable.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) error
}

// BcryptHasher is the default Hasher, backed by bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a bcrypt hasher with the given cost factor.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{Cost: cost}
}

// Hash creates a bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	// bcrypt has a 72-byte limit
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares a password with its stored hash.
func (h *BcryptHasher) Verify(password, encoded string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}
