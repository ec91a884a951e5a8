package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash, "stored form must not be the plain password")

	assert.NoError(t, hasher.Verify("hunter2", hash))
}

func TestBcryptHasher_Verify_WrongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("hunter2")
	require.NoError(t, err)

	err = hasher.Verify("hunter3", hash)
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestBcryptHasher_Hash_TooLong(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// 72 bytes is still fine
	_, err = hasher.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestBcryptHasher_HashesDiffer(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("same-password")
	require.NoError(t, err)
	h2, err := hasher.Hash("same-password")
	require.NoError(t, err)

	// Per-hash salts mean equal passwords produce different stored forms
	assert.NotEqual(t, h1, h2)
	assert.NoError(t, hasher.Verify("same-password", h1))
	assert.NoError(t, hasher.Verify("same-password", h2))
}
