package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, hasher.Compare(hash, "correct-horse"))
	assert.Error(t, hasher.Compare(hash, "wrong-horse"))
}

func TestHashRejectsShortPasswords(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooLow)
}

func TestInvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(100)

	hash, err := hasher.Hash("long-enough-password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "long-enough-password"))
}
