package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	digest, err := HashPassword("Abcdef1@", salt)
	require.NoError(t, err)

	assert.True(t, ComparePassword(digest, salt, "Abcdef1@"))
	assert.False(t, ComparePassword(digest, salt, "abcdef1@"))
	assert.False(t, ComparePassword(digest, "zz", "Abcdef1@"))
}

func TestSaltsDiffer(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSessionKeys(t *testing.T) {
	hashKey, blockKey, err := SessionKeys("super-secret-key")
	require.NoError(t, err)
	assert.Len(t, hashKey, 64)
	assert.Len(t, blockKey, 32)

	again, _, err := SessionKeys("super-secret-key")
	require.NoError(t, err)
	assert.Equal(t, hashKey, again)

	_, _, err = SessionKeys("")
	assert.Error(t, err)
}
