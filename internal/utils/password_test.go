package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesFreshSalt(t *testing.T) {
	h1, s1, err := HashPassword("hunter2")
	require.NoError(t, err)
	h2, s2, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.Len(t, s1, 64) // 32 random bytes, hex encoded
	assert.Len(t, h1, 64) // 32-byte PBKDF2 key, hex encoded
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2, "same password must not hash equal under different salts")
}

func TestVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, salt, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, salt, "incorrect horse"))
	assert.False(t, VerifyPassword(hash, "deadbeef", "correct horse battery staple"))
	assert.False(t, VerifyPassword("", salt, "correct horse battery staple"))
}

func TestVerifyPasswordIsDeterministicForStoredCredentials(t *testing.T) {
	// A credential written by one process must verify in another.
	hash, salt, err := HashPassword("pa55word")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.True(t, VerifyPassword(hash, salt, "pa55word"))
	}
}
