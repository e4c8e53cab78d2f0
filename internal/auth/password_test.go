package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	second, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	// Same plaintext must not produce the same hash twice.
	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-Pa55word")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("s3cret-Pa55word", hash))
	assert.False(t, VerifyPassword("s3cret-pa55word", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestVerifyPasswordMalformedHashFailsClosed(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("anything", ""))
}
