package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndDecodeToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.CreateToken("user-123", "admin", TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	claims, err := issuer.DecodeToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.TokenID)
}

func TestDecodeTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.CreateToken("user-123", "user", TokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = issuer.DecodeToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDecodeTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").CreateToken("user-123", "user", TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b").DecodeToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeTokenWrongType(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.CreateToken("user-123", "user", TokenTypeRefresh, time.Minute)
	require.NoError(t, err)

	_, err = issuer.DecodeToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	_, err := issuer.DecodeToken("definitely.not.a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
