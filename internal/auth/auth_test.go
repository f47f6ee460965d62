package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, VerifyPassword("s3cret-pass", hash))
	assert.ErrorIs(t, VerifyPassword("wrong", hash), ErrPasswordMismatch)
}

func TestHashPassword_Errors(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = HashPassword(strings.Repeat("a", 100))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("0123456789abcdef-test", time.Hour)

	token, err := svc.GenerateAccessToken(42, "EMPLOYER")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYER", claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("0123456789abcdef-test", time.Hour)

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenService("0123456789abcdef-test", -time.Minute)
		token, err := expired.GenerateAccessToken(1, "CANDIDATE")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewTokenService("another-signing-key-xyz", time.Hour)
		token, err := other.GenerateAccessToken(1, "CANDIDATE")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: "ADMIN"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
