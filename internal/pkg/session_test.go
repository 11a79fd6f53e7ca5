package pkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("session test secret")

func TestSessionRoundtrip(t *testing.T) {
	token, err := GenerateSession(testSecret, "user_2abc")
	require.NoError(t, err)

	subject, err := ParseSession(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", subject)
}

func TestParseSessionRejects(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateSession(testSecret, "user_2abc")
		require.NoError(t, err)

		_, err = ParseSession([]byte("other secret"), token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseSession(testSecret, "not.a.token")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user_2abc",
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			},
		})
		signed, err := token.SignedString(testSecret)
		require.NoError(t, err)

		_, err = ParseSession(testSecret, signed)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("empty subject", func(t *testing.T) {
		token, err := GenerateSession(testSecret, "")
		require.NoError(t, err)

		_, err = ParseSession(testSecret, token)
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user_2abc"},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseSession(testSecret, signed)
		assert.Error(t, err)
	})
}
