package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSessionExpired      = errors.New("session expired")
	ErrSessionInvalid      = errors.New("session invalid")
	ErrSessionParseFailure = errors.New("session parse failure")
)

const SessionTTL = time.Hour * 12

type SessionClaims struct {
	jwt.RegisteredClaims
}

// GenerateSession mints an HS256 session token for the given provider
// subject id. Production tokens come from the identity provider's edge;
// this is used by local tooling and tests.
func GenerateSession(secret []byte, subjectID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	})
	return token.SignedString(secret)
}

// ParseSession validates a session token and returns the provider subject id.
func ParseSession(secret []byte, tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return "", ErrSessionInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrSessionExpired
		default:
			return "", err
		}
	}
	if !token.Valid {
		return "", ErrSessionParseFailure
	}
	claims := token.Claims.(*SessionClaims)
	if claims.Subject == "" {
		return "", ErrSessionInvalid
	}
	return claims.Subject, nil
}
