// Package identity issues and verifies the bearer tokens that carry a caller identity.
//
// A token is an HS256 JWT whose subject is the opaque identity string.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Leeway tolerates clock skew between the issuer and the server.
const Leeway = 30 * time.Second

var (
	// ErrInvalidToken reports a token that fails parsing, signature or time checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySubject reports a well-formed token without an identity.
	ErrEmptySubject = errors.New("empty subject")
)

// Issue signs a token for subject valid from now for ttl.
func Issue(key []byte, subject string, now time.Time, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Parse verifies tok with key and returns its subject.
func Parse(key []byte, tok string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithLeeway(Leeway), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrEmptySubject
	}
	return claims.Subject, nil
}
