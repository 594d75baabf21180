// Package auth implements the single-tenant organizer login: one shared
// secret from configuration, compared in constant time, exchanged for an
// HTTP-only cookie carrying a signed token with a 24-hour expiry. This is
// deliberately not a credential system; there are no user accounts.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

const issuer = "absensi"

// Claims is the cookie token payload.
type Claims struct {
	jwt.RegisteredClaims
}

// CheckPassword compares the submitted password against the configured
// secret in constant time. An empty configured secret always fails, so an
// unconfigured deployment cannot be logged into.
func CheckPassword(submitted, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(configured)) == 1
}

// IssueToken signs a session token valid for ttl.
func IssueToken(signingKey string, ttl time.Duration) (string, time.Time, error) {
	expires := time.Now().Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// ParseToken validates a session token.
func ParseToken(tokenStr, signingKey string) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		return err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return errors.New("invalid token")
	}
	if claims.Issuer != issuer {
		return errors.New("issuer mismatch")
	}
	return nil
}
