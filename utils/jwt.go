package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenFingerprint is a short, log-safe identifier for a token.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	return HashToken(token)[:12]
}

// TokenExpiry reads the "exp" claim of an application token without verifying it.
// The signing secret belongs to the remote API, so the client can only inspect claims.
// ok is false when the token is opaque or carries no expiry.
func TokenExpiry(tokenString string) (exp time.Time, ok bool) {
	parser := new(jwt.Parser)
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	}
	return time.Time{}, false
}

// TokenTTL returns how long the token remains valid relative to now. Tokens without an
// expiry yield zero, which callers treat as "no TTL".
func TokenTTL(tokenString string, now time.Time) (time.Duration, error) {
	exp, ok := TokenExpiry(tokenString)
	if !ok {
		return 0, nil
	}
	ttl := exp.Sub(now)
	if ttl <= 0 {
		return 0, errors.New("token already expired")
	}
	return ttl, nil
}
