package utils // package utils provides helper functions for tokens, passwords and avatars

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned for any token that fails signature or claim
// checks.  Callers surface a single generic auth failure so the reason is
// never leaked to the client.
var ErrInvalidToken = errors.New("invalid token")

// SignAuthToken builds and signs an HS256 JWT whose subject is the user's
// document id.  The token deliberately carries no expiry claim: validity is
// decided by membership in the user's stored token set, so a token stays
// usable until it is explicitly revoked.  An iat claim is included for
// traceability.
func SignAuthToken(secret, userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAuthToken verifies the signature of a raw token and returns the
// subject (user id) claim.  Signature validity alone does not make a token
// acceptable; the caller must still confirm set membership against the
// user's record.
func ParseAuthToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
