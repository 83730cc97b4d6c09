// Package collab holds the clients for the session's network
// collaborators: transcription over HTTP and chat over WebSocket.
// Both authenticate with short-lived HS256 session tokens.
package collab

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenIssuer mints short-lived session tokens for collaborator calls
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer. An empty secret disables auth;
// Authorize becomes a no-op.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token carrying issue and expiry claims
func (ti *TokenIssuer) Issue() (string, error) {
	if len(ti.secret) == 0 {
		return "", errors.New("token secret not configured")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "cadenza-session",
		"iat": now.Unix(),
		"exp": now.Add(ti.ttl).Unix(),
	})

	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token issued with the same secret
func (ti *TokenIssuer) Verify(tokenString string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Authorize stamps a Bearer token onto h when a secret is configured
func (ti *TokenIssuer) Authorize(h http.Header) error {
	if len(ti.secret) == 0 {
		return nil
	}
	token, err := ti.Issue()
	if err != nil {
		return err
	}
	h.Set("Authorization", "Bearer "+token)
	return nil
}
