// Package token signs and verifies the compact, time-limited credential
// tokens used across the session flows: access tokens, refresh tokens
// and password-reset tokens all share one wire shape and differ only in
// their claims and TTL.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when a structurally valid token is past its
	// embedded expiry.
	ErrExpired = errors.New("token expired")
	// ErrMalformed covers everything else: bad structure, bad signature,
	// wrong algorithm. No partial trust; the payload is discarded entirely.
	ErrMalformed = errors.New("token malformed")
)

// Claim names shared by the session flows.
const (
	ClaimUserID   = "user_id"
	ClaimProvider = "auth_provider"
	ClaimEmail    = "email"
	ClaimCode     = "code"
)

// Codec signs and verifies HS256 tokens with a single process-wide secret.
// It is a pure function of (payload, secret, clock) and is safe for
// concurrent use. The clock is injectable for tests.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// New returns a Codec using the given shared secret.
func New(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// NewWithClock is New with an explicit clock, used by tests to cross the
// expiry boundary without sleeping.
func NewWithClock(secret string, now func() time.Time) *Codec {
	return &Codec{secret: []byte(secret), now: now}
}

// Sign combines payload with issued-at and expiry timestamps and produces
// a signed token string. The payload must not contain the reserved "iat"
// and "exp" keys; they are overwritten.
func (c *Codec) Sign(payload map[string]any, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	for k, v := range payload {
		claims[k] = v
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify validates the signature and expiry of raw and returns its claims.
// Expired tokens fail with ErrExpired; anything else that prevents full
// verification fails with ErrMalformed.
func (c *Codec) Verify(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// UserID extracts the subject user id from verified claims. The zero value
// with ok=false means the claim is absent or not numeric.
func UserID(claims jwt.MapClaims) (uint64, bool) {
	switch v := claims[ClaimUserID].(type) {
	case float64:
		// JSON numbers decode as float64.
		if v < 1 {
			return 0, false
		}
		return uint64(v), true
	case uint64:
		return v, v > 0
	}
	return 0, false
}

// StringClaim extracts a string claim, empty when absent or mistyped.
func StringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}
