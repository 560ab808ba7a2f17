package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName carries the session token for the server-rendered pages.
// API clients may send the same token as a Bearer header instead.
const CookieName = "hospital_session"

var ErrInvalidToken = errors.New("invalid session token")

// Manager issues and verifies session tokens. A token only identifies
// the user; the role is resolved fresh on every request, so it is never
// embedded in claims. Sign-out puts the token id on a redis denylist
// until the token would have expired anyway.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
}

// NewManager builds a Manager. rdb may be nil, in which case revocation
// is disabled (tests).
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		rdb:    rdb,
	}
}

func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "hospital-portal",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify returns the user id for a valid, unrevoked token. If the
// revocation store cannot be reached the token is rejected: an outage
// must not resurrect signed-out sessions.
func (m *Manager) Verify(ctx context.Context, tokenString string) (string, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	if m.rdb != nil && claims.ID != "" {
		n, err := m.rdb.Exists(ctx, revokedKey(claims.ID)).Result()
		if err != nil {
			return "", fmt.Errorf("session revocation check: %w", err)
		}
		if n > 0 {
			return "", ErrInvalidToken
		}
	}

	return claims.Subject, nil
}

// Revoke denylists the token until its natural expiry. Revoking an
// already-invalid token is a no-op.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil
	}

	if m.rdb == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	return m.rdb.Set(ctx, revokedKey(claims.ID), "1", ttl).Err()
}

func (m *Manager) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func revokedKey(jti string) string {
	return "session:revoked:" + jti
}
