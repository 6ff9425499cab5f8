package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/novacart/internal/domain"
)

// SessionMarkers issues and verifies the session-marker token persisted next
// to the session snapshot. The token is an HS256 JWT whose subject is the
// identity id.
type SessionMarkers struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionMarkers creates a marker signer.
func NewSessionMarkers(secret string, ttl time.Duration) *SessionMarkers {
	return &SessionMarkers{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a marker for the identity.
func (m *SessionMarkers) Issue(id domain.Identity) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   id.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session marker: %w", err)
	}
	return token, nil
}

// Verify parses the marker and returns the identity id it names.
func (m *SessionMarkers) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}
