// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the login cookie carrying the signed session token.
const CookieName = "wedding_session"

// DefaultTTL keeps guests logged in across the whole RSVP window.
const DefaultTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired session token")

// Session is the authenticated state carried by the login cookie.
type Session struct {
	GuestID  uuid.UUID
	Admin    bool
	Language string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Admin    bool   `json:"admin,omitempty"`
	Language string `json:"lang,omitempty"`
}

// Issuer signs and verifies session tokens with HS256.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

func (i *Issuer) Issue(s Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.GuestID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Admin:    s.Admin,
		Language: s.Language,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(raw string) (Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	guestID, err := uuid.Parse(claims.Subject)
	if err != nil && !claims.Admin {
		return Session{}, ErrInvalidToken
	}
	return Session{GuestID: guestID, Admin: claims.Admin, Language: claims.Language}, nil
}

// VerifyAdminPassword compares a bcrypt digest against the submitted
// password.
func VerifyAdminPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// HashAdminPassword produces the bcrypt digest stored in configuration.
func HashAdminPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
