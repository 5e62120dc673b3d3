// Package auth provides the operator login machinery: bcrypt verification of
// the admin password and JWT session tokens carried in an HttpOnly cookie.
//
// SESSION FLOW:
// 1. Operator POSTs the admin password to /auth/login
// 2. Server verifies it against the configured bcrypt hash
// 3. Server issues a short-lived JWT, stored in an HttpOnly cookie
// 4. The admin middleware validates the cookie on each /api/submissions call
//
// JWT is stateless — everything needed (subject, expiry) is inside the
// signed token, so validation needs no database lookup, just the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService handles JWT creation and validation. It holds the HMAC secret
// used to sign and verify tokens; the same secret must serve both sides.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims — the standard Issuer/Subject/ExpiresAt
// fields are all this service needs.
type claims struct {
	jwt.RegisteredClaims
}

// sessionLifetime is how long an operator session lasts before re-login.
const sessionLifetime = 12 * time.Hour

// Generate creates and signs a session token for the given subject.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, fine for a
// single-server deployment.
func (s *TokenService) Generate(subject string) (string, error) {
	return s.GenerateWithDuration(subject, sessionLifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used in tests
// to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(subject string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "webaide-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning its subject.
//
// Restricting the algorithm to HS256 (WithValidMethods) prevents
// algorithm-confusion attacks where an attacker presents a token signed
// with "none"; pinning the issuer rejects tokens minted by other apps
// sharing the secret by accident.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("webaide-server"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
