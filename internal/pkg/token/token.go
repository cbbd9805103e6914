// Package token issues and validates the signed session tokens handed out at
// sign-in. Tokens are stateless HMAC-signed JWTs: validation needs only the
// shared secret, never the database.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 60 * time.Minute

var ErrMissingSecret = errors.New("token: signing secret is not configured")
var ErrInvalid = errors.New("token: invalid")
var ErrExpired = errors.New("token: expired")

// Claims is the validated content of a session token.
type Claims struct {
	Username string
	Role     string
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and validates session tokens with a process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService builds a Service. An empty secret returns ErrMissingSecret;
// callers are expected to treat that as a fatal startup error rather than
// run with a guessable key. ttl <= 0 selects DefaultTTL.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for username carrying its role, expiring after the
// configured TTL.
func (s *Service) Issue(username, role string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the embedded claims.
// Expiry and tampering are distinct failures: ErrExpired vs ErrInvalid.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	var claims jwtClaims
	tkn, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrInvalid
	}
	return &Claims{Username: claims.Subject, Role: claims.Role}, nil
}

// TTL returns the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
