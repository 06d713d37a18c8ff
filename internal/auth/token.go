package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront/internal/domain"
)

// ErrInvalidToken indicates a bearer token that is missing, malformed or expired.
var ErrInvalidToken = errors.New("invalid token")

const issuer = "storefront"

// Principal is the authenticated caller of a request.
type Principal struct {
	CustomerID string
	Email      string
	Role       domain.Role
}

type claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns an HS256 token issuer. ttl bounds access token lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued access tokens.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs an access token for c.
func (t *Tokens) Issue(c domain.Customer) (string, error) {
	now := t.now()
	cl := claims{
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   c.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses raw and returns the principal it was issued for.
func (t *Tokens) Verify(raw string) (Principal, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if cl.Subject == "" || !cl.Role.Valid() {
		return Principal{}, ErrInvalidToken
	}
	return Principal{CustomerID: cl.Subject, Email: cl.Email, Role: cl.Role}, nil
}
