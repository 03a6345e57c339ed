package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyJWTSecret is the environment variable holding the HMAC signing secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// Claim names carried by session tokens.
const (
	ClaimUserID    = "user_id"
	ClaimEmail     = "email"
	ClaimFirstName = "first_name"
	ClaimLastName  = "last_name"
)

// generator signs session tokens with HS256.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT token asserting the user's identity.
func (g *generator) GenerateToken(userID, email, firstName, lastName string) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		ClaimUserID:    userID,
		ClaimEmail:     email,
		ClaimFirstName: firstName,
		ClaimLastName:  lastName,
		"exp":          now.Add(g.expiration).Unix(),
		"iat":          now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Expiration returns the lifetime of issued tokens.
func (g *generator) Expiration() time.Duration {
	return g.expiration
}
