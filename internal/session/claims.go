package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"time-tracker-gateway/internal/errors"
)

// HasuraClaimsKey is the namespace Hasura reads its session variables from.
const HasuraClaimsKey = "https://hasura.io/jwt/claims"

// HasuraClaims are the x-hasura-* session variables inside the token.
type HasuraClaims struct {
	AllowedRoles []string `json:"x-hasura-allowed-roles,omitempty"`
	DefaultRole  string   `json:"x-hasura-default-role,omitempty"`
	UserID       string   `json:"x-hasura-user-id,omitempty"`
}

// Claims is the decoded payload of an access token.
type Claims struct {
	Hasura HasuraClaims `json:"https://hasura.io/jwt/claims"`
	jwt.RegisteredClaims
}

// TokenClaims decodes the token payload without checking its signature. The
// backend verifies tokens; this is for display only.
func TokenClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.NewValidationError("token is not a valid JWT", err)
	}
	return claims, nil
}

// Expired reports whether the token has an expiry at or before now.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}
