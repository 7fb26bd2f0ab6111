package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
)

// JWTService defines operations for issuing and validating identity tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT carrying the identity's user ID and
	// role, expiring after the configured lifetime.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, identity domain.Identity) (string, error)

	// ValidateToken decodes the token and verifies its signature and shape.
	// A malformed or unparsable token yields ErrInvalidToken. A structurally
	// valid token always resolves the identity fields plus IsExpired; expiry
	// is reported, not returned as an error, so the caller decides whether
	// to reject.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the identity information resolved from a validated token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid"`

	// Role is the role the user carried when the token was issued.
	Role domain.Role `json:"role"`

	// IssuedAt and ExpiresAt are the standard issue/expiry timestamps.
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`

	// IsExpired reports whether ExpiresAt <= now at validation time.
	// The boundary is inclusive: a token expiring exactly now is expired.
	IsExpired bool `json:"-"`
}

// Identity returns the {id, role} pair carried by the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{ID: c.UserID, Role: c.Role}
}
