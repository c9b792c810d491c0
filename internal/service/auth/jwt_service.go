// Package auth provides token issuance/verification and credential hashing.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// JWTService defines operations for managing signed identity tokens.
//
// Tokens are self-contained: any service constructed with the same signing
// secret can validate them locally, which is how the task and user services
// trust an identity established by the issuer without calling it back.
type JWTService interface {
	// GenerateToken creates a signed token carrying the user's identity.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken or ErrInvalidToken on failure; an
	// expired token and a mis-signed one are both rejections, callers decide
	// how to surface the difference.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the decoded identity carried by a token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid"`

	// Email is the account email, included so downstream services can build
	// notification payloads without a profile lookup.
	Email string `json:"email"`

	// Name is the account display name.
	Name string `json:"name"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
