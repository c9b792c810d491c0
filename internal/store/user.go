package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// UserStore defines the interface for account persistence in the identity
// service. Accounts are created via registration only; the identity core
// never mutates or deletes them.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken (case-sensitive
	// exact match). Returns a validation error wrapped in ErrInvalidEntity
	// if the user data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
