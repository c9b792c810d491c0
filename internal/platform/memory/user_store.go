// Package memory provides volatile in-process implementations of the store
// interfaces. State lives only as long as the owning process; this is the
// default backend and matches the reference deployment model where no service
// shares a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// UserStore is an in-memory implementation of store.UserStore.
// It is safe for concurrent use.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uuid.UUID]*domain.User),
	}
}

// Create implements store.UserStore.Create.
// Email uniqueness is a case-sensitive exact match.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}

	stored := *user
	s.byEmail[stored.Email] = &stored
	s.byID[stored.ID] = &stored
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byID[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	found := *user
	return &found, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byEmail[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	found := *user
	return &found, nil
}
