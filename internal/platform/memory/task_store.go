package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// TaskStore is an in-memory implementation of store.TaskStore.
//
// Tasks are indexed owner first (owner ID -> task ID -> task) so every
// operation is naturally scoped to the caller's identity: a lookup under the
// wrong owner simply finds nothing. A single RWMutex guards the whole index;
// reads run concurrently, mutations are serialized, and concurrent updates to
// the same task resolve last-writer-wins.
type TaskStore struct {
	mu      sync.RWMutex
	byOwner map[uuid.UUID]map[uuid.UUID]*domain.Task
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		byOwner: make(map[uuid.UUID]map[uuid.UUID]*domain.Task),
	}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owned, exists := s.byOwner[task.OwnerID]
	if !exists {
		owned = make(map[uuid.UUID]*domain.Task)
		s.byOwner[task.OwnerID] = owned
	}

	stored := *task
	owned[stored.ID] = &stored
	return nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.byOwner[ownerID]
	tasks := make([]*domain.Task, 0, len(owned))
	for _, task := range owned {
		found := *task
		tasks = append(tasks, &found)
	}
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.byOwner[ownerID][id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	found := *task
	return &found, nil
}

// Update implements store.TaskStore.Update.
// The patch is applied atomically under the store lock so a concurrent
// update cannot observe a half-written record.
func (s *TaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.byOwner[ownerID][id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	// Patch a copy so a validation failure leaves the stored record intact.
	updated := *current
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	*current = updated
	result := updated
	return &result, nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.byOwner[ownerID]
	if _, exists := owned[id]; !exists {
		return store.ErrTaskNotFound
	}

	delete(owned, id)
	return nil
}
