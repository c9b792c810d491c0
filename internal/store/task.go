package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// TaskPatch describes a partial update to a task. Nil fields are left
// unchanged; non-nil fields replace the current value. Status values must
// already be validated by the caller.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// TaskStore defines the interface for owner-scoped task persistence.
//
// Every lookup and mutation is keyed by (ownerID, taskID): a task owned by a
// different caller is reported as ErrTaskNotFound, never as a permission
// error, so non-owners cannot confirm a task's existence. The interface is
// durability-agnostic; the in-memory and PostgreSQL backends implement the
// same contract.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns a validation error wrapped in ErrInvalidEntity if the task
	// data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// ListByOwner returns all tasks owned by the given user, in no
	// guaranteed order. Returns an empty slice when the owner has no tasks.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// GetByID retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or is owned by
	// someone else.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Update applies a partial update to a task, scoped to the given owner,
	// and returns the updated task. Returns ErrTaskNotFound under the same
	// indistinguishability rule as GetByID.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch TaskPatch) (*domain.Task, error)

	// Delete removes a task, scoped to the given owner.
	// Returns ErrTaskNotFound under the same indistinguishability rule as
	// GetByID. Deleting an already-deleted ID fails the same way on every
	// retry.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
