package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID  = errors.New("task ID cannot be empty")
	ErrEmptyOwnerID = errors.New("task owner ID cannot be empty")
	ErrEmptyTitle   = errors.New("task title cannot be empty")
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus converts a string into a TaskStatus.
// Returns ErrInvalidStatus if the value is not a recognized status.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Task represents a single owner-scoped task record.
// OwnerID is copied from the creator's token subject and never changes.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// It generates a fresh UUID, defaults the description to the empty string,
// and sets the status to PENDING. Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}

	if t.Title == "" {
		return ErrEmptyTitle
	}

	if _, err := ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}

	return nil
}
