package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskhub-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name"     validate:"required"`
}

// RegisterResponse defines the successful response for registration.
// It carries the non-secret identifier only, never the credential hash.
type RegisterResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserProfile is the public view of an account.
type UserProfile struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// VerifyRequest defines the payload for the token verification endpoint.
// No validate tags: this endpoint never rejects input, it answers it.
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse defines the response for the token verification endpoint.
type VerifyResponse struct {
	Valid  bool          `json:"valid"`
	Claims *VerifyClaims `json:"claims,omitempty"`
}

// VerifyClaims is the decoded claim set returned for a valid token.
type VerifyClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
}

// UpdateTaskRequest defines the payload for partial task updates.
// Pointer fields distinguish "absent" (nil, leave unchanged) from
// "explicitly set" (non-nil, apply).
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"user_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// taskToResponse converts a domain task to its API representation.
func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		UserID:      t.OwnerID,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// HealthResponse is the body returned by every service's health probe.
type HealthResponse struct {
	Status string `json:"status"`
}
