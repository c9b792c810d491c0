// Package events defines the cross-service event contract and the emitters
// that deliver events to the notification sink.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types understood by the notification sink.
const (
	// TypeTaskCreated is emitted by the task service after a task has been
	// committed to its store.
	TypeTaskCreated = "TASK_CREATED"
)

// Event is an immutable, fire-once record sent to the notification sink.
// It is not persisted by the emitter; delivery is best-effort and
// unacknowledged.
type Event struct {
	// Type is the event type tag, e.g. TASK_CREATED.
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		Type:      eventType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UTC(),
	}, nil
}

// TaskCreatedPayload is the payload carried by a TASK_CREATED event.
// The owner email is copied from the creator's token claims so the sink can
// address a notification without a profile lookup.
type TaskCreatedPayload struct {
	TaskID uuid.UUID `json:"task_id"`
	Title  string    `json:"title"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of how,
// or whether, they are delivered.
type EventEmitter interface {
	// EmitEvent publishes the given event.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// EventHandler defines an interface for components that can handle events.
// The notification sink dispatches received events to its handlers.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}
