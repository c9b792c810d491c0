package notify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/events"
)

// capturingHandler records events it receives and can fail on demand.
type capturingHandler struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (h *capturingHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *capturingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func postEvent(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReceiveEvent(t *testing.T) {
	t.Parallel()

	t.Run("well-formed event is acknowledged and dispatched", func(t *testing.T) {
		t.Parallel()

		handler := &capturingHandler{}
		dispatcher := NewDispatcher(nil)
		dispatcher.RegisterHandler(handler)
		router := NewRouter(dispatcher, nil)

		rec := postEvent(t, router,
			`{"type":"TASK_CREATED","payload":{"task_id":"`+uuid.New().String()+
				`","title":"hi","user_id":"`+uuid.New().String()+`","email":"a@b.co"},"timestamp":"2025-06-01T12:00:00Z"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "received")
		require.Equal(t, 1, handler.count())
		assert.Equal(t, events.TypeTaskCreated, handler.events[0].Type)
	})

	t.Run("malformed payload is still acknowledged", func(t *testing.T) {
		t.Parallel()

		dispatcher := NewDispatcher(nil)
		router := NewRouter(dispatcher, nil)

		rec := postEvent(t, router, `{not json at all`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "received")
	})

	t.Run("unknown event type is still acknowledged", func(t *testing.T) {
		t.Parallel()

		dispatcher := NewDispatcher(nil)
		dispatcher.RegisterHandler(NewEmailNotifier(nil))
		router := NewRouter(dispatcher, nil)

		rec := postEvent(t, router, `{"type":"SOMETHING_ELSE","payload":{},"timestamp":"2025-06-01T12:00:00Z"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDispatcher(t *testing.T) {
	t.Parallel()

	event, err := events.NewEvent(events.TypeTaskCreated, events.TaskCreatedPayload{
		TaskID: uuid.New(),
		Title:  "dispatch me",
		UserID: uuid.New(),
		Email:  "owner@example.com",
	})
	require.NoError(t, err)

	t.Run("delivers to every handler", func(t *testing.T) {
		t.Parallel()

		first := &capturingHandler{}
		second := &capturingHandler{}
		d := NewDispatcher(nil)
		d.RegisterHandler(first)
		d.RegisterHandler(second)

		d.Dispatch(context.Background(), event)

		assert.Equal(t, 1, first.count())
		assert.Equal(t, 1, second.count())
	})

	t.Run("one failing handler does not starve the rest", func(t *testing.T) {
		t.Parallel()

		failing := &capturingHandler{err: assert.AnError}
		healthy := &capturingHandler{}
		d := NewDispatcher(nil)
		d.RegisterHandler(failing)
		d.RegisterHandler(healthy)

		d.Dispatch(context.Background(), event)

		assert.Equal(t, 1, failing.count())
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()
		NewDispatcher(nil).Dispatch(context.Background(), event)
	})
}

func TestEmailNotifier(t *testing.T) {
	t.Parallel()

	notifier := NewEmailNotifier(nil)

	t.Run("handles task created events", func(t *testing.T) {
		t.Parallel()
		event, err := events.NewEvent(events.TypeTaskCreated, events.TaskCreatedPayload{
			TaskID: uuid.New(),
			Title:  "notify",
			UserID: uuid.New(),
			Email:  "owner@example.com",
		})
		require.NoError(t, err)
		assert.NoError(t, notifier.HandleEvent(context.Background(), event))
	})

	t.Run("ignores other event types", func(t *testing.T) {
		t.Parallel()
		event, err := events.NewEvent("TASK_DELETED", map[string]string{})
		require.NoError(t, err)
		assert.NoError(t, notifier.HandleEvent(context.Background(), event))
	})

	t.Run("rejects undecodable task created payload", func(t *testing.T) {
		t.Parallel()
		event := &events.Event{Type: events.TypeTaskCreated, Payload: []byte(`"just a string"`)}
		assert.Error(t, notifier.HandleEvent(context.Background(), event))
	})
}

func TestNotifierHealth(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewDispatcher(nil), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Notification Service is running")
}
