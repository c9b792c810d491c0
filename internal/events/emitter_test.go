package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T) *Event {
	t.Helper()
	event, err := NewEvent(TypeTaskCreated, TaskCreatedPayload{
		TaskID: uuid.New(),
		Title:  "test task",
		UserID: uuid.New(),
		Email:  "owner@example.com",
	})
	require.NoError(t, err)
	return event
}

func TestHTTPEmitter(t *testing.T) {
	t.Parallel()

	t.Run("posts event to the sink's events endpoint", func(t *testing.T) {
		t.Parallel()

		var gotPath, gotContentType string
		var gotEvent Event
		sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
			w.WriteHeader(http.StatusOK)
		}))
		defer sink.Close()

		emitter := NewHTTPEmitter(sink.URL, time.Second, nil)
		event := newTestEvent(t)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, "/events", gotPath)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, TypeTaskCreated, gotEvent.Type)

		var payload TaskCreatedPayload
		require.NoError(t, gotEvent.UnmarshalPayload(&payload))
		assert.Equal(t, "test task", payload.Title)
	})

	t.Run("non-2xx response is reported as an error", func(t *testing.T) {
		t.Parallel()

		sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer sink.Close()

		emitter := NewHTTPEmitter(sink.URL, time.Second, nil)
		err := emitter.EmitEvent(context.Background(), newTestEvent(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("unreachable sink is reported as an error", func(t *testing.T) {
		t.Parallel()

		emitter := NewHTTPEmitter("http://127.0.0.1:1", time.Second, nil)
		err := emitter.EmitEvent(context.Background(), newTestEvent(t))
		require.Error(t, err)
	})
}

// blockingEmitter signals when EmitEvent is called and can fail on demand.
type blockingEmitter struct {
	calls  atomic.Int64
	done   chan struct{}
	result error
}

func (e *blockingEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.calls.Add(1)
	close(e.done)
	return e.result
}

func TestAsyncEmitter(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately and delivers in the background", func(t *testing.T) {
		t.Parallel()

		inner := &blockingEmitter{done: make(chan struct{})}
		emitter := NewAsyncEmitter(inner, time.Second, nil)

		require.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent(t)))

		select {
		case <-inner.done:
		case <-time.After(2 * time.Second):
			t.Fatal("background delivery never happened")
		}
		assert.Equal(t, int64(1), inner.calls.Load())
	})

	t.Run("delivery failure never reaches the caller", func(t *testing.T) {
		t.Parallel()

		inner := &blockingEmitter{done: make(chan struct{}), result: errors.New("sink down")}
		emitter := NewAsyncEmitter(inner, time.Second, nil)

		assert.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent(t)))
		<-inner.done
	})

	t.Run("delivery outlives the request context", func(t *testing.T) {
		t.Parallel()

		delivered := make(chan struct{})
		sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(delivered)
			w.WriteHeader(http.StatusOK)
		}))
		defer sink.Close()

		emitter := NewAsyncEmitter(NewHTTPEmitter(sink.URL, time.Second, nil), time.Second, nil)

		// Cancel the triggering context before dispatch; the background
		// delivery uses its own context and still goes through.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, emitter.EmitEvent(ctx, newTestEvent(t)))

		select {
		case <-delivered:
		case <-time.After(2 * time.Second):
			t.Fatal("delivery did not survive context cancellation")
		}
	})
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	event, err := NewEvent(TypeTaskCreated, map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, TypeTaskCreated, event.Type)
	assert.False(t, event.Timestamp.IsZero())
	assert.JSONEq(t, `{"k":"v"}`, string(event.Payload))
}
