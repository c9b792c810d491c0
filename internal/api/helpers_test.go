package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
)

// discardLogger silences handler logging in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) recorded() []*events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*events.Event, len(e.events))
	copy(out, e.events)
	return out
}

// issueToken generates a token for the given identity using the shared test
// JWT service configuration.
func issueToken(t *testing.T, svc auth.JWTService, id uuid.UUID, email, name string) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), &domain.User{
		ID:             id,
		Email:          email,
		Name:           name,
		HashedPassword: "irrelevant",
	})
	require.NoError(t, err)
	return token
}

// expiredToken generates a token whose expiry is already hours in the past.
func expiredToken(t *testing.T, id uuid.UUID) string {
	t.Helper()
	cfg := auth.DefaultJWTConfig()
	svc := auth.NewTestJWTService(cfg.JWTSecret, time.Hour, func() time.Time {
		return time.Now().Add(-4 * time.Hour)
	})
	return issueToken(t, svc, id, "expired@example.com", "Expired")
}

// issueTokenWithSecret generates a token signed with an arbitrary secret,
// used to exercise signature rejection.
func issueTokenWithSecret(t *testing.T, secret string, id uuid.UUID) string {
	t.Helper()
	svc := auth.NewTestJWTService(secret, time.Hour, time.Now)
	return issueToken(t, svc, id, "other@example.com", "Other")
}

// httptestRequest builds a request carrying a raw Authorization header value.
func httptestRequest(t *testing.T, method, path, authHeader string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

// serve runs the request through the handler and returns the recorder.
func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// doJSON performs a request with an optional JSON body and bearer token
// against the handler and returns the recorder.
func doJSON(
	t *testing.T,
	handler http.Handler,
	method, path, token string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorded response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
