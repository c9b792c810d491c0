package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/config"
)

// echoBackend answers every request with a JSON record of what it received.
func echoBackend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"backend":       name,
			"method":        r.Method,
			"path":          r.URL.Path,
			"authorization": r.Header.Get("Authorization"),
			"body":          string(body),
		})
	}))
}

type echoResponse struct {
	Backend       string `json:"backend"`
	Method        string `json:"method"`
	Path          string `json:"path"`
	Authorization string `json:"authorization"`
	Body          string `json:"body"`
}

func newTestGateway(t *testing.T, cfg config.GatewayConfig) http.Handler {
	t.Helper()
	if cfg.UpstreamTimeoutSeconds == 0 {
		cfg.UpstreamTimeoutSeconds = 5
	}
	table, err := NewRouteTable(cfg)
	require.NoError(t, err)
	return NewRouter(table, cfg, nil)
}

func TestNewRouteTable(t *testing.T) {
	t.Parallel()

	t.Run("builds a route per backend", func(t *testing.T) {
		t.Parallel()
		table, err := NewRouteTable(config.GatewayConfig{
			AuthServiceURL:         "http://localhost:3001",
			UserServiceURL:         "http://localhost:3002",
			TaskServiceURL:         "http://localhost:3003",
			UpstreamTimeoutSeconds: 5,
		})
		require.NoError(t, err)
		require.Len(t, table.Routes, 3)
		assert.Equal(t, "/api/auth", table.Routes[0].Prefix)
		assert.Equal(t, "/api/users", table.Routes[1].Prefix)
		assert.Equal(t, "/api/tasks", table.Routes[2].Prefix)
	})

	t.Run("rejects relative backend URLs", func(t *testing.T) {
		t.Parallel()
		_, err := NewRouteTable(config.GatewayConfig{
			AuthServiceURL: "localhost:3001",
			UserServiceURL: "http://localhost:3002",
			TaskServiceURL: "http://localhost:3003",
		})
		require.Error(t, err)
	})
}

func TestGatewayForwarding(t *testing.T) {
	t.Parallel()

	authBackend := echoBackend(t, "auth")
	t.Cleanup(authBackend.Close)
	userBackend := echoBackend(t, "user")
	t.Cleanup(userBackend.Close)
	taskBackend := echoBackend(t, "task")
	t.Cleanup(taskBackend.Close)

	router := newTestGateway(t, config.GatewayConfig{
		AuthServiceURL: authBackend.URL,
		UserServiceURL: userBackend.URL,
		TaskServiceURL: taskBackend.URL,
	})

	tests := []struct {
		name        string
		method      string
		path        string
		wantBackend string
		wantPath    string
	}{
		{"auth route", http.MethodPost, "/api/auth/login", "auth", "/login"},
		{"user route", http.MethodGet, "/api/users/me", "user", "/me"},
		{"task root", http.MethodGet, "/api/tasks/", "task", "/"},
		{"task subpath", http.MethodDelete, "/api/tasks/abc-123", "task", "/abc-123"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var echo echoResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &echo))
			assert.Equal(t, tc.wantBackend, echo.Backend)
			assert.Equal(t, tc.method, echo.Method)
			// The matched prefix is stripped before forwarding.
			assert.Equal(t, tc.wantPath, echo.Path)
			// The bearer credential passes through untouched.
			assert.Equal(t, "Bearer some-token", echo.Authorization)
		})
	}

	t.Run("request body passes through", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"a@b.co"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var echo echoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &echo))
		assert.JSONEq(t, `{"email":"a@b.co"}`, echo.Body)
	})

	t.Run("unknown prefix answers 404 at the gateway", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/unknown/thing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGatewayUpstreamFailure(t *testing.T) {
	t.Parallel()

	// A backend that is configured but not listening.
	router := newTestGateway(t, config.GatewayConfig{
		AuthServiceURL: "http://127.0.0.1:1",
		UserServiceURL: "http://127.0.0.1:1",
		TaskServiceURL: "http://127.0.0.1:1",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upstream unavailable")
	// The backend address never leaks into the client response.
	assert.NotContains(t, rec.Body.String(), "127.0.0.1")
}

func TestGatewayHealthAnsweredLocally(t *testing.T) {
	t.Parallel()

	router := newTestGateway(t, config.GatewayConfig{
		AuthServiceURL: "http://127.0.0.1:1",
		UserServiceURL: "http://127.0.0.1:1",
		TaskServiceURL: "http://127.0.0.1:1",
	})

	// Health works even with every backend down: the gateway answers it.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "API Gateway is running")
}
