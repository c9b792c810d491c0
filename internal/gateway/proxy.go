// Package gateway implements the edge router: the single public entry point
// that forwards requests to the internal services by path prefix.
package gateway

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskhub-api/internal/api"
	apimiddleware "github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/redact"
)

// Route maps a public path prefix to a backend location. The matched prefix
// is stripped before forwarding; everything else about the request (method,
// headers including the bearer credential, body) is passed through verbatim.
type Route struct {
	Prefix string
	Target *url.URL
}

// RouteTable is the gateway's complete, immutable routing configuration.
// It is built once at startup and never mutated; there is no hidden global
// state to reconfigure at runtime.
type RouteTable struct {
	Routes []Route
}

// NewRouteTable builds the routing table from gateway configuration.
func NewRouteTable(cfg config.GatewayConfig) (*RouteTable, error) {
	entries := []struct {
		prefix string
		rawURL string
	}{
		{"/api/auth", cfg.AuthServiceURL},
		{"/api/users", cfg.UserServiceURL},
		{"/api/tasks", cfg.TaskServiceURL},
	}

	table := &RouteTable{Routes: make([]Route, 0, len(entries))}
	for _, e := range entries {
		target, err := url.Parse(e.rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid backend URL for %s: %w", e.prefix, err)
		}
		if target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("backend URL for %s must be absolute", e.prefix)
		}
		table.Routes = append(table.Routes, Route{Prefix: e.prefix, Target: target})
	}
	return table, nil
}

// NewRouter builds the gateway's HTTP handler from the route table.
//
// The gateway is a pure forwarding layer: no token rewriting, no caching, no
// retries. Authorization is entirely the backends' concern. Timeouts bound
// each hop so a hung backend cannot hold a client connection indefinitely.
func NewRouter(table *RouteTable, cfg config.GatewayConfig, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "gateway"))

	upstreamTimeout := time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second
	if upstreamTimeout <= 0 {
		upstreamTimeout = 10 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 5 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: upstreamTimeout,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	for _, route := range table.Routes {
		r.Mount(route.Prefix, http.StripPrefix(route.Prefix, newProxy(route, transport, log)))
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		api.RespondHealth(w, req, "API Gateway is running")
	})

	return r
}

// newProxy builds the reverse proxy for a single route.
func newProxy(route Route, transport http.RoundTripper, log *slog.Logger) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(route.Target)
			pr.SetXForwarded()
			pr.Out.Host = route.Target.Host
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			// The backend location and the transport error stay in the logs;
			// the client sees only a generic upstream failure.
			log.Error("upstream request failed",
				slog.String("prefix", route.Prefix),
				slog.String("method", req.Method),
				slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, req, http.StatusBadGateway, "Upstream unavailable")
		},
	}
}
