package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// baseRouter creates a chi router with the middleware common to every
// service: request ID, real IP, panic recovery, and trace IDs. Recoverer is
// the outermost request boundary that turns unexpected faults into a generic
// 500 without leaking internals.
func baseRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	return r
}

// healthHandler answers the unauthenticated health probe.
func healthHandler(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondHealth(w, r, status)
	}
}

// NewAuthRouter builds the identity issuer's router.
func NewAuthRouter(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
) http.Handler {
	handler := NewAuthHandler(userStore, jwtService, hasher, verifier)

	r := baseRouter()
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/verify", handler.Verify)
	r.Get("/health", healthHandler("Auth Service is running"))
	return r
}

// NewTaskRouter builds the task service's router. Every route except the
// health probe sits behind the strict auth gate.
func NewTaskRouter(
	taskStore store.TaskStore,
	jwtService auth.JWTService,
	emitter events.EventEmitter,
	log *slog.Logger,
) http.Handler {
	handler := NewTaskHandler(taskStore, emitter, log)
	gate := apimiddleware.NewAuthMiddleware(jwtService)

	r := baseRouter()
	r.Get("/health", healthHandler("Task Service is running"))

	r.Group(func(r chi.Router) {
		r.Use(gate.Authenticate)
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})
	return r
}

// NewUserRouter builds the profile service's router behind the soft auth
// gate.
func NewUserRouter(jwtService auth.JWTService) http.Handler {
	handler := NewUserHandler()
	gate := apimiddleware.NewAuthMiddleware(jwtService)

	r := baseRouter()
	r.Use(gate.AttachIdentity)
	r.Get("/health", healthHandler("User Service is running"))
	r.Get("/me", handler.Me)
	r.Get("/{id}", handler.GetByID)
	return r
}
