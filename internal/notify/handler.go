package notify

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskhub-api/internal/api"
	apimiddleware "github.com/phrazzld/taskhub-api/internal/api/middleware"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/events"
)

// Handler is the sink's HTTP surface.
type Handler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a handler that feeds received events to the dispatcher.
func NewHandler(dispatcher *Dispatcher, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		dispatcher: dispatcher,
		logger:     log.With(slog.String("component", "notify_handler")),
	}
}

// ReceiveEvent handles POST /events requests.
//
// The sink always acknowledges well-formed JSON with a 200; there is no
// contract for reporting processing failures back to the emitter, and the
// emitter would not act on one anyway.
func (h *Handler) ReceiveEvent(w http.ResponseWriter, r *http.Request) {
	var event events.Event
	if err := shared.DecodeJSON(r, &event); err != nil {
		// Malformed payloads are still not the sender's problem to retry.
		h.logger.Warn("received malformed event payload", "error", err)
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	h.logger.Info("received event",
		"event_type", event.Type,
		"timestamp", event.Timestamp)

	h.dispatcher.Dispatch(r.Context(), &event)

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "received"})
}

// NewRouter builds the notification sink's router.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) http.Handler {
	handler := NewHandler(dispatcher, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	r.Post("/events", handler.ReceiveEvent)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.RespondHealth(w, r, "Notification Service is running")
	})
	return r
}
