// Package notify implements the notification sink: a passive receiver that
// accepts event payloads over HTTP and hands them to in-process handlers.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskhub-api/internal/events"
)

// Dispatcher fans a received event out to the registered handlers.
//
// The sink has no contract to report processing failures back to the sender,
// so handler errors are logged and dropped; every handler still sees every
// event even when an earlier one fails.
type Dispatcher struct {
	handlers []events.EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher with no handlers registered.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		handlers: make([]events.EventHandler, 0),
		logger:   log.With(slog.String("component", "event_dispatcher")),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (d *Dispatcher) RegisterHandler(handler events.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler)
	d.logger.Debug("registered new event handler", "handler_count", len(d.handlers))
}

// Dispatch delivers the event to all registered handlers.
func (d *Dispatcher) Dispatch(ctx context.Context, event *events.Event) {
	d.mu.RLock()
	handlers := make([]events.EventHandler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	d.logger.Debug("dispatching event",
		"event_type", event.Type,
		"handler_count", len(handlers))

	if len(handlers) == 0 {
		d.logger.Warn("no handlers registered for event", "event_type", event.Type)
		return
	}

	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			d.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_type", event.Type)
		}
	}
}
