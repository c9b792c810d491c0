package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPEmitter delivers events to the notification sink over HTTP.
// The client timeout bounds the delivery attempt; there are no retries and
// no queueing, per the fire-and-forget contract.
type HTTPEmitter struct {
	sinkURL string
	client  *http.Client
	logger  *slog.Logger
}

// Ensure HTTPEmitter implements EventEmitter interface
var _ EventEmitter = (*HTTPEmitter)(nil)

// NewHTTPEmitter creates an emitter that POSTs events to the sink's /events
// endpoint. If timeout is zero a 5 second default is applied.
func NewHTTPEmitter(sinkURL string, timeout time.Duration, logger *slog.Logger) *HTTPEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &HTTPEmitter{
		sinkURL: sinkURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("component", "http_event_emitter")),
	}
}

// EmitEvent implements EventEmitter by POSTing the event as JSON.
// A non-2xx response is reported as an error; the caller decides whether
// that matters (the async decorator swallows it).
func (e *HTTPEmitter) EmitEvent(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.sinkURL+"/events",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver event: %w", err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("event sink responded with status %d", resp.StatusCode)
	}

	e.logger.Debug("event delivered",
		slog.String("event_type", event.Type),
		slog.String("sink_url", e.sinkURL))
	return nil
}

// AsyncEmitter decorates an EventEmitter with fire-and-forget dispatch.
//
// EmitEvent returns immediately; delivery happens on a spawned goroutine
// whose outcome is never awaited. Failures (and panics) at that boundary are
// logged and discarded, never propagated to the triggering operation, so a
// task create is never slowed or failed by sink unavailability.
type AsyncEmitter struct {
	inner   EventEmitter
	timeout time.Duration
	logger  *slog.Logger
}

// Ensure AsyncEmitter implements EventEmitter interface
var _ EventEmitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter wraps the given emitter with asynchronous dispatch.
// The timeout bounds each background delivery; if zero, 5 seconds is used.
func NewAsyncEmitter(inner EventEmitter, timeout time.Duration, logger *slog.Logger) *AsyncEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &AsyncEmitter{
		inner:   inner,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "async_event_emitter")),
	}
}

// EmitEvent implements EventEmitter. It always returns nil: the event MAY be
// dropped, and the emitter makes no attempt to report, retry, or queue.
func (e *AsyncEmitter) EmitEvent(ctx context.Context, event *Event) error {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("panic during event emission",
					"panic", r,
					slog.String("event_type", event.Type))
			}
		}()

		// The request context ends when the triggering handler returns, so
		// the background delivery gets its own bounded context.
		emitCtx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()

		if err := e.inner.EmitEvent(emitCtx, event); err != nil {
			e.logger.Warn("event emission failed",
				"error", err,
				slog.String("event_type", event.Type))
		}
	}()

	return nil
}
