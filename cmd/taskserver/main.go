// Package main implements the task service: owner-scoped task CRUD with a
// fire-and-forget TASK_CREATED signal to the notification sink.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/phrazzld/taskhub-api/internal/api"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/events"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/platform/memory"
	"github.com/phrazzld/taskhub-api/internal/platform/postgres"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
	"github.com/phrazzld/taskhub-api/internal/store"
)

const defaultPort = 3003

func main() {
	if err := run(); err != nil {
		log.Fatalf("taskserver: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(defaultPort)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	logg, err := logger.Setup(cfg.Server, "taskserver")
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	// Tokens are verified locally against the shared secret; the task
	// service never calls the issuer.
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}

	ctx := context.Background()

	var taskStore store.TaskStore
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		taskStore = postgres.NewTaskStore(db, logg)
		logg.Info("using postgres task store")
	} else {
		taskStore = memory.NewTaskStore()
		logg.Info("using in-memory task store")
	}

	emitTimeout := time.Duration(cfg.Notification.TimeoutSeconds) * time.Second
	emitter := events.NewAsyncEmitter(
		events.NewHTTPEmitter(cfg.Notification.SinkURL, emitTimeout, logg),
		emitTimeout,
		logg,
	)

	var router http.Handler = api.NewTaskRouter(taskStore, jwtService, emitter, logg)

	return httpserver.Run(ctx, logg, cfg.Server.Port, router)
}
