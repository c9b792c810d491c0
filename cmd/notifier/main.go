// Package main implements the notification sink: a passive receiver of
// event payloads with no dependency on the rest of the system.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/notify"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
)

const defaultPort = 3004

func main() {
	if err := run(); err != nil {
		log.Fatalf("notifier: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(defaultPort)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.Setup(cfg.Server, "notifier")
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	dispatcher := notify.NewDispatcher(logg)
	dispatcher.RegisterHandler(notify.NewEmailNotifier(logg))

	router := notify.NewRouter(dispatcher, logg)

	return httpserver.Run(context.Background(), logg, cfg.Server.Port, router)
}
