// Package main implements the edge router: the single public entry point
// that forwards requests to the internal services by path prefix.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/gateway"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
)

const defaultPort = 8080

func main() {
	if err := run(); err != nil {
		log.Fatalf("gateway: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(defaultPort)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.Setup(cfg.Server, "gateway")
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	table, err := gateway.NewRouteTable(cfg.Gateway)
	if err != nil {
		return fmt.Errorf("failed to build route table: %w", err)
	}

	logg.Info("routing table configured",
		"auth", cfg.Gateway.AuthServiceURL,
		"users", cfg.Gateway.UserServiceURL,
		"tasks", cfg.Gateway.TaskServiceURL)

	router := gateway.NewRouter(table, cfg.Gateway, logg)

	return httpserver.Run(context.Background(), logg, cfg.Server.Port, router)
}
