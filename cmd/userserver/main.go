// Package main implements the profile service: a soft-authenticated view of
// the caller's own identity, derived entirely from verified token claims.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/taskhub-api/internal/api"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
)

const defaultPort = 3002

func main() {
	if err := run(); err != nil {
		log.Fatalf("userserver: %v", err)
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

	logg, err := logger.Setup(cfg.Server, "userserver")
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}

	router := api.NewUserRouter(jwtService)

	return httpserver.Run(context.Background(), logg, cfg.Server.Port, router)
}
