// Package main implements the identity issuer: it owns account records and
// issues the signed tokens every other service verifies locally.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/phrazzld/taskhub-api/internal/api"
	"github.com/phrazzld/taskhub-api/internal/config"
	"github.com/phrazzld/taskhub-api/internal/platform/httpserver"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/platform/memory"
	"github.com/phrazzld/taskhub-api/internal/platform/postgres"
	"github.com/phrazzld/taskhub-api/internal/service/auth"
	"github.com/phrazzld/taskhub-api/internal/store"
)

const defaultPort = 3001

func main() {
	if err := run(); err != nil {
		log.Fatalf("authserver: %v", err)
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

	logg, err := logger.Setup(cfg.Server, "authserver")
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}

	ctx := context.Background()

	var userStore store.UserStore
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		userStore = postgres.NewUserStore(db, logg)
		logg.Info("using postgres user store")
	} else {
		userStore = memory.NewUserStore()
		logg.Info("using in-memory user store")
	}

	var router http.Handler = api.NewAuthRouter(
		userStore,
		jwtService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
	)

	return httpserver.Run(ctx, logg, cfg.Server.Port, router)
}
