// Package config defines and loads the application configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables with the TASKHUB_
// prefix (e.g. TASKHUB_SERVER_PORT, TASKHUB_AUTH_JWT_SECRET) layered over
// built-in defaults. Returns a populated Config or an error if loading or
// validation fails.
func Load(defaultPort int) (*Config, error) {
	v := viper.New()

	// Defaults. Service binaries pass their conventional port.
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("gateway.auth_service_url", "http://localhost:3001")
	v.SetDefault("gateway.user_service_url", "http://localhost:3002")
	v.SetDefault("gateway.task_service_url", "http://localhost:3003")
	v.SetDefault("gateway.upstream_timeout_seconds", 10)
	v.SetDefault("notification.sink_url", "http://localhost:3004")
	v.SetDefault("notification.timeout_seconds", 5)

	v.SetEnvPrefix("TASKHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so bind each known key explicitly.
	for _, key := range []string{
		"server.port", "server.log_level",
		"auth.jwt_secret", "auth.token_lifetime_minutes", "auth.bcrypt_cost",
		"database.url",
		"gateway.auth_service_url", "gateway.user_service_url",
		"gateway.task_service_url", "gateway.upstream_timeout_seconds",
		"notification.sink_url", "notification.timeout_seconds",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// RequireJWTSecret fails loading for services that cannot run without the
// shared signing secret (the issuer and every local verifier).
func (c *Config) RequireJWTSecret() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (set TASKHUB_AUTH_JWT_SECRET)")
	}
	return nil
}
