package auth

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskhub-api/internal/config"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication
// suitable for testing. This is the single source of truth for JWT test config.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long", // At least 32 chars
		TokenLifetimeMinutes: 60,
		BcryptCost:           4, // Minimum cost keeps test hashing fast
	}
}

// NewTestJWTService creates a JWT service with an injectable time function,
// letting tests move the clock past token expiry deterministically.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     2 * time.Minute,
	}
}

// MustCreateTestJWTService creates a test JWT service and panics if it fails.
// Useful for test setup where error handling would be verbose.
func MustCreateTestJWTService() JWTService {
	service, err := NewJWTService(DefaultJWTConfig())
	if err != nil {
		// ALLOW-PANIC
		panic(fmt.Sprintf("failed to create test JWT service: %v", err))
	}
	return service
}
