package config

// Config holds all application configuration.
// Every service binary loads the same struct and reads the sections it needs;
// unused sections are simply left at their defaults.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Gateway      GatewayConfig      `mapstructure:"gateway"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// ServerConfig contains the HTTP server settings shared by all services.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains the token signing settings shared between the identity
// issuer and every service that verifies tokens locally.
type AuthConfig struct {
	// JWTSecret is the HMAC signing secret. It must be identical across the
	// auth, user, and task services; that shared secret is what lets them
	// verify identity without calling each other.
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`

	// TokenLifetimeMinutes is the access token lifetime. Defaults to 60.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gt=0"`

	// BcryptCost controls the work factor for credential hashing.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// DatabaseConfig contains persistence settings for the task and auth services.
// An empty URL selects the volatile in-memory backend.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// GatewayConfig contains the backend locations the edge router forwards to.
type GatewayConfig struct {
	AuthServiceURL string `mapstructure:"auth_service_url" validate:"omitempty,url"`
	UserServiceURL string `mapstructure:"user_service_url" validate:"omitempty,url"`
	TaskServiceURL string `mapstructure:"task_service_url" validate:"omitempty,url"`

	// UpstreamTimeoutSeconds bounds how long the gateway waits for a backend
	// response so a hung backend cannot hold a client connection open.
	UpstreamTimeoutSeconds int `mapstructure:"upstream_timeout_seconds" validate:"gt=0"`
}

// NotificationConfig contains the task service's view of the notification sink.
type NotificationConfig struct {
	SinkURL string `mapstructure:"sink_url" validate:"omitempty,url"`

	// TimeoutSeconds bounds the fire-and-forget delivery attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`
}
