package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Phurinon/Project-SE-T14-sub000/pkg/config"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the shop directory API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"shopdir"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"shopdir_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"shopdir"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka. Leave brokers empty to disable event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	// Air quality provider
	AirQualityBaseURL string        `env:"AIR_QUALITY_BASE_URL" envDefault:"https://api.waqi.info"`
	AirQualityToken   string        `env:"AIR_QUALITY_TOKEN" envDefault:""`
	AirQualityFresh   time.Duration `env:"AIR_QUALITY_FRESH_TTL" envDefault:"10m"`
	AirQualityStale   time.Duration `env:"AIR_QUALITY_STALE_TTL" envDefault:"6h"`

	// Image storage. Leave the base URL empty to keep uploads in memory.
	StorageBaseURL    string `env:"STORAGE_BASE_URL" envDefault:""`
	StoragePrivateKey string `env:"STORAGE_PRIVATE_KEY" envDefault:""`
	StorageFolder     string `env:"STORAGE_FOLDER" envDefault:"shopdir"`

	// OAuth identity provider. Leave the token URL empty to disable
	// federated login.
	OAuthProviderName string `env:"OAUTH_PROVIDER_NAME" envDefault:"google"`
	OAuthTokenURL     string `env:"OAUTH_TOKEN_URL" envDefault:""`
	OAuthUserInfoURL  string `env:"OAUTH_USERINFO_URL" envDefault:""`
	OAuthClientID     string `env:"OAUTH_CLIENT_ID" envDefault:""`
	OAuthClientSecret string `env:"OAUTH_CLIENT_SECRET" envDefault:""`
	OAuthRedirectURL  string `env:"OAUTH_REDIRECT_URL" envDefault:""`

	// Tracing
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:""`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
