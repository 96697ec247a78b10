package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"pretty"`

	// DatabaseURL points at the gateway database. Empty runs the console in demo mode,
	// where the in-memory demo stores are the primary stores.
	DatabaseURL string `env:"DATABASE_URL"`
	MaxDBConns  int32  `env:"MAX_DB_CONNS" envDefault:"16"`

	// RedisURL backs the session store and the activity queue.
	// Empty falls back to an in-process session cache and log-only activity.
	RedisURL string `env:"REDIS_URL"`

	JWTSecret       string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-random-string"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"24"`
	BcryptCost      int    `env:"BCRYPT_COST" envDefault:"10"`

	// IdentityURL is the base URL of the hosted identity service admin API.
	IdentityURL        string `env:"IDENTITY_URL"`
	IdentityServiceKey string `env:"IDENTITY_SERVICE_KEY"`

	GatewayTimeoutSeconds int  `env:"GATEWAY_TIMEOUT_SECONDS" envDefault:"10"`
	DemoFallback          bool `env:"DEMO_FALLBACK" envDefault:"true"`
	DemoLatencyMS         int  `env:"DEMO_LATENCY_MS" envDefault:"500"`

	LoginRatePerMinute  int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"30"`
	IntakeRatePerMinute int `env:"INTAKE_RATE_PER_MINUTE" envDefault:"10"`

	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedOrigins = trimOrigins(cfg.AllowedOrigins)

	if cfg.SessionTTLHours <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", cfg.SessionTTLHours)
	}
	if cfg.GatewayTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT_SECONDS must be positive, got %d", cfg.GatewayTimeoutSeconds)
	}
	return cfg, nil
}

// MustLoad is Load for command-line tools that cannot continue without config.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// ValidateServer checks settings only the API server needs. Outside demo mode
// the user directory must be the real identity service; demo accounts are
// never merged with real profile rows unless reads are degraded.
func (c *Config) ValidateServer() error {
	if !c.DemoMode() && c.IdentityURL == "" {
		return fmt.Errorf("IDENTITY_URL is required when DATABASE_URL is set")
	}
	return nil
}

// DemoMode reports whether no gateway database is configured.
func (c *Config) DemoMode() bool {
	return c.DatabaseURL == ""
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutSeconds) * time.Second
}

func (c *Config) DemoLatency() time.Duration {
	return time.Duration(c.DemoLatencyMS) * time.Millisecond
}

// trimOrigins drops blank entries and surrounding whitespace.
// Returns nil (allow-all) if nothing is left.
func trimOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return nil
	}
	return origins
}
