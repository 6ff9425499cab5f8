// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend names accepted by STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config contains server configuration parameters.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"novacart.db"`
	Redis        Redis  `envPrefix:"REDIS_"`
	Session      Session
	// Default to secure cookies; disable only for local development.
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CartDurable  bool          `env:"CART_DURABLE" envDefault:"false"`
	IdleTimeout  time.Duration `env:"WORKSPACE_IDLE" envDefault:"30m"`
	SignInRate   float64       `env:"SIGNIN_RATE" envDefault:"0.2"`
	SignInBurst  float64       `env:"SIGNIN_BURST" envDefault:"5"`
}

// Redis contains connection parameters for the redis substrate backend.
type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Session contains parameters for session markers and account secrets.
type Session struct {
	Secret     string        `env:"SESSION_SECRET,required"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.Session.BcryptCost < 4 || c.Session.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.Session.BcryptCost)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	switch c.StoreBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("WORKSPACE_IDLE must be positive")
	}
	if c.SignInRate <= 0 || c.SignInBurst < 1 {
		return fmt.Errorf("SIGNIN_RATE must be positive and SIGNIN_BURST at least 1")
	}
	return nil
}
