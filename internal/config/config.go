// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service. Only this struct
// should be consulted for configuration; no direct env access elsewhere.
type Config struct {
	ListenAddr string `env:"HTTP_LISTEN_ADDR,default=:8080"`
	DBPath     string `env:"DB_PATH,default=./data/balancer.db"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`

	// JWTSecret signs session tokens. Required; there is no safe default.
	JWTSecret string `env:"JWT_SECRET"`

	// JWTTTLHours is how long issued tokens stay valid.
	JWTTTLHours int `env:"JWT_TTL_HOURS,default=24"`
}

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.JWTTTLHours <= 0 {
		return nil, fmt.Errorf("JWT_TTL_HOURS must be positive, got %d", cfg.JWTTTLHours)
	}

	return &cfg, nil
}
