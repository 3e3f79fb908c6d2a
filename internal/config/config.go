package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string `env:"PORT" env-default:"8080"`
	DatabaseURL            string `env:"DATABASE_URL"`
	JWTSecret              string `env:"JWT_SECRET"`
	CORSOrigin             string `env:"CORS_ORIGIN" env-default:"*"`
	Env                    string `env:"ENV" env-default:"dev"`
	RateLimitMax           int    `env:"RATE_LIMIT_MAX" env-default:"60"`
	RateLimitWindowSeconds int    `env:"RATE_LIMIT_WINDOW_SECONDS" env-default:"60"`
}

// Load reads configuration from the environment, after loading a local .env
// file when one is present. Missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("invalid rate limit max %d: must be positive", c.RateLimitMax)
	}
	if c.RateLimitWindowSeconds <= 0 {
		return fmt.Errorf("invalid rate limit window %d: must be positive", c.RateLimitWindowSeconds)
	}
	return nil
}
