// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"expensetracker/internal/normalize"
)

// DefaultCategory is the canonical category every user is created with.
type DefaultCategory struct {
	Name        string `env:"DEFAULT_CATEGORY_NAME" envDefault:"Uncategorized"`
	Description string `env:"DEFAULT_CATEGORY_DESCRIPTION" envDefault:"All your uncategorized expenses"`
	Tag         string `env:"DEFAULT_CATEGORY_TAG" envDefault:"Black"`
}

// Config holds application configuration
type Config struct {
	// Server
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"fallback-secret-key-for-dev-only"`
	JWTExpirationDur time.Duration `env:"JWT_EXPIRES_IN" envDefault:"30m"`

	DefaultCategory DefaultCategory
}

var (
	appConfig *Config
	mu        sync.Mutex
)

// Load loads configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	appConfig = cfg
	mu.Unlock()
	return cfg, nil
}

// Parse reads the configuration from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.JWTExpirationDur <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", cfg.JWTExpirationDur)
	}
	if _, err := normalize.Required(normalize.CategoryName, cfg.DefaultCategory.Name); err != nil {
		return nil, fmt.Errorf("DEFAULT_CATEGORY_NAME %q is invalid: %w", cfg.DefaultCategory.Name, err)
	}
	return cfg, nil
}

// Get returns the application configuration
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if appConfig == nil {
		cfg, err := Parse()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		appConfig = cfg
	}
	return appConfig
}

// Set replaces the process-wide configuration. Intended for tests and for
// binaries that build their configuration by other means.
func Set(cfg *Config) {
	mu.Lock()
	appConfig = cfg
	mu.Unlock()
}
