package database

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Supported values for Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver        string `env:"DB_DRIVER" envDefault:"postgres"`
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          string `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER" envDefault:"expenses"`
	Password      string `env:"DB_PASSWORD" envDefault:"expenses"`
	DBName        string `env:"DB_NAME" envDefault:"expenses"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	Path          string `env:"DB_PATH" envDefault:"expenses.db"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"file://migrations"`
}

// NewConfig creates a new database configuration from the environment.
// The .env file, if any, is loaded by config.Load beforehand.
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse database configuration: %w", err)
	}
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use %s or %s)", cfg.Driver, DriverPostgres, DriverSQLite)
	}
	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		return SQLiteDSN(c.Path)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the golang-migrate database URL. Only PostgreSQL is
// migrated from SQL files; SQLite schemas come from AutoMigrate.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// SQLiteDSN builds a go-sqlite3 DSN with foreign key enforcement turned on.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}
