package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, loaded from the environment.
// Bank identity codes are injected here rather than read ad hoc so the
// account components never touch process-wide state.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"bankledger"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"1h"`

	BankCode   string `envconfig:"BANK_CODE" default:"1345"`
	BranchCode string `envconfig:"BRANCH_CODE" default:"BR123"`
	BankName   string `envconfig:"BANK_NAME" default:"Bank Ledger"`
}

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Warn("Failed to process environment config, using defaults", "error", err)
	}
	return &cfg
}

// GetDBConnectionString builds the Postgres connection string.
func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
