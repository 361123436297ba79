// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file,
when present, is loaded first with 'joho/godotenv'; real environment variables
always win over it.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Store Drivers

const (
	// DriverMemory keeps every entity in process memory.
	DriverMemory = "memory"

	// DriverPostgres persists entities in PostgreSQL.
	DriverPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the Springfield API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreDriver selects the entity store backend (memory | postgres).
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`

	// Relational Database (PostgreSQL), required by the postgres driver
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value store (Redis). When set, view counters are buffered there.
	RedisURL          string        `env:"REDIS_URL"`
	RedisPoolSize     int           `env:"REDIS_POOL_SIZE"     envDefault:"10"`
	ViewFlushInterval time.Duration `env:"VIEW_FLUSH_INTERVAL" envDefault:"10s"`

	// RSA key pair for access tokens, required outside development
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`

	// Local image uploads
	UploadDir     string `env:"UPLOAD_DIR"      envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/uploads"`

	// SeedOnStart loads the embedded dataset into an empty memory store.
	SeedOnStart bool `env:"SEED_ON_START" envDefault:"false"`

	// Cross-Origin Resource Sharing (suffix match, e.g. "springfield.app")
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
}

// # Configuration Loading

// Load reads an optional .env file, then parses environment variables into a
// [Config] struct and checks the cross-field rules.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	return Parse()
}

// Parse maps the current environment onto a [Config] without touching .env.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the rules that span several fields.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
		if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return errors.New("config: DB_MAX_CONNS must be positive and DB_MIN_CONNS at most DB_MAX_CONNS")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if !c.IsDevelopment() && (c.JWTPrivKeyPath == "" || c.JWTPubKeyPath == "") {
		return errors.New("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH are required outside development")
	}

	if c.SeedOnStart && c.StoreDriver != DriverMemory {
		return errors.New("config: SEED_ON_START only applies to STORE_DRIVER=memory")
	}

	if c.RedisURL != "" && c.RedisPoolSize < 1 {
		return errors.New("config: REDIS_POOL_SIZE must be positive")
	}

	if c.ViewFlushInterval <= 0 {
		return errors.New("config: VIEW_FLUSH_INTERVAL must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOriginSuffix returns the CORS origin suffix accepted outside development.
func (c *Config) AllowedOriginSuffix() string {
	return c.AllowedOrigin
}
