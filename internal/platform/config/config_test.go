// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/config"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10*time.Second, cfg.ViewFlushInterval)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestValidate covers the cross-field rules.
*/
func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Environment:       "development",
			StoreDriver:       config.DriverMemory,
			ViewFlushInterval: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"memory_ok", func(*config.Config) {}, false},
		{"postgres_without_url", func(c *config.Config) { c.StoreDriver = config.DriverPostgres }, true},
		{"postgres_with_url", func(c *config.Config) {
			c.StoreDriver = config.DriverPostgres
			c.DatabaseURL = "postgres://localhost/springfield"
			c.DBMaxConns = 10
		}, false},
		{"postgres_min_above_max", func(c *config.Config) {
			c.StoreDriver = config.DriverPostgres
			c.DatabaseURL = "postgres://localhost/springfield"
			c.DBMaxConns, c.DBMinConns = 4, 8
		}, true},
		{"redis_without_pool", func(c *config.Config) { c.RedisURL = "redis://localhost:6379/0" }, true},
		{"unknown_driver", func(c *config.Config) { c.StoreDriver = "mongo" }, true},
		{"production_without_keys", func(c *config.Config) { c.Environment = "production" }, true},
		{"seed_with_postgres", func(c *config.Config) {
			c.StoreDriver = config.DriverPostgres
			c.DatabaseURL = "postgres://localhost/springfield"
			c.DBMaxConns = 10
			c.SeedOnStart = true
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
