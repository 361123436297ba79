// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool and the
// predicate compiler shared by the catalog repositories.
//
// # Architecture
//
// This package is part of the Infrastructure layer. Domain packages describe
// their columns with [Columns] and hand a [query.Spec] to [Compile]; the
// resulting SQL fragments are always parameterized.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/springfield/internal/platform/constants"
)

const (
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
)

// PoolOptions sizes the pool. Zero values keep the pgx defaults.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

/*
NewPool opens the pool and waits for the first successful ping.

Description: Every session is tagged with the service name and bounded by a
statement timeout equal to the request deadline, so a query can never outlive
the request that issued it.

Parameters:
  - context: bounds the connection attempt
  - dsn: postgres:// URL or key/value connection string
  - options: PoolOptions
  - logger: *slog.Logger

Returns:
  - *pgxpool.Pool: a pool that answered a ping
  - error: invalid DSN or unreachable server
*/
func NewPool(context context.Context, dsn string, options PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}
	tune(poolConfig, options)

	pool, err := pgxpool.NewWithConfig(context, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(context, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return pool, nil
}

func tune(poolConfig *pgxpool.Config, options PoolOptions) {
	if options.MaxConns > 0 {
		poolConfig.MaxConns = options.MaxConns
	}
	if options.MinConns > 0 && options.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = options.MinConns
	}

	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Sent in the startup packet, no extra round trip per connection
	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = constants.AppName
	params["statement_timeout"] = strconv.FormatInt(constants.GlobalRequestTimeout.Milliseconds(), 10)
}

// Ping checks the pool with a short deadline of its own.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}

// Checker adapts [Ping] to the readiness probe signature.
func Checker(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error { return Ping(ctx, pool) }
}
