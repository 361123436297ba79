// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/taibuivan/springfield/internal/app"
	"github.com/taibuivan/springfield/internal/platform/config"
	"github.com/taibuivan/springfield/internal/platform/migration"
)

// Runner holds the console and implements each command action.
type Runner struct {
	console *log.Logger
}

// postgresConfig loads the configuration and insists on the postgres driver;
// the memory driver has nothing to migrate or seed outside the server process.
func (r *Runner) postgresConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StoreDriver != config.DriverPostgres {
		return nil, errors.New("catalogctl: STORE_DRIVER=postgres is required")
	}
	return cfg, nil
}

// logger routes the components' structured logs to the console.
func (r *Runner) logger() *slog.Logger {
	return slog.New(r.console)
}

// Seed wires the application against PostgreSQL and loads the dataset.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.postgresConfig()
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, r.logger())
	if err != nil {
		return err
	}
	defer application.Close()

	summary, err := application.Seed(ctx)
	if err != nil {
		return err
	}

	if summary.Skipped {
		r.console.Warn("catalog already populated, nothing loaded")
		return nil
	}
	r.console.Info("dataset loaded",
		"users", summary.Users,
		"characters", summary.Characters,
		"episodes", summary.Episodes,
		"news", summary.News,
	)
	return nil
}

// MigrateUp applies pending migrations.
func (r *Runner) MigrateUp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.postgresConfig()
	if err != nil {
		return err
	}
	return migration.RunUp(cfg.DatabaseURL, app.MigrationSource(cfg), r.logger())
}

// MigrateDown rolls back --steps migrations.
func (r *Runner) MigrateDown(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.postgresConfig()
	if err != nil {
		return err
	}
	return migration.RunDown(cfg.DatabaseURL, app.MigrationSource(cfg), cmd.Int("steps"), r.logger())
}
