// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Springfield HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration (.env, then environment variables).
//  2. Initialize the structured logger.
//  3. Wire the application (stores, Redis view buffers, services, router).
//  4. Seed the memory store when SEED_ON_START is set.
//  5. Serve until SIGINT/SIGTERM, then shut down gracefully.
//
// No business logic lives here.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/springfield/internal/app"
	"github.com/taibuivan/springfield/internal/platform/config"
	"github.com/taibuivan/springfield/internal/platform/logging"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log := logging.New(logging.Options{Development: cfg.IsDevelopment(), Debug: cfg.Debug})
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Wiring ─────────────────────────────────────────────────────────
	// A deadline so misconfigured infrastructure fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	application, err := app.New(startupCtx, cfg, log)
	must(log, err, "wire application")
	defer application.Close()

	// ── 4. Seed ───────────────────────────────────────────────────────────
	if cfg.SeedOnStart {
		_, err := application.Seed(startupCtx)
		must(log, err, "seed dataset")
	}
	startupCancel()

	// ── 5. Serve ──────────────────────────────────────────────────────────
	if err := application.Run(ctx); err != nil {
		log.Error("server_failed", slog.Any("error", err))
		application.Close()
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
