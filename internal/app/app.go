// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app is the composition root of the Springfield API.

It opens the infrastructure the configuration asks for (PostgreSQL, Redis,
the upload directory), builds every domain service on top of the selected
store driver and exposes the resulting router. Commands only decide when to
seed, serve and close.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/springfield/data/migrations"
	"github.com/taibuivan/springfield/internal/api"
	"github.com/taibuivan/springfield/internal/core/character"
	"github.com/taibuivan/springfield/internal/core/episode"
	"github.com/taibuivan/springfield/internal/core/news"
	"github.com/taibuivan/springfield/internal/core/stats"
	"github.com/taibuivan/springfield/internal/media"
	"github.com/taibuivan/springfield/internal/platform/config"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/migration"
	pgstore "github.com/taibuivan/springfield/internal/platform/postgres"
	redisstore "github.com/taibuivan/springfield/internal/platform/redis"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/internal/platform/views"
	"github.com/taibuivan/springfield/internal/seed"
	"github.com/taibuivan/springfield/internal/users/account"
	"github.com/taibuivan/springfield/internal/users/auth"
)

// # Stores

// Stores bundles one repository per entity, all from the same driver.
type Stores struct {
	Characters character.Repository
	Episodes   episode.Repository
	News       news.Repository
	Users      auth.UserRepository
}

// MigrationSource returns the embedded migrations, or the configured
// directory when MIGRATION_PATH is set.
func MigrationSource(cfg *config.Config) migration.Source {
	return migration.Source{Path: cfg.MigrationPath, FS: migrations.FS}
}

// # Application

// App holds the wired services and the resources to release on Close.
type App struct {
	config  *config.Config
	logger  *slog.Logger
	server  *api.Server
	seeder  *seed.Seeder
	buffers []*views.Buffered
	closers []func()
}

/*
New opens the configured infrastructure and wires every component.

Description: With STORE_DRIVER=postgres the pool is opened and pending
migrations are applied before any repository is built. With REDIS_URL set,
view counters are buffered in Redis and flushed by [App.Run]; otherwise they
hit the store directly.

Parameters:
  - context: context.Context (bounds startup and the rate limiter janitor)
  - cfg: *config.Config
  - logger: *slog.Logger

Returns:
  - *App: ready to seed and serve
  - error: the first infrastructure failure; anything already opened is closed
*/
func New(context context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	app := &App{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	health := api.HealthDependencies{}

	stores, err := app.openStores(context, &health)
	if err != nil {
		return nil, err
	}

	episodeViews, newsViews, err := app.recorders(context, stores, &health)
	if err != nil {
		return nil, err
	}

	tokens, err := tokenService(cfg)
	if err != nil {
		return nil, err
	}

	storage, err := media.NewDiskStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	// # Domain Wiring
	episodeService := episode.NewService(stores.Episodes, stores.Characters, episodeViews, logger)
	characterService := character.NewService(stores.Characters, episodeService, logger)
	authService := auth.NewService(stores.Users, tokens, logger)
	newsService := news.NewService(stores.News, episodeService, stores.Characters, authService, newsViews, logger)
	statsService := stats.NewService(stores.Episodes, stores.Characters, stores.News, stores.Users, logger)
	accountService := account.NewService(stores.Users, logger)
	mediaService := media.NewService(storage, cfg.UploadBaseURL, logger)

	app.seeder = seed.NewSeeder(seed.Targets{
		Users:        stores.Users,
		Characters:   characterService,
		Episodes:     episodeService,
		News:         newsService,
		EpisodeViews: stores.Episodes,
		NewsViews:    stores.News,
	}, logger)

	liveness, readiness := api.NewHealthHandlers(health, logger)

	app.server = api.NewServer(context, cfg, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Character: character.NewHandler(characterService),
		Episode:   episode.NewHandler(episodeService),
		News:      news.NewHandler(newsService),
		Stats:     stats.NewHandler(statsService),
		Media:     media.NewHandler(mediaService),
		Uploads:   http.FileServer(http.Dir(cfg.UploadDir)),
	})

	logger.Info("app_wired",
		slog.String("store_driver", cfg.StoreDriver),
		slog.Bool("buffered_views", len(app.buffers) > 0),
	)
	return app, nil
}

func (app *App) openStores(ctx context.Context, health *api.HealthDependencies) (Stores, error) {
	if app.config.StoreDriver != config.DriverPostgres {
		return Stores{
			Characters: character.NewMemoryRepository(),
			Episodes:   episode.NewMemoryRepository(),
			News:       news.NewMemoryRepository(),
			Users:      auth.NewMemoryUserRepository(),
		}, nil
	}

	pool, err := pgstore.NewPool(ctx, app.config.DatabaseURL, pgstore.PoolOptions{
		MaxConns: app.config.DBMaxConns,
		MinConns: app.config.DBMinConns,
	}, app.logger)
	if err != nil {
		return Stores{}, err
	}
	app.closers = append(app.closers, pool.Close)

	if err := migration.RunUp(app.config.DatabaseURL, MigrationSource(app.config), app.logger); err != nil {
		return Stores{}, err
	}

	health.CheckDatabase = pgstore.Checker(pool)

	return Stores{
		Characters: character.NewPostgresRepository(pool),
		Episodes:   episode.NewPostgresRepository(pool),
		News:       news.NewPostgresRepository(pool),
		Users:      auth.NewPostgresUserRepository(pool),
	}, nil
}

func (app *App) recorders(ctx context.Context, stores Stores, health *api.HealthDependencies) (views.Recorder, views.Recorder, error) {
	if app.config.RedisURL == "" {
		return views.NewDirect("episode", stores.Episodes, app.logger),
			views.NewDirect("news", stores.News, app.logger), nil
	}

	client, err := redisstore.NewClient(ctx, app.config.RedisURL, app.config.RedisPoolSize, app.logger)
	if err != nil {
		return nil, nil, err
	}
	app.closers = append(app.closers, func() {
		if err := client.Close(); err != nil {
			app.logger.Error("redis_close_failed", slog.Any("error", err))
		}
	})

	health.CheckCache = redisstore.Checker(client)

	episodeViews := views.NewBuffered("episode", views.NewRedisCounters(client, "episode"), stores.Episodes, app.logger)
	newsViews := views.NewBuffered("news", views.NewRedisCounters(client, "news"), stores.News, app.logger)
	app.buffers = append(app.buffers, episodeViews, newsViews)
	return episodeViews, newsViews, nil
}

// tokenService signs with the configured key pair, or with a throwaway key in
// development when none is configured.
func tokenService(cfg *config.Config) (*sec.TokenService, error) {
	if cfg.JWTPrivKeyPath == "" && cfg.IsDevelopment() {
		return sec.NewEphemeralTokenService(constants.AuthIssuer)
	}
	return sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
}

// # Lifecycle

// Handler returns the HTTP router.
func (app *App) Handler() http.Handler {
	return app.server.Handler()
}

// Seed loads the embedded dataset unless the catalog is already populated.
func (app *App) Seed(context context.Context) (seed.Summary, error) {
	dataset, err := seed.Load()
	if err != nil {
		return seed.Summary{}, err
	}
	return app.seeder.Run(context, dataset)
}

/*
Run serves HTTP and flushes buffered views until the context is cancelled.

Description: Cancellation triggers a graceful shutdown bounded by
[constants.ShutdownTimeout]; the view buffers flush one last time on the
way out.
*/
func (app *App) Run(ctx context.Context) error {
	group, groupContext := errgroup.WithContext(ctx)

	for _, buffer := range app.buffers {
		group.Go(func() error {
			buffer.Run(groupContext, app.config.ViewFlushInterval)
			return nil
		})
	}

	group.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupContext.Done()
		app.logger.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
		return app.server.Shutdown(constants.ShutdownTimeout)
	})

	return group.Wait()
}

// Close releases the infrastructure in reverse opening order.
func (app *App) Close() {
	for _, closer := range slices.Backward(app.closers) {
		closer()
	}
	app.closers = nil
}
