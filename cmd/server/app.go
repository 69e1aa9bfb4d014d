package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/promptoid/promptoid-api/internal/config"
	"github.com/promptoid/promptoid-api/internal/platform/gemini"
	"github.com/promptoid/promptoid-api/internal/platform/postgres"
	"github.com/promptoid/promptoid-api/internal/refinement"
	"github.com/promptoid/promptoid-api/internal/service"
	"github.com/promptoid/promptoid-api/internal/service/auth"
	"github.com/promptoid/promptoid-api/internal/store"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry *prometheus.Registry

	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	promptService    service.PromptService
	refiner          *refinement.Service
}

// newApplication wires stores, services and the AI provider. The provider is
// only created when an API key is configured; otherwise refinement runs in
// local mode.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	promptStore := postgres.NewPostgresPromptStore(db, logger)
	app.promptService = service.NewPromptService(promptStore, db, logger)

	app.refiner, err = newRefiner(ctx, cfg, logger, app.registry)
	if err != nil {
		return nil, err
	}

	return app, nil
}

func newRefiner(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*refinement.Service, error) {
	metrics, err := refinement.NewMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register refinement metrics: %w", err)
	}

	opts := []refinement.Option{
		refinement.WithMetrics(metrics),
		refinement.WithLogger(logger),
	}
	if cfg.Cache.TTLMinutes > 0 {
		opts = append(opts, refinement.WithCache(cache.New(
			time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
		)))
	}

	if !cfg.LLM.Enabled() {
		logger.Warn("no Gemini API key configured, prompt refinement runs in local mode")
		return refinement.NewService(nil, opts...), nil
	}

	adapter, err := gemini.NewAdapter(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini adapter: %w", err)
	}
	logger.Info("Gemini adapter initialized",
		slog.String("model", cfg.LLM.ModelName),
		slog.String("api_version", cfg.LLM.APIVersion))
	return refinement.NewService(adapter, opts...), nil
}

// cleanup releases application resources on shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
