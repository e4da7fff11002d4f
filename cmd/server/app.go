package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardifyai-code/cardifyai/internal/auth"
	"github.com/cardifyai-code/cardifyai/internal/config"
	"github.com/cardifyai-code/cardifyai/internal/generation"
	"github.com/cardifyai-code/cardifyai/internal/job"
	"github.com/cardifyai-code/cardifyai/internal/platform/gemini"
	"github.com/cardifyai-code/cardifyai/internal/platform/postgres"
	"github.com/cardifyai-code/cardifyai/internal/quota"
	"github.com/cardifyai-code/cardifyai/internal/store"
	"github.com/cardifyai-code/cardifyai/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accountStore store.AccountStore
	jobStore     store.JobStore
	cardStore    store.CardStore
	taskStore    task.Store

	jwtService   auth.JWTService
	quotaManager *quota.Manager
	orchestrator *generation.Orchestrator
	jobService   *job.Service

	taskRunner *task.Runner
}

// newApplication creates a new application instance with all
// dependencies initialized. Core dependencies like configuration,
// logger, and the database connection must be established first.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.accountStore = postgres.NewPostgresAccountStore(db, logger)
	app.jobStore = postgres.NewPostgresJobStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)

	taskStore := postgres.NewPostgresTaskStore(db)
	app.taskStore = taskStore

	app.quotaManager, err = quota.NewManager(app.accountStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize quota manager: %w", err)
	}

	generator, err := gemini.NewGeminiGenerator(
		ctx,
		logger.With(slog.String("component", "llm_generator")),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)

	app.orchestrator, err = generation.NewOrchestrator(generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	app.taskRunner = newTaskRunner(app)

	app.jobService, err = job.NewService(
		app.jobStore,
		app.cardStore,
		app.taskStore,
		store.NewDBTransactor(db),
		app.quotaManager,
		app.orchestrator,
		app.taskRunner,
		cfg.Generation.MaxSegmentChars,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job service: %w", err)
	}

	// Start recovers interrupted tasks before accepting new ones, so
	// the reviver that reattaches their execution logic must be
	// registered first. Starting earlier would replay those tasks as
	// empty shells that can only fail.
	taskStore.SetTaskReviver(app.jobService.ReviveTask)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newTaskRunner builds the background task processor. The caller
// starts it once recovery is fully wired.
func newTaskRunner(app *application) *task.Runner {
	cfg := app.config.Worker
	return task.NewRunner(app.taskStore, task.RunnerConfig{
		WorkerCount:            cfg.Count,
		QueueSize:              cfg.QueueSize,
		ExecutionTimeout:       time.Duration(cfg.ExecutionTimeoutMinutes) * time.Minute,
		StuckTaskAge:           time.Duration(cfg.StuckTaskAgeMinutes) * time.Minute,
		StuckTaskCheckInterval: time.Duration(cfg.StuckTaskCheckMinutes) * time.Minute,
	}, app.logger)
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
