package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/nickunderhill/ai-interviewer/internal/config"
	"github.com/nickunderhill/ai-interviewer/internal/events"
	"github.com/nickunderhill/ai-interviewer/internal/llm"
	"github.com/nickunderhill/ai-interviewer/internal/platform/metrics"
	"github.com/nickunderhill/ai-interviewer/internal/platform/postgres"
	"github.com/nickunderhill/ai-interviewer/internal/service"
	"github.com/nickunderhill/ai-interviewer/internal/service/auth"
	"github.com/nickunderhill/ai-interviewer/internal/store"
	"github.com/nickunderhill/ai-interviewer/internal/task"
)

// taskShutdownTimeout bounds how long shutdown waits for in-flight
// background tasks before giving up.
const taskShutdownTimeout = 30 * time.Second

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics *metrics.Metrics

	operationStore store.OperationStore
	sessionStore   store.SessionStore
	messageStore   store.MessageStore
	feedbackStore  store.FeedbackStore

	jwtService auth.JWTService
	generator  llm.Generator

	operationService service.OperationService

	eventEmitter events.EventEmitter
	taskRunner   *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger and database connection must be
// established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Stores
	app.operationStore = postgres.NewPostgresOperationStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.messageStore = postgres.NewPostgresMessageStore(db, logger)
	app.feedbackStore = postgres.NewPostgresFeedbackStore(db, logger)

	// LLM generator
	app.generator, err = llm.NewGeminiGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
		app.metrics,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.Model)

	// Task execution: coordinator drives the operation lifecycle, runner
	// owns the fire-and-forget goroutines.
	coordinator := task.NewTxCoordinator(db, app.operationStore, logger)
	app.taskRunner = task.NewRunner(coordinator, app.metrics, logger)

	taskFactory, err := task.NewFactory(
		app.sessionStore,
		app.messageStore,
		app.feedbackStore,
		app.generator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task factory: %w", err)
	}

	// Event system: the service emits operation request events, the task
	// event handler turns them into spawned tasks.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewEventHandler(taskFactory, app.taskRunner, logger))
	app.eventEmitter = emitter

	app.operationService, err = service.NewOperationService(
		app.operationStore,
		app.sessionStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation service: %w", err)
	}

	logger.Info("application initialized successfully")
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

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		if !app.taskRunner.Wait(taskShutdownTimeout) {
			app.logger.Warn("background tasks still running at shutdown",
				"timeout", taskShutdownTimeout)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
