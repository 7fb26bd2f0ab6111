package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/stackly/stackly-api/internal/assistant"
	"github.com/stackly/stackly-api/internal/config"
	"github.com/stackly/stackly-api/internal/filestore"
	"github.com/stackly/stackly-api/internal/notify"
	"github.com/stackly/stackly-api/internal/platform/gemini"
	"github.com/stackly/stackly-api/internal/platform/localdisk"
	"github.com/stackly/stackly-api/internal/platform/postgres"
	"github.com/stackly/stackly-api/internal/service/auth"
	"github.com/stackly/stackly-api/internal/service/content"
	"github.com/stackly/stackly-api/internal/service/progress"
	"github.com/stackly/stackly-api/internal/store"
)

// maxAvatarUploadBytes caps the size of a stored avatar image.
const maxAvatarUploadBytes = 2 << 20

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore          store.UserStore
	stackStore         store.StackStore
	themeStore         store.ThemeStore
	progressStackStore store.ProgressStackStore
	progressThemeStore store.ProgressThemeStore

	// Services
	jwtService      auth.JWTService
	passwordService auth.PasswordService
	contentService  content.Service
	progressService progress.Service
	tutor           assistant.Assistant
	avatarStore     filestore.FileStore

	// Reminder pipeline, nil when notifications are disabled
	reminderQueue     *notify.Queue
	reminderPool      *notify.WorkerPool
	reminderScheduler *notify.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
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
	logger.Info("JWT authentication service initialized",
		"token_lifetime_hours", cfg.Auth.TokenLifetimeHours)

	app.passwordService = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.stackStore = postgres.NewPostgresStackStore(db, logger)
	app.themeStore = postgres.NewPostgresThemeStore(db, logger)
	app.progressStackStore = postgres.NewPostgresProgressStackStore(db, logger)
	app.progressThemeStore = postgres.NewPostgresProgressThemeStore(db, logger)

	txRunner := store.NewTxRunner(db)

	// Services
	app.contentService = content.NewService(
		app.stackStore,
		app.themeStore,
		txRunner,
		logger,
	)

	resolver := progress.NewOwnershipResolver(
		app.userStore,
		app.stackStore,
		app.themeStore,
		app.progressStackStore,
	)
	app.progressService = progress.NewService(
		resolver,
		app.userStore,
		app.progressStackStore,
		app.progressThemeStore,
		txRunner,
		logger,
	)

	app.tutor, err = gemini.NewTutor(ctx, logger.With("component", "tutor"), cfg.Assistant)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tutoring assistant: %w", err)
	}
	logger.Info("tutoring assistant initialized", "model", cfg.Assistant.ModelName)

	app.avatarStore, err = localdisk.New(
		cfg.Storage.AvatarDir,
		cfg.Storage.AvatarBaseURL,
		maxAvatarUploadBytes,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar storage: %w", err)
	}

	if cfg.Notify.Enabled {
		app.setupReminders()
	}

	logger.Info("application initialized")
	return app, nil
}

// setupReminders wires the challenge reminder queue, worker pool, and
// scheduler, and starts them.
func (app *application) setupReminders() {
	cfg := app.config.Notify

	app.reminderQueue = notify.NewQueue(cfg.QueueSize, app.logger)

	sender := notify.NewLogSender(app.logger)
	app.reminderPool = notify.NewWorkerPool(
		app.reminderQueue,
		sender,
		notify.WorkerPoolConfig{WorkerCount: cfg.WorkerCount},
		app.logger,
	)
	app.reminderPool.Start()

	app.reminderScheduler = notify.NewScheduler(
		app.userStore,
		app.reminderQueue,
		notify.SchedulerConfig{
			CheckInterval: time.Duration(cfg.CheckIntervalMinutes) * time.Minute,
		},
		app.logger,
	)
	app.reminderScheduler.Start()

	app.logger.Info("challenge reminders enabled",
		"workers", cfg.WorkerCount,
		"check_interval_minutes", cfg.CheckIntervalMinutes)
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The scheduler
// stops before the queue closes so nothing enqueues into a closed queue, and
// the pool drains what remains.
func (app *application) cleanup() {
	if app.reminderScheduler != nil {
		app.reminderScheduler.Stop()
	}
	if app.reminderQueue != nil {
		app.reminderQueue.Close()
	}
	if app.reminderPool != nil {
		app.reminderPool.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
