package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/daysince/internal/config"
	"github.com/dori/daysince/internal/db"
	"github.com/dori/daysince/internal/logging"
	"github.com/dori/daysince/internal/notify"
	"github.com/dori/daysince/internal/store"
	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the data directory
var ErrLocked = errors.New("another instance of daysince is already running")

// LockName is the lock file name inside the data directory
const LockName = "daysince.lock"

// App holds the application state and dependencies
type App struct {
	Config    config.Config
	DB        *db.DB
	Logger    *logging.Logger
	Notifier  *notify.Notifier
	Scheduler *notify.Scheduler // nil unless Options.Alerts
	Store     *store.Store

	// LoadErr is the error from loading the persisted counters, if any.
	// The store is usable and empty in that case.
	LoadErr error

	lockFile *flock.Flock
}

// Options controls what New sets up
type Options struct {
	Config config.Config
	// Command names the entry point in log lines
	Command string
	// Alerts starts the alert scheduler and re-arms pending countdowns.
	// Timers only live as long as the process, so one-shot CLI commands
	// leave this off.
	Alerts bool
}

// New creates a new application instance
func New(opts Options) (*App, error) {
	cfg := opts.Config

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, err := logging.Init(logging.Config{
		Enabled: cfg.Logging,
		Level:   cfg.LogLevel,
		Dir:     cfg.DataDir,
		Command: opts.Command,
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Notifier: notify.NewNotifier(cfg.Notifications),
	}

	// Acquire lock to ensure a single writer
	if err := app.acquireLock(); err != nil {
		logger.Close()
		return nil, err
	}

	database, err := db.Open(db.PathIn(cfg.DataDir))
	if err != nil {
		app.releaseLock()
		logger.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	storeCfg := store.Config{
		KV:           database,
		Logger:       logger.Logger,
		ReminderHour: cfg.ReminderHour,
	}
	if opts.Alerts {
		app.Scheduler = notify.NewScheduler(app.Notifier)
		storeCfg.Scheduler = app.Scheduler
	}
	app.Store = store.New(storeCfg)

	if err := app.Store.Load(); err != nil {
		app.LoadErr = err
		logger.Warn("starting with an empty collection", "err", err)
	}
	if opts.Alerts {
		armed := app.Store.Rearm()
		logger.Debug("alerts re-armed", "count", armed)
	}

	return app, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, LockName)
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrLocked
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Scheduler != nil {
		a.Scheduler.Close()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log: %w", err))
		}
	}

	return errors.Join(errs...)
}
