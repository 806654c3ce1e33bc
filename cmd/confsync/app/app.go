// Package app provides the application context and dependency management
// for the confsync CLI. It centralizes configuration, dependency
// injection, and lifecycle management.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/confsync/confsync"
	"github.com/confsync/confsync/pkg/enrich"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/stores"
)

// App represents the confsync application with all its dependencies.
// It provides a centralized place for configuration, logging, and
// the confsync service instance.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Service instance (lazy-initialized, singleton)
	mu    sync.RWMutex
	svc   confsync.Confsync
	store stores.Store
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Store returns the configured record store, creating it lazily.
// Thread-safe; only one instance is created.
func (a *App) Store(ctx context.Context) (stores.Store, error) {
	a.mu.RLock()
	if a.store != nil {
		s := a.store
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.store != nil {
		return a.store, nil
	}

	store, err := a.buildStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// Service returns the confsync service instance, creating it lazily.
// Thread-safe; only one instance is created.
func (a *App) Service(ctx context.Context) (confsync.Confsync, error) {
	a.mu.RLock()
	if a.svc != nil {
		svc := a.svc
		a.mu.RUnlock()
		return svc, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.svc != nil {
		return a.svc, nil
	}

	store := a.store
	if store == nil {
		var err error
		store, err = a.buildStore(ctx)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	enricher, err := enrich.NewGemini(ctx, a.config.GeminiAPIKey, a.config.Model)
	if err != nil {
		return nil, err
	}

	svc, err := confsync.New(
		confsync.WithStore(store),
		confsync.WithEnricher(enricher),
		confsync.WithTargetYear(a.config.TargetYear),
		confsync.WithInterval(a.config.Interval),
		confsync.WithBatchSize(a.config.BatchSize),
		confsync.WithRetries(a.config.Retries),
		confsync.WithCallDelay(a.config.CallDelay),
		confsync.WithCallTimeout(a.config.CallTimeout),
	)
	if err != nil {
		return nil, err
	}

	a.svc = svc
	return svc, nil
}

// buildStore constructs the store backend named by the configuration.
// Caller must hold the write lock or be in single-threaded setup.
func (a *App) buildStore(ctx context.Context) (stores.Store, error) {
	switch a.config.Store {
	case StoreSheets:
		return stores.NewSheets(ctx, a.config.SpreadsheetID, a.config.CredentialsFile)
	case StoreCSV:
		return stores.NewCSV(a.config.DataDir)
	default:
		return nil, errors.NewConfigError("store", "unknown backend "+a.config.Store, errors.ErrInvalidInput)
	}
}

// Shutdown performs graceful shutdown of the application.
// It stops the scheduler if it is running.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	svc := a.svc
	a.mu.RUnlock()

	if svc != nil {
		if err := svc.SchedulerOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop scheduler during shutdown")
		}
	}

	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithService sets a custom service instance (useful for testing).
func WithService(svc confsync.Confsync) Option {
	return func(a *App) error {
		a.svc = svc
		return nil
	}
}

// WithStore sets a custom store instance (useful for testing).
func WithStore(store stores.Store) Option {
	return func(a *App) error {
		a.store = store
		return nil
	}
}
