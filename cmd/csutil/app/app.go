// Package app provides the application context and dependency management
// for the csutil CLI. It centralizes configuration, logging and the
// construction of the alignment engine so commands receive them through
// the application.Application interface.
package app

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/pkg/align"
	"github.com/agentstation/csutil/pkg/errors"
)

// App represents the csutil application with all its dependencies.
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

	// Clock used to stamp rewritten descriptors
	now func() utc.Time
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from .env files, the environment and the
// optional config file, and can be replaced with functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		now:     utc.Now,
	}

	// Load configuration
	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
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

// OutputFormat returns the requested output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Defaults returns command flag defaults from the configuration.
func (a *App) Defaults() application.Defaults {
	return application.Defaults{
		OrigStrip:     a.config.OrigStrip,
		ImportedStrip: a.config.ImportedStrip,
		Namespace:     a.config.Namespace,
		Overwrite:     a.config.Overwrite,
		Attribution:   a.config.Attribution,
	}
}

// Aligner builds an alignment engine.
func (a *App) Aligner(opts ...align.Option) (align.Aligner, error) {
	return align.New(opts...)
}

// Now returns the current UTC time.
func (a *App) Now() utc.Time {
	return a.now()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
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

// WithClock sets the clock used for descriptor timestamps.
func WithClock(now func() utc.Time) Option {
	return func(a *App) error {
		a.now = now
		return nil
	}
}
