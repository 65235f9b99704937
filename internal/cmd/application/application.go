// Package application defines the interface commands use to reach the
// csutil application without importing the app package.
package application

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/csutil/pkg/align"
)

// Application is what a command needs from the running app. Commands
// depend on this interface so they can be tested with Mock.
type Application interface {
	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// OutputFormat returns the --format value ("" when unset).
	OutputFormat() string

	// Defaults returns flag defaults resolved from the config file and
	// environment.
	Defaults() Defaults

	// Aligner builds an aligner with the given options.
	Aligner(opts ...align.Option) (align.Aligner, error)

	// Now returns the current time, used to stamp rewritten descriptors.
	Now() utc.Time

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}

// Defaults are config-provided defaults for command flags.
type Defaults struct {
	OrigStrip     int
	ImportedStrip int
	Namespace     string
	Overwrite     bool
	Attribution   string
}
