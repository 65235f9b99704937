package application

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/csutil/pkg/align"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/logging"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    NowFunc: func() utc.Time {
//	        return utc.New(fixed)
//	    },
//	}
//	cmd := transfer.NewCommand(mock)
//	// ... test command
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	DefaultsFunc     func() Defaults
	AlignerFunc      func(opts ...align.Option) (align.Aligner, error)
	NowFunc          func() utc.Time
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// DefaultDefaults returns the built-in flag defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		OrigStrip:     constants.DefaultOrigStripTokens,
		ImportedStrip: constants.DefaultImportedStripTokens,
		Namespace:     constants.AlignmentsNamespace,
		Attribution:   constants.Attribution,
	}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Defaults returns flag defaults using the mock function or the built-in ones.
func (m *Mock) Defaults() Defaults {
	if m.DefaultsFunc != nil {
		return m.DefaultsFunc()
	}
	return DefaultDefaults()
}

// Aligner returns an aligner using the mock function or align.New.
func (m *Mock) Aligner(opts ...align.Option) (align.Aligner, error) {
	if m.AlignerFunc != nil {
		return m.AlignerFunc(opts...)
	}
	return align.New(opts...)
}

// Now returns the time using the mock function or utc.Now.
func (m *Mock) Now() utc.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return utc.Now()
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
