package align

import (
	"github.com/agentstation/csutil/pkg/blobpath"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
	"github.com/agentstation/csutil/pkg/progress"
)

// options configures an aligner.
type options struct {
	namespace     string
	originalStrip int
	importedStrip int
	progress      progress.Func
}

func defaultOptions() *options {
	return &options{
		namespace:     constants.AlignmentsNamespace,
		originalStrip: constants.DefaultOrigStripTokens,
		importedStrip: constants.DefaultImportedStripTokens,
	}
}

// Option is a function that configures an Aligner.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns aligner options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithNamespace sets the field namespace copied from the imported dataset.
func WithNamespace(namespace string) Option {
	return func(o *options) error {
		if namespace == "" {
			return &errors.ValidationError{
				Field:   "namespace",
				Message: "cannot be empty",
			}
		}
		o.namespace = namespace
		return nil
	}
}

// WithOriginalStrip sets how many leading blob/path tokens are removed on the
// original side.
func WithOriginalStrip(n int) Option {
	return func(o *options) error {
		if _, err := blobpath.New(n); err != nil {
			return err
		}
		o.originalStrip = n
		return nil
	}
}

// WithImportedStrip sets how many leading blob/path tokens are removed on the
// imported side.
func WithImportedStrip(n int) Option {
	return func(o *options) error {
		if _, err := blobpath.New(n); err != nil {
			return err
		}
		o.importedStrip = n
		return nil
	}
}

// WithProgress installs an observer called as basenames are processed. It
// is throttled to roughly one call per percent.
func WithProgress(fn progress.Func) Option {
	return func(o *options) error {
		o.progress = fn
		return nil
	}
}
