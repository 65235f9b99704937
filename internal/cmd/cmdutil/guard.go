package cmdutil

import (
	"os"

	"github.com/agentstation/csutil/pkg/errors"
)

// OverwriteHint is appended to AlreadyExistsError messages.
const OverwriteHint = "Specify --overwrite to overwrite."

// RequireInputs fails with a NotFoundError for the first path that does not
// exist or is a directory.
func RequireInputs(paths ...string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.NewNotFoundError("input file", path)
			}
			return errors.WrapIO("stat", path, err)
		}
		if info.IsDir() {
			return errors.NewValidationError("input", path, "is a directory")
		}
	}
	return nil
}

// CheckOutputs fails with an AlreadyExistsError for the first path that
// exists, unless overwrite is set.
func CheckOutputs(overwrite bool, paths ...string) error {
	if overwrite {
		return nil
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return errors.NewAlreadyExistsError("output file", path, OverwriteHint)
		} else if !os.IsNotExist(err) {
			return errors.WrapIO("stat", path, err)
		}
	}
	return nil
}

// ErrNoTargets is returned when a command is given no target field.
var ErrNoTargets = errors.NewValidationError("targets", nil, "at least one target field is required")
