package cmdutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/errors"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestRequireInputs(t *testing.T) {
	dir := t.TempDir()
	present := touch(t, dir, "a.cs")

	assert.NoError(t, cmdutil.RequireInputs(present))

	err := cmdutil.RequireInputs(present, filepath.Join(dir, "missing.cs"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "missing.cs")

	err = cmdutil.RequireInputs(dir)
	assert.True(t, errors.IsValidationError(err))
}

func TestCheckOutputs(t *testing.T) {
	dir := t.TempDir()
	existing := touch(t, dir, "out.cs")
	fresh := filepath.Join(dir, "out.csg")

	assert.NoError(t, cmdutil.CheckOutputs(false, fresh))
	assert.NoError(t, cmdutil.CheckOutputs(true, existing, fresh))

	err := cmdutil.CheckOutputs(false, fresh, existing)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
	assert.Contains(t, err.Error(), cmdutil.OverwriteHint)
}
