package stat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/cmd/csutil/cmd/stat"
	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

func writeTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "particles.cs")
	d := dataset.New(dataset.MustSchema(
		dataset.Field{Name: "uid", Type: dataset.Uint64},
		dataset.Field{Name: "blob/path", Type: dataset.Bytes(16)},
		dataset.Field{Name: "ctf/df1_A", Type: dataset.Float32},
	))
	for i, df := range []float64{1, 2, 3, 4, 5, 6, 7, 8} {
		require.NoError(t, d.Append(dataset.Row{uint64(i), "stack.mrc", df}))
	}
	require.NoError(t, csfile.Save(path, d))
	return path
}

func run(format string, args ...string) (string, error) {
	cmd := stat.NewCommand(&application.Mock{OutputFormatFunc: func() string { return format }})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestStatTable(t *testing.T) {
	path := writeTable(t)

	out, err := run("table", "--infile", path, "--targets", "ctf/df1_A", "--bins", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "ctf/df1_A")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "(4 bins)")
	assert.Contains(t, out, "##")
}

func TestStatJSON(t *testing.T) {
	path := writeTable(t)

	out, err := run("json", "--infile", path, "--targets", "ctf/df1_A,uid")
	require.NoError(t, err)

	var report []stat.FieldStats
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 2)
	assert.Equal(t, "ctf/df1_A", report[0].Field)
	assert.Equal(t, 8, report[0].Summary.N)
	assert.InDelta(t, 4.5, report[0].Summary.Mean, 1e-12)
	assert.InDelta(t, 6.0, report[0].Summary.Variance, 1e-12)
	// Sturges: ceil(log2 8) + 1
	assert.Len(t, report[0].Histogram, 4)
	assert.Equal(t, "uid", report[1].Field)
}

func TestStatErrors(t *testing.T) {
	path := writeTable(t)

	_, err := run("json", "--infile", path, "--targets", "ctf/missing")
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err))
	assert.Contains(t, err.Error(), "available fields")

	_, err = run("json", "--infile", path, "--targets", "blob/path")
	assert.True(t, errors.IsSchemaError(err))

	_, err = run("json", "--infile", path, "--targets", "uid", "--bins", "zero")
	assert.True(t, errors.IsValidationError(err))

	_, err = run("json", "--infile", path)
	assert.True(t, errors.IsValidationError(err))
}
