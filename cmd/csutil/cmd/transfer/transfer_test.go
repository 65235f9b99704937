package transfer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/cmd/csutil/cmd/transfer"
	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/descriptor"
	"github.com/agentstation/csutil/pkg/errors"
)

const origCSG = `created: 2024-05-01 10:00:00.000000
group:
  description: Particles exported to RELION
  name: particles
results:
  blob:
    metafile: '>J12_particles.cs'
    num_items: 6
    type: particle.blob
version: v4.4.1
`

var (
	origSchema = dataset.MustSchema(
		dataset.Field{Name: "uid", Type: dataset.Uint64},
		dataset.Field{Name: "blob/path", Type: dataset.Bytes(48)},
		dataset.Field{Name: "blob/idx", Type: dataset.Uint32},
		dataset.Field{Name: "alignments3D/pose", Type: dataset.Vector(dataset.Float32, 3)},
	)
	passSchema = dataset.MustSchema(
		dataset.Field{Name: "uid", Type: dataset.Uint64},
		dataset.Field{Name: "location/micrograph_uid", Type: dataset.Uint64},
	)
	importedSchema = dataset.MustSchema(
		dataset.Field{Name: "uid", Type: dataset.Uint64},
		dataset.Field{Name: "blob/path", Type: dataset.Bytes(48)},
		dataset.Field{Name: "blob/idx", Type: dataset.Uint32},
		dataset.Field{Name: "alignments3D/pose", Type: dataset.Vector(dataset.Float32, 3)},
	)
)

type paths struct {
	origCS, origCSG, pass, imported, output string
}

// writeInputs writes two stacks of three particles on the original side and
// imports {0,2} of stack A and {1} of stack B.
func writeInputs(t *testing.T, passRows int) paths {
	t.Helper()
	dir := t.TempDir()
	p := paths{
		origCS:   filepath.Join(dir, "J12_particles.cs"),
		origCSG:  filepath.Join(dir, "J12_particles.csg"),
		pass:     filepath.Join(dir, "J12_passthrough_particles.cs"),
		imported: filepath.Join(dir, "J40_particles.cs"),
		output:   filepath.Join(dir, "J12_aligned.cs"),
	}

	orig := dataset.New(origSchema)
	pass := dataset.New(passSchema)
	for s, stack := range []string{"A", "B"} {
		for idx := range 3 {
			uid := uint64(10*s + idx + 1)
			require.NoError(t, orig.Append(dataset.Row{uid, fmt.Sprintf("J12/extract/001_stack_%s.mrc", stack), uint64(idx), []float64{0, 0, 0}}))
			if pass.Len() < passRows {
				require.NoError(t, pass.Append(dataset.Row{uid, uid * 100}))
			}
		}
	}
	imported := dataset.New(importedSchema)
	for _, k := range []struct {
		stack string
		idx   int
	}{{"B", 1}, {"A", 2}, {"A", 0}} {
		f := float64(k.idx) + 0.5
		require.NoError(t, imported.Append(dataset.Row{uint64(900 + k.idx), fmt.Sprintf("J40/imported/777_001_stack_%s.mrcs", k.stack), uint64(k.idx), []float64{f, f, f}}))
	}

	require.NoError(t, csfile.Save(p.origCS, orig))
	require.NoError(t, csfile.Save(p.pass, pass))
	require.NoError(t, csfile.Save(p.imported, imported))
	require.NoError(t, os.WriteFile(p.origCSG, []byte(origCSG), 0o644))
	return p
}

func (p paths) args(extra ...string) []string {
	return append([]string{
		"--orig-cs", p.origCS,
		"--orig-csg", p.origCSG,
		"--orig-passthrough", p.pass,
		"--imported-cs", p.imported,
		"--output-cs", p.output,
	}, extra...)
}

var fixedNow = utc.New(time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC))

func run(t *testing.T, args []string) (string, error) {
	t.Helper()
	mock := &application.Mock{
		OutputFormatFunc: func() string { return "json" },
		NowFunc:          func() utc.Time { return fixedNow },
	}
	cmd := transfer.NewCommand(mock)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestTransferAlignments(t *testing.T) {
	p := writeInputs(t, 6)

	out, err := run(t, p.args())
	require.NoError(t, err)

	var summary transfer.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 6, summary.OriginalRows)
	assert.Equal(t, 3, summary.OutputRows)
	assert.Equal(t, 3, summary.Unmatched)
	assert.Equal(t, []string{"alignments3D/pose"}, summary.Transferred)

	d, err := csfile.Load(p.output)
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())
	assert.True(t, d.Schema().Has("location/micrograph_uid"))

	// stack_A idx 0, stack_A idx 2, stack_B idx 1
	wantIdx := []uint64{0, 2, 1}
	wantUID := []uint64{1, 3, 12}
	for i := range 3 {
		idx, err := d.Value(i, "blob/idx")
		require.NoError(t, err)
		assert.Equal(t, wantIdx[i], idx)
		uid, err := d.Value(i, "uid")
		require.NoError(t, err)
		assert.Equal(t, wantUID[i], uid)
		pose, err := d.Value(i, "alignments3D/pose")
		require.NoError(t, err)
		f := float64(wantIdx[i]) + 0.5
		assert.Equal(t, []float64{f, f, f}, pose)
	}

	doc, err := descriptor.Load(filepath.Join(filepath.Dir(p.output), "J12_aligned.csg"))
	require.NoError(t, err)
	assert.Equal(t, "Created by csutil transfer-alignments", doc.Description())
	assert.Equal(t, []descriptor.Result{
		{Category: "blob", Metafile: ">J12_aligned.cs", NumItems: 3, Type: "particle.blob"},
		{Category: "alignments3D", Metafile: ">J12_aligned.cs", NumItems: 3, Type: "particle.alignments3D"},
	}, doc.Results())
}

func TestTransferProgressOnStdout(t *testing.T) {
	p := writeInputs(t, 6)

	out, err := run(t, p.args())
	require.NoError(t, err)
	assert.NotContains(t, out, "Progress:", "no bar unless stdout is a terminal")

	p = writeInputs(t, 6)
	out, err = run(t, p.args("--progress"))
	require.NoError(t, err)
	bar, summary, ok := strings.Cut(out, "\n")
	require.True(t, ok)
	assert.Contains(t, bar, "\rProgress: [")
	assert.True(t, strings.HasSuffix(bar, "(      2 /       2)"), bar)
	assert.Contains(t, summary, `"output_rows"`)

	_, err = run(t, p.args("--progress", "--no-progress", "--overwrite"))
	require.Error(t, err)
}

func TestTransferRefusesToOverwrite(t *testing.T) {
	p := writeInputs(t, 6)
	_, err := run(t, p.args())
	require.NoError(t, err)

	_, err = run(t, p.args())
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
	assert.Contains(t, err.Error(), "--overwrite")

	_, err = run(t, p.args("--overwrite"))
	assert.NoError(t, err)
}

func TestTransferMissingInput(t *testing.T) {
	p := writeInputs(t, 6)
	require.NoError(t, os.Remove(p.imported))

	_, err := run(t, p.args())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.NoFileExists(t, p.output)
}

func TestTransferPassthroughMismatch(t *testing.T) {
	p := writeInputs(t, 5)

	_, err := run(t, p.args())
	require.Error(t, err)
	assert.True(t, errors.IsIntegrityError(err))
	assert.NoFileExists(t, p.output)
}

func TestTransferStripMismatchFails(t *testing.T) {
	p := writeInputs(t, 6)

	// Keeping the extra imported token makes no basename match.
	_, err := run(t, p.args("--imported-strip", "1"))
	require.Error(t, err)
	assert.True(t, errors.IsIntegrityError(err))
	assert.NoFileExists(t, p.output)
}

func TestTransferOutputMustDifferFromInputs(t *testing.T) {
	p := writeInputs(t, 6)
	p.output = p.imported

	_, err := run(t, p.args("--overwrite"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
