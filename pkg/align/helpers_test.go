package align_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/pkg/dataset"
)

var (
	originalSchema = dataset.MustSchema(
		dataset.Field{Name: "uid", Type: dataset.Uint64},
		dataset.Field{Name: "blob/path", Type: dataset.Bytes(64)},
		dataset.Field{Name: "blob/idx", Type: dataset.Uint32},
		dataset.Field{Name: "alignments3D/pose", Type: dataset.Vector(dataset.Float32, 3)},
		dataset.Field{Name: "alignments3D/shift", Type: dataset.Vector(dataset.Float32, 2)},
		dataset.Field{Name: "ctf/df1_A", Type: dataset.Float32},
	)
	passthroughSchema = dataset.MustSchema(
		dataset.Field{Name: "uid", Type: dataset.Uint64},
		dataset.Field{Name: "location/micrograph_uid", Type: dataset.Uint64},
	)
	importedSchema = dataset.MustSchema(
		dataset.Field{Name: "uid", Type: dataset.Uint64},
		dataset.Field{Name: "blob/path", Type: dataset.Bytes(64)},
		dataset.Field{Name: "blob/idx", Type: dataset.Uint32},
		dataset.Field{Name: "alignments3D/pose", Type: dataset.Vector(dataset.Float64, 3)},
		dataset.Field{Name: "alignments3D/shift", Type: dataset.Vector(dataset.Float32, 2)},
		dataset.Field{Name: "alignments3D/error", Type: dataset.Float32},
	)
)

func originalPath(stack string) string {
	return fmt.Sprintf("J12/extract/001_%s.mrc", stack)
}

func importedPath(stack string) string {
	return fmt.Sprintf("J40/imported/900_001_%s.mrcs", stack)
}

// originalUID gives every (stack, idx) a distinct uid.
func originalUID(stack int, idx int) uint64 {
	return uint64(1000*stack + idx)
}

// buildOriginal returns stacks × perStack original rows and their
// passthrough rows (in reverse order).
func buildOriginal(t *testing.T, stacks, perStack int) (*dataset.Dataset, *dataset.Dataset) {
	t.Helper()
	orig := dataset.New(originalSchema)
	pass := dataset.New(passthroughSchema)
	for s := range stacks {
		for i := range perStack {
			uid := originalUID(s, i)
			require.NoError(t, orig.Append(dataset.Row{
				uid,
				originalPath(stackName(s)),
				uint64(i),
				[]float64{0, 0, 0},
				[]float64{0, 0},
				float64(10000 + uid),
			}))
		}
	}
	for i := orig.Len() - 1; i >= 0; i-- {
		uid := orig.Row(i)[0].(uint64)
		require.NoError(t, pass.Append(dataset.Row{uid, uid * 7}))
	}
	return orig, pass
}

func stackName(s int) string {
	return fmt.Sprintf("stack_%02d", s)
}

// importedRow builds an imported row whose alignment values encode its key.
func importedRow(s, idx int) dataset.Row {
	f := float64(s*100 + idx)
	return dataset.Row{
		uint64(900000 + s*100 + idx),
		importedPath(stackName(s)),
		uint64(idx),
		[]float64{f, f + 0.5, f + 0.25},
		[]float64{-f, f},
		f / 1000,
	}
}
