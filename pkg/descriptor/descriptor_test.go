package descriptor_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/pkg/descriptor"
	"github.com/agentstation/csutil/pkg/errors"
)

const sampleCSG = `created: 2024-05-01 10:00:00.000000
group:
  description: Particles exported to RELION
  name: particles
  title: Particles
  type: particle
results:
  blob:
    metafile: '>J12_particles.cs'
    num_items: 1234
    type: particle.blob
  ctf:
    metafile: '>J12_particles.cs'
    num_items: 1234
    type: particle.ctf
version: v4.4.1
`

func parse(t *testing.T, s string) *descriptor.Document {
	t.Helper()
	doc, err := descriptor.Parse([]byte(s))
	require.NoError(t, err)
	return doc
}

func fixedOptions() descriptor.RewriteOptions {
	return descriptor.RewriteOptions{
		Metafile:    "/work/out/J99_transferred.cs",
		NumItems:    3,
		Category:    "alignments3D",
		TypeTag:     "particle.alignments3D",
		Description: "Created by csutil transfer-alignments",
		Created:     utc.Time{Time: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)},
	}
}

func TestParse(t *testing.T) {
	doc := parse(t, sampleCSG)
	assert.Equal(t, "Particles exported to RELION", doc.Description())
	assert.Equal(t, []descriptor.Result{
		{Category: "blob", Metafile: ">J12_particles.cs", NumItems: 1234, Type: "particle.blob"},
		{Category: "ctf", Metafile: ">J12_particles.cs", NumItems: 1234, Type: "particle.ctf"},
	}, doc.Results())
	created, ok := doc.Created()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), created.Time())
}

func TestParseRejectsBadResults(t *testing.T) {
	_, err := descriptor.Parse([]byte("results: [1, 2]\n"))
	assert.Error(t, err)
}

func TestRewrite(t *testing.T) {
	doc := parse(t, sampleCSG)
	out := descriptor.Rewrite(doc, fixedOptions())

	results := out.Results()
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, ">J99_transferred.cs", r.Metafile, r.Category)
		assert.Equal(t, 3, r.NumItems, r.Category)
	}
	assert.Equal(t, "particle.blob", results[0].Type)
	assert.Equal(t, "alignments3D", results[2].Category)
	assert.Equal(t, "particle.alignments3D", results[2].Type)
	assert.Equal(t, "Created by csutil transfer-alignments", out.Description())

	// The source document is untouched.
	assert.Len(t, doc.Results(), 2)
	assert.Equal(t, 1234, doc.Results()[0].NumItems)
	assert.Equal(t, "Particles exported to RELION", doc.Description())
}

func TestRewriteKeepsExistingCategory(t *testing.T) {
	doc := parse(t, sampleCSG)
	once := descriptor.Rewrite(doc, fixedOptions())

	opts := fixedOptions()
	opts.TypeTag = "something.else"
	twice := descriptor.Rewrite(once, opts)

	r, ok := twice.Result("alignments3D")
	require.True(t, ok)
	assert.Equal(t, "particle.alignments3D", r.Type)
	assert.Len(t, twice.Results(), 3)
}

func TestRewriteIsIdempotent(t *testing.T) {
	once := descriptor.Rewrite(parse(t, sampleCSG), fixedOptions())
	twice := descriptor.Rewrite(once, fixedOptions())

	a, err := once.Marshal()
	require.NoError(t, err)
	b, err := twice.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRewritePreservesUnknownKeys(t *testing.T) {
	out := descriptor.Rewrite(parse(t, sampleCSG), fixedOptions())
	data, err := out.Marshal()
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "version: v4.4.1")
	assert.Contains(t, text, "title: Particles")
	assert.Less(t, strings.Index(text, "group:"), strings.Index(text, "results:"), "key order is kept")

	reparsed := parse(t, text)
	assert.Equal(t, out.Results(), reparsed.Results())
}

func TestRewriteWithoutOptionalFields(t *testing.T) {
	doc := parse(t, sampleCSG)
	out := descriptor.Rewrite(doc, descriptor.RewriteOptions{Metafile: "new.cs", NumItems: 10})

	assert.Len(t, out.Results(), 2, "no category inserted")
	assert.Equal(t, "Particles exported to RELION", out.Description())
	before, _ := doc.Created()
	after, ok := out.Created()
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, ">new.cs", out.Results()[1].Metafile)
}

func TestRewriteCreatesResults(t *testing.T) {
	out := descriptor.Rewrite(parse(t, "group:\n  name: particles\n"), fixedOptions())
	require.Len(t, out.Results(), 1)
	assert.Equal(t, "alignments3D", out.Results()[0].Category)
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "J12_particles.csg")
	require.NoError(t, os.WriteFile(in, []byte(sampleCSG), 0o644))

	doc, err := descriptor.Load(in)
	require.NoError(t, err)

	outPath := filepath.Join(dir, "out.csg")
	require.NoError(t, descriptor.Rewrite(doc, fixedOptions()).Save(outPath))

	saved, err := descriptor.Load(outPath)
	require.NoError(t, err)
	assert.Len(t, saved.Results(), 3)

	_, err = descriptor.Load(filepath.Join(dir, "missing.csg"))
	assert.True(t, errors.IsNotFound(err))
}

func TestCreatedStaysATimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"microseconds", "created: 2024-05-01 10:00:00.123456\n", "created: 2024-05-01 10:00:00.123456\n"},
		{"whole seconds", "created: 2024-05-01 10:00:00\n", "created: 2024-05-01 10:00:00\n"},
		{"not a timestamp", "created: yesterday\n", "created: yesterday\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := parse(t, tt.in).Marshal()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestRewriteStampsCreated(t *testing.T) {
	data, err := descriptor.Rewrite(parse(t, sampleCSG), fixedOptions()).Marshal()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "created: 2025-03-04 05:06:07.000000\n"), string(data))

	created, ok := parse(t, string(data)).Created()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC), created.Time())
}
