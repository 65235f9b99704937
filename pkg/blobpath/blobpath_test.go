package blobpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/pkg/blobpath"
	"github.com/agentstation/csutil/pkg/errors"
)

func TestBasename(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		strip int
		want  string
	}{
		{"strip one", "/a/b/001_stack_42.mrcs", 1, "stack_42"},
		{"strip none", "/a/b/001_stack_42.mrcs", 0, "001_stack_42"},
		{"strip two", "J7/imported/008_001_stack_42.mrcs", 2, "stack_42"},
		{"relative", "001_stack_42.mrc", 1, "stack_42"},
		{"only last extension", "/x/001_a.b.mrcs", 1, "a.b"},
		{"no extension", "/x/001_stack", 1, "stack"},
		{"windows separators", `C:\data\001_stack_42.mrcs`, 1, "stack_42"},
		{"keeps trailing tokens", "/x/1_2_3_4.mrc", 3, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := blobpath.New(tt.strip)
			require.NoError(t, err)
			got, err := n.Basename(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasenameRejectsTooFewTokens(t *testing.T) {
	n, err := blobpath.New(2)
	require.NoError(t, err)

	_, err = n.Basename("/a/b/001_stack.mrc")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = n.Basename("/a/b/")
	assert.Error(t, err)
}

func TestNewRejectsNegative(t *testing.T) {
	_, err := blobpath.New(-1)
	assert.True(t, errors.IsValidationError(err))
}

func TestBasenameIsDeterministic(t *testing.T) {
	n, err := blobpath.New(1)
	require.NoError(t, err)
	a, _ := n.Basename("/a/b/001_stack_42.mrcs")
	b, _ := n.Basename("/a/b/001_stack_42.mrcs")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, n.Strip())
}
