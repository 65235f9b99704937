package stats_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/csutil/pkg/errors"
	"github.com/agentstation/csutil/pkg/stats"
)

func TestDescribe(t *testing.T) {
	s, err := stats.Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 8, s.N)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 32.0/7, s.Variance, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7), s.Stdev, 1e-12)

	lo, hi := s.SigmaRange(2)
	assert.InDelta(t, 5-2*s.Stdev, lo, 1e-12)
	assert.InDelta(t, 5+2*s.Stdev, hi, 1e-12)

	_, err = stats.Describe(nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestSturgesBins(t *testing.T) {
	assert.Equal(t, 1, stats.SturgesBins(1))
	assert.Equal(t, 2, stats.SturgesBins(2))
	assert.Equal(t, 11, stats.SturgesBins(1000))
	assert.Equal(t, 1, stats.SturgesBins(0))
}

func TestParseBins(t *testing.T) {
	n, err := stats.ParseBins("auto")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = stats.ParseBins("25")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	for _, bad := range []string{"0", "-3", "many", "100000"} {
		_, err := stats.ParseBins(bad)
		assert.True(t, errors.IsValidationError(err), bad)
	}
}

func TestHistogram(t *testing.T) {
	h, err := stats.NewHistogram([]float64{0, 1, 1, 2, 3, 4}, 4)
	require.NoError(t, err)
	require.Len(t, h.Bins, 4)
	assert.Equal(t, 6, h.Total)

	var counts []int
	for _, b := range h.Bins {
		counts = append(counts, b.Count)
	}
	// Buckets [0,1) [1,2) [2,3) [3,4]: the maximum lands in the last one.
	assert.Equal(t, []int{1, 2, 1, 2}, counts)
	assert.Equal(t, 0.0, h.Bins[0].Low)
}

func TestHistogramConstantSample(t *testing.T) {
	h, err := stats.NewHistogram([]float64{3, 3, 3}, 0)
	require.NoError(t, err)
	require.Len(t, h.Bins, 1)
	assert.Equal(t, 3, h.Bins[0].Count)
}

func TestHistogramRender(t *testing.T) {
	h, err := stats.NewHistogram([]float64{0, 0, 1}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.Render(&buf, 10))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], strings.Repeat("#", 10)+" 2")
	assert.Contains(t, lines[1], strings.Repeat("#", 5)+strings.Repeat(" ", 5)+" 1")
}
