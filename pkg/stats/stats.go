// Package stats computes descriptive statistics and histograms of numeric
// particle fields.
package stats

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
)

// Summary describes a sample. Variance is the unbiased (n-1) estimate.
type Summary struct {
	N        int
	Min      float64
	Max      float64
	Mean     float64
	Variance float64
	Stdev    float64
}

// Describe summarizes x.
func Describe(x []float64) (Summary, error) {
	if len(x) == 0 {
		return Summary{}, errors.NewValidationError("values", 0, "cannot describe an empty sample")
	}
	mean, variance := stat.MeanVariance(x, nil)
	return Summary{
		N:        len(x),
		Min:      floats.Min(x),
		Max:      floats.Max(x),
		Mean:     mean,
		Variance: variance,
		Stdev:    math.Sqrt(variance),
	}, nil
}

// SigmaRange returns mean ± sigma·stdev.
func (s Summary) SigmaRange(sigma float64) (lo, hi float64) {
	return s.Mean - sigma*s.Stdev, s.Mean + sigma*s.Stdev
}

// Bin is one histogram bucket covering [Low, High).
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Histogram is a fixed-width histogram.
type Histogram struct {
	Bins  []Bin
	Total int
}

// SturgesBins returns the Sturges bin count for n samples.
func SturgesBins(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// ParseBins parses a bin count; "auto" returns 0, meaning Sturges.
func ParseBins(s string) (int, error) {
	if s == "" || strings.EqualFold(s, "auto") {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > constants.MaxHistogramBins {
		return 0, errors.NewValidationError("bins", s,
			fmt.Sprintf(`must be "auto" or an integer in [1, %d]`, constants.MaxHistogramBins))
	}
	return n, nil
}

// NewHistogram bins x into n equal-width buckets spanning [min, max]. A
// non-positive n selects the bin count automatically.
func NewHistogram(x []float64, n int) (*Histogram, error) {
	if len(x) == 0 {
		return nil, errors.NewValidationError("values", 0, "cannot bin an empty sample")
	}
	if n <= 0 {
		n = SturgesBins(len(x))
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		n = 1
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// The last bucket is closed on the right.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	h := &Histogram{Bins: make([]Bin, n), Total: len(x)}
	for i := range h.Bins {
		h.Bins[i] = Bin{Low: dividers[i], High: dividers[i+1], Count: int(counts[i])}
	}
	return h, nil
}

// Render draws the histogram as text, one bucket per line, with bars
// scaled to width characters.
func (h *Histogram) Render(w io.Writer, width int) error {
	if width <= 0 {
		width = constants.DefaultHistogramWidth
	}
	peak := 0
	for _, b := range h.Bins {
		peak = max(peak, b.Count)
	}
	for _, b := range h.Bins {
		bar := 0
		if peak > 0 {
			bar = b.Count * width / peak
		}
		if _, err := fmt.Fprintf(w, "[%12.6g, %12.6g) %-*s %d\n",
			b.Low, b.High, width, strings.Repeat("#", bar), b.Count); err != nil {
			return err
		}
	}
	return nil
}
