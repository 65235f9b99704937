package filter

import (
	"math"

	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
	"github.com/agentstation/csutil/pkg/stats"
)

// Flags holds the filter flags.
type Flags struct {
	Infile      string
	Passthrough string
	Rootname    string
	Target      string
	Sigma       float64
	Min         float64
	Max         float64

	// Set from cobra's Changed so zero values can be told apart from
	// absent flags.
	HasSigma bool
	HasMin   bool
	HasMax   bool

	*cmdutil.OverwriteFlag
}

// OutputPath returns the filtered table path.
func (f *Flags) OutputPath() string {
	return f.Rootname + constants.ExtDataset
}

// HistogramPath returns the histogram report path.
func (f *Flags) HistogramPath() string {
	return f.Rootname + "_hist.txt"
}

func (f *Flags) validate() error {
	if f.HasSigma && (f.HasMin || f.HasMax) {
		return &errors.ValidationError{Field: "sigma", Message: "--sigma and --minval/--maxval cannot be specified at once"}
	}
	if f.HasSigma && f.Sigma <= 0 {
		return errors.NewValidationError("sigma", f.Sigma, "must be positive")
	}
	if f.HasMin && f.HasMax && f.Min > f.Max {
		return errors.NewValidationError("minval", f.Min, "must not exceed --maxval")
	}
	return nil
}

// bounds returns the closed range of kept values.
func (f *Flags) bounds(s stats.Summary) (lo, hi float64) {
	if f.HasSigma {
		return s.SigmaRange(f.Sigma)
	}
	lo, hi = math.Inf(-1), math.Inf(1)
	if f.HasMin {
		lo = f.Min
	}
	if f.HasMax {
		hi = f.Max
	}
	return lo, hi
}
