package filter

import (
	"context"
	"io"
	"math"
	"os"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
	"github.com/agentstation/csutil/pkg/logging"
	"github.com/agentstation/csutil/pkg/stats"
)

// Report summarizes a filter run.
type Report struct {
	Output    string        `json:"output" yaml:"output"`
	Histogram string        `json:"histogram" yaml:"histogram"`
	Target    string        `json:"target" yaml:"target"`
	Min       *float64      `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64      `json:"max,omitempty" yaml:"max,omitempty"`
	Before    int           `json:"before" yaml:"before"`
	After     int           `json:"after" yaml:"after"`
	Discarded int           `json:"discarded" yaml:"discarded"`
	Percent   float64       `json:"discarded_percent" yaml:"discarded_percent"`
	Kept      stats.Summary `json:"kept" yaml:"kept"`
}

// Execute runs filter.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	logger := logging.FromContext(logging.WithCommand(logging.WithLogger(ctx, app.Logger()), "filter"))

	// Step 1: Preconditions
	if err := flags.validate(); err != nil {
		return err
	}
	inputs := []string{flags.Infile}
	if flags.Passthrough != "" {
		inputs = append(inputs, flags.Passthrough)
	}
	if err := cmdutil.RequireInputs(inputs...); err != nil {
		return err
	}
	if err := cmdutil.CheckOutputs(flags.Overwrite, flags.OutputPath(), flags.HistogramPath()); err != nil {
		return err
	}

	// Step 2: Load and optionally combine
	d, err := csfile.Load(flags.Infile)
	if err != nil {
		return err
	}
	if flags.Passthrough != "" {
		pass, err := csfile.Load(flags.Passthrough)
		if err != nil {
			return err
		}
		if d, err = dataset.Combine(d, pass); err != nil {
			return err
		}
	}

	// Step 3: Derive the range and select rows
	values, err := d.Floats(flags.Target)
	if err != nil {
		return err
	}
	before, err := stats.Describe(values)
	if err != nil {
		return err
	}
	lo, hi := flags.bounds(before)
	logger.Debug().Float64("min", lo).Float64("max", hi).Msg("Filter range")

	var keep []int
	var kept []float64
	for i, v := range values {
		if lo <= v && v <= hi {
			keep = append(keep, i)
			kept = append(kept, v)
		}
	}
	if len(keep) == 0 {
		return errors.NewValidationError("target", flags.Target, "no particles lie within the range")
	}
	out := d.Select(keep)

	// Step 4: Write outputs
	if err := csfile.Save(flags.OutputPath(), out); err != nil {
		return err
	}
	summary, err := stats.Describe(kept)
	if err != nil {
		return err
	}
	if err := writeHistogram(flags.HistogramPath(), flags.Target, summary, kept); err != nil {
		return err
	}

	report := Report{
		Output:    flags.OutputPath(),
		Histogram: flags.HistogramPath(),
		Target:    flags.Target,
		Min:       bound(lo),
		Max:       bound(hi),
		Before:    d.Len(),
		After:     out.Len(),
		Discarded: d.Len() - out.Len(),
		Percent:   float64(d.Len()-out.Len()) / float64(d.Len()) * 100,
		Kept:      summary,
	}
	logger.Info().
		Str("output", report.Output).
		Int("before", report.Before).
		Int("after", report.After).
		Msg("Filtered particles")

	return printReport(w, app.OutputFormat(), report)
}

// bound returns nil for an open (infinite) bound.
func bound(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func writeHistogram(path, target string, s stats.Summary, values []float64) (err error) {
	h, err := stats.NewHistogram(values, 0)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()
	if err := writeHistogramHeader(f, target, s); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := h.Render(f, constants.DefaultHistogramWidth); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
