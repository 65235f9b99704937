// Package stat provides the stat command.
package stat

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/logging"
	"github.com/agentstation/csutil/pkg/stats"
)

// Flags holds the stat flags.
type Flags struct {
	Infile  string
	Targets []string
	Bins    string
	Width   int
}

// NewCommand creates the stat command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "stat",
		GroupID: "utility",
		Short:   "Summarize numeric fields of a particle table",
		Args:    cobra.NoArgs,
		Long: `Stat prints descriptive statistics (count, min, max, mean, variance and
standard deviation) for each target field, followed by a text histogram.

With --bins auto the bin count follows Sturges' rule.`,
		Example: `  csutil stat --infile J12_particles.cs --targets ctf/df1_A ctf/df2_A
  csutil stat --infile J12_particles.cs --targets alignments3D/error --bins 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Targets = append(flags.Targets, args...)
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Infile, "infile", "", "Input particle table (.cs)")
	cmd.Flags().StringSliceVar(&flags.Targets, "targets", nil, "Numeric fields to summarize")
	cmd.Flags().StringVar(&flags.Bins, "bins", "auto", `Histogram bin count or "auto"`)
	cmd.Flags().IntVar(&flags.Width, "width", constants.DefaultHistogramWidth, "Widest histogram bar in characters")
	cmdutil.MustMarkRequired(cmd, "infile")

	return cmd
}

// FieldStats is the report for one field.
type FieldStats struct {
	Field     string        `json:"field" yaml:"field"`
	Summary   stats.Summary `json:"summary" yaml:"summary"`
	Histogram []stats.Bin   `json:"histogram" yaml:"histogram"`

	hist *stats.Histogram
}

// Execute runs stat.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	logger := logging.FromContext(logging.WithCommand(logging.WithLogger(ctx, app.Logger()), "stat"))

	bins, err := stats.ParseBins(flags.Bins)
	if err != nil {
		return err
	}
	if len(flags.Targets) == 0 {
		return cmdutil.ErrNoTargets
	}
	if err := cmdutil.RequireInputs(flags.Infile); err != nil {
		return err
	}

	d, err := csfile.Load(flags.Infile)
	if err != nil {
		return err
	}

	report := make([]FieldStats, 0, len(flags.Targets))
	for _, target := range flags.Targets {
		x, err := d.Floats(target)
		if err != nil {
			return err
		}
		summary, err := stats.Describe(x)
		if err != nil {
			return err
		}
		hist, err := stats.NewHistogram(x, bins)
		if err != nil {
			return err
		}
		logger.Debug().Str("field", target).Int("bins", len(hist.Bins)).Msg("Summarized field")
		report = append(report, FieldStats{Field: target, Summary: summary, Histogram: hist.Bins, hist: hist})
	}

	return printReport(w, app.OutputFormat(), flags.Width, report)
}
