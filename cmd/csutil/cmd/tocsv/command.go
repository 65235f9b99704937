// Package tocsv provides the to-csv command.
package tocsv

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/export"
	"github.com/agentstation/csutil/pkg/logging"
)

// Flags holds the to-csv flags.
type Flags struct {
	Infile  string
	Outfile string

	*cmdutil.OverwriteFlag
}

// NewCommand creates the to-csv command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "to-csv",
		GroupID: "utility",
		Short:   "Export a particle table to CSV",
		Args:    cobra.NoArgs,
		Long: `To-csv writes a .cs table as comma-separated values with one header row.
Vector fields are expanded into one column per element (name/0, name/1, ...).`,
		Example: `  csutil to-csv --infile J12_particles.cs
  csutil to-csv --infile J12_particles.cs.zst --outfile particles.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Infile, "infile", "", "Input particle table (.cs)")
	cmd.Flags().StringVar(&flags.Outfile, "outfile", "", "Output CSV file (default: input with .csv extension)")
	flags.OverwriteFlag = cmdutil.AddOverwriteFlag(cmd, app.Defaults())
	cmdutil.MustMarkRequired(cmd, "infile")

	return cmd
}

// OutputPath returns the CSV path, derived from the input when unset.
func (f *Flags) OutputPath() string {
	if f.Outfile != "" {
		return f.Outfile
	}
	return csfile.TrimExt(f.Infile) + constants.ExtCSV
}

// Execute runs to-csv.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	logger := logging.FromContext(logging.WithCommand(logging.WithLogger(ctx, app.Logger()), "to-csv"))
	outfile := flags.OutputPath()

	if err := cmdutil.RequireInputs(flags.Infile); err != nil {
		return err
	}
	if err := cmdutil.CheckOutputs(flags.Overwrite, outfile); err != nil {
		return err
	}

	d, err := csfile.Load(flags.Infile)
	if err != nil {
		return err
	}
	if err := export.SaveCSV(outfile, d); err != nil {
		return err
	}

	logger.Info().Str("outfile", outfile).Int("rows", d.Len()).Msg("Exported CSV")
	_, err = fmt.Fprintf(w, "Wrote %d rows to %s\n", d.Len(), outfile)
	return err
}
