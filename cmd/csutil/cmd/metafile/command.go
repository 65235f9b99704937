// Package metafile provides the replace-metafile command.
package metafile

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/descriptor"
	"github.com/agentstation/csutil/pkg/errors"
	"github.com/agentstation/csutil/pkg/logging"
)

// Flags holds the replace-metafile flags.
type Flags struct {
	Infile   string
	Outfile  string
	Metafile string

	*cmdutil.OverwriteFlag
}

// NewCommand creates the replace-metafile command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "replace-metafile",
		GroupID: "utility",
		Short:   "Point a descriptor at a different particle table",
		Args:    cobra.NoArgs,
		Long: `Replace-metafile rewrites every results entry of a .csg descriptor so it
references the given table and carries that table's row count. Only the
table header is read. Other keys of the descriptor are preserved.`,
		Example: `  csutil replace-metafile --infile J12_particles.csg --outfile J12_subset.csg --metafile J12_subset.cs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Infile, "infile", "", "Input descriptor (.csg)")
	cmd.Flags().StringVar(&flags.Outfile, "outfile", "", "Output descriptor (.csg)")
	cmd.Flags().StringVar(&flags.Metafile, "metafile", "", "Particle table the descriptor should reference (.cs)")
	flags.OverwriteFlag = cmdutil.AddOverwriteFlag(cmd, app.Defaults())
	cmdutil.MustMarkRequired(cmd, "infile", "outfile", "metafile")

	return cmd
}

// Execute runs replace-metafile.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	logger := logging.FromContext(logging.WithCommand(logging.WithLogger(ctx, app.Logger()), "replace-metafile"))

	if flags.Outfile == flags.Infile {
		return errors.NewValidationError("outfile", flags.Outfile, "must differ from --infile")
	}
	if err := cmdutil.RequireInputs(flags.Infile, flags.Metafile); err != nil {
		return err
	}
	if err := cmdutil.CheckOutputs(flags.Overwrite, flags.Outfile); err != nil {
		return err
	}

	header, err := csfile.Stat(flags.Metafile)
	if err != nil {
		return err
	}
	doc, err := descriptor.Load(flags.Infile)
	if err != nil {
		return err
	}

	out := descriptor.Rewrite(doc, descriptor.RewriteOptions{
		Metafile: flags.Metafile,
		NumItems: header.Rows,
	})
	if err := out.Save(flags.Outfile); err != nil {
		return err
	}

	logger.Info().
		Str("outfile", flags.Outfile).
		Int("num_items", header.Rows).
		Int("results", len(out.Results())).
		Msg("Replaced metafile")
	_, err = fmt.Fprintf(w, "Wrote %s (%d results, %d items)\n", flags.Outfile, len(out.Results()), header.Rows)
	return err
}
