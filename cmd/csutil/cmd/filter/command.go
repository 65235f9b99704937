// Package filter provides the filter command.
package filter

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/internal/cmd/cmdutil"
)

// NewCommand creates the filter command.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "filter",
		GroupID: "core",
		Short:   "Keep particles whose target field lies within a range",
		Args:    cobra.NoArgs,
		Long: `Filter keeps the rows of a particle table whose target field lies in
[min, max] and writes them to <rootname>.cs, along with a text histogram of
the kept values in <rootname>_hist.txt.

The range is either given explicitly with --minval and --maxval (either may
be omitted for an open bound) or derived from --sigma as mean ± sigma·stdev.
With --infile-passthrough the table is joined with its passthrough
companion first and the joined rows are written.`,
		Example: `  csutil filter --infile J12_particles.cs --outfile-rootname J12_df --target ctf/df1_A --sigma 2
  csutil filter --infile J12_particles.cs --outfile-rootname J12_res --target ctf/ctf_fit_to_A --maxval 6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.HasMin = cmd.Flags().Changed("minval")
			flags.HasMax = cmd.Flags().Changed("maxval")
			flags.HasSigma = cmd.Flags().Changed("sigma")
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags = addFlags(cmd, app.Defaults())

	return cmd
}

func addFlags(cmd *cobra.Command, defaults application.Defaults) *Flags {
	flags := &Flags{OverwriteFlag: cmdutil.AddOverwriteFlag(cmd, defaults)}

	cmd.Flags().StringVar(&flags.Infile, "infile", "", "Input particle table (.cs)")
	cmd.Flags().StringVar(&flags.Passthrough, "infile-passthrough", "", "Passthrough companion of the input table (.cs)")
	cmd.Flags().StringVar(&flags.Rootname, "outfile-rootname", "", "Root name of the output files")
	cmd.Flags().StringVar(&flags.Target, "target", "", "Numeric field to filter on")
	cmd.Flags().Float64Var(&flags.Sigma, "sigma", 0, "Keep mean ± sigma·stdev")
	cmd.Flags().Float64Var(&flags.Min, "minval", 0, "Minimum kept value")
	cmd.Flags().Float64Var(&flags.Max, "maxval", 0, "Maximum kept value")
	cmdutil.MustMarkRequired(cmd, "infile", "outfile-rootname", "target")

	return flags
}
