// Package transfer provides the transfer-alignments command.
package transfer

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/internal/cmd/application"
)

// NewCommand creates the transfer-alignments command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "transfer-alignments",
		GroupID: "core",
		Short:   "Copy 3D alignments from an imported particle set back onto the original",
		Args:    cobra.NoArgs,
		Long: `Transfer-alignments reconciles a particle set that went through an external
round trip with the set it was exported from.

The original table and its passthrough companion are joined on uid. Rows of
the imported table are matched to original rows by the normalized basename of
blob/path and by blob/idx. Every field of the alignments3D namespace is then
copied from the imported row onto the original row.

The command will:
• Check that every input exists and no output would be overwritten
• Join the original table with its passthrough companion
• Match every imported particle to exactly one original particle
• Write one output row per imported particle, grouped by stack basename
• Write a descriptor next to the output table pointing at it

Any unmatched or ambiguous particle aborts the run without writing output.`,
		Example: `  csutil transfer-alignments \
    --orig-cs J12_particles.cs --orig-csg J12_particles.csg \
    --orig-passthrough J12_passthrough_particles.cs \
    --imported-cs J40_particles.cs --output-cs J12_aligned.cs

  csutil transfer-alignments ... --imported-strip 1 --overwrite`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags = addFlags(cmd, app.Defaults())

	return cmd
}
