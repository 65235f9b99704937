package transfer

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/align"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/errors"
	"github.com/agentstation/csutil/pkg/progress"
)

// Flags holds the transfer-alignments flags.
type Flags struct {
	OrigCS          string
	OrigCSG         string
	OrigPassthrough string
	ImportedCS      string
	OutputCS        string
	Namespace       string
	Description     string
	Progress        bool
	NoProgress      bool

	*cmdutil.StripFlags
	*cmdutil.OverwriteFlag
}

func addFlags(cmd *cobra.Command, defaults application.Defaults) *Flags {
	flags := &Flags{
		StripFlags:    cmdutil.AddStripFlags(cmd, defaults),
		OverwriteFlag: cmdutil.AddOverwriteFlag(cmd, defaults),
	}

	cmd.Flags().StringVar(&flags.OrigCS, "orig-cs", "", "Original particle table (.cs)")
	cmd.Flags().StringVar(&flags.OrigCSG, "orig-csg", "", "Descriptor of the original particle table (.csg)")
	cmd.Flags().StringVar(&flags.OrigPassthrough, "orig-passthrough", "", "Passthrough companion of the original table (.cs)")
	cmd.Flags().StringVar(&flags.ImportedCS, "imported-cs", "", "Imported particle table carrying the new alignments (.cs)")
	cmd.Flags().StringVar(&flags.OutputCS, "output-cs", "", "Output particle table (.cs); the descriptor is written alongside")
	cmd.Flags().StringVar(&flags.Namespace, "namespace", defaults.Namespace, "Field namespace to transfer")
	cmd.Flags().StringVar(&flags.Description, "description", defaults.Attribution, "Group description written to the output descriptor")
	cmd.Flags().BoolVar(&flags.Progress, "progress", false, "Draw the progress bar even when output is not a terminal")
	cmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Disable the progress bar")
	cmd.MarkFlagsMutuallyExclusive("progress", "no-progress")

	cmdutil.MustMarkRequired(cmd, "orig-cs", "orig-csg", "orig-passthrough", "imported-cs", "output-cs")

	return flags
}

// progressOutput returns where the progress bar is drawn, or nil when it is
// off. By default the bar is only drawn on a terminal.
func (f *Flags) progressOutput(stdout io.Writer) io.Writer {
	switch {
	case f.NoProgress:
		return nil
	case f.Progress, progress.IsTerminal(stdout):
		return stdout
	}
	return nil
}

// DescriptorPath returns where the output descriptor is written.
func (f *Flags) DescriptorPath() string {
	return csfile.TrimExt(f.OutputCS) + constants.ExtDescriptor
}

// TypeTag returns the descriptor type of an inserted results entry.
func (f *Flags) TypeTag() string {
	if f.Namespace == constants.AlignmentsNamespace {
		return constants.AlignmentsTypeTag
	}
	return "particle." + f.Namespace
}

func (f *Flags) validate() error {
	if f.OutputCS == f.OrigCS || f.OutputCS == f.OrigPassthrough || f.OutputCS == f.ImportedCS {
		return errors.NewValidationError("output-cs", f.OutputCS, "must differ from every input table")
	}
	if f.DescriptorPath() == f.OrigCSG {
		return errors.NewValidationError("output-cs", f.OutputCS, "would overwrite the input descriptor")
	}
	return nil
}

// alignOptions builds aligner options from flags.
func (f *Flags) alignOptions() []align.Option {
	return []align.Option{
		align.WithNamespace(f.Namespace),
		align.WithOriginalStrip(f.OrigStrip),
		align.WithImportedStrip(f.ImportedStrip),
	}
}
