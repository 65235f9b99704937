// Package cmdutil provides shared flags and precondition checks for csutil commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/internal/cmd/application"
)

// OverwriteFlag holds the --overwrite flag shared by every writing command.
type OverwriteFlag struct {
	Overwrite bool
}

// AddOverwriteFlag adds --overwrite to cmd, defaulting to the configured value.
func AddOverwriteFlag(cmd *cobra.Command, defaults application.Defaults) *OverwriteFlag {
	flag := &OverwriteFlag{}
	cmd.Flags().BoolVar(&flag.Overwrite, "overwrite", defaults.Overwrite,
		"Overwrite output files if they exist")
	return flag
}

// StripFlags holds the basename normalization flags.
type StripFlags struct {
	OrigStrip     int
	ImportedStrip int
}

// AddStripFlags adds --orig-strip and --imported-strip to cmd.
func AddStripFlags(cmd *cobra.Command, defaults application.Defaults) *StripFlags {
	flags := &StripFlags{}
	cmd.Flags().IntVar(&flags.OrigStrip, "orig-strip", defaults.OrigStrip,
		"Underscore-delimited prefix tokens to drop from original blob/path basenames")
	cmd.Flags().IntVar(&flags.ImportedStrip, "imported-strip", defaults.ImportedStrip,
		"Underscore-delimited prefix tokens to drop from imported blob/path basenames")
	return flags
}

// MustMarkRequired marks flags as required. Unknown names are programming errors.
func MustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic("programming error: failed to mark flag " + name + " required: " + err.Error())
		}
	}
}
