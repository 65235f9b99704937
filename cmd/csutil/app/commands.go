package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/csutil/cmd/csutil/cmd/filter"
	"github.com/agentstation/csutil/cmd/csutil/cmd/metafile"
	"github.com/agentstation/csutil/cmd/csutil/cmd/stat"
	"github.com/agentstation/csutil/cmd/csutil/cmd/tocsv"
	"github.com/agentstation/csutil/cmd/csutil/cmd/transfer"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(transfer.NewCommand(a))
	rootCmd.AddCommand(filter.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(metafile.NewCommand(a))
	rootCmd.AddCommand(tocsv.NewCommand(a))
	rootCmd.AddCommand(stat.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("csutil %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
