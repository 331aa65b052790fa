// Package cli wires the jf commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		dryRun bool
		quiet  bool
	)

	rootCmd := &cobra.Command{
		Use:     "jf",
		Short:   "jf manages jflow branches: stacked development over git and StGit",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			git.SetDryRun(dryRun)
			output.InitColors()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Print mutating commands instead of running them.")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output.")

	rootCmd.AddCommand(
		newListCmd(&quiet),
		newStartCmd(&quiet),
		newRebaseCmd(&quiet),
		newPublishCmd(&quiet),
		newDeleteCmd(&quiet),
		newSyncCmd(&quiet),
		newGreenCmd(&quiet),
		newResolveCmd(&quiet),
		newConfigCmd(&quiet),
		newCommitsCmd(&quiet),
	)

	return rootCmd
}
