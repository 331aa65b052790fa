package cli

import (
	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/actions"
	"github.com/diseaz-joom/dsaflow/internal/jenkins"
)

// newSyncCmd creates the sync command
func newSyncCmd(quiet *bool) *cobra.Command {
	var opts actions.SyncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch remotes and fast-forward sync-enabled branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			return actions.Sync(cmd.Context(), rt, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.WithGreen, "with-green", false, "Also refresh tested branches from CI.")
	cmd.Flags().StringVar(&opts.JenkinsCredPath, "jenkins-auth", jenkins.DefaultCredPath,
		"Path to a file with Jenkins credentials in the form USER:PASSWORD.")

	return cmd
}
