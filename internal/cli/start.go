package cli

import (
	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/actions"
	"github.com/diseaz-joom/dsaflow/internal/git"
)

// newStartCmd creates the start command
func newStartCmd(quiet *bool) *cobra.Command {
	var opts actions.StartOptions

	cmd := &cobra.Command{
		Use:   "start NAME",
		Short: "Start a new branch from the template matching NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			opts.Name = git.BranchName(args[0])
			return actions.Start(cmd.Context(), rt, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Description for the new branch.")
	cmd.Flags().StringVar(&opts.Upstream, "upstream", "", "Use this branch as the upstream.")
	cmd.Flags().StringVar(&opts.Fork, "fork", "", "Use this branch as the fork point.")
	cmd.Flags().StringVar(&opts.LReview, "lreview", "", "Name for the local review branch.")
	cmd.Flags().StringVar(&opts.Review, "review", "", "Name for the remote review branch.")
	cmd.Flags().StringVar(&opts.LDebug, "ldebug", "", "Name for the local debug branch.")
	cmd.Flags().StringVar(&opts.Debug, "debug", "", "Name for the remote debug branch.")

	return cmd
}
