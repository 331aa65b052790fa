package cli

import (
	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/actions"
)

// newPublishCmd creates the publish command
func newPublishCmd(quiet *bool) *cobra.Command {
	var opts actions.PublishOptions

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render the current branch into its public form and push it for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			return actions.Publish(cmd.Context(), rt, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Message for the publish commit.")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Publish the debug branch instead of the review one.")
	cmd.Flags().BoolVar(&opts.New, "new", false, "Start the public branch anew.")
	cmd.Flags().BoolVar(&opts.Local, "local", false, "Only update the local public branch.")
	cmd.Flags().BoolVar(&opts.PR, "pr", false, "Open the GitHub compare page for a pull request.")
	cmd.Flags().BoolVar(&opts.CreatePR, "pr-create", false, "Create the pull request through the GitHub API.")
	cmd.Flags().BoolVar(&opts.NonClean, "non-clean", false, "Proceed even with a dirty working directory.")

	return cmd
}
