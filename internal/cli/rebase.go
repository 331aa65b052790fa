package cli

import (
	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/actions"
)

// newRebaseCmd creates the rebase command
func newRebaseCmd(quiet *bool) *cobra.Command {
	var opts actions.RebaseOptions

	cmd := &cobra.Command{
		Use:   "rebase",
		Short: "Rebase the current branch onto a fresh tip of its fork point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			return actions.Rebase(cmd.Context(), rt, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Message for republishing before the rebase.")
	cmd.Flags().StringVar(&opts.Fork, "fork", "", "Rebase onto this branch instead of the configured fork.")

	return cmd
}
