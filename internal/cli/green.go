package cli

import (
	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/actions"
	"github.com/diseaz-joom/dsaflow/internal/jenkins"
)

// newGreenCmd creates the green command
func newGreenCmd(quiet *bool) *cobra.Command {
	var opts actions.GreenOptions

	cmd := &cobra.Command{
		Use:   "green",
		Short: "Move tested branches to the last commit that passed CI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			return actions.Green(cmd.Context(), rt, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "Branch to operate on. Defaults to jflow.default-green.")
	cmd.Flags().StringVar(&opts.JenkinsCredPath, "jenkins-auth", jenkins.DefaultCredPath,
		"Path to a file with Jenkins credentials in the form USER:PASSWORD.")

	return cmd
}
