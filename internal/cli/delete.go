package cli

import (
	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/actions"
	"github.com/diseaz-joom/dsaflow/internal/repo"
)

// newDeleteCmd creates the delete command
func newDeleteCmd(quiet *bool) *cobra.Command {
	var (
		merged string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "delete [branch...]",
		Short: "Delete branches together with their derived refs and jflow config",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			opts := actions.DeleteOptions{
				Branches: args,
				Force:    force,
			}
			if merged != "" {
				status, err := repo.ParseMergeStatus(merged)
				if err != nil {
					return err
				}
				opts.Merged = status
			}

			return actions.Delete(cmd.Context(), rt, opts)
		},
	}

	cmd.Flags().StringVar(&merged, "merged", "", "Also delete branches at this merge tier or higher (U, F, D or M).")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt.")

	return cmd
}
