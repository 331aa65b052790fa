package cli

import (
	"github.com/spf13/cobra"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
)

// newResolveCmd creates the resolve command
func newResolveCmd(quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve SHORTCUT",
		Short: "Resolve a branch shortcut to a ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			ref, ok := rt.Cache.ResolveShortcut(args[0])
			if !ok {
				return jferrors.NewNotFoundError("ref for shortcut", args[0])
			}
			rt.Splog.Info("%s %s", ref.Name, ref.Sha)
			return nil
		},
	}
}
