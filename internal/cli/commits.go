package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

// newCommitsCmd creates the commits command
func newCommitsCmd(quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:    "commits",
		Short:  "Dump the commit graph as loaded into the snapshot (debug)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			commits := rt.Cache.Commits()
			shas := make([]git.Sha, 0, len(commits))
			for sha := range commits {
				shas = append(shas, sha)
			}
			sort.Slice(shas, func(i, j int) bool { return shas[i] < shas[j] })

			var lines strings.Builder
			for _, sha := range shas {
				c := commits[sha]
				fmt.Fprintf(&lines, "%s parents=%v children=%v refs=%v\n", c.Sha, c.Parents, c.Children, c.Refs)
			}
			rt.Splog.Page(lines.String())
			return nil
		},
	}
}
