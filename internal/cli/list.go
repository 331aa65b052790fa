package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/output"
	"github.com/diseaz-joom/dsaflow/internal/repo"
)

const listLegend = `
+------- 'j' = controlled by jflow; 's' = controlled by StGit
|+------ 'r' = has local review branch; 'R' = has remote review
||+----- 'd' = has local debug branch; 'D' = has remote debug
|||+---- merged into: 'U' = upstream; 'F' = fork; 'D' = develop; 'M' = master
||||`

// newListCmd creates the list command
func newListCmd(quiet *bool) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List branches with their jflow status marks",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			var lines strings.Builder
			lines.WriteString(listLegend + "\n")

			branches := rt.Cache.Branches()
			maxlen := 0
			for _, b := range branches {
				if len(b.Name()) > maxlen {
					maxlen = len(b.Name())
				}
			}

			current, onBranch := rt.Cache.CurrentBranch()
			for _, b := range branches {
				if b.Hidden() && !all {
					continue
				}
				marks := typMark(b) + reviewMark(b) + debugMark(b) + rt.Cache.MergeStatus(b).Mark()

				name := string(b.Name())
				pad := strings.Repeat(" ", maxlen-len(name))
				switch {
				case onBranch && b.Name() == current.Name():
					name = output.ColorCurrent(name)
				case b.Protected():
					name = output.ColorProtected(name)
				}

				desc := ""
				if b.Description() != "" {
					desc = output.ColorDim(" | " + b.Description())
				}

				fmt.Fprintf(&lines, "%s %s%s%s\n", output.ColorMerged(marks), name, pad, desc)
			}

			rt.Splog.Page(lines.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden branches.")

	return cmd
}

func typMark(b *repo.Branch) string {
	switch {
	case b.IsJflow():
		return "j"
	case b.IsStgit():
		return "s"
	}
	return "."
}

func reviewMark(b *repo.Branch) string {
	if _, ok := b.Review(); ok {
		return "R"
	}
	if _, ok := b.Public(); ok {
		return "r"
	}
	return "."
}

func debugMark(b *repo.Branch) string {
	if _, ok := b.Debug(); ok {
		return "D"
	}
	if _, ok := b.LDebug(); ok {
		return "d"
	}
	return "."
}
