package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/diseaz-joom/dsaflow/internal/config"
	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
)

// newConfigCmd creates the config command
func newConfigCmd(quiet *bool) *cobra.Command {
	var (
		branchName string
		setKey     string
		setValue   string
		unset      bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the jflow config of a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getContext(cmd.Context(), *quiet)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			name := git.BranchName(branchName)
			if name == "" {
				current, ok := rt.Cache.CurrentBranch()
				if !ok {
					return jferrors.ErrNotOnBranch
				}
				name = current.Name()
			}
			if _, ok := rt.Cache.Branch(name); !ok {
				return jferrors.NewNotFoundError("branch", string(name))
			}
			bk := rt.Cache.Cfg.Branch(name)

			if setKey != "" {
				if unset {
					return bk.Jflow.UnsetRaw(cmd.Context(), setKey)
				}
				return bk.Jflow.SetRaw(cmd.Context(), setKey, setValue)
			}

			rows := configRows(bk)

			var buf strings.Builder
			table := tablewriter.NewWriter(&buf)
			table.SetHeader([]string{"Key", "Value"})
			table.SetBorder(false)
			table.SetColumnSeparator(" ")
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.AppendBulk(rows)
			table.Render()

			rt.Splog.Page(buf.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&branchName, "branch", "b", "", "Branch to operate on. Defaults to the current branch.")
	cmd.Flags().StringVarP(&setKey, "set", "s", "", "Jflow config key to set.")
	cmd.Flags().StringVarP(&setValue, "value", "v", "", "Value to set.")
	cmd.Flags().BoolVar(&unset, "unset", false, "Unset the key instead of setting it.")

	return cmd
}

// configRows collects the branch's tracking, StGit and jflow config as
// table rows.
func configRows(bk config.BranchCfg) [][]string {
	var rows [][]string

	add := func(path, value string) {
		rows = append(rows, []string{path, value})
	}

	if v := bk.Remote.Get(); v != "" {
		add(bk.Remote.Path(), v)
	}
	if v := bk.Merge.Get(); v != "" {
		add(bk.Merge.Path(), v)
	}
	if v, ok := bk.Stgit.Version.Get(); ok {
		add(bk.Stgit.Version.Path(), fmt.Sprint(v))
	}
	if v, ok := bk.Stgit.ParentBranch.Get(); ok {
		add(bk.Stgit.ParentBranch.Path(), v)
	}

	prefix := bk.Jflow.Path() + config.Separator
	var jflowKeys []string
	for key := range bk.Raw() {
		if strings.HasPrefix(key, prefix) {
			jflowKeys = append(jflowKeys, key)
		}
	}
	sort.Strings(jflowKeys)
	for _, key := range jflowKeys {
		add(key, strings.Join(bk.Raw()[key], ", "))
	}

	return rows
}
