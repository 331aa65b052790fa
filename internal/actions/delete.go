package actions

import (
	"context"
	"fmt"
	"sort"

	"github.com/AlecAivazis/survey/v2"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/repo"
	"github.com/diseaz-joom/dsaflow/internal/runtime"
)

// DeleteOptions selects the branches to remove.
type DeleteOptions struct {
	// Branches are names or abbreviations of branches to delete.
	Branches []string
	// Merged additionally selects every branch at this merge tier or
	// higher.
	Merged repo.MergeStatus
	// Force skips the confirmation prompt.
	Force bool
}

// Delete removes branches together with their derived refs and jflow
// config.
func Delete(ctx context.Context, rt *runtime.Context, opts DeleteOptions) error {
	selected := make(map[git.BranchName]*repo.Branch)

	for _, arg := range opts.Branches {
		branch, ok := rt.Cache.BranchByAbbrev(git.RefName(arg))
		if !ok {
			return jferrors.NewNotFoundError("branch", arg)
		}
		selected[branch.Name()] = branch
	}

	if opts.Merged != repo.MergeNone {
		for _, branch := range rt.Cache.Branches() {
			if rt.Cache.MergeStatus(branch).AtLeast(opts.Merged) {
				selected[branch.Name()] = branch
			}
		}
	}

	current, onBranch := rt.Cache.CurrentBranch()

	var victims []*repo.Branch
	for _, branch := range selected {
		if onBranch && branch.Name() == current.Name() {
			rt.Splog.Error("Cannot delete the current branch %q", branch.Name())
			continue
		}
		if branch.Protected() {
			rt.Splog.Error("Branch %q is protected", branch.Name())
			continue
		}
		victims = append(victims, branch)
	}
	if len(victims) == 0 {
		rt.Splog.Info("Nothing to delete")
		return nil
	}
	sort.Slice(victims, func(i, j int) bool { return victims[i].Name() < victims[j].Name() })

	if !opts.Force {
		names := make([]string, 0, len(victims))
		for _, b := range victims {
			names = append(names, string(b.Name()))
		}
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Delete %d branch(es): %v?", len(victims), names),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	for _, branch := range victims {
		if err := deleteBranch(ctx, rt, branch); err != nil {
			return err
		}
	}
	return nil
}

func deleteBranch(ctx context.Context, rt *runtime.Context, b *repo.Branch) error {
	if !b.IsJflow() {
		return removeBranch(ctx, b)
	}

	related, err := b.Related()
	if err != nil {
		return err
	}

	// Derived refs go first, the branch itself last.
	derived := make(map[git.RefName]bool)
	for _, name := range []git.RefName{related.Public, related.LDebug, related.Review, related.Debug} {
		if name != "" && name != b.RefName() {
			derived[name] = true
		}
	}
	names := make([]git.RefName, 0, len(derived))
	for name := range derived {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, name := range names {
		if err := removeRef(ctx, rt, name); err != nil {
			return err
		}
	}

	if err := removeBranch(ctx, b); err != nil {
		return err
	}
	return git.RemoveConfigSection(ctx, rt.Cache.Cfg.Branch(b.Name()).Jflow.Path())
}

// removeRef deletes a derived ref: remote refs through a push, local ones
// directly. Refs that do not exist in the snapshot are skipped.
func removeRef(ctx context.Context, rt *runtime.Context, name git.RefName) error {
	if _, ok := rt.Cache.LookupRef(name); !ok {
		return nil
	}
	branch := name.Branch()
	if branch == "" {
		return nil
	}
	if name.IsRemote() {
		remote := name.Remote()
		if remote == "" {
			return fmt.Errorf("no remote for ref %q", name)
		}
		return git.DeleteRemoteBranch(ctx, remote, branch)
	}
	return git.DeleteBranch(ctx, branch)
}

func removeBranch(ctx context.Context, b *repo.Branch) error {
	if b.IsStgit() {
		return git.MutateStgCommand(ctx, "branch", "--delete", "--force", string(b.Name()))
	}
	return git.DeleteBranch(ctx, b.Name())
}
