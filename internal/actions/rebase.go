package actions

import (
	"context"
	"fmt"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/repo"
	"github.com/diseaz-joom/dsaflow/internal/runtime"
)

// RebaseOptions configures rebasing of the current branch.
type RebaseOptions struct {
	// Message for republishing the public branch before the rebase.
	Message string
	// Fork overrides the base to rebase onto.
	Fork string
}

// Rebase moves the current branch onto a fresh tip of its fork point,
// dropping patches that upstream already merged.
func Rebase(ctx context.Context, rt *runtime.Context, opts RebaseOptions) error {
	if err := git.CheckWorkdirIsClean(ctx); err != nil {
		return err
	}

	branch, ok := rt.Cache.CurrentBranch()
	if !ok {
		return jferrors.ErrNotOnBranch
	}
	if !branch.IsJflow() {
		return fmt.Errorf("rebase of non-jflow branch %q is not implemented", branch.Name())
	}
	if !branch.IsStgit() {
		return fmt.Errorf("rebase of non-StGit branch %q is not implemented", branch.Name())
	}

	// Preserve the published rendering: the public branch gets the
	// pre-rebase state as one more commit, and the merge result after.
	related, err := branch.Related()
	if err != nil {
		return err
	}
	needPublish := false
	if related.Public != "" {
		if _, ok := branch.Public(); ok {
			needPublish = true
		}
	}
	if needPublish {
		if _, _, err := publishLocalPublic(ctx, rt, branch, opts.Message, false); err != nil {
			return err
		}
	}

	base, err := rebaseBase(rt, branch, opts.Fork)
	if err != nil {
		return err
	}

	if err := git.MutateStgCommand(ctx, "rebase", "--merged", string(base.Name)); err != nil {
		return err
	}
	if err := git.CleanUntracked(ctx); err != nil {
		return err
	}
	if err := git.RemoveUntrackedFiles(ctx); err != nil {
		return err
	}

	if needPublish {
		msg := fmt.Sprintf("Merge %s into %s", base.Name.Branch(), branch.Name())
		if _, _, err := publishLocalPublic(ctx, rt, branch, msg, false); err != nil {
			return err
		}
	}
	return nil
}

// rebaseBase picks the ref to rebase onto: the explicit override, else the
// branch's fork, else its upstream. Only local branches qualify.
func rebaseBase(rt *runtime.Context, branch *repo.Branch, override string) (git.Ref, error) {
	if override != "" {
		ref, err := rt.Cache.GetRef(git.RefName(override))
		if err != nil {
			return git.Ref{}, err
		}
		if ref.Name.Kind() != git.KindHead {
			return git.Ref{}, fmt.Errorf("not a local branch: %q", ref.Name)
		}
		return ref, nil
	}

	if ref, ok := branch.Fork(); ok {
		if ref.Name.Kind() == git.KindHead {
			return ref, nil
		}
		rt.Splog.Warn("Fork ref %q is not a local branch", ref.Name)
	}
	if ref, ok := branch.Upstream(); ok {
		if ref.Name.Kind() == git.KindHead {
			return ref, nil
		}
		rt.Splog.Warn("Upstream ref %q is not a local branch", ref.Name)
	}
	return git.Ref{}, fmt.Errorf("nothing to rebase %q onto", branch.Name())
}
