package actions

import (
	"context"
	"fmt"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/jenkins"
	"github.com/diseaz-joom/dsaflow/internal/repo"
	"github.com/diseaz-joom/dsaflow/internal/runtime"
)

// GreenOptions configures updating tested branches from CI.
type GreenOptions struct {
	// Branch limits the update to one branch. Empty means every branch
	// in jflow.default-green.
	Branch string

	JenkinsPrefix   string
	JenkinsCredPath string
}

// Green moves the tested branch of a CI-covered branch to the last commit
// that passed the build.
func Green(ctx context.Context, rt *runtime.Context, opts GreenOptions) error {
	if err := git.CheckWorkdirIsClean(ctx); err != nil {
		return err
	}

	if opts.Branch != "" {
		branch, ok := rt.Cache.BranchByAbbrev(git.RefName(opts.Branch))
		if !ok {
			return jferrors.NewNotFoundError("branch", opts.Branch)
		}
		return greenBranch(ctx, rt, branch, opts.JenkinsPrefix, opts.JenkinsCredPath)
	}

	for _, name := range rt.Cache.Cfg.Jflow.DefaultGreen.Get() {
		branch, ok := rt.Cache.Branch(git.BranchName(name))
		if !ok {
			return jferrors.NewNotFoundError("branch", name)
		}
		if err := greenBranch(ctx, rt, branch, opts.JenkinsPrefix, opts.JenkinsCredPath); err != nil {
			return err
		}
	}
	return nil
}

func greenBranch(ctx context.Context, rt *runtime.Context, b *repo.Branch, prefix, credPath string) error {
	related, err := b.Related()
	if err != nil {
		return err
	}
	if related.Tested == "" {
		return jferrors.NewMissingRelationshipError(string(b.Name()), "tested")
	}
	greenName := related.Tested.Branch()
	greenUpstream := git.ForBranch(git.RemoteOrigin, greenName)

	if b.RefName() == greenUpstream {
		rt.Splog.Debug("Branch %s is its own tested upstream", b.Name())
		return nil
	}

	greenRef, haveGreen, err := greenSync(ctx, rt, greenName)
	if err != nil {
		return err
	}

	client, err := jenkins.NewClient(prefix, credPath)
	if err != nil {
		return err
	}
	newSha, err := client.LastSuccessfulSha(ctx, b.Name())
	if err != nil {
		return err
	}
	rt.Splog.Info("Last successful build of %s: %s", b.Name(), newSha)

	if _, ok := rt.Cache.Commit(newSha); !ok {
		return fmt.Errorf("tested commit %s is not in the local repository, run `jf sync` first", newSha)
	}
	// Never move the tested branch backwards.
	if haveGreen && rt.Cache.IsMergedInto(newSha, greenRef.Sha) {
		return nil
	}

	if err := git.ForceBranch(ctx, greenName, string(newSha)); err != nil {
		return err
	}
	if _, ok := rt.Cache.LookupRef(greenUpstream); ok {
		return git.SetUpstream(ctx, greenName, greenUpstream)
	}
	return nil
}

// greenSync brings the local tested branch up to date with its origin
// counterpart before consulting CI, creating it hidden when absent.
func greenSync(ctx context.Context, rt *runtime.Context, name git.BranchName) (git.Ref, bool, error) {
	upstream, haveUpstream := rt.Cache.LookupRef(git.ForBranch(git.RemoteOrigin, name))
	local, haveLocal := rt.Cache.LookupRef(git.ForBranch(git.RemoteLocal, name))
	if !haveUpstream {
		return local, haveLocal, nil
	}

	if !haveLocal {
		if err := git.ForceBranch(ctx, name, string(upstream.Name)); err != nil {
			return git.Ref{}, false, err
		}
		if err := rt.Cache.Cfg.Branch(name).Jflow.Hidden.Set(ctx, true); err != nil {
			return git.Ref{}, false, err
		}
		return git.Ref{Name: git.ForBranch(git.RemoteLocal, name), Sha: upstream.Sha}, true, nil
	}

	if rt.Cache.IsMergedInto(upstream.Sha, local.Sha) {
		return local, true, nil
	}

	if err := git.ForceBranch(ctx, name, string(upstream.Name)); err != nil {
		return git.Ref{}, false, err
	}
	return git.Ref{Name: local.Name, Sha: upstream.Sha}, true, nil
}
