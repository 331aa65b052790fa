package actions

import (
	"context"

	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/runtime"
)

// SyncOptions configures synchronization from the remote.
type SyncOptions struct {
	// WithGreen also refreshes the tested branches from CI.
	WithGreen bool
	// Jenkins credentials, used when WithGreen is set.
	JenkinsPrefix   string
	JenkinsCredPath string
}

// Sync fetches all remotes and fast-forwards every sync-enabled branch to
// its upstream. Runs detached so branches can move under a checked-out
// worktree.
func Sync(ctx context.Context, rt *runtime.Context, opts SyncOptions) error {
	if err := git.CheckWorkdirIsClean(ctx); err != nil {
		return err
	}

	return git.DetachHead(ctx, func() error {
		if err := git.FetchAllPrune(ctx); err != nil {
			return err
		}
		if err := rt.Reload(ctx); err != nil {
			return err
		}

		for _, branch := range rt.Cache.Branches() {
			sync, err := branch.Sync()
			if err != nil {
				return err
			}
			if !sync {
				continue
			}
			upstream, ok := branch.Upstream()
			if !ok {
				continue
			}
			if rt.Cache.IsMergedInto(upstream.Sha, branch.Sha()) {
				continue
			}
			rt.Splog.Info("Syncing %s to %s", branch.Name(), upstream.Name)
			if err := git.ForceBranch(ctx, branch.Name(), string(upstream.Name)); err != nil {
				return err
			}
		}

		if !opts.WithGreen {
			return nil
		}
		if err := rt.Reload(ctx); err != nil {
			return err
		}
		for _, branch := range rt.Cache.Branches() {
			related, err := branch.Related()
			if err != nil {
				return err
			}
			if related.Tested == "" {
				continue
			}
			if err := greenBranch(ctx, rt, branch, opts.JenkinsPrefix, opts.JenkinsCredPath); err != nil {
				return err
			}
		}
		return nil
	})
}
