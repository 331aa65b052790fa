package actions

import (
	"context"
	"fmt"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/github"
	"github.com/diseaz-joom/dsaflow/internal/repo"
	"github.com/diseaz-joom/dsaflow/internal/runtime"
	"github.com/diseaz-joom/dsaflow/internal/utils"
)

// PublishOptions configures publishing of the current branch.
type PublishOptions struct {
	// Message for the stg publish commit.
	Message string
	// Debug publishes the debug rendering instead of the review one.
	Debug bool
	// New discards the previous public branch and starts it anew.
	New bool
	// Local stops after updating the local public branch.
	Local bool
	// PR opens the GitHub compare page for a quick pull request.
	PR bool
	// CreatePR opens the pull request through the API instead of the
	// browser.
	CreatePR bool
	// NonClean skips the clean-workdir check.
	NonClean bool
}

// Publish renders the current branch into its public form and pushes it
// for review.
func Publish(ctx context.Context, rt *runtime.Context, opts PublishOptions) error {
	if !opts.NonClean {
		if err := git.CheckWorkdirIsClean(ctx); err != nil {
			return err
		}
	}

	branch, ok := rt.Cache.CurrentBranch()
	if !ok {
		return jferrors.ErrNotOnBranch
	}

	var local, remote git.RefName
	var err error
	if opts.Debug {
		local, remote, err = publishLocalDebug(ctx, rt, branch, opts.Message, opts.New)
	} else {
		local, remote, err = publishLocalPublic(ctx, rt, branch, opts.Message, opts.New)
	}
	if err != nil {
		return err
	}

	if opts.Local {
		return nil
	}

	if remote == "" {
		return fmt.Errorf("branch %q has no remote to publish to", branch.Name())
	}
	remoteBranch := remote.Branch()
	if remoteBranch == "" {
		return fmt.Errorf("cannot extract branch name from ref %q", remote)
	}

	if err := git.Push(ctx, branch.Remote(), local, remoteBranch, true); err != nil {
		return err
	}

	if !opts.PR && !opts.CreatePR {
		return nil
	}
	return openReview(ctx, rt, branch, remoteBranch, opts.CreatePR)
}

// publishLocalPublic refreshes the local public rendering of the branch
// and returns the local ref to push and the remote ref it lands on.
func publishLocalPublic(ctx context.Context, rt *runtime.Context, b *repo.Branch, msg string, forceNew bool) (git.RefName, git.RefName, error) {
	related, err := b.Related()
	if err != nil {
		return "", "", err
	}
	if related.Public == "" {
		return "", "", jferrors.NewMissingRelationshipError(string(b.Name()), "public")
	}
	if b.RefName() == related.Public {
		return related.Public, related.Review, nil
	}
	if !b.IsStgit() {
		return "", "", fmt.Errorf("publishing non-StGit branch %q is not implemented", b.Name())
	}

	publicBranch := related.Public.Branch()
	publicRef, havePublic := b.Public()
	if forceNew && havePublic {
		if err := git.MutateStgCommand(ctx, "branch", "--delete", "--force", string(publicBranch)); err != nil {
			return "", "", err
		}
		havePublic = false
	}

	// Keep public history linear: restart it from the debug rendering
	// when that already contains everything published so far.
	if ldebug, ok := b.LDebug(); ok {
		if !havePublic || rt.Cache.IsMergedInto(publicRef.Sha, ldebug.Sha) {
			if err := git.ForceBranch(ctx, publicBranch, string(ldebug.Name)); err != nil {
				return "", "", err
			}
		}
	}

	if err := stgPublish(ctx, publicBranch, msg); err != nil {
		return "", "", err
	}
	return related.Public, related.Review, nil
}

// publishLocalDebug is the debug counterpart of publishLocalPublic: it
// refreshes the local debug rendering which pushes to the CI debug branch.
func publishLocalDebug(ctx context.Context, rt *runtime.Context, b *repo.Branch, msg string, forceNew bool) (git.RefName, git.RefName, error) {
	related, err := b.Related()
	if err != nil {
		return "", "", err
	}
	if related.LDebug == "" {
		return "", "", jferrors.NewMissingRelationshipError(string(b.Name()), "ldebug")
	}
	if b.RefName() == related.LDebug {
		return related.LDebug, related.Debug, nil
	}
	if !b.IsStgit() {
		return "", "", fmt.Errorf("publishing non-StGit branch %q is not implemented", b.Name())
	}

	debugBranch := related.LDebug.Branch()
	debugRef, haveDebug := b.LDebug()
	if forceNew {
		if haveDebug {
			if err := git.MutateStgCommand(ctx, "branch", "--delete", "--force", string(debugBranch)); err != nil {
				return "", "", err
			}
		}
	} else if public, ok := b.Public(); ok {
		if !haveDebug || rt.Cache.IsMergedInto(debugRef.Sha, public.Sha) {
			if err := git.ForceBranch(ctx, debugBranch, string(public.Name)); err != nil {
				return "", "", err
			}
		}
	}

	if err := stgPublish(ctx, debugBranch, msg); err != nil {
		return "", "", err
	}
	return related.LDebug, related.Debug, nil
}

func stgPublish(ctx context.Context, branch git.BranchName, msg string) error {
	args := []string{"publish"}
	if msg != "" {
		args = append(args, "--message="+msg)
	}
	args = append(args, string(branch))
	return git.MutateStgCommand(ctx, args...)
}

// openReview opens the review for the pushed branch: either the GitHub
// compare page in a browser or a pull request through the API.
func openReview(ctx context.Context, rt *runtime.Context, b *repo.Branch, head git.BranchName, viaAPI bool) error {
	related, err := b.Related()
	if err != nil {
		return err
	}
	if related.Upstream == "" {
		return jferrors.NewMissingRelationshipError(string(b.Name()), "upstream")
	}
	base := related.Upstream.Branch()

	remoteURL, ok := rt.Cache.Cfg.RemoteURL(b.Remote())
	if !ok {
		remoteURL = git.GetRemoteURL(b.Remote())
	}
	if remoteURL == "" {
		return fmt.Errorf("remote %q has no URL configured", b.Remote())
	}

	if viaAPI {
		repoSlug, ok := github.ParseRemoteRepo(remoteURL)
		if !ok {
			return fmt.Errorf("remote %q is not a GitHub remote", b.Remote())
		}
		client, err := github.NewClient(ctx)
		if err != nil {
			return err
		}
		// Repeated publishes reuse the open pull request for the head.
		if url, found, err := client.FindPullRequest(ctx, repoSlug, string(head)); err != nil {
			return err
		} else if found {
			rt.Splog.Info("Pull request already open: %s", url)
			return nil
		}
		url, err := client.CreatePullRequest(ctx, github.ReviewParams{
			Repo:        repoSlug,
			Base:        base,
			Head:        head,
			Description: b.Description(),
		})
		if err != nil {
			return err
		}
		rt.Splog.Info("Created pull request: %s", url)
		return nil
	}

	url, ok := github.ReviewURL(remoteURL, base, head, b.Description())
	if !ok {
		return fmt.Errorf("remote %q is not a GitHub remote", b.Remote())
	}
	if git.DryRun() {
		rt.Splog.Info("Would open %s", url)
		return nil
	}
	return utils.OpenBrowser(url)
}
