// Package actions implements the jf workflows behind the CLI commands.
package actions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/diseaz-joom/dsaflow/internal/config"
	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
	"github.com/diseaz-joom/dsaflow/internal/runtime"
)

// StartOptions configures a new branch.
type StartOptions struct {
	Name        git.BranchName
	Description string

	// Explicit relationship overrides. Empty values come from the
	// matching templates.
	Upstream string
	Fork     string
	LReview  string
	Review   string
	LDebug   string
	Debug    string
}

// templateParams accumulates template values across all matching
// prefixes, shortest first so that more specific templates override.
type templateParams struct {
	version int

	upstream string
	fork     string

	lreviewPrefix, lreviewSuffix string
	reviewPrefix, reviewSuffix   string
	ldebugPrefix, ldebugSuffix   string
	debugPrefix, debugSuffix     string
}

func collectTemplates(cfg config.Root, name git.BranchName) (templateParams, string, error) {
	var matches []string
	for _, prefix := range cfg.Jflow.Templates() {
		if !strings.HasPrefix(string(name), prefix) {
			continue
		}
		if v, ok := cfg.Jflow.Template(prefix).Version.Get(); !ok || v != 1 {
			continue
		}
		matches = append(matches, prefix)
	}
	if len(matches) == 0 {
		return templateParams{}, "", fmt.Errorf("no template matches branch %q", name)
	}
	sort.Slice(matches, func(i, j int) bool { return len(matches[i]) < len(matches[j]) })
	longest := matches[len(matches)-1]

	// Prefixes of derived branch names default to the template prefix, so
	// "feature/x" produces "feature/x.public" style siblings.
	p := templateParams{
		lreviewPrefix: longest,
		reviewPrefix:  longest,
		ldebugPrefix:  longest,
		debugPrefix:   longest,
	}
	for _, prefix := range matches {
		tpl := cfg.Jflow.Template(prefix)
		if v, ok := tpl.Version.Get(); ok {
			p.version = v
		}
		assign := func(dst *string, v config.MaybeValue[string]) {
			if s, ok := v.Get(); ok {
				*dst = s
			}
		}
		assign(&p.upstream, tpl.Upstream)
		assign(&p.fork, tpl.Fork)
		assign(&p.lreviewPrefix, tpl.LReviewPrefix)
		assign(&p.lreviewSuffix, tpl.LReviewSuffix)
		assign(&p.reviewPrefix, tpl.ReviewPrefix)
		assign(&p.reviewSuffix, tpl.ReviewSuffix)
		assign(&p.ldebugPrefix, tpl.LDebugPrefix)
		assign(&p.ldebugSuffix, tpl.LDebugSuffix)
		assign(&p.debugPrefix, tpl.DebugPrefix)
		assign(&p.debugSuffix, tpl.DebugSuffix)
	}

	if p.fork == "" {
		p.fork = p.upstream
	}
	if p.ldebugSuffix == "" {
		p.ldebugSuffix = p.debugSuffix
	}

	return p, longest, nil
}

// Start creates a new stack-managed branch from the templates matching its
// name, records its relationships in config and leaves an empty WIP patch
// on top.
func Start(ctx context.Context, rt *runtime.Context, opts StartOptions) error {
	if err := git.CheckWorkdirIsClean(ctx); err != nil {
		return err
	}

	cfg := rt.Cache.Cfg

	p, prefix, err := collectTemplates(cfg, opts.Name)
	if err != nil {
		return err
	}
	base := strings.TrimPrefix(string(opts.Name), prefix)

	derive := func(override, defPrefix, defSuffix string) string {
		if override != "" {
			return override
		}
		return defPrefix + base + defSuffix
	}
	lreview := derive(opts.LReview, p.lreviewPrefix, p.lreviewSuffix)
	review := derive(opts.Review, p.reviewPrefix, p.reviewSuffix)
	ldebug := derive(opts.LDebug, p.ldebugPrefix, p.ldebugSuffix)
	debug := derive(opts.Debug, p.debugPrefix, p.debugSuffix)

	upstreamShortcut := opts.Upstream
	if upstreamShortcut == "" {
		upstreamShortcut = p.upstream
	}
	upstreamRef, ok := rt.Cache.ResolveShortcut(upstreamShortcut)
	if !ok {
		return jferrors.NewNotFoundError("upstream", upstreamShortcut)
	}
	upstream := upstreamRef.Name.Branch()
	if upstream == "" {
		return fmt.Errorf("unsupported upstream ref %q", upstreamRef.Name)
	}

	forkShortcut := opts.Fork
	if forkShortcut == "" {
		forkShortcut = p.fork
	}
	forkRef, ok := rt.Cache.ResolveShortcut(forkShortcut)
	if !ok {
		return jferrors.NewNotFoundError("fork", forkShortcut)
	}
	fork := forkRef.Name.Branch()
	if fork == "" {
		return fmt.Errorf("unsupported fork ref %q", forkRef.Name)
	}

	// A remote fork gets a synced local materialization first.
	if forkRef.Name.IsRemote() {
		if err := git.ForceBranch(ctx, fork, string(forkRef.Name)); err != nil {
			return err
		}
		if err := cfg.Branch(fork).Jflow.Sync.Set(ctx, true); err != nil {
			return err
		}
		forkRef.Name = git.ForBranch(git.RemoteLocal, fork)
	}

	if err := git.MutateStgCommand(ctx, "branch", "--create", string(opts.Name), string(forkRef.Name)); err != nil {
		return err
	}
	if err := git.MutateStgCommand(ctx, "new", "--message=WIP", "wip"); err != nil {
		return err
	}

	bk := cfg.Branch(opts.Name).Jflow
	if err := bk.Version.Set(ctx, p.version); err != nil {
		return err
	}
	relationships := []struct {
		key   config.MaybeValue[git.BranchName]
		value string
	}{
		{bk.Upstream, string(upstream)},
		{bk.Fork, string(fork)},
		{bk.LReview, lreview},
		{bk.Review, review},
		{bk.LDebug, ldebug},
		{bk.Debug, debug},
	}
	for _, r := range relationships {
		if r.value == "" {
			continue
		}
		if err := r.key.Set(ctx, git.BranchName(r.value)); err != nil {
			return err
		}
	}
	if p.debugPrefix != "" {
		if err := bk.DebugPrefix.Set(ctx, p.debugPrefix); err != nil {
			return err
		}
	}
	if p.debugSuffix != "" {
		if err := bk.DebugSuffix.Set(ctx, p.debugSuffix); err != nil {
			return err
		}
	}
	if opts.Description != "" {
		if err := cfg.Branch(opts.Name).Description.Set(ctx, opts.Description); err != nil {
			return err
		}
	}

	rt.Splog.Info("Started %s (template %q, upstream %s)", opts.Name, prefix, upstream)
	return nil
}
