package repo

import (
	"fmt"

	"github.com/diseaz-joom/dsaflow/internal/config"
	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
)

// Jflow protocol versions. Version 0 is any branch without jflow config:
// relationships come from the generic git tracking config. Version 1 stores
// every relationship explicitly under branch.<name>.jflow.
const (
	versionLegacy   = 0
	versionExplicit = 1
)

// Related holds the derived ref names of a logical branch. An empty name
// means the relationship is not configured.
type Related struct {
	// Upstream is what the branch logically tracks and will merge into.
	Upstream git.RefName
	// Fork is what the branch was physically forked from. May differ from
	// upstream, e.g. a tested branch that follows upstream only when CI
	// passes.
	Fork git.RefName
	// Public is the review-friendly rendering of the branch in the local
	// repository.
	Public git.RefName
	// Review is the public branch pushed to the remote for review.
	Review git.RefName
	// Debug is a remote branch for running CI tests.
	Debug git.RefName
	// LDebug is the local counterpart of Debug.
	LDebug git.RefName
	// Tested is what new branches should fork from by default when this
	// branch is their upstream.
	Tested git.RefName
	// Stack is the StGit metadata ref, present for stack-managed branches.
	Stack git.RefName
}

// GenericBranch derives a logical branch's relationships from config
// alone, without a repository snapshot to resolve them against.
type GenericBranch struct {
	ref  git.RefName
	root config.Root
	cfg  config.BranchCfg

	related *Related
}

// NewGenericBranch wraps a branch-like ref. Returns an error for refs that
// do not name a branch.
func NewGenericBranch(root config.Root, ref git.RefName) (*GenericBranch, error) {
	name := ref.Branch()
	if name == "" {
		return nil, fmt.Errorf("not a branch ref: %q", ref)
	}
	return &GenericBranch{
		ref:  ref,
		root: root,
		cfg:  root.Branch(name),
	}, nil
}

// RefName returns the head ref the branch is keyed by.
func (b *GenericBranch) RefName() git.RefName {
	return b.ref
}

// Name returns the branch name.
func (b *GenericBranch) Name() git.BranchName {
	return b.cfg.Name
}

// Remote returns the remote the branch publishes to.
func (b *GenericBranch) Remote() string {
	if remote, ok := b.cfg.Jflow.RemoteName.Get(); ok && remote != "" {
		return remote
	}
	return b.root.Jflow.Remote.Get()
}

// Description returns the free-text branch description.
func (b *GenericBranch) Description() string {
	return b.cfg.Description.Get()
}

// Hidden reports whether the branch is excluded from listings.
func (b *GenericBranch) Hidden() bool {
	return b.cfg.Jflow.Hidden.Get()
}

// Protected reports whether the branch must not be deleted.
func (b *GenericBranch) Protected() bool {
	return b.cfg.Jflow.Protected.Get()
}

// Version returns the jflow protocol version. Only the branch-level key
// counts: templates seed the version when a branch is started, so a plain
// git branch under a template prefix stays legacy.
func (b *GenericBranch) Version() int {
	if v, ok := b.cfg.Jflow.Version.Get(); ok {
		return v
	}
	return versionLegacy
}

// IsJflow reports whether the branch is jflow-managed.
func (b *GenericBranch) IsJflow() bool {
	return b.Version() != versionLegacy
}

// IsStgit reports whether the branch is under StGit control.
func (b *GenericBranch) IsStgit() bool {
	v, ok := b.cfg.Stgit.Version.Get()
	return ok && v != 0
}

// Related derives all relationship ref names for the branch. Fails with
// UnsupportedVersionError for any protocol version this build does not
// implement; there is no recovery from that.
func (b *GenericBranch) Related() (*Related, error) {
	if b.related != nil {
		return b.related, nil
	}

	var related *Related
	switch v := b.Version(); v {
	case versionLegacy:
		related = b.resolveLegacy()
	case versionExplicit:
		related = b.resolveExplicit()
	default:
		return nil, jferrors.NewUnsupportedVersionError(string(b.Name()), v)
	}

	if related.Fork == "" {
		related.Fork = related.Upstream
	}
	if tested, ok := b.cfg.Jflow.Tested.Get(); ok && tested != "" {
		related.Tested = git.ForBranch(git.RemoteLocal, tested)
	}
	if b.IsStgit() {
		related.Stack = b.ref.StackRef()
	}

	b.related = related
	return related, nil
}

// resolveLegacy derives relationships for branches without explicit jflow
// config: upstream comes from the branch-level jflow key if present, else
// the generic remote/merge tracking config, else the template default.
func (b *GenericBranch) resolveLegacy() *Related {
	related := &Related{}

	if name := b.upstreamName(); name != "" {
		related.Upstream = git.ForBranch(git.RemoteLocal, name)
	} else if merge := b.cfg.Merge.Get(); merge != "" {
		if branch := git.RefName(merge).Branch(); branch != "" {
			remote := b.cfg.Remote.Get()
			if remote == "" {
				remote = git.RemoteLocal
			}
			related.Upstream = git.ForBranch(remote, branch)
		}
	} else if tplName := b.templateUpstream(); tplName != "" {
		related.Upstream = git.ForBranch(git.RemoteLocal, tplName)
	}

	return related
}

// resolveExplicit derives relationships for version 1 branches, where every
// relationship is a branch name under branch.<name>.jflow.
func (b *GenericBranch) resolveExplicit() *Related {
	related := &Related{}

	if name := b.cascade(b.cfg.Jflow.Upstream, func(t config.TemplateCfg) config.MaybeValue[string] { return t.Upstream }); name != "" {
		related.Upstream = git.ForBranch(git.RemoteLocal, name)
	}
	if name := b.cascade(b.cfg.Jflow.Fork, func(t config.TemplateCfg) config.MaybeValue[string] { return t.Fork }); name != "" {
		related.Fork = git.ForBranch(git.RemoteLocal, name)
	}

	if name, ok := b.cfg.Jflow.LReview.Get(); ok && name != "" {
		related.Public = git.ForBranch(git.RemoteLocal, name)
	}
	if name, ok := b.cfg.Jflow.Review.Get(); ok && name != "" {
		related.Review = git.ForBranch(b.Remote(), name)
	}

	debugName, hasDebug := b.cfg.Jflow.Debug.Get()
	if hasDebug && debugName != "" {
		related.Debug = git.ForBranch(b.Remote(), debugName)
	}
	// ldebug defaults to the debug name, kept locally.
	ldebugName, ok := b.cfg.Jflow.LDebug.Get()
	if !ok || ldebugName == "" {
		ldebugName = debugName
	}
	if ldebugName != "" {
		related.LDebug = git.ForBranch(git.RemoteLocal, ldebugName)
	}

	return related
}

func (b *GenericBranch) upstreamName() git.BranchName {
	name, _ := b.cfg.Jflow.Upstream.Get()
	return name
}

func (b *GenericBranch) templateUpstream() git.BranchName {
	tpl, ok := b.root.TemplateFor(b.Name())
	if !ok {
		return ""
	}
	name, _ := tpl.Upstream.Get()
	return git.BranchName(name)
}

// cascade reads a branch-scoped setting: branch-level key first, then the
// longest matching template prefix, then absent.
func (b *GenericBranch) cascade(branchValue config.MaybeValue[git.BranchName], templateValue func(config.TemplateCfg) config.MaybeValue[string]) git.BranchName {
	if name, ok := branchValue.Get(); ok && name != "" {
		return name
	}
	if tpl, ok := b.root.TemplateFor(b.Name()); ok {
		if name, ok := templateValue(tpl).Get(); ok && name != "" {
			return git.BranchName(name)
		}
	}
	return ""
}

// Sync reports whether jf sync should fast-forward the branch: explicitly
// enabled, or globally autosynced when upstream is a remote-tracking ref.
func (b *GenericBranch) Sync() (bool, error) {
	if b.cfg.Jflow.Sync.Get() {
		return true, nil
	}
	if !b.root.Jflow.Autosync.Get() {
		return false, nil
	}
	related, err := b.Related()
	if err != nil {
		return false, err
	}
	return related.Upstream != "" && related.Upstream.IsRemote(), nil
}

// RelatedRefs returns the refs owned by this branch: its public and local
// debug renderings (when distinct from the head itself) and its stack
// metadata ref. A ref produced here must never be listed as an independent
// branch.
func (b *GenericBranch) RelatedRefs() ([]git.RefName, error) {
	related, err := b.Related()
	if err != nil {
		return nil, err
	}
	var refs []git.RefName
	if related.Public != "" && related.Public != b.ref {
		refs = append(refs, related.Public)
	}
	if related.LDebug != "" && related.LDebug != b.ref {
		refs = append(refs, related.LDebug)
	}
	if related.Stack != "" {
		refs = append(refs, related.Stack)
	}
	return refs, nil
}
