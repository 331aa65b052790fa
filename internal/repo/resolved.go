package repo

import (
	"github.com/diseaz-joom/dsaflow/internal/git"
)

// Branch is a logical branch bound to a repository snapshot, so its derived
// ref names can be resolved to concrete refs.
type Branch struct {
	*GenericBranch

	// Ref is the resolved head ref.
	Ref git.Ref

	cache *Cache
}

// Sha returns the commit the head ref points at.
func (b *Branch) Sha() git.Sha {
	return b.Ref.Sha
}

func (b *Branch) resolve(name git.RefName) (git.Ref, bool) {
	if name == "" {
		return git.Ref{}, false
	}
	return b.cache.LookupRef(name)
}

// Upstream resolves the upstream ref in the snapshot.
func (b *Branch) Upstream() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.Upstream)
}

// Fork resolves the fork ref in the snapshot.
func (b *Branch) Fork() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.Fork)
}

// Public resolves the local review ref in the snapshot.
func (b *Branch) Public() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.Public)
}

// Review resolves the remote review ref in the snapshot.
func (b *Branch) Review() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.Review)
}

// Debug resolves the remote debug ref in the snapshot.
func (b *Branch) Debug() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.Debug)
}

// LDebug resolves the local debug ref in the snapshot.
func (b *Branch) LDebug() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.LDebug)
}

// Tested resolves the tested ref in the snapshot.
func (b *Branch) Tested() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.Tested)
}

// Stack resolves the StGit metadata ref in the snapshot.
func (b *Branch) Stack() (git.Ref, bool) {
	related, err := b.Related()
	if err != nil {
		return git.Ref{}, false
	}
	return b.resolve(related.Stack)
}

// UpstreamBranch returns the logical branch the upstream ref belongs to,
// when the upstream is itself a listed branch.
func (b *Branch) UpstreamBranch() (*Branch, bool) {
	ref, ok := b.Upstream()
	if !ok {
		return nil, false
	}
	return b.cache.BranchByRef(ref.Name)
}

// ForkBranch returns the logical branch the fork ref belongs to.
func (b *Branch) ForkBranch() (*Branch, bool) {
	ref, ok := b.Fork()
	if !ok {
		return nil, false
	}
	return b.cache.BranchByRef(ref.Name)
}
