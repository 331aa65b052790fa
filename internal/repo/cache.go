// Package repo assembles a read-only snapshot of the repository: all refs
// with their abbreviation index, the commit graph, and the logical branch
// map derived from config. A snapshot is built once per command invocation
// and never refreshed.
package repo

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/diseaz-joom/dsaflow/internal/config"
	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
)

// Source supplies the raw repository state a Cache is built from.
type Source interface {
	// Refs enumerates all refs with their commit SHAs, including a
	// synthetic HEAD entry.
	Refs(ctx context.Context) ([]git.Ref, error)
	// RevList returns the bulk history listing (git.RevListAll format).
	RevList(ctx context.Context) ([]string, error)
	// Head returns the ref HEAD points at.
	Head(ctx context.Context) (git.RefName, error)
}

// GitSource reads repository state through the git binary.
type GitSource struct{}

// Refs enumerates all refs in the repository.
func (GitSource) Refs(ctx context.Context) ([]git.Ref, error) { return git.ListRefs(ctx) }

// RevList returns the bulk history listing.
func (GitSource) RevList(ctx context.Context) ([]string, error) { return git.RevListAll(ctx) }

// Head returns the current ref.
func (GitSource) Head(ctx context.Context) (git.RefName, error) { return git.CurrentRef(ctx) }

// Cache is an immutable snapshot of refs, commits and branches. Derived
// collections are computed once at load time in dependency order, so a
// loaded Cache is safe for concurrent read-only use.
type Cache struct {
	// Cfg is the config schema the snapshot was built with.
	Cfg config.Root

	refsList    []git.Ref
	refsAbbrevs map[git.RefName][]git.Ref
	refs        map[git.RefName]git.Ref
	commits     map[git.Sha]*git.Commit
	branchByRef map[git.RefName]*Branch
	branches    []*Branch
	head        git.RefName
}

// Load builds the snapshot: refs, then the abbreviation index, then the
// commit graph, then the branch map. Fails on the first branch with an
// unsupported jflow version.
func Load(ctx context.Context, cfg config.Root, src Source) (*Cache, error) {
	c := &Cache{Cfg: cfg}

	var err error
	if c.refsList, err = src.Refs(ctx); err != nil {
		return nil, err
	}
	if c.head, err = src.Head(ctx); err != nil {
		return nil, err
	}

	c.buildAbbrevs()

	lines, err := src.RevList(ctx)
	if err != nil {
		return nil, err
	}
	c.buildCommits(lines)

	if err := c.buildBranches(); err != nil {
		return nil, err
	}
	return c, nil
}

// Open loads a snapshot from the current repository through git.
func Open(ctx context.Context) (*Cache, error) {
	store, err := config.LoadGitStore(ctx)
	if err != nil {
		return nil, err
	}
	return Load(ctx, config.NewRoot(store), GitSource{})
}

func (c *Cache) buildAbbrevs() {
	c.refsAbbrevs = make(map[git.RefName][]git.Ref)
	for _, ref := range c.refsList {
		for _, abbrev := range git.Abbrevs(ref.Name) {
			c.refsAbbrevs[abbrev] = append(c.refsAbbrevs[abbrev], ref)
		}
	}

	// Only collision-free abbreviations resolve; ambiguous ones must fail
	// loudly in GetRef instead of guessing.
	c.refs = make(map[git.RefName]git.Ref)
	for abbrev, refs := range c.refsAbbrevs {
		if len(refs) == 1 {
			c.refs[abbrev] = refs[0]
		}
	}
}

const tagDecorationPrefix = "tag: "

// buildCommits parses the bulk history listing into the commit graph and
// inverts parent links into child links in a second pass.
func (c *Cache) buildCommits(lines []string) {
	c.commits = make(map[git.Sha]*git.Commit)

	var commit *git.Commit
	for _, line := range lines {
		key, value, _ := strings.Cut(line, " ")
		if value == "" {
			continue
		}
		switch key {
		case "commit":
			commit = &git.Commit{Sha: git.Sha(strings.TrimSpace(value))}
			c.commits[commit.Sha] = commit
		case "parents":
			if commit == nil {
				continue
			}
			for _, p := range strings.Fields(value) {
				commit.Parents = append(commit.Parents, git.Sha(p))
			}
		case "refs":
			if commit == nil {
				continue
			}
			commit.Refs = c.mapDecorations(value)
		}
	}

	for _, commit := range c.commits {
		for _, parentSha := range commit.Parents {
			if parent, ok := c.commits[parentSha]; ok {
				parent.Children = append(parent.Children, commit.Sha)
			}
		}
	}
}

// mapDecorations maps "%D" ref decorations back to canonical ref names.
// Decorations that do not resolve to a known unambiguous ref are skipped
// with a diagnostic.
func (c *Cache) mapDecorations(value string) []git.RefName {
	var refs []git.RefName
	for _, item := range strings.Split(value, ", ") {
		symbolic, target, hasArrow := strings.Cut(item, " -> ")
		name := symbolic
		if hasArrow {
			name = target
		}
		if tag, ok := strings.CutPrefix(name, tagDecorationPrefix); ok {
			name = git.TagPrefix + tag
		}
		ref, ok := c.refs[git.RefName(name)]
		if !ok {
			slog.Debug("unmapped ref decoration", "decoration", item, "name", name)
			continue
		}
		refs = append(refs, ref.Name)
	}
	return refs
}

// buildBranches wraps every head ref as a Branch, then enforces ownership:
// a head that appears among another branch's related refs is removed from
// the map.
func (c *Cache) buildBranches() error {
	allHeads := make(map[git.RefName]*Branch)
	for _, ref := range c.refsList {
		if ref.Name.Kind() != git.KindHead {
			continue
		}
		generic, err := NewGenericBranch(c.Cfg, ref.Name)
		if err != nil {
			continue
		}
		allHeads[ref.Name] = &Branch{GenericBranch: generic, Ref: ref, cache: c}
	}

	c.branchByRef = make(map[git.RefName]*Branch, len(allHeads))
	for name, branch := range allHeads {
		c.branchByRef[name] = branch
	}
	for _, branch := range allHeads {
		owned, err := branch.RelatedRefs()
		if err != nil {
			return err
		}
		for _, ref := range owned {
			delete(c.branchByRef, ref)
		}
	}

	c.branches = make([]*Branch, 0, len(c.branchByRef))
	for _, branch := range c.branchByRef {
		c.branches = append(c.branches, branch)
	}
	sort.Slice(c.branches, func(i, j int) bool {
		return c.branches[i].Name() < c.branches[j].Name()
	})
	return nil
}

// Refs returns all refs in the snapshot.
func (c *Cache) Refs() []git.Ref {
	return c.refsList
}

// LookupRef resolves an unambiguous ref name or abbreviation.
func (c *Cache) LookupRef(name git.RefName) (git.Ref, bool) {
	ref, ok := c.refs[name]
	return ref, ok
}

// GetRef resolves a ref name or abbreviation, failing explicitly on
// ambiguous and unknown names.
func (c *Cache) GetRef(name git.RefName) (git.Ref, error) {
	matches := c.refsAbbrevs[name]
	switch len(matches) {
	case 0:
		return git.Ref{}, jferrors.NewNotFoundError("ref", string(name))
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, ref := range matches {
			names[i] = string(ref.Name)
		}
		return git.Ref{}, jferrors.NewAmbiguousRefError(string(name), names)
	}
}

// Commit returns the commit node for a SHA.
func (c *Cache) Commit(sha git.Sha) (*git.Commit, bool) {
	commit, ok := c.commits[sha]
	return commit, ok
}

// Commits returns the full commit graph keyed by SHA.
func (c *Cache) Commits() map[git.Sha]*git.Commit {
	return c.commits
}

// Branches returns all logical branches sorted by name.
func (c *Cache) Branches() []*Branch {
	return c.branches
}

// BranchByRef returns the branch keyed by a head ref name.
func (c *Cache) BranchByRef(name git.RefName) (*Branch, bool) {
	branch, ok := c.branchByRef[name]
	return branch, ok
}

// Branch returns a branch by name.
func (c *Cache) Branch(name git.BranchName) (*Branch, bool) {
	return c.BranchByRef(git.ForBranch(git.RemoteLocal, name))
}

// BranchByAbbrev returns a branch by any unambiguous abbreviation of its
// head ref.
func (c *Cache) BranchByAbbrev(abbrev git.RefName) (*Branch, bool) {
	for _, branch := range c.branches {
		for _, a := range git.Abbrevs(branch.RefName()) {
			if a == abbrev {
				return branch, true
			}
		}
	}
	return nil, false
}

// CurrentBranch returns the checked-out branch, if HEAD is on one.
func (c *Cache) CurrentBranch() (*Branch, bool) {
	if c.head.Kind() != git.KindHead {
		return nil, false
	}
	return c.BranchByRef(c.head)
}

// ResolveShortcut resolves user-typed text to a ref. An exact branch-name
// match wins immediately; otherwise, among refs whose branch name extends
// text with a "/" segment, the maximal (branch name, is-remote) pair is
// chosen. The ordering is plain lexicographic: "v9" sorts after "v10".
func (c *Cache) ResolveShortcut(text string) (git.Ref, bool) {
	prefix := text + "/"
	var best git.Ref
	found := false
	for _, ref := range c.refsList {
		branch := ref.Name.Branch()
		if branch == "" {
			continue
		}
		if string(branch) == text {
			return ref, true
		}
		if !strings.HasPrefix(string(branch), prefix) {
			continue
		}
		if !found || shortcutLess(best, ref) {
			best = ref
			found = true
		}
	}
	return best, found
}

// shortcutLess orders candidate refs by (branch name, is-remote).
func shortcutLess(a, b git.Ref) bool {
	an, bn := a.Name.Branch(), b.Name.Branch()
	if an != bn {
		return an < bn
	}
	return !a.Name.IsRemote() && b.Name.IsRemote()
}

// IsMergedInto reports whether descendant is reachable from ancestor by
// walking child edges. Reflexive: every present commit is merged into
// itself. False when either SHA is absent from the graph.
func (c *Cache) IsMergedInto(ancestor, descendant git.Sha) bool {
	if _, ok := c.commits[ancestor]; !ok {
		return false
	}
	if _, ok := c.commits[descendant]; !ok {
		return false
	}

	visited := map[git.Sha]bool{ancestor: true}
	queue := []git.Sha{ancestor}
	for len(queue) > 0 {
		sha := queue[0]
		queue = queue[1:]
		if sha == descendant {
			return true
		}
		for _, child := range c.commits[sha].Children {
			if !visited[child] {
				visited[child] = true
				queue = append(queue, child)
			}
		}
	}
	return false
}
