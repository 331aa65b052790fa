package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diseaz-joom/dsaflow/internal/config"
	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
)

// fakeSource feeds a Cache from fixture data instead of a live repository.
type fakeSource struct {
	refs    []git.Ref
	revList []string
	head    git.RefName
}

func (s fakeSource) Refs(context.Context) ([]git.Ref, error)  { return s.refs, nil }
func (s fakeSource) RevList(context.Context) ([]string, error) { return s.revList, nil }
func (s fakeSource) Head(context.Context) (git.RefName, error) { return s.head, nil }

func loadCache(t *testing.T, cfg map[string][]string, src fakeSource) *Cache {
	t.Helper()
	cache, err := Load(context.Background(), config.NewRoot(config.NewMemStore(cfg)), src)
	require.NoError(t, err)
	return cache
}

// history: r0 <- c1 <- c2, with c3 branching off c1.
//
//	r0 --- c1 --- c2   (develop)
//	        \
//	         c3        (feature/b)
var linearHistory = []string{
	"commit c2",
	"parents c1",
	"refs refs/heads/develop",
	"commit c3",
	"parents c1",
	"commit c1",
	"parents r0",
	"refs refs/heads/feature/a",
	"commit r0",
	"parents",
	"refs refs/heads/master, tag: v1.0",
}

func linearRefs() []git.Ref {
	return []git.Ref{
		{Name: "HEAD", Sha: "c2"},
		{Name: "refs/heads/develop", Sha: "c2"},
		{Name: "refs/heads/feature/a", Sha: "c1"},
		{Name: "refs/heads/feature/b", Sha: "c3"},
		{Name: "refs/heads/master", Sha: "r0"},
		{Name: "refs/tags/v1.0", Sha: "r0"},
	}
}

func TestCommitGraph(t *testing.T) {
	t.Parallel()

	cache := loadCache(t, nil, fakeSource{
		refs:    linearRefs(),
		revList: linearHistory,
		head:    "refs/heads/develop",
	})

	t.Run("parents are parsed", func(t *testing.T) {
		t.Parallel()
		commit, ok := cache.Commit("c2")
		require.True(t, ok)
		require.Equal(t, []git.Sha{"c1"}, commit.Parents)

		root, ok := cache.Commit("r0")
		require.True(t, ok)
		require.Empty(t, root.Parents)
	})

	t.Run("children are derived by inverting parents", func(t *testing.T) {
		t.Parallel()
		commit, ok := cache.Commit("c1")
		require.True(t, ok)
		require.ElementsMatch(t, []git.Sha{"c2", "c3"}, commit.Children)
	})

	t.Run("decorations map to canonical refs", func(t *testing.T) {
		t.Parallel()
		root, ok := cache.Commit("r0")
		require.True(t, ok)
		require.ElementsMatch(t, []git.RefName{"refs/heads/master", "refs/tags/v1.0"}, root.Refs)
	})
}

func TestIsMergedInto(t *testing.T) {
	t.Parallel()

	cache := loadCache(t, nil, fakeSource{
		refs:    linearRefs(),
		revList: linearHistory,
		head:    "refs/heads/develop",
	})

	t.Run("reflexive", func(t *testing.T) {
		t.Parallel()
		for _, sha := range []git.Sha{"r0", "c1", "c2", "c3"} {
			require.True(t, cache.IsMergedInto(sha, sha), "sha %s", sha)
		}
	})

	t.Run("direct parent-child", func(t *testing.T) {
		t.Parallel()
		require.True(t, cache.IsMergedInto("r0", "c1"))
		require.True(t, cache.IsMergedInto("c1", "c2"))
		require.True(t, cache.IsMergedInto("c1", "c3"))
	})

	t.Run("transitive along a parent chain", func(t *testing.T) {
		t.Parallel()
		require.True(t, cache.IsMergedInto("r0", "c2"))
		require.True(t, cache.IsMergedInto("r0", "c3"))
	})

	t.Run("not merged across divergent branches", func(t *testing.T) {
		t.Parallel()
		require.False(t, cache.IsMergedInto("c2", "c3"))
		require.False(t, cache.IsMergedInto("c3", "c2"))
		require.False(t, cache.IsMergedInto("c2", "c1"))
	})

	t.Run("absent shas are never merged", func(t *testing.T) {
		t.Parallel()
		require.False(t, cache.IsMergedInto("nope", "c2"))
		require.False(t, cache.IsMergedInto("c2", "nope"))
		require.False(t, cache.IsMergedInto("nope", "nope"))
	})
}

func TestGetRef(t *testing.T) {
	t.Parallel()

	cache := loadCache(t, nil, fakeSource{
		refs: []git.Ref{
			{Name: "refs/heads/feature/x", Sha: "a1"},
			{Name: "refs/remotes/origin/feature/x", Sha: "a2"},
			{Name: "refs/heads/master", Sha: "a3"},
		},
		revList: []string{},
		head:    "refs/heads/master",
	})

	t.Run("full name resolves", func(t *testing.T) {
		t.Parallel()
		ref, err := cache.GetRef("refs/heads/feature/x")
		require.NoError(t, err)
		require.Equal(t, git.Sha("a1"), ref.Sha)
	})

	t.Run("unambiguous abbreviation resolves", func(t *testing.T) {
		t.Parallel()
		ref, err := cache.GetRef("master")
		require.NoError(t, err)
		require.Equal(t, git.Sha("a3"), ref.Sha)

		ref, err = cache.GetRef("origin/feature/x")
		require.NoError(t, err)
		require.Equal(t, git.Sha("a2"), ref.Sha)
	})

	t.Run("ambiguous abbreviation fails explicitly", func(t *testing.T) {
		t.Parallel()
		// "feature/x" abbreviates both the head and the remote ref.
		_, err := cache.GetRef("feature/x")
		require.ErrorIs(t, err, jferrors.ErrAmbiguousRef)

		var ambiguous *jferrors.AmbiguousRefError
		require.ErrorAs(t, err, &ambiguous)
		require.Len(t, ambiguous.Matches, 2)

		_, ok := cache.LookupRef("feature/x")
		require.False(t, ok)
	})

	t.Run("unknown name is not found", func(t *testing.T) {
		t.Parallel()
		_, err := cache.GetRef("no/such/ref")
		require.ErrorIs(t, err, jferrors.ErrNotFound)
	})
}

func TestBranchOwnership(t *testing.T) {
	t.Parallel()

	cfg := map[string][]string{
		"branch.feature/a.jflow.version": {"1"},
		"branch.feature/a.jflow.upstream": {"develop"},
		"branch.feature/a.jflow.public":  {"feature/a.public"},
		"branch.feature/a.jflow.ldebug":  {"feature/a.dbg"},
		"branch.feature/a.stgit.stackformatversion": {"4"},
	}
	cache := loadCache(t, cfg, fakeSource{
		refs: []git.Ref{
			{Name: "HEAD", Sha: "c1"},
			{Name: "refs/heads/develop", Sha: "c2"},
			{Name: "refs/heads/feature/a", Sha: "c1"},
			{Name: "refs/heads/feature/a.public", Sha: "c1"},
			{Name: "refs/heads/feature/a.dbg", Sha: "c1"},
			{Name: "refs/heads/feature/a.stgit", Sha: "c9"},
			{Name: "refs/heads/master", Sha: "r0"},
		},
		revList: []string{},
		head:    "refs/heads/feature/a",
	})

	var names []git.BranchName
	for _, b := range cache.Branches() {
		names = append(names, b.Name())
	}
	require.Equal(t, []git.BranchName{"develop", "feature/a", "master"}, names)

	// No branch map key may appear in another branch's related refs.
	for _, b := range cache.Branches() {
		owned, err := b.RelatedRefs()
		require.NoError(t, err)
		for _, ref := range owned {
			_, listed := cache.BranchByRef(ref)
			require.False(t, listed, "ref %q owned by %q is listed as a branch", ref, b.Name())
		}
	}
}

func TestUnsupportedVersionFailsLoad(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), config.NewRoot(config.NewMemStore(map[string][]string{
		"branch.feature/a.jflow.version": {"2"},
	})), fakeSource{
		refs: []git.Ref{
			{Name: "HEAD", Sha: "c1"},
			{Name: "refs/heads/feature/a", Sha: "c1"},
		},
		revList: []string{},
		head:    "refs/heads/feature/a",
	})
	require.ErrorIs(t, err, jferrors.ErrUnsupportedVersion)
}

func TestResolveShortcut(t *testing.T) {
	t.Parallel()

	cache := loadCache(t, nil, fakeSource{
		refs: []git.Ref{
			{Name: "HEAD", Sha: "s0"},
			{Name: "refs/heads/release/1.0", Sha: "s1"},
			{Name: "refs/heads/release/2.0", Sha: "s2"},
			{Name: "refs/heads/exact", Sha: "s3"},
			{Name: "refs/remotes/origin/exact/sub", Sha: "s4"},
			{Name: "refs/heads/vers/v9", Sha: "s5"},
			{Name: "refs/heads/vers/v10", Sha: "s6"},
			{Name: "refs/heads/tied/x", Sha: "s7"},
			{Name: "refs/remotes/origin/tied/x", Sha: "s8"},
		},
		revList: []string{},
		head:    "refs/heads/exact",
	})

	t.Run("exact branch name wins over prefix matches", func(t *testing.T) {
		t.Parallel()
		ref, ok := cache.ResolveShortcut("exact")
		require.True(t, ok)
		require.Equal(t, git.RefName("refs/heads/exact"), ref.Name)
	})

	t.Run("maximal branch name among prefix matches", func(t *testing.T) {
		t.Parallel()
		ref, ok := cache.ResolveShortcut("release")
		require.True(t, ok)
		require.Equal(t, git.RefName("refs/heads/release/2.0"), ref.Name)
	})

	t.Run("plain lexicographic ordering: v9 beats v10", func(t *testing.T) {
		t.Parallel()
		// Known quirk: the ordering is not version-aware, so "v9"
		// compares greater than "v10". Keep it that way.
		ref, ok := cache.ResolveShortcut("vers")
		require.True(t, ok)
		require.Equal(t, git.RefName("refs/heads/vers/v9"), ref.Name)
	})

	t.Run("remote-tracking ref preferred on equal names", func(t *testing.T) {
		t.Parallel()
		ref, ok := cache.ResolveShortcut("tied")
		require.True(t, ok)
		require.Equal(t, git.RefName("refs/remotes/origin/tied/x"), ref.Name)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, ok := cache.ResolveShortcut("nothing")
		require.False(t, ok)
	})
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	// feature/a's tip c1 is an ancestor of develop's tip c2 but not of
	// master's r0.
	cfg := map[string][]string{
		"branch.feature/a.jflow.version":  {"1"},
		"branch.feature/a.jflow.upstream": {"develop"},
		"branch.feature/a.jflow.fork":     {"develop"},
	}
	cache := loadCache(t, cfg, fakeSource{
		refs:    linearRefs(),
		revList: linearHistory,
		head:    "refs/heads/feature/a",
	})

	branch, ok := cache.Branch("feature/a")
	require.True(t, ok)

	develop, err := cache.GetRef("develop")
	require.NoError(t, err)

	upstream, ok := branch.Upstream()
	require.True(t, ok)
	require.Equal(t, develop.Sha, upstream.Sha)

	require.Equal(t, MergeDevelop, cache.MergeStatus(branch))
}
