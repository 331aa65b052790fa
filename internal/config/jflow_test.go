package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplateFor(t *testing.T) {
	t.Parallel()

	store := NewMemStore(map[string][]string{
		"jflow.template.feature/.version":       {"1"},
		"jflow.template.feature/.upstream":      {"develop"},
		"jflow.template.feature/api/.upstream":  {"api-develop"},
		"jflow.template.hotfix/.version":        {"1"},
		"jflow.template.hotfix/.upstream":       {"master"},
	})
	root := NewRoot(store)

	t.Run("matches registered prefix", func(t *testing.T) {
		t.Parallel()
		tpl, ok := root.TemplateFor("feature/x")
		require.True(t, ok)
		require.Equal(t, "feature/", tpl.Prefix)

		upstream, ok := tpl.Upstream.Get()
		require.True(t, ok)
		require.Equal(t, "develop", upstream)
	})

	t.Run("longest prefix wins", func(t *testing.T) {
		t.Parallel()
		tpl, ok := root.TemplateFor("feature/api/x")
		require.True(t, ok)
		require.Equal(t, "feature/api/", tpl.Prefix)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, ok := root.TemplateFor("release/1.0")
		require.False(t, ok)
	})
}

func TestBranchCfgLayout(t *testing.T) {
	t.Parallel()

	store := NewMemStore(map[string][]string{
		"branch.feature/x.jflow.version":  {"1"},
		"branch.feature/x.jflow.upstream": {"develop"},
		"branch.feature/x.jflow.public":   {"feature/x.public"},
		"branch.feature/x.jflow.remote":   {"feature/x"},
		"branch.feature/x.description":    {"try things"},
		"branch.feature/x.remote":         {"origin"},
		"branch.feature/x.merge":          {"refs/heads/develop"},
		"branch.feature/x.stgit.stackformatversion": {"4"},
	})
	root := NewRoot(store)
	cfg := root.Branch("feature/x")

	version, ok := cfg.Jflow.Version.Get()
	require.True(t, ok)
	require.Equal(t, 1, version)

	// lreview is spelled "public" on disk, review is spelled "remote"
	require.Equal(t, "branch.feature/x.jflow.public", cfg.Jflow.LReview.Path())
	require.Equal(t, "branch.feature/x.jflow.remote", cfg.Jflow.Review.Path())

	lreview, ok := cfg.Jflow.LReview.Get()
	require.True(t, ok)
	require.Equal(t, "feature/x.public", string(lreview))

	require.Equal(t, "try things", cfg.Description.Get())
	require.Equal(t, "origin", cfg.Remote.Get())
	require.Equal(t, "refs/heads/develop", cfg.Merge.Get())

	stgitVersion, ok := cfg.Stgit.Version.Get()
	require.True(t, ok)
	require.Equal(t, 4, stgitVersion)

	require.False(t, cfg.Jflow.Hidden.Get())
	require.False(t, cfg.Jflow.Protected.Get())
}
