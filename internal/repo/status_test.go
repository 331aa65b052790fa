package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

func TestMergeStatusOrdering(t *testing.T) {
	t.Parallel()

	require.True(t, MergeMaster.AtLeast(MergeDevelop))
	require.True(t, MergeDevelop.AtLeast(MergeDevelop))
	require.False(t, MergeFork.AtLeast(MergeDevelop))
	require.False(t, MergeNone.AtLeast(MergeUpstream))
}

func TestMergeStatusMarks(t *testing.T) {
	t.Parallel()

	marks := map[MergeStatus]string{
		MergeNone:     ".",
		MergeUpstream: "U",
		MergeFork:     "F",
		MergeDevelop:  "D",
		MergeMaster:   "M",
	}
	for status, mark := range marks {
		require.Equal(t, mark, status.Mark())
	}
}

func TestParseMergeStatus(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want MergeStatus
	}{
		{"U", MergeUpstream},
		{"F", MergeFork},
		{"D", MergeDevelop},
		{"M", MergeMaster},
	} {
		status, err := ParseMergeStatus(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, status)
	}

	_, err := ParseMergeStatus("x")
	require.Error(t, err)
	_, err = ParseMergeStatus("")
	require.Error(t, err)
}

func TestCacheMergeStatus(t *testing.T) {
	t.Parallel()

	// r0 (master) <- c1 <- c2 (develop), with the work branches at
	// various depths:
	//
	//	merged/all  at r0   -> Master wins over Develop
	//	merged/dev  at c1   -> Develop
	//	merged/up   at c3, upstream feature/head at c4 which contains c3
	//	open        at c5, nothing contains it
	// merged/up forks from develop (which does not contain it) so the
	// upstream tier is what gets reported, not the fork tier.
	cfg := map[string][]string{
		"branch.merged/up.jflow.version":  {"1"},
		"branch.merged/up.jflow.upstream": {"feature/head"},
		"branch.merged/up.jflow.fork":     {"develop"},
	}
	cache := loadCache(t, cfg, fakeSource{
		refs: []git.Ref{
			{Name: "HEAD", Sha: "c2"},
			{Name: "refs/heads/master", Sha: "r0"},
			{Name: "refs/heads/develop", Sha: "c2"},
			{Name: "refs/heads/merged/all", Sha: "r0"},
			{Name: "refs/heads/merged/dev", Sha: "c1"},
			{Name: "refs/heads/merged/up", Sha: "c3"},
			{Name: "refs/heads/feature/head", Sha: "c4"},
			{Name: "refs/heads/open", Sha: "c5"},
		},
		revList: []string{
			"commit c2",
			"parents c1",
			"commit c1",
			"parents r0",
			"commit c4",
			"parents c3",
			"commit c3",
			"parents r0",
			"commit c5",
			"parents r0",
			"commit r0",
		},
		head: "refs/heads/develop",
	})

	status := func(name git.BranchName) MergeStatus {
		branch, ok := cache.Branch(name)
		require.True(t, ok, "branch %q", name)
		return cache.MergeStatus(branch)
	}

	require.Equal(t, MergeMaster, status("merged/all"))
	require.Equal(t, MergeDevelop, status("merged/dev"))
	require.Equal(t, MergeUpstream, status("merged/up"))
	require.Equal(t, MergeNone, status("open"))
}
